package document

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestLoader_LoadExpands(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.xml", "<entity><xyz>@abc.xml</xyz></entity>")
	writeFile(t, dir, "abc.xml", "<abc>value</abc>")

	var l Loader
	got, err := l.Load(filepath.Join(dir, "doc.xml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := "<entity><xyz>&lt;abc&gt;value&lt;/abc&gt;</xyz></entity>"
	if got != want {
		t.Errorf("Load() = %q, want %q", got, want)
	}
}

func TestLoader_LoadMissingDocument(t *testing.T) {
	var l Loader
	if _, err := l.Load(filepath.Join(t.TempDir(), "nope.xml")); err == nil {
		t.Error("Load() of missing document returned nil error")
	}
}

func TestLoader_LoadMissingEmbedded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.xml", "<entity><xyz>@nope.xml</xyz></entity>")

	var l Loader
	if _, err := l.Load(filepath.Join(dir, "doc.xml")); err == nil {
		t.Error("Load() with missing embedded file returned nil error")
	}
}

func TestLoader_ForcedEncoding(t *testing.T) {
	dir := t.TempDir()
	// "caf\xe9" is "café" in ISO 8859-1
	path := filepath.Join(dir, "doc.xml")
	if err := os.WriteFile(path, []byte("<entity><name>caf\xe9</name></entity>"), 0644); err != nil {
		t.Fatalf("unable to write document: %v", err)
	}

	l := Loader{Encoding: charmap.ISO8859_1}
	got, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := "<entity><name>café</name></entity>"
	if got != want {
		t.Errorf("Load() = %q, want %q", got, want)
	}
}

func TestLoader_EmbeddedResolvedRelativeToDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sub/doc.xml", "<entity><xyz>@abc.xml</xyz></entity>")
	writeFile(t, dir, "sub/abc.xml", "<a/>")
	// decoy at the top level, must not be picked up
	writeFile(t, dir, "abc.xml", "<wrong/>")

	var l Loader
	got, err := l.Load(filepath.Join(dir, "sub", "doc.xml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := "<entity><xyz>&lt;a/&gt;</xyz></entity>"
	if got != want {
		t.Errorf("Load() = %q, want %q", got, want)
	}
}
