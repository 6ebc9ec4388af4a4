package document

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// Loader reads a document from disk, decodes it to UTF-8 text and runs the
// embedding expander over it with the document's parent directory as base.
type Loader struct {
	// Encoding forces the source encoding of the loaded document. When nil
	// the encoding is detected from the content (BOM or ASCII-compatible
	// heuristics), which keeps plain UTF-8 untouched.
	Encoding encoding.Encoding

	Expander Expander
}

// Load returns the fully expanded text of the document at path. Any read
// failure, of the document itself or of an embedded file, aborts the load.
func (l *Loader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read document: %w", err)
	}

	enc := l.Encoding
	if enc == nil {
		enc, _, _ = charset.DetermineEncoding(data, "")
	}
	text, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("unable to decode document %q: %w", path, err)
	}

	return l.Expander.Expand(string(text), filepath.Dir(path))
}
