// Package document prepares entity XML documents for further processing:
// it loads them from disk and resolves embedded file placeholders.
//
// A placeholder is the sequence ">@relative/path<" inside element content:
// everything between the "@" and the next "<" is a file path resolved
// against the current base directory. The placeholder is replaced with the
// file's content, itself expanded first (relative to the embedded file's
// own directory) and then XML-escaped, so embedded documents arrive as
// literal text. For example with abc.xml containing "<abc>value</abc>",
// "<xyz>@abc.xml</xyz>" becomes "<xyz>&lt;abc&gt;value&lt;/abc&gt;</xyz>".
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fsc/entity"
)

// ErrRecursionLimit is in the error chain when a chain of embedded files
// nests deeper than the configured limit, which practically always means a
// file embeds itself directly or through other files.
var ErrRecursionLimit = errors.New("embedded file recursion limit exceeded")

// DefaultMaxDepth bounds embedding recursion when Expander.MaxDepth is not
// set. Deep enough never to trigger on sane input.
const DefaultMaxDepth = 100

// Expander replaces embedded file placeholders in a text document. The zero
// value is ready to use.
type Expander struct {
	// MaxDepth limits embedding recursion, <= 0 means DefaultMaxDepth.
	MaxDepth int
}

// Expand resolves all placeholders in content against dir. It either
// returns the fully expanded document or fails on the first unreadable
// embedded file, there is no partial output. Input without placeholders is
// returned unchanged.
func (x *Expander) Expand(content, dir string) (string, error) {
	return x.expand(content, dir, 0)
}

func (x *Expander) expand(content, dir string, depth int) (string, error) {
	limit := x.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if depth > limit {
		return "", fmt.Errorf("embedding nested deeper than %d levels under %q: %w", limit, dir, ErrRecursionLimit)
	}

	// Single left-to-right pass. A match needs ">@" and a terminating "<";
	// the "<" is not consumed so it is copied out with the trailing text.
	var b strings.Builder
	last := 0
	for i := 0; i+1 < len(content); i++ {
		if content[i] != '>' || content[i+1] != '@' {
			continue
		}
		end := strings.IndexByte(content[i+2:], '<')
		if end < 0 {
			break
		}
		path := content[i+2 : i+2+end]

		b.WriteString(content[last : i+1])
		expanded, err := x.expandFile(filepath.Join(dir, path), depth)
		if err != nil {
			return "", err
		}
		b.WriteString(entity.Escape(expanded))

		i += 1 + end // next iteration starts at the terminating '<'
		last = i + 1
	}
	b.WriteString(content[last:])
	return b.String(), nil
}

// expandFile reads an embedded file and expands it relative to its own
// parent directory so embedding chains resolve paths naturally.
func (x *Expander) expandFile(path string, depth int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read embedded file: %w", err)
	}
	return x.expand(string(data), filepath.Dir(path), depth+1)
}
