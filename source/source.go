// Package source loads table schema documents from JSON or YAML input.
//
// Decoded documents use the generic shapes the validator understands:
// map[string]any, []any, string, bool, nil and numbers (json.Number for JSON,
// int64/float64 for YAML). Duplicate object keys are rejected in both formats
// and reported as Issues with code duplicate_key.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	ts "github.com/reoring/tableschema"
)

// Format names an input encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml", "yml" and "auto" (or empty).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("unknown input format %q", s)
}

// FormatFromPath picks the format from the file extension. Unknown
// extensions return FormatAuto.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}

// sniff guesses the format from the first non-space byte.
func sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Document is one decoded input document.
type Document struct {
	Name   string // file name or "-" for stdin; may be empty
	Format Format
	Index  int // position within a multi-document YAML stream
	Value  any
}

// Read decodes the first document from r.
func Read(r io.Reader, f Format) (Document, error) {
	docs, err := ReadAll(r, f)
	if err != nil {
		return Document{}, err
	}
	if len(docs) == 0 {
		return Document{}, parseIssue(errors.New("empty input"))
	}
	return docs[0], nil
}

// ReadAll decodes every document from r. JSON input holds exactly one
// document; YAML streams may hold several.
func ReadAll(r io.Reader, f Format) ([]Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Decode(data, f)
}

// Decode is ReadAll over an in-memory buffer.
func Decode(data []byte, f Format) ([]Document, error) {
	if f == FormatAuto {
		f = sniff(data)
	}
	switch f {
	case FormatJSON:
		if dups := DuplicateKeys(data); len(dups) > 0 {
			return nil, dups
		}
		v, err := DecodeJSON(data)
		if err != nil {
			return nil, parseIssue(err)
		}
		return []Document{{Format: FormatJSON, Value: v}}, nil
	case FormatYAML:
		vals, err := NewStrictYAMLReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			var iss ts.Issues
			if errors.As(err, &iss) {
				return nil, iss
			}
			return nil, parseIssue(err)
		}
		docs := make([]Document, len(vals))
		for i, v := range vals {
			docs[i] = Document{Format: FormatYAML, Index: i, Value: v}
		}
		return docs, nil
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}

// ReadFile decodes every document of the named file; "-" reads stdin.
func ReadFile(path string, f Format) ([]Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if f == FormatAuto {
		f = FormatFromPath(path)
	}
	docs, err := Decode(data, f)
	for i := range docs {
		docs[i].Name = path
	}
	return docs, err
}

// parseIssue wraps a decoder error as a single parse_error Issue at the root.
func parseIssue(err error) ts.Issues {
	is := ts.IssueAt(ts.Root(), ts.CodeParseError, "", nil)
	is.Hint = err.Error()
	is.Cause = err
	return ts.Issues{is}
}
