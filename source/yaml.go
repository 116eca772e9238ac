package source

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	ts "github.com/reoring/tableschema"
)

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	Path      string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// StrictYAMLReader decodes a multi-document YAML stream through yaml.Node so
// duplicate keys can be located. Values come back in JSON-compatible shapes.
type StrictYAMLReader struct {
	dec *yaml.Decoder
}

// NewStrictYAMLReader constructs a StrictYAMLReader.
func NewStrictYAMLReader(r io.Reader) *StrictYAMLReader {
	return &StrictYAMLReader{dec: yaml.NewDecoder(r)}
}

// Next returns the next document. It returns (nil, io.EOF) when the stream is
// exhausted. Duplicate keys produce an Issues error listing all of them.
func (s *StrictYAMLReader) Next() (any, error) {
	var root yaml.Node
	if err := s.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	c := &yamlConverter{budget: maxYAMLNodes}
	v := c.convert(root.Content[0], ts.Root(), 0)
	if c.err != nil {
		return nil, parseIssue(c.err)
	}
	if len(c.dups) > 0 {
		return nil, c.dups
	}
	return v, nil
}

// ReadAll reads all documents from the YAML stream.
func (s *StrictYAMLReader) ReadAll() ([]any, error) {
	var out []any
	for {
		v, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, v)
	}
}

const (
	// maxYAMLDepth stops runaway nesting.
	maxYAMLDepth = 512
	// maxYAMLNodes caps the values produced per document, counting every
	// alias expansion, so aliased documents cannot grow exponentially.
	maxYAMLNodes = 1 << 18
)

// ErrYAMLTooLarge is the cause of the parse_error reported when a YAML
// document expands past maxYAMLNodes values.
var ErrYAMLTooLarge = errors.New("yaml document expands to too many values")

type yamlConverter struct {
	dups   ts.Issues
	budget int
	err    error
}

func (c *yamlConverter) convert(n *yaml.Node, at ts.PathRef, depth int) any {
	if c.err != nil {
		return nil
	}
	if depth > maxYAMLDepth {
		c.err = fmt.Errorf("%w: nesting deeper than %d at %s", ErrYAMLTooLarge, maxYAMLDepth, at.Pointer())
		return nil
	}
	if c.budget--; c.budget < 0 {
		c.err = fmt.Errorf("%w: more than %d values", ErrYAMLTooLarge, maxYAMLNodes)
		return nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return c.convert(n.Content[0], at, depth+1)
	case yaml.AliasNode:
		return c.convert(n.Alias, at, depth+1)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			key := k.Value
			if pos, dup := first[key]; dup {
				e := &DuplicateKeyError{Key: key, Path: at.Field(key).Pointer(), FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
				is := ts.IssueAt(at.Field(key), ts.CodeDuplicateKey, "", map[string]any{"key": key, "line": k.Line, "column": k.Column})
				is.Cause = e
				is.Hint = e.Error()
				c.dups = append(c.dups, is)
				continue
			}
			first[key] = [2]int{k.Line, k.Column}
			m[key] = c.convert(v, at.Field(key), depth+1)
		}
		return m
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for i, child := range n.Content {
			arr = append(arr, c.convert(child, at.Index(i), depth+1))
		}
		return arr
	case yaml.ScalarNode:
		return scalar(n)
	}
	return nil
}

func scalar(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		// int64 avoids overflow surprises; callers can coerce later
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}
