package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/valyala/fastjson"

	ts "github.com/reoring/tableschema"
)

// DecodeJSON decodes a single JSON value, keeping numbers as json.Number.
// Trailing data after the value is an error.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, fmt.Errorf("trailing data: %w", err)
	}
	return v, nil
}

// DuplicateKeys reports every repeated object key in data, in document order.
// Invalid JSON yields no issues; DecodeJSON reports it.
func DuplicateKeys(data []byte) ts.Issues {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil
	}
	var out ts.Issues
	walkDuplicates(v, ts.Root(), &out)
	return out
}

func walkDuplicates(v *fastjson.Value, at ts.PathRef, out *ts.Issues) {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		seen := make(map[string]struct{}, o.Len())
		o.Visit(func(key []byte, child *fastjson.Value) {
			k := string(key)
			if _, dup := seen[k]; dup {
				*out = append(*out, ts.IssueAt(at.Field(k), ts.CodeDuplicateKey, "", map[string]any{"key": k}))
			}
			seen[k] = struct{}{}
			walkDuplicates(child, at.Field(k), out)
		})
	case fastjson.TypeArray:
		arr, _ := v.Array()
		for i, child := range arr {
			walkDuplicates(child, at.Index(i), out)
		}
	}
}
