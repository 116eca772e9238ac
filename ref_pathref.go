package tableschema

import (
	"fmt"
	"strings"

	eng "github.com/reoring/tableschema/internal/engine"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code, msg string, kv ...any) Issue
}

// Root returns the PathRef of the document root ("/").
func Root() PathRef { return pathRef{} }

// At parses a JSON Pointer into a PathRef. Escaped tokens ("~0", "~1") are
// decoded and re-escaped by Pointer. Empty tokens name the empty key; "" and
// "/" are the root.
func At(path string) PathRef {
	p := pathRef{}
	if path == "" || path == "/" {
		return p
	}
	for _, tok := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		p.p = p.p.Field(strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~"))
	}
	return p
}

type pathRef struct {
	p eng.Pointer
}

func (p pathRef) Field(name string) PathRef { return pathRef{p: p.p.Field(name)} }

func (p pathRef) Index(i int) PathRef { return pathRef{p: p.p.Index(i)} }

func (p pathRef) Pointer() string { return p.p.String() }

func (p pathRef) Issue(code, msg string, kv ...any) Issue {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	if msg == "" {
		msg = message(code, m)
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: m}
}
