package engine

import (
	"strconv"
	"strings"
)

// Issue codes produced by the meta-schema interpreter. They match the codes
// exported by the root package.
const (
	CodeInvalidType = "invalid_type"
	CodeRequired    = "required"
	CodeUnknownKey  = "unknown_key"
	CodeTooShort    = "too_short"
	CodeTooLong     = "too_long"
	CodePattern     = "pattern"
	CodeInvalidEnum = "invalid_enum"
)

// SimpleIssue is a minimal issue representation used by internal helpers.
// The root package renders Message from Code and Params.
type SimpleIssue struct {
	Code   string
	Path   string
	Params map[string]any
}

// Pointer builds RFC 6901 JSON Pointers without sharing backing arrays
// between siblings.
type Pointer struct {
	parts []string
}

// Field appends an object key, escaping '~' and '/'.
func (p Pointer) Field(name string) Pointer {
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return Pointer{parts: append(append([]string(nil), p.parts...), esc)}
}

// Index appends an array index.
func (p Pointer) Index(i int) Pointer {
	return Pointer{parts: append(append([]string(nil), p.parts...), strconv.Itoa(i))}
}

// String renders the pointer; the document root is "/".
func (p Pointer) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}
