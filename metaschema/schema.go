package metaschema

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// Schema is the subset of JSON Schema used to describe the shape of a table
// schema document. Keep it small and extend incrementally with the interpreter
// in internal/engine.
type Schema struct {
	// Core
	Schema      string   `json:"$schema,omitempty"`
	ID          string   `json:"$id,omitempty"`
	Ref         string   `json:"$ref,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Type        TypeList `json:"type,omitempty"`
	Enum        []any    `json:"enum,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
	Discriminator        *Discriminator     `json:"discriminator,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Union
	AnyOf []*Schema `json:"anyOf,omitempty"`

	Definitions map[string]*Schema `json:"definitions,omitempty"`

	re *regexp.Regexp
}

// Discriminator selects an additional schema for an object based on the value
// of one of its properties. Default applies when the property is absent.
type Discriminator struct {
	PropertyName string            `json:"propertyName"`
	Mapping      map[string]string `json:"mapping"`
	Default      string            `json:"default,omitempty"`
}

// TypeList holds the "type" keyword, which may be a single name or a list.
type TypeList []string

// UnmarshalJSON accepts both "string" and ["string","number"].
func (t *TypeList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*t = TypeList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*t = many
	return nil
}

// MarshalJSON writes a single name as a plain string.
func (t TypeList) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// Has reports whether name is listed.
func (t TypeList) Has(name string) bool {
	for _, n := range t {
		if n == name {
			return true
		}
	}
	return false
}

func (t TypeList) String() string { return strings.Join(t, " or ") }

// PatternRegexp returns the compiled pattern, or nil when Pattern is empty.
// Patterns are compiled once by Load.
func (s *Schema) PatternRegexp() *regexp.Regexp { return s.re }

// Resolve looks up a local reference ("#" or "#/definitions/<name>") against
// the receiver, which must be the root schema.
func (s *Schema) Resolve(ref string) (*Schema, bool) {
	if ref == "#" {
		return s, true
	}
	name, ok := strings.CutPrefix(ref, "#/definitions/")
	if !ok {
		return nil, false
	}
	d, ok := s.Definitions[name]
	return d, ok && d != nil
}
