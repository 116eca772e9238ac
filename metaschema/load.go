package metaschema

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/goccy/go-json"
)

// Version identifies the bundled meta-schema revision.
const Version = "1.0"

//go:embed table-schema.json
var bundled []byte

// Bytes returns a copy of the bundled meta-schema document.
func Bytes() []byte { return append([]byte(nil), bundled...) }

var loadDefault = sync.OnceValues(func() (*Schema, error) { return Load(bundled) })

// Default returns the bundled meta-schema. It is decoded once per process and
// must not be modified by callers.
func Default() (*Schema, error) { return loadDefault() }

// MustDefault is like Default but panics when the bundled document is broken.
func MustDefault() *Schema {
	s, err := Default()
	if err != nil {
		panic(err)
	}
	return s
}

// Load decodes a meta-schema document, checks that every local $ref and
// discriminator target resolves, and compiles patterns.
func Load(data []byte) (*Schema, error) {
	var root Schema
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("metaschema: invalid JSON: %w", err)
	}
	if err := prepare(&root, &root, "#"); err != nil {
		return nil, err
	}
	return &root, nil
}

func prepare(root, s *Schema, at string) error {
	if s == nil {
		return nil
	}
	if s.Ref != "" {
		if _, ok := root.Resolve(s.Ref); !ok {
			return fmt.Errorf("metaschema: unresolved $ref %q at %s", s.Ref, at)
		}
	}
	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return fmt.Errorf("metaschema: invalid pattern at %s: %w", at, err)
		}
		s.re = re
	}
	if d := s.Discriminator; d != nil {
		if d.PropertyName == "" {
			return fmt.Errorf("metaschema: discriminator without propertyName at %s", at)
		}
		for k, ref := range d.Mapping {
			if _, ok := root.Resolve(ref); !ok {
				return fmt.Errorf("metaschema: unresolved discriminator mapping %q -> %q at %s", k, ref, at)
			}
		}
		if d.Default != "" {
			if _, ok := d.Mapping[d.Default]; !ok {
				return fmt.Errorf("metaschema: discriminator default %q not mapped at %s", d.Default, at)
			}
		}
	}
	for _, name := range sortedKeys(s.Properties) {
		if err := prepare(root, s.Properties[name], at+"/properties/"+name); err != nil {
			return err
		}
	}
	if err := prepare(root, s.Items, at+"/items"); err != nil {
		return err
	}
	for i, b := range s.AnyOf {
		if err := prepare(root, b, fmt.Sprintf("%s/anyOf/%d", at, i)); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(s.Definitions) {
		if err := prepare(root, s.Definitions[name], at+"/definitions/"+name); err != nil {
			return err
		}
	}
	return nil
}

// SortedProperties returns property names in a stable order.
func (s *Schema) SortedProperties() []string { return sortedKeys(s.Properties) }

func sortedKeys(m map[string]*Schema) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
