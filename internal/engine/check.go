package engine

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/reoring/tableschema/metaschema"
)

// maxDepth bounds recursion for self-referencing meta-schemas and deeply
// nested documents.
const maxDepth = 256

type checker struct {
	root *metaschema.Schema
	out  []SimpleIssue
}

// CheckValue evaluates v against root and returns one issue per independent
// defect. A type mismatch stops descent into that value only; siblings are
// still checked. It never panics on malformed input.
func CheckValue(root *metaschema.Schema, v any) []SimpleIssue {
	if root == nil {
		return nil
	}
	c := &checker{root: root}
	c.check(root, v, Pointer{}, 0)
	return c.out
}

func (c *checker) add(code string, at Pointer, params map[string]any) {
	c.out = append(c.out, SimpleIssue{Code: code, Path: at.String(), Params: params})
}

func (c *checker) check(s *metaschema.Schema, v any, at Pointer, depth int) {
	if s == nil || depth > maxDepth {
		return
	}
	// $ref siblings are ignored, as in draft-07.
	if s.Ref != "" {
		if target, ok := c.root.Resolve(s.Ref); ok {
			c.check(target, v, at, depth+1)
		}
		return
	}
	if len(s.Type) > 0 && !matchesType(s.Type, v) {
		c.add(CodeInvalidType, at, map[string]any{"expected": s.Type.String(), "got": KindOf(v)})
		return
	}
	if len(s.Enum) > 0 && !enumContains(s.Enum, v) {
		c.add(CodeInvalidEnum, at, map[string]any{"allowed": joinEnum(s.Enum), "got": render(v)})
		return
	}
	if len(s.AnyOf) > 0 && !c.checkAnyOf(s.AnyOf, v, at, depth) {
		return
	}
	if str, ok := v.(string); ok {
		c.checkString(s, str, at)
		return
	}
	if obj, ok := AsObject(v); ok {
		c.checkObject(s, obj, at, depth)
		return
	}
	if arr, ok := AsArray(v); ok {
		c.checkArray(s, arr, at, depth)
	}
}

// checkAnyOf reports a single issue when no branch accepts v. When exactly one
// branch declares a type admitting v, that branch's issues are reported
// instead since they locate the defect more precisely.
func (c *checker) checkAnyOf(branches []*metaschema.Schema, v any, at Pointer, depth int) bool {
	var typed [][]SimpleIssue
	for _, b := range branches {
		sub := &checker{root: c.root}
		sub.check(b, v, at, depth+1)
		if len(sub.out) == 0 {
			return true
		}
		if t := c.declaredType(b); len(t) > 0 && matchesType(t, v) {
			typed = append(typed, sub.out)
		}
	}
	if len(typed) == 1 {
		c.out = append(c.out, typed[0]...)
		return false
	}
	c.add(CodeInvalidType, at, map[string]any{"expected": c.describe(branches), "got": KindOf(v)})
	return false
}

// declaredType follows $ref chains to the first declared type list.
func (c *checker) declaredType(s *metaschema.Schema) metaschema.TypeList {
	if r, ok := c.deref(s); ok {
		return r.Type
	}
	return nil
}

func (c *checker) describe(branches []*metaschema.Schema) string {
	var parts []string
	for _, b := range branches {
		t := c.declaredType(b)
		if len(t) == 0 {
			continue
		}
		desc := t.String()
		if t.Has(KindArray) {
			if b2, ok := c.deref(b); ok && b2.Items != nil {
				if it := c.declaredType(b2.Items); len(it) > 0 {
					desc = "array of " + it.String()
				}
			}
		}
		parts = append(parts, desc)
	}
	if len(parts) == 0 {
		return "a matching shape"
	}
	return strings.Join(parts, " or ")
}

func (c *checker) deref(s *metaschema.Schema) (*metaschema.Schema, bool) {
	for i := 0; s != nil && i < maxDepth; i++ {
		if s.Ref == "" {
			return s, true
		}
		s, _ = c.root.Resolve(s.Ref)
	}
	return nil, false
}

func (c *checker) checkString(s *metaschema.Schema, str string, at Pointer) {
	if s.MinLength != nil {
		if n := utf8.RuneCountInString(str); n < *s.MinLength {
			c.add(CodeTooShort, at, map[string]any{"min": *s.MinLength, "got": n})
		}
	}
	if re := s.PatternRegexp(); re != nil && !re.MatchString(str) {
		c.add(CodePattern, at, map[string]any{"pattern": s.Pattern})
	}
}

func (c *checker) checkObject(s *metaschema.Schema, obj map[string]any, at Pointer, depth int) {
	for _, key := range s.Required {
		if _, ok := obj[key]; !ok {
			c.add(CodeRequired, at.Field(key), map[string]any{"key": key})
		}
	}
	for _, name := range s.SortedProperties() {
		if pv, ok := obj[name]; ok {
			c.check(s.Properties[name], pv, at.Field(name), depth+1)
		}
	}
	if d := s.Discriminator; d != nil {
		c.checkDiscriminated(d, obj, at, depth)
	}
	if s.AdditionalProperties != nil && !*s.AdditionalProperties {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			if _, known := s.Properties[k]; !known {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			c.add(CodeUnknownKey, at.Field(k), map[string]any{"key": k})
		}
	}
}

// checkDiscriminated applies the mapped schema for the discriminator value.
// Unmapped or non-string values are left to the property's own schema.
func (c *checker) checkDiscriminated(d *metaschema.Discriminator, obj map[string]any, at Pointer, depth int) {
	name := d.Default
	if raw, ok := obj[d.PropertyName]; ok {
		s, isStr := raw.(string)
		if !isStr {
			return
		}
		name = s
	}
	ref, ok := d.Mapping[name]
	if !ok {
		return
	}
	if target, ok := c.root.Resolve(ref); ok {
		c.check(target, obj, at, depth+1)
	}
}

func (c *checker) checkArray(s *metaschema.Schema, arr []any, at Pointer, depth int) {
	if s.MinItems != nil && len(arr) < *s.MinItems {
		c.add(CodeTooShort, at, map[string]any{"min": *s.MinItems, "got": len(arr)})
	}
	if s.MaxItems != nil && len(arr) > *s.MaxItems {
		c.add(CodeTooLong, at, map[string]any{"max": *s.MaxItems, "got": len(arr)})
	}
	if s.Items == nil {
		return
	}
	for i, it := range arr {
		c.check(s.Items, it, at.Index(i), depth+1)
	}
}
