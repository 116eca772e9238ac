// Package rules provides optional policy checks for table schema documents.
// They plug into a Validator with tableschema.WithRules and run after the
// structural and semantic checks.
package rules

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	ts "github.com/reoring/tableschema"
	eng "github.com/reoring/tableschema/internal/engine"
)

// Func adapts a plain function to tableschema.Rule.
type Func struct {
	name string
	fn   func(doc any) ts.Issues
}

// New names fn as a rule.
func New(name string, fn func(doc any) ts.Issues) ts.Rule { return Func{name: name, fn: fn} }

func (f Func) Name() string { return f.name }

func (f Func) Check(doc any) ts.Issues {
	if f.fn == nil {
		return nil
	}
	return f.fn(doc)
}

// UniqueFieldNames flags every field whose name repeats an earlier one.
func UniqueFieldNames() ts.Rule {
	return UniqueBy("unique-field-names", "/fields", "name")
}

// RequirePrimaryKey flags documents without a primaryKey.
func RequirePrimaryKey() ts.Rule {
	return New("require-primary-key", func(doc any) ts.Issues {
		obj, ok := eng.AsObject(doc)
		if !ok {
			return nil
		}
		if _, ok := obj["primaryKey"]; ok {
			return nil
		}
		return ts.Issues{ts.IssueAt(ts.Root().Field("primaryKey"), ts.CodeRequired, "", map[string]any{"key": "primaryKey"})}
	})
}

// AtLeastOne ensures the collection at collectionPath has at least 1 element.
func AtLeastOne(name, collectionPath string) ts.Rule {
	p := normalizePath(collectionPath)
	return New(name, func(doc any) ts.Issues {
		val, ok := valueAtPath(doc, p)
		if !ok {
			return nil
		}
		// Not a collection; do not issue error here to avoid noise
		if arr, ok := eng.AsArray(val); ok && len(arr) == 0 {
			return ts.Issues{ts.At(p).Issue(ts.CodeTooShort, "", "min", 1, "got", 0)}
		}
		return nil
	})
}

// UniqueBy ensures elements in a collection have unique key values.
// collectionPath is a JSON Pointer to an array (e.g., "/fields").
// keyPath is a relative path inside each element (e.g., "name" or "/name").
// Keys are compared by their printed form.
func UniqueBy(name, collectionPath, keyPath string) ts.Rule {
	cp := normalizePath(collectionPath)
	kp := strings.TrimPrefix(keyPath, "/")
	return New(name, func(doc any) ts.Issues {
		val, ok := valueAtPath(doc, cp)
		if !ok {
			return nil
		}
		arr, ok := eng.AsArray(val)
		if !ok {
			return nil
		}
		seen := map[string]int{}
		var out ts.Issues
		for i, elem := range arr {
			kv, ok := valueAtPathWithin(elem, kp)
			if !ok {
				continue
			}
			key := fmt.Sprint(kv)
			if j, dup := seen[key]; dup {
				is := elemRef(cp, i, kp).Issue(ts.CodeUniqueness, "", "first", j, "dup", i, "key", key)
				is.Hint = fmt.Sprintf("first declared at %s", elemRef(cp, j, kp).Pointer())
				out = append(out, is)
			} else {
				seen[key] = i
			}
		}
		return out
	})
}

// ------- helpers -------

// elemRef points at keyPath inside the i-th element of the collection.
func elemRef(collection string, i int, keyPath string) ts.PathRef {
	p := strings.TrimSuffix(collection, "/") + "/" + strconv.Itoa(i)
	if keyPath != "" {
		p += "/" + keyPath
	}
	return ts.At(p)
}

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

// valueAtPath navigates a decoded document by JSON Pointer.
func valueAtPath(v any, pointer string) (any, bool) {
	return valueAtPathWithin(v, strings.TrimPrefix(pointer, "/"))
}

func valueAtPathWithin(v any, rel string) (any, bool) {
	if rel == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(rel, "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		if obj, ok := eng.AsObject(cur); ok {
			next, ok := obj[seg]
			if !ok {
				return nil, false
			}
			cur = next
			continue
		}
		if arr, ok := eng.AsArray(cur); ok {
			// For collection, seg should be an index
			idx, ok := tryParseInt(seg)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			cur = arr[idx]
			continue
		}
		return nil, false
	}
	return cur, true
}

func tryParseInt(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Exists
	Missing
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates a path against a value using an operator.
// The path is a JSON Pointer like "/primaryKey".
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then returns a rule named name that runs rules only when the condition holds.
func (c Conditional) Then(name string, rules ...ts.Rule) ts.Rule {
	inner := All(name, rules...)
	return New(name, func(doc any) ts.Issues {
		if !c.eval(doc) {
			return nil
		}
		return inner.Check(doc)
	})
}

func (c Conditional) eval(doc any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.eval(doc) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.eval(doc) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAtPath(doc, c.path)
	switch c.op {
	case Exists:
		return ok
	case Missing:
		return !ok
	case Eq:
		return ok && reflect.DeepEqual(cur, c.want)
	case Ne:
		return ok && !reflect.DeepEqual(cur, c.want)
	}
	return false
}

// ---------- Rule combinators ----------

// All executes every rule and concatenates Issues. Issues keep the tag of
// the rule that produced them.
func All(name string, rules ...ts.Rule) ts.Rule {
	return New(name, func(doc any) ts.Issues {
		var out ts.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			out = append(out, tagged(r, r.Check(doc))...)
		}
		return out
	})
}

// Any succeeds if any rule returns no Issues. When all fail, the branch with
// the fewest Issues is returned.
func Any(name string, rules ...ts.Rule) ts.Rule {
	return New(name, func(doc any) ts.Issues {
		var best ts.Issues
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := r.Check(doc)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = tagged(r, iss)
				bestSet = true
			}
		}
		return best
	})
}

func tagged(r ts.Rule, iss ts.Issues) ts.Issues {
	for i := range iss {
		if iss[i].Rule == "" {
			iss[i].Rule = r.Name()
		}
	}
	return iss
}
