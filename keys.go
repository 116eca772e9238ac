package tableschema

import eng "github.com/reoring/tableschema/internal/engine"

// KeyKind classifies a key descriptor (primaryKey, foreignKeys[].fields,
// foreignKeys[].reference.fields).
type KeyKind int

const (
	// KeyMissing means the descriptor is absent.
	KeyMissing KeyKind = iota
	// KeySingle is a bare field name.
	KeySingle
	// KeyMultiple is a list of field names (possibly empty).
	KeyMultiple
	// KeyMalformed is present but neither a string nor a list of strings.
	KeyMalformed
)

func (k KeyKind) String() string {
	switch k {
	case KeySingle:
		return "single"
	case KeyMultiple:
		return "multiple"
	case KeyMalformed:
		return "malformed"
	default:
		return "missing"
	}
}

// KeySet is the normalized form of a key descriptor.
type KeySet struct {
	Kind  KeyKind
	names []string
}

// ParseKeySet classifies a raw descriptor value. present reports whether the
// key existed in the enclosing object.
func ParseKeySet(v any, present bool) KeySet {
	if !present {
		return KeySet{Kind: KeyMissing}
	}
	if s, ok := v.(string); ok {
		return KeySet{Kind: KeySingle, names: []string{s}}
	}
	if ss, ok := v.([]string); ok {
		return KeySet{Kind: KeyMultiple, names: append([]string{}, ss...)}
	}
	arr, ok := eng.AsArray(v)
	if !ok {
		return KeySet{Kind: KeyMalformed}
	}
	names := make([]string, 0, len(arr))
	for _, it := range arr {
		s, ok := it.(string)
		if !ok {
			return KeySet{Kind: KeyMalformed}
		}
		names = append(names, s)
	}
	return KeySet{Kind: KeyMultiple, names: names}
}

// Names returns the referenced names in declaration order. A single name is
// returned as a one-element list; missing and malformed sets have none.
func (k KeySet) Names() []string {
	if k.Kind != KeySingle && k.Kind != KeyMultiple {
		return nil
	}
	return append([]string(nil), k.names...)
}

// Len is the arity of the key set.
func (k KeySet) Len() int { return len(k.names) }

// Usable reports whether the set carries names that can be resolved.
func (k KeySet) Usable() bool { return k.Kind == KeySingle || k.Kind == KeyMultiple }

// pointerFor returns the path of the i-th name: the descriptor itself for a
// single name, the element for a list.
func (k KeySet) pointerFor(base PathRef, i int) PathRef {
	if k.Kind == KeySingle {
		return base
	}
	return base.Index(i)
}
