package tableschema

import (
	"strconv"
	"strings"

	eng "github.com/reoring/tableschema/internal/engine"
)

// declaredFields collects the names of object entries of "fields" in
// document order. Duplicates are kept; lookups go through the set.
type declaredFields struct {
	order []string
	set   map[string]struct{}
}

func collectFields(doc map[string]any) declaredFields {
	d := declaredFields{set: map[string]struct{}{}}
	arr, ok := eng.AsArray(doc["fields"])
	if !ok {
		return d
	}
	for _, it := range arr {
		obj, ok := eng.AsObject(it)
		if !ok {
			continue
		}
		if name, ok := obj["name"].(string); ok {
			d.order = append(d.order, name)
			d.set[name] = struct{}{}
		}
	}
	return d
}

func (d declaredFields) has(name string) bool {
	_, ok := d.set[name]
	return ok
}

func (d declaredFields) hint() string {
	if len(d.order) == 0 {
		return "no fields are declared"
	}
	return "declared fields: " + strings.Join(d.order, ", ")
}

// checkSemantics validates primary and foreign keys against the declared
// field names. Every sub-check runs regardless of earlier failures.
func checkSemantics(doc any) Issues {
	obj, ok := eng.AsObject(doc)
	if !ok {
		return nil
	}
	fields := collectFields(obj)
	var out Issues
	out = append(out, checkPrimaryKey(obj, fields)...)
	out = append(out, checkForeignKeys(obj, fields)...)
	return out
}

func checkPrimaryKey(obj map[string]any, fields declaredFields) Issues {
	raw, present := obj["primaryKey"]
	pk := ParseKeySet(raw, present)
	at := Root().Field("primaryKey")
	var out Issues
	switch pk.Kind {
	case KeyMissing:
		return nil
	case KeyMalformed:
		return Issues{tag(IssueAt(at, CodeKeyMalformed, "", map[string]any{"key": "primaryKey"}), RulePrimaryKey)}
	}
	if pk.Len() == 0 {
		out = append(out, tag(IssueAt(at, CodePrimaryKeyEmpty, "", nil), RulePrimaryKey))
	}
	for i, name := range pk.Names() {
		if fields.has(name) {
			continue
		}
		is := IssueAt(pk.pointerFor(at, i), CodePrimaryKeyUnknownField, "", map[string]any{"field": name})
		is.Hint = fields.hint()
		out = append(out, tag(is, RulePrimaryKey))
	}
	return out
}

func checkForeignKeys(obj map[string]any, fields declaredFields) Issues {
	arr, ok := eng.AsArray(obj["foreignKeys"])
	if !ok {
		return nil
	}
	var out Issues
	for i, it := range arr {
		fk, ok := eng.AsObject(it)
		if !ok {
			continue
		}
		out = append(out, checkForeignKey(fk, Root().Field("foreignKeys").Index(i), fields)...)
	}
	return out
}

func checkForeignKey(fk map[string]any, at PathRef, fields declaredFields) Issues {
	var out Issues
	add := func(p PathRef, code string, params map[string]any) *Issue {
		out = append(out, tag(IssueAt(p, code, "", params), RuleForeignKey))
		return &out[len(out)-1]
	}

	rawLocal, hasLocal := fk["fields"]
	local := ParseKeySet(rawLocal, hasLocal)
	ref, _ := eng.AsObject(fk["reference"])
	rawRemote, hasRemote := ref["fields"]
	remote := ParseKeySet(rawRemote, hasRemote)

	if local.Kind == KeyMalformed {
		add(at.Field("fields"), CodeKeyMalformed, map[string]any{"key": "fields"})
	}
	if remote.Kind == KeyMalformed {
		add(at.Field("reference").Field("fields"), CodeKeyMalformed, map[string]any{"key": "reference.fields"})
	}

	if local.Usable() && remote.Usable() {
		if local.Kind != remote.Kind {
			add(at, CodeForeignKeyShapeMismatch, map[string]any{"fields": local.Kind.String(), "reference": remote.Kind.String()})
		}
		if local.Len() != remote.Len() {
			add(at, CodeForeignKeyArityMismatch, map[string]any{
				"local":      strconv.Itoa(local.Len()),
				"referenced": strconv.Itoa(remote.Len()),
			})
		}
	}

	for i, name := range local.Names() {
		if !fields.has(name) {
			add(local.pointerFor(at.Field("fields"), i), CodeForeignKeyUnknownField, map[string]any{"field": name}).Hint = fields.hint()
		}
	}

	// Only self-references are resolvable within one document.
	if resource, ok := ref["resource"].(string); ok && resource == "" {
		base := at.Field("reference").Field("fields")
		for i, name := range remote.Names() {
			if !fields.has(name) {
				add(remote.pointerFor(base, i), CodeForeignKeyUnknownReference, map[string]any{"field": name}).Hint = fields.hint()
			}
		}
	}
	return out
}

func tag(is Issue, rule string) Issue {
	is.Rule = rule
	return is
}
