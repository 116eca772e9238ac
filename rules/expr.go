package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	ts "github.com/reoring/tableschema"
	eng "github.com/reoring/tableschema/internal/engine"
)

// exprEnv is the variable set visible to Expr rules. The zero values fix the
// static types the compiler checks against.
func exprEnv(doc any) map[string]any {
	env := map[string]any{
		"schema":      map[string]any{},
		"fields":      []any{},
		"fieldNames":  []string{},
		"primaryKey":  []string{},
		"foreignKeys": []any{},
	}
	obj, ok := eng.AsObject(doc)
	if !ok {
		return env
	}
	env["schema"] = obj
	if arr, ok := eng.AsArray(obj["fields"]); ok {
		env["fields"] = arr
		names := []string{}
		for _, it := range arr {
			if f, ok := eng.AsObject(it); ok {
				if n, ok := f["name"].(string); ok {
					names = append(names, n)
				}
			}
		}
		env["fieldNames"] = names
	}
	raw, present := obj["primaryKey"]
	if pk := ts.ParseKeySet(raw, present); pk.Usable() {
		env["primaryKey"] = pk.Names()
	}
	if arr, ok := eng.AsArray(obj["foreignKeys"]); ok {
		env["foreignKeys"] = arr
	}
	return env
}

type exprRule struct {
	name   string
	source string
	prg    *vm.Program
}

// Expr compiles a boolean expression (github.com/expr-lang/expr syntax) into
// a rule. The expression sees schema, fields, fieldNames, primaryKey and
// foreignKeys; when it evaluates to false a business_rule issue is reported
// at the document root.
//
//	rules.Expr("has-id", `"id" in fieldNames`)
//	rules.Expr("small-key", `len(primaryKey) <= 2`)
func Expr(name, expression string) (ts.Rule, error) {
	prg, err := expr.Compile(expression, expr.Env(exprEnv(nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", name, err)
	}
	return &exprRule{name: name, source: expression, prg: prg}, nil
}

// MustExpr is like Expr but panics on compile errors.
func MustExpr(name, expression string) ts.Rule {
	r, err := Expr(name, expression)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *exprRule) Name() string { return r.name }

func (r *exprRule) Check(doc any) ts.Issues {
	out, err := expr.Run(r.prg, exprEnv(doc))
	if err != nil {
		is := ts.Root().Issue(ts.CodeBusinessRule, "", "rule", r.name)
		is.Cause = err
		is.Hint = err.Error()
		return ts.Issues{is}
	}
	if ok, _ := out.(bool); ok {
		return nil
	}
	is := ts.Root().Issue(ts.CodeBusinessRule, "", "rule", r.name)
	is.Hint = r.source
	return ts.Issues{is}
}
