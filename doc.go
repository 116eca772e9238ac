// Package tableschema validates table schema documents: JSON objects that
// describe tabular data through fields, types, constraints, primary keys and
// foreign keys.
//
// Validation runs in two layers:
//
// - structural: the document must conform to the bundled meta-schema
// (see package metaschema);
// - semantic: primary keys and foreign keys must resolve to declared fields,
// and foreign keys must have congruent shape and arity.
//
// Both layers report every defect they find as an Issue (JSON Pointer, code,
// message). Issues implements error.
//
// Design policy:
// - Keep only public APIs in the root package; put the meta-schema interpreter under internal/.
// - Place document loading under source/, optional policy rules under rules/,
// HTTP helpers under middleware/ and the CLI under cmd/tableschema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	doc, err := source.Read(r, source.FormatJSON)
//	for is := range tableschema.IterErrors(doc.Value) {
//		fmt.Println(is.Path, is.Message)
//	}
//
//	if err := tableschema.Validate(doc.Value); errors.Is(err, tableschema.ErrSchemaValidation) {
//		// reject
//	}
//
//	v := tableschema.MustNew(tableschema.WithRules(rules.UniqueFieldNames()))
//	iss := v.Errors(doc.Value)
package tableschema
