package compare_test

import (
	"bytes"
	"testing"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/metaschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v5"
)

func compileMetaSchema(tb testing.TB) *jschema.Schema {
	tb.Helper()
	c := jschema.NewCompiler()
	if err := c.AddResource("mem:table-schema", bytes.NewReader(metaschema.Bytes())); err != nil {
		tb.Fatal(err)
	}
	s, err := c.Compile("mem:table-schema")
	if err != nil {
		tb.Fatal(err)
	}
	return s
}

// Structural check only: jsonschema/v5 against the bundled meta-schema.
func Benchmark_Structure_jsonschema_v5_Wide(b *testing.B) {
	s := compileMetaSchema(b)
	doc := bytesToAny(wideSchemaJSON(cmpWideFields, cmpWideFKs))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Validate(doc); err != nil {
			b.Fatal(err)
		}
	}
}

// Same document through the built-in structural checker.
func Benchmark_Structure_tableschema_Wide(b *testing.B) {
	doc := bytesToAny(wideSchemaJSON(cmpWideFields, cmpWideFKs))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if iss := ts.CheckStructure(doc); len(iss) != 0 {
			b.Fatal(iss)
		}
	}
}

// Structure plus primary and foreign keys.
func Benchmark_Full_tableschema_Wide(b *testing.B) {
	doc := bytesToAny(wideSchemaJSON(cmpWideFields, cmpWideFKs))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := ts.Validate(doc); err != nil {
			b.Fatal(err)
		}
	}
}
