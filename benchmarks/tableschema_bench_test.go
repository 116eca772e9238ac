package tableschema_test

import (
	"bytes"
	"strconv"
	"testing"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/source"
)

// ---- Helpers ----

// wideSchemaJSON returns a table schema with numFields fields, a composite
// primary key over the first two, and numFKs foreign keys. With broken set
// every foreign key references an unknown local field.
func wideSchemaJSON(numFields, numFKs int, broken bool) []byte {
	var buf bytes.Buffer
	buf.Grow(numFields*48 + numFKs*96)
	buf.WriteString(`{"fields":[`)
	for i := 0; i < numFields; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"name":"f`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`","type":"string","constraints":{"required":true}}`)
	}
	buf.WriteString(`],"primaryKey":["f0","f1"],"foreignKeys":[`)
	for i := 0; i < numFKs; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		local := "f" + strconv.Itoa(i%numFields)
		if broken {
			local = "missing" + strconv.Itoa(i)
		}
		buf.WriteString(`{"fields":"`)
		buf.WriteString(local)
		buf.WriteString(`","reference":{"resource":"other","fields":"id"}}`)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

func decode(tb testing.TB, data []byte) any {
	tb.Helper()
	docs, err := source.Decode(data, source.FormatJSON)
	if err != nil {
		tb.Fatalf("decode: %v", err)
	}
	return docs[0].Value
}

func smallSchemaJSON() []byte {
	return []byte(`{"fields":[{"name":"id","type":"integer"},{"name":"name"}],"primaryKey":"id"}`)
}

// ---- Benchmarks ----

func Benchmark_Errors_Valid_Small(b *testing.B) {
	doc := decode(b, smallSchemaJSON())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if iss := ts.Errors(doc); len(iss) != 0 {
			b.Fatal(iss)
		}
	}
}

func Benchmark_Errors_Valid_Wide(b *testing.B) {
	doc := decode(b, wideSchemaJSON(500, 50, false))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if iss := ts.Errors(doc); len(iss) != 0 {
			b.Fatal(iss)
		}
	}
}

func Benchmark_Errors_Invalid_Wide(b *testing.B) {
	doc := decode(b, wideSchemaJSON(500, 50, true))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if iss := ts.Errors(doc); len(iss) != 50 {
			b.Fatalf("want 50 issues, got %d", len(iss))
		}
	}
}

// Validate on a structurally broken document still evaluates every stage.
func Benchmark_Validate_FirstError_Wide(b *testing.B) {
	data := wideSchemaJSON(500, 50, true)
	data = bytes.Replace(data, []byte(`"type":"string"`), []byte(`"type":5`), 1)
	doc := decode(b, data)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := ts.Validate(doc); err == nil {
			b.Fatal("expected an error")
		}
	}
}

func Benchmark_DecodeAndValidate_Wide(b *testing.B) {
	data := wideSchemaJSON(500, 50, false)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		docs, err := source.Decode(data, source.FormatJSON)
		if err != nil {
			b.Fatal(err)
		}
		if err := ts.Validate(docs[0].Value); err != nil {
			b.Fatal(err)
		}
	}
}
