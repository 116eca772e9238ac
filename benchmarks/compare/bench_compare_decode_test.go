package compare_test

import (
	"encoding/json"
	"testing"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/source"

	sonic "github.com/bytedance/sonic"
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fastjson"
)

// Decode then validate: the validator accepts the generic tree produced by
// any of these decoders.

func Benchmark_DecodeValidate_stdlib_Wide(b *testing.B) {
	data := wideSchemaJSON(cmpWideFields, cmpWideFKs)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
		if err := ts.Validate(v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeValidate_gojson_Wide(b *testing.B) {
	data := wideSchemaJSON(cmpWideFields, cmpWideFKs)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v any
		if err := gojson.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
		if err := ts.Validate(v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeValidate_jsoniter_Wide(b *testing.B) {
	data := wideSchemaJSON(cmpWideFields, cmpWideFKs)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	var ji = jsoniter.ConfigCompatibleWithStandardLibrary
	for i := 0; i < b.N; i++ {
		var v any
		if err := ji.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
		if err := ts.Validate(v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeValidate_sonic_Wide(b *testing.B) {
	data := wideSchemaJSON(cmpWideFields, cmpWideFKs)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v any
		if err := sonic.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
		if err := ts.Validate(v); err != nil {
			b.Fatal(err)
		}
	}
}

// source.Decode adds duplicate-key detection and number preservation.
func Benchmark_DecodeValidate_source_Wide(b *testing.B) {
	data := wideSchemaJSON(cmpWideFields, cmpWideFKs)
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

// Parse only, for the cost of the duplicate-key pre-pass.
func Benchmark_ParseOnly_fastjson_Wide(b *testing.B) {
	data := wideSchemaJSON(cmpWideFields, cmpWideFKs)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var p fastjson.Parser
		if _, err := p.ParseBytes(data); err != nil {
			b.Fatal(err)
		}
	}
}
