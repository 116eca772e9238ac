//go:build jscan

package compare_test

import (
	"testing"

	"github.com/romshark/jscan"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/source"
)

// jscan as a syntax gate in front of decode + validate: well-formed input
// pays for one extra scan.
func Benchmark_SyntaxGate_jscan_ThenValidate_Wide(b *testing.B) {
	data := wideSchemaJSON(cmpWideFields, cmpWideFKs)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !jscan.Valid(string(data)) {
			b.Fatal("wide schema must be well-formed")
		}
		docs, err := source.Decode(data, source.FormatJSON)
		if err != nil {
			b.Fatal(err)
		}
		if err := ts.Validate(docs[0].Value); err != nil {
			b.Fatal(err)
		}
	}
}

// Truncated bodies: rejection by the gate versus the parse_error path of
// source.Decode.
func Benchmark_RejectTruncated_jscan_Wide(b *testing.B) {
	data := wideSchemaJSON(cmpWideFields, cmpWideFKs)
	data = data[:len(data)-2]
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if jscan.Valid(string(data)) {
			b.Fatal("truncated schema accepted")
		}
	}
}

func Benchmark_RejectTruncated_source_Wide(b *testing.B) {
	data := wideSchemaJSON(cmpWideFields, cmpWideFKs)
	data = data[:len(data)-2]
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := source.Decode(data, source.FormatJSON); err == nil {
			b.Fatal("truncated schema accepted")
		}
	}
}
