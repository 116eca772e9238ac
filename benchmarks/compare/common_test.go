package compare_test

import (
	"bytes"
	"encoding/json"
	"strconv"
)

const (
	cmpWideFields = 2000
	cmpWideFKs    = 200
)

// wideSchemaJSON mirrors the generator of the in-module benchmarks: a valid
// table schema with numFields fields and numFKs foreign keys.
func wideSchemaJSON(numFields, numFKs int) []byte {
	var buf bytes.Buffer
	buf.Grow(numFields*48 + numFKs*96)
	buf.WriteString(`{"fields":[`)
	for i := 0; i < numFields; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"name":"f`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`","type":"integer"}`)
	}
	buf.WriteString(`],"primaryKey":"f0","foreignKeys":[`)
	for i := 0; i < numFKs; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"fields":"f`)
		buf.WriteString(strconv.Itoa(i % numFields))
		buf.WriteString(`","reference":{"resource":"","fields":"f0"}}`)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

// bytesToAny decodes JSON into any using the stdlib for jsonschema v5 input.
func bytesToAny(b []byte) any {
	var v any
	_ = json.Unmarshal(b, &v)
	return v
}
