package metaschema

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	jschema "github.com/santhosh-tekuri/jsonschema/v5"
)

func TestDefault_LoadsOnce(t *testing.T) {
	a, err := Default()
	if err != nil {
		t.Fatalf("bundled meta-schema: %v", err)
	}
	b := MustDefault()
	if a != b {
		t.Fatalf("Default must return the same instance")
	}
	if !a.Type.Has("object") || len(a.Required) != 1 || a.Required[0] != "fields" {
		t.Fatalf("unexpected root: type=%v required=%v", a.Type, a.Required)
	}
	field, ok := a.Resolve("#/definitions/field")
	if !ok || field.Discriminator == nil || field.Discriminator.PropertyName != "type" {
		t.Fatalf("field definition missing discriminator")
	}
	if re := field.Properties["rdfType"].PatternRegexp(); re == nil || re.MatchString("a b") {
		t.Fatalf("rdfType pattern not compiled")
	}
}

func TestBytes_ReturnsCopy(t *testing.T) {
	b := Bytes()
	b[0] = 'X'
	if Bytes()[0] == 'X' {
		t.Fatalf("Bytes must return a copy")
	}
}

func TestResolve(t *testing.T) {
	s := MustDefault()
	if r, ok := s.Resolve("#"); !ok || r != s {
		t.Fatalf("# must resolve to root")
	}
	for _, ref := range []string{"#/definitions/missing", "other.json#/x", "#/properties/fields"} {
		if _, ok := s.Resolve(ref); ok {
			t.Fatalf("%s must not resolve", ref)
		}
	}
}

func TestTypeList(t *testing.T) {
	var one, many TypeList
	if err := json.Unmarshal([]byte(`"string"`), &one); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`["number","string"]`), &many); err != nil {
		t.Fatal(err)
	}
	if one.String() != "string" || many.String() != "number or string" {
		t.Fatalf("unexpected: %q %q", one, many)
	}
	if err := json.Unmarshal([]byte(`42`), &one); err == nil {
		t.Fatalf("expected error for non-string type")
	}
	out, _ := json.Marshal(one)
	if string(out) != `"string"` {
		t.Fatalf("single type must marshal as string, got %s", out)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"bad json":         `{`,
		"unresolved ref":   `{"properties":{"a":{"$ref":"#/definitions/nope"}}}`,
		"bad pattern":      `{"properties":{"a":{"type":"string","pattern":"("}}}`,
		"no property name": `{"discriminator":{"mapping":{}}}`,
		"unmapped target":  `{"discriminator":{"propertyName":"t","mapping":{"x":"#/definitions/x"}}}`,
		"default unmapped": `{"discriminator":{"propertyName":"t","default":"y","mapping":{}}}`,
		"nested anyOf":     `{"definitions":{"k":{"anyOf":[{"$ref":"#/definitions/z"}]}}}`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load([]byte(src)); err == nil {
				t.Fatalf("expected error")
			} else if !strings.HasPrefix(err.Error(), "metaschema:") {
				t.Fatalf("unexpected error text: %v", err)
			}
		})
	}
}

// The bundled document must stay a valid draft-07 schema that a general
// purpose validator agrees with on the structural fixtures.
func TestBundled_AgreesWithJSONSchemaValidator(t *testing.T) {
	sch, err := jschema.CompileString("mem:table-schema", string(bundled))
	if err != nil {
		t.Fatalf("compile bundled meta-schema: %v", err)
	}
	cases := map[string]bool{
		"schema_valid_simple.json":             true,
		"schema_valid_full.json":               true,
		"schema_valid_pk_array.json":           true,
		"schema_valid_fk_array.json":           true,
		"schema_invalid_empty.json":            false,
		"schema_invalid_wrong_type.json":       false,
		"schema_invalid_pk_is_wrong_type.json": false,
		"schema_invalid_fk_no_reference.json":  false,
		"schema_invalid_pk_no_fields.json":     false,
	}
	for name, valid := range cases {
		b, err := os.ReadFile(filepath.Join("..", "testdata", name))
		if err != nil {
			t.Fatal(err)
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var doc any
		if err := dec.Decode(&doc); err != nil {
			t.Fatal(err)
		}
		err = sch.Validate(doc)
		if valid && err != nil {
			t.Fatalf("%s: expected valid, got %v", name, err)
		}
		if !valid && err == nil {
			t.Fatalf("%s: expected invalid", name)
		}
	}
}
