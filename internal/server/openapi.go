package server

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/reoring/tableschema/metaschema"
)

func issueSchema() *openapi3.Schema {
	str := func() *openapi3.SchemaRef { return openapi3.NewStringSchema().NewRef() }
	return &openapi3.Schema{
		Type:     openapi3.TypeObject,
		Required: []string{"path", "code", "message"},
		Properties: openapi3.Schemas{
			"path":    str(),
			"code":    str(),
			"message": str(),
			"hint":    str(),
			"rule":    str(),
			"params":  openapi3.NewObjectSchema().NewRef(),
		},
	}
}

func jsonResponse(desc string, schema *openapi3.Schema) *openapi3.ResponseRef {
	mt := openapi3.NewMediaType()
	mt.Schema = schema.NewRef()
	rs := openapi3.NewResponse().WithDescription(desc)
	rs.Content = openapi3.Content{"application/json": mt}
	return &openapi3.ResponseRef{Value: rs}
}

// openAPIDoc describes the service endpoints.
func openAPIDoc() *openapi3.T {
	issues := openapi3.NewArraySchema()
	issues.Items = issueSchema().NewRef()

	result := &openapi3.Schema{
		Type:     openapi3.TypeObject,
		Required: []string{"valid", "issues"},
		Properties: openapi3.Schemas{
			"valid":     openapi3.NewBoolSchema().NewRef(),
			"issues":    issues.NewRef(),
			"requestId": openapi3.NewStringSchema().WithFormat("uuid").NewRef(),
		},
	}
	failure := &openapi3.Schema{
		Type: openapi3.TypeObject,
		Properties: openapi3.Schemas{
			"valid":  openapi3.NewBoolSchema().NewRef(),
			"issues": issues.NewRef(),
			"error":  openapi3.NewStringSchema().NewRef(),
		},
	}

	body := openapi3.NewRequestBody().WithRequired(true).WithDescription("A table schema document (JSON or YAML).")
	body.Content = openapi3.Content{
		"application/json": openapi3.NewMediaType().WithSchema(openapi3.NewObjectSchema()),
		"application/yaml": openapi3.NewMediaType().WithSchema(openapi3.NewObjectSchema()),
	}

	validate := &openapi3.Operation{
		OperationID: "validateTableSchema",
		Summary:     "Validate a table schema document",
		Parameters: openapi3.Parameters{
			&openapi3.ParameterRef{Value: openapi3.NewQueryParameter("strict").WithSchema(openapi3.NewBoolSchema())},
		},
		RequestBody: &openapi3.RequestBodyRef{Value: body},
		Responses: openapi3.Responses{
			"200": jsonResponse("Validation result", result),
			"400": jsonResponse("Body could not be decoded", failure),
			"413": jsonResponse("Body too large", failure),
		},
	}

	metaRes := openapi3.NewResponse().WithDescription("The bundled meta-schema")
	metaRes.Content = openapi3.Content{
		"application/schema+json": openapi3.NewMediaType().WithSchema(openapi3.NewObjectSchema()),
		"application/yaml":        openapi3.NewMediaType().WithSchema(openapi3.NewObjectSchema()),
	}
	meta := &openapi3.Operation{
		OperationID: "getMetaSchema",
		Summary:     "Fetch the meta-schema used for structural checks",
		Parameters: openapi3.Parameters{
			&openapi3.ParameterRef{Value: openapi3.NewQueryParameter("format").
				WithSchema(openapi3.NewStringSchema().WithEnum("json", "yaml"))},
		},
		Responses: openapi3.Responses{"200": &openapi3.ResponseRef{Value: metaRes}},
	}

	health := &openapi3.Operation{
		OperationID: "health",
		Responses: openapi3.Responses{
			"200": &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Service is up")},
		},
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "tableschema",
			Description: "Structural and semantic validation of table schema documents.",
			Version:     metaschema.Version,
		},
		Paths: openapi3.Paths{
			"/v1/validate":   &openapi3.PathItem{Post: validate},
			"/v1/metaschema": &openapi3.PathItem{Get: meta},
			"/healthz":       &openapi3.PathItem{Get: health},
		},
	}
}
