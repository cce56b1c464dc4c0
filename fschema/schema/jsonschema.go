package schema

const jsonSchemaDraft = "http://json-schema.org/draft-07/schema#"

// JSONSchema renders the user-settable fields as a draft-07 JSON Schema document,
// used for generated docs and editor completion. Internal fields are omitted.
func (s *Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		if f.Internal {
			continue
		}
		props[f.Name] = f.jsonSchema()
	}
	return map[string]any{
		"$schema":              jsonSchemaDraft,
		"title":                s.name,
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

func (f Field) jsonSchema() map[string]any {
	p := map[string]any{
		"description": f.Description,
		"default":     f.Default,
	}

	var typ string
	switch f.Kind {
	case String, StringOptions:
		typ = "string"
	case PositiveInteger:
		typ = "integer"
		p["minimum"] = 1
	case Boolean:
		typ = "boolean"
	}

	if f.AllowNone {
		p["type"] = []string{typ, "null"}
	} else {
		p["type"] = typ
	}

	if f.Kind == StringOptions {
		enum := make([]any, 0, len(f.Options)+1)
		for _, o := range f.Options {
			enum = append(enum, o)
		}
		if f.AllowNone {
			enum = append(enum, nil)
		}
		p["enum"] = enum
	}
	return p
}
