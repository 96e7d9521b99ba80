package film

import "github.com/invopop/jsonschema"

// JSONSchemaExtend describes Year as the nullable integer it encodes to.
func (Film) JSONSchemaExtend(s *jsonschema.Schema) {
	if s.Properties == nil {
		return
	}
	s.Properties.Set("year", &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer"},
			{Type: "null"},
		},
		Description: "Production year, null when unknown",
	})
}
