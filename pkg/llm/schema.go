package llm

// Schema is the subset of JSON Schema shared by tool declarations and
// parameter validation. It marshals to plain JSON Schema.
type Schema struct {
	Type                 string             `json:"type,omitempty"`
	Description          string             `json:"description,omitempty"`
	Enum                 []string           `json:"enum,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty"`
	MinLength            *int64             `json:"minLength,omitempty"`
	MaxLength            *int64             `json:"maxLength,omitempty"`
	MinItems             *int64             `json:"minItems,omitempty"`
	MaxItems             *int64             `json:"maxItems,omitempty"`
	Format               string             `json:"format,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

func Object(required []string, props map[string]*Schema) *Schema {
	closed := false
	return &Schema{Type: "object", Properties: props, Required: required, AdditionalProperties: &closed}
}

func String(desc string) *Schema {
	return &Schema{Type: "string", Description: desc}
}

func Enum(desc string, values ...string) *Schema {
	return &Schema{Type: "string", Description: desc, Enum: values}
}

func Integer(desc string, min, max float64) *Schema {
	return &Schema{Type: "integer", Description: desc, Minimum: &min, Maximum: &max}
}

func Date(desc string) *Schema {
	return &Schema{Type: "string", Description: desc, Format: "date"}
}

func ArrayOf(desc string, items *Schema, minItems int64) *Schema {
	return &Schema{Type: "array", Description: desc, Items: items, MinItems: &minItems}
}

// WithLength bounds a string schema.
func (s *Schema) WithLength(min, max int64) *Schema {
	s.MinLength = &min
	s.MaxLength = &max
	return s
}
