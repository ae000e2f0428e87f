// Package schema models the subset of JSON Schema used to describe tool
// parameters to the LLM gateway.
package schema

import "sort"

type Schema struct {
	Type                 string             `json:"type"`
	Description          string             `json:"description,omitempty"`
	Enum                 []string           `json:"enum,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

// Object builds a strict object schema: every property is required and no
// other property is allowed.
func Object(props map[string]*Schema) *Schema {
	required := make([]string, 0, len(props))
	for name := range props {
		required = append(required, name)
	}
	sort.Strings(required)
	closed := false
	return &Schema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: &closed,
	}
}

func String(desc string) *Schema {
	return &Schema{Type: "string", Description: desc}
}

func Number(desc string) *Schema {
	return &Schema{Type: "number", Description: desc}
}

func Enum(desc string, values ...string) *Schema {
	return &Schema{Type: "string", Description: desc, Enum: values}
}

func Array(desc string, items *Schema) *Schema {
	return &Schema{Type: "array", Description: desc, Items: items}
}
