// Package schema derives MCP tool input schemas from Go struct types
// using json and jsonschema struct tags.
package schema

import (
	"github.com/invopop/jsonschema"

	"finlab-mcp/internal/protocol"
)

// Generate produces a protocol.InputSchema from a Go struct type T.
// Field names come from json tags; required, description, enum, and
// default come from jsonschema tags.
func Generate[T any]() protocol.InputSchema {
	var zero T
	s := jsonschema.Reflect(&zero)
	root := extractRoot(s)

	return protocol.InputSchema{
		Type:       "object",
		Properties: schemaProperties(root),
		Required:   root.Required,
	}
}

// extractRoot resolves the root schema, following $ref into $defs.
// invopop/jsonschema puts the reflected type under $defs with a ref like
// "#/$defs/TypeName".
func extractRoot(s *jsonschema.Schema) *jsonschema.Schema {
	if s.Ref != "" && s.Definitions != nil {
		for _, def := range s.Definitions {
			if def.Type == "object" {
				return def
			}
		}
	}
	return s
}

// schemaProperties converts the ordered property map into a plain
// map[string]any suitable for JSON serialization on the wire.
func schemaProperties(s *jsonschema.Schema) map[string]any {
	if s.Properties == nil {
		return nil
	}
	props := make(map[string]any)
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		props[pair.Key] = propertySchema(pair.Value)
	}
	return props
}

// propertySchema converts a single property schema to a serializable map.
func propertySchema(s *jsonschema.Schema) map[string]any {
	m := make(map[string]any)

	if s.Type != "" {
		m["type"] = s.Type
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if s.Default != nil {
		m["default"] = s.Default
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}

	// Pointer fields reflect as anyOf with a null branch; surface the
	// non-null type.
	if len(s.AnyOf) > 0 {
		for _, sub := range s.AnyOf {
			if sub.Type != "null" && sub.Type != "" {
				m["type"] = sub.Type
				break
			}
		}
	}

	if s.Properties != nil {
		m["type"] = "object"
		m["properties"] = schemaProperties(s)
		if len(s.Required) > 0 {
			m["required"] = s.Required
		}
	}

	if s.Items != nil {
		m["items"] = propertySchema(s.Items)
	}

	return m
}
