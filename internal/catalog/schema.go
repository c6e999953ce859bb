package catalog

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// maxSchemaDepth bounds the conversion of self-referencing schemas
const maxSchemaDepth = 32

// responseSchema returns the JSON schema of the first 2xx JSON response of op
func responseSchema(op *openapi3.Operation) string {
	if op.Responses == nil {
		return ""
	}
	responses := op.Responses.Map()
	codes := make([]string, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		if !strings.HasPrefix(code, "2") {
			continue
		}
		response := responses[code]
		if response == nil || response.Value == nil {
			continue
		}
		for contentType, media := range response.Value.Content {
			if !strings.Contains(contentType, "json") || media == nil || media.Schema == nil {
				continue
			}
			data, err := json.Marshal(toJSONSchema(media.Schema, 0))
			if err != nil {
				return ""
			}
			return string(data)
		}
	}
	return ""
}

// toJSONSchema converts an OpenAPI schema to a plain JSON schema document with
// references inlined
func toJSONSchema(ref *openapi3.SchemaRef, depth int) map[string]interface{} {
	out := make(map[string]interface{})
	if ref == nil || ref.Value == nil || depth > maxSchemaDepth {
		return out
	}
	schema := ref.Value

	if schema.Type != nil && len(schema.Type.Slice()) > 0 {
		types := append([]string(nil), schema.Type.Slice()...)
		if schema.Nullable {
			types = append(types, "null")
		}
		if len(types) == 1 {
			out["type"] = types[0]
		} else {
			out["type"] = types
		}
	}

	if len(schema.Enum) > 0 {
		out["enum"] = schema.Enum
	}

	switch {
	case schema.Type.Includes(openapi3.TypeObject):
		if len(schema.Properties) > 0 {
			props := make(map[string]interface{}, len(schema.Properties))
			for name, prop := range schema.Properties {
				props[name] = toJSONSchema(prop, depth+1)
			}
			out["properties"] = props
		}
		if len(schema.Required) > 0 {
			out["required"] = schema.Required
		}
		if schema.AdditionalProperties.Has != nil && !*schema.AdditionalProperties.Has {
			out["additionalProperties"] = false
		} else if schema.AdditionalProperties.Schema != nil {
			out["additionalProperties"] = toJSONSchema(schema.AdditionalProperties.Schema, depth+1)
		}
	case schema.Type.Includes(openapi3.TypeArray):
		if schema.Items != nil {
			out["items"] = toJSONSchema(schema.Items, depth+1)
		}
	case schema.Type.Includes(openapi3.TypeString):
		if schema.MaxLength != nil {
			out["maxLength"] = *schema.MaxLength
		}
		if schema.MinLength != 0 {
			out["minLength"] = schema.MinLength
		}
		if schema.Pattern != "" {
			out["pattern"] = schema.Pattern
		}
	case schema.Type.Includes(openapi3.TypeNumber) || schema.Type.Includes(openapi3.TypeInteger):
		if schema.Max != nil {
			out["maximum"] = *schema.Max
		}
		if schema.Min != nil {
			out["minimum"] = *schema.Min
		}
		if schema.MultipleOf != nil {
			out["multipleOf"] = *schema.MultipleOf
		}
	}

	return out
}
