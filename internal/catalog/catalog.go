package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/brizzai/httpmapper/internal/logger"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Catalog holds the routes of one OpenAPI/Swagger document
type Catalog struct {
	doc       *openapi3.T
	routes    []*Route
	selection *Selection
}

var _ Loader = (*Catalog)(nil)

// NewCatalog creates an empty catalog filtered by selection. A nil selection keeps
// every route.
func NewCatalog(selection *Selection) *Catalog {
	if selection == nil {
		selection = NewSelection()
	}
	return &Catalog{
		routes:    make([]*Route, 0),
		selection: selection,
	}
}

// Routes returns the parsed routes
func (c *Catalog) Routes() []*Route {
	return c.routes
}

// Find returns the route with the given ID
func (c *Catalog) Find(id string) (*Route, error) {
	for _, route := range c.routes {
		if route.ID == id {
			return route, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, id)
}

// Load parses an OpenAPI/Swagger document from a file
func (c *Catalog) Load(specFile string, selectionFile string) error {
	data, err := os.ReadFile(specFile)
	if err != nil {
		return fmt.Errorf("failed to read spec file: %w", err)
	}
	if err := c.selection.Load(selectionFile); err != nil {
		return fmt.Errorf("failed to load selection file: %w", err)
	}

	if err := c.detectAndParse(data); err != nil {
		return err
	}
	return c.processOperations()
}

// ParseReader parses an OpenAPI/Swagger document from a reader
func (c *Catalog) ParseReader(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read spec: %w", err)
	}

	if err := c.detectAndParse(data); err != nil {
		return err
	}
	return c.processOperations()
}

// detectAndParse parses data as either OpenAPI 2.0 or 3.x, in JSON or YAML
func (c *Catalog) detectAndParse(data []byte) error {
	data, err := toJSON(data)
	if err != nil {
		return err
	}

	var jsonObj map[string]interface{}
	if err := json.Unmarshal(data, &jsonObj); err != nil {
		return fmt.Errorf("invalid JSON in OpenAPI spec: %w", err)
	}

	swaggerVersion, hasSwagger := jsonObj["swagger"]
	openapiVersion, hasOpenAPI := jsonObj["openapi"]

	if !hasSwagger && !hasOpenAPI {
		return fmt.Errorf("document is missing 'swagger' or 'openapi' version field")
	}

	if hasSwagger {
		doc, err := convertOpenAPI2to3(data, swaggerVersion)
		if err != nil {
			return err
		}
		c.doc = doc
		return nil
	}

	if ver, ok := openapiVersion.(string); !ok || !strings.HasPrefix(ver, "3.") {
		return fmt.Errorf("unsupported OpenAPI version: %v", openapiVersion)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		logger.Error("Failed to parse OpenAPI 3.0 spec", zap.Error(err))
		return fmt.Errorf("failed to parse OpenAPI spec: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("failed to parse OpenAPI spec: document is empty")
	}

	logger.Debug("Parsed OpenAPI 3 spec", zap.String("version", doc.OpenAPI))
	c.doc = doc
	return nil
}

// convertOpenAPI2to3 converts an OpenAPI 2.0 document to OpenAPI 3.0
func convertOpenAPI2to3(data []byte, swaggerVersion interface{}) (*openapi3.T, error) {
	var swagger2Doc openapi2.T
	if err := json.Unmarshal(data, &swagger2Doc); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI 2.0 spec: %w", err)
	}

	if swagger2Doc.Swagger != "2.0" {
		return nil, fmt.Errorf("unsupported Swagger version: %v", swaggerVersion)
	}

	logger.Debug("Detected OpenAPI 2.0 spec, converting to OpenAPI 3.0")
	doc, err := openapi2conv.ToV3(&swagger2Doc)
	if err != nil {
		logger.Error("Failed to convert OpenAPI 2.0 to 3.0", zap.Error(err))
		return nil, fmt.Errorf("failed to convert OpenAPI 2.0 to 3.0: %w", err)
	}
	return doc, nil
}

// toJSON returns data unchanged when it is JSON and converts it from YAML otherwise
func toJSON(data []byte) ([]byte, error) {
	if json.Valid(data) {
		return data, nil
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("spec is neither JSON nor YAML: %w", err)
	}
	out, err := json.Marshal(normalize(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML spec: %w", err)
	}
	return out, nil
}

// normalize turns YAML maps with non-string keys, such as status codes, into
// maps JSON can encode
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []interface{}:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}

// processOperations builds the selected routes ordered by path and method
func (c *Catalog) processOperations() error {
	c.routes = make([]*Route, 0)

	paths := c.doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		pathItem := paths[path]
		httpMethods := []struct {
			Method    string
			Operation *openapi3.Operation
		}{
			{"GET", pathItem.Get},
			{"HEAD", pathItem.Head},
			{"POST", pathItem.Post},
			{"PUT", pathItem.Put},
			{"DELETE", pathItem.Delete},
			{"PATCH", pathItem.Patch},
		}

		for _, httpMethod := range httpMethods {
			if httpMethod.Operation == nil || !c.selection.Includes(path, httpMethod.Method) {
				continue
			}
			c.routes = append(c.routes, c.createRoute(path, httpMethod.Method, pathItem, httpMethod.Operation))
		}
	}

	logger.Debug("Catalog loaded", zap.Int("routes", len(c.routes)))
	return nil
}

// createRoute creates a route from a path and operation
func (c *Catalog) createRoute(path, method string, pathItem *openapi3.PathItem, operation *openapi3.Operation) *Route {
	route := &Route{
		ID:          operation.OperationID,
		Method:      method,
		Path:        path,
		QueryParams: make([]string, 0),
		PathParams:  extractPathParams(path),
	}
	if route.ID == "" {
		route.ID = routeName(method, path)
	}

	var desc string
	if operation.Description != "" {
		desc = operation.Description
	} else if operation.Summary != "" {
		desc = operation.Summary
	}
	route.Description = c.selection.Description(path, method, desc)
	route.Accept = acceptType(operation)

	seen := make(map[string]bool)
	for _, params := range []openapi3.Parameters{operation.Parameters, pathItem.Parameters} {
		for _, param := range params {
			if param.Value == nil || param.Value.In != openapi3.ParameterInQuery || seen[param.Value.Name] {
				continue
			}
			seen[param.Value.Name] = true
			route.QueryParams = append(route.QueryParams, param.Value.Name)
		}
	}

	route.ResponseSchema = responseSchema(operation)
	return route
}

// acceptType returns the first content type of the lowest declared response code
func acceptType(operation *openapi3.Operation) string {
	if operation.Responses == nil {
		return ""
	}
	responses := operation.Responses.Map()
	codes := make([]string, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		response := responses[code]
		if response == nil || response.Value == nil || len(response.Value.Content) == 0 {
			continue
		}
		types := make([]string, 0, len(response.Value.Content))
		for contentType := range response.Value.Content {
			types = append(types, contentType)
		}
		sort.Strings(types)
		return types[0]
	}
	return ""
}

// routeName derives a route ID from the method and path
func routeName(method, path string) string {
	path = strings.TrimPrefix(path, "/")
	path = strings.ReplaceAll(path, "/", "_")
	path = strings.ReplaceAll(path, "{", "")
	path = strings.ReplaceAll(path, "}", "")
	return strings.ToLower(fmt.Sprintf("%s_%s", method, path))
}

// extractPathParams extracts path parameters from a URL path
func extractPathParams(path string) []string {
	params := make([]string, 0)
	parts := strings.Split(path, "/")
	for _, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			param := strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}")
			params = append(params, param)
		}
	}
	return params
}
