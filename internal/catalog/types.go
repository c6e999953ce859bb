// Package catalog turns OpenAPI/Swagger documents into routes that the client can
// dispatch by name.
package catalog

import (
	"errors"
	"io"
)

// ErrRouteNotFound indicates a lookup for an unknown route
var ErrRouteNotFound = errors.New("route not found")

// Route describes one operation of the API
type Route struct {
	// ID is the operationId, or a name derived from method and path when the
	// document has none
	ID          string
	Method      string
	Path        string
	Description string
	// Accept is the first content type the operation declares for its responses
	Accept      string
	QueryParams []string
	PathParams  []string
	// ResponseSchema is a JSON schema for the JSON body of the first 2xx response,
	// empty when the document declares none
	ResponseSchema string
}

// Loader parses OpenAPI/Swagger documents into routes
type Loader interface {
	// Load parses a document and an optional selection file from disk
	Load(specFile string, selectionFile string) error
	// ParseReader parses a document from a reader
	ParseReader(reader io.Reader) error
	// Routes returns the selected routes ordered by path and method
	Routes() []*Route
	// Find returns the route with the given ID
	Find(id string) (*Route, error)
}
