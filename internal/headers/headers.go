// Package headers provides the case-insensitive, multi-value header set shared by
// outgoing requests and parsed responses.
package headers

import (
	"net/http"
	"sort"
	"strings"
)

// Headers maps lower-cased header names to their values in insertion order
type Headers struct {
	values map[string][]string
}

// New creates an empty header set
func New() *Headers {
	return &Headers{values: make(map[string][]string)}
}

// FromHTTP copies every value of every named header reported by net/http
func FromHTTP(h http.Header) *Headers {
	out := New()
	for name, values := range h {
		if name == "" {
			continue
		}
		for _, value := range values {
			out.Add(name, value)
		}
	}
	return out
}

// Add appends value to the values registered for name.
// Repeated additions accumulate rather than overwrite.
func (h *Headers) Add(name, value string) *Headers {
	key := strings.ToLower(name)
	h.values[key] = append(h.values[key], value)
	return h
}

// Get returns the values for name in insertion order, or an empty slice.
// The returned slice is a copy.
func (h *Headers) Get(name string) []string {
	values := h.values[strings.ToLower(name)]
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// GetLast returns the most recently added value for name, or def if there is none
func (h *Headers) GetLast(name, def string) string {
	values := h.values[strings.ToLower(name)]
	if len(values) == 0 {
		return def
	}
	return values[len(values)-1]
}

// Has reports whether at least one value is registered for name
func (h *Headers) Has(name string) bool {
	return len(h.values[strings.ToLower(name)]) > 0
}

// Names returns the registered lower-cased header names, sorted
func (h *Headers) Names() []string {
	names := make([]string, 0, len(h.values))
	for name := range h.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct header names
func (h *Headers) Len() int {
	return len(h.values)
}

// Clone returns a deep copy of the header set
func (h *Headers) Clone() *Headers {
	out := New()
	for name, values := range h.values {
		out.values[name] = append([]string(nil), values...)
	}
	return out
}
