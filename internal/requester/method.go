package requester

import (
	"fmt"
	"strings"
)

// Method is an HTTP method supported by the executor
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodHead   Method = "HEAD"
	MethodDelete Method = "DELETE"
)

// HasBody reports whether responses to this method carry a body. HEAD does not.
func (m Method) HasBody() bool {
	return m != MethodHead
}

func (m Method) String() string {
	return string(m)
}

// ParseMethod resolves a case-insensitive method name
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodHead, MethodDelete:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}
}
