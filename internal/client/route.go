package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/brizzai/httpmapper/internal/catalog"
	"github.com/brizzai/httpmapper/internal/requester"
)

// Route starts a dispatch for a catalog route. Path parameters are substituted from
// params, query parameters present in params are appended in route order and the
// route's Accept type is requested.
func (c *Client) Route(route *catalog.Route, params map[string]string) *Dispatch {
	method, err := requester.ParseMethod(route.Method)
	if err != nil {
		d := newDispatch(c, requester.Method(route.Method))
		d.err = err
		return d
	}

	path, err := expandPath(route, params)
	if err != nil {
		d := newDispatch(c, method)
		d.err = err
		return d
	}

	d := c.Request(method, path)
	if route.Accept != "" {
		d.WithHeader("Accept", route.Accept)
	}
	return d
}

// expandPath substitutes path parameters and appends the query string
func expandPath(route *catalog.Route, params map[string]string) (string, error) {
	path := route.Path
	for _, name := range route.PathParams {
		value, ok := params[name]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingPathParam, name)
		}
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}

	query := make([]string, 0, len(route.QueryParams))
	for _, name := range route.QueryParams {
		value, ok := params[name]
		if !ok {
			continue
		}
		query = append(query, url.QueryEscape(name)+"="+url.QueryEscape(value))
	}
	if len(query) > 0 {
		path += "?" + strings.Join(query, "&")
	}
	return path, nil
}
