package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/brizzai/httpmapper/internal/client"
	"github.com/brizzai/httpmapper/internal/requester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id": 1, "name": "ada", "tags": ["x", "y"]}`)
		case "/echo":
			w.Header().Set("Content-Type", r.Header.Get("Content-Type"))
			_, _ = io.Copy(w, r.Body)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		in        string
		wantName  string
		wantValue string
		wantOK    bool
	}{
		{"Accept: application/json", "Accept", "application/json", true},
		{"X-Empty:", "X-Empty", "", true},
		{"Authorization: Bearer a:b", "Authorization", "Bearer a:b", true},
		{"no-colon", "", "", false},
		{": value", "", "", false},
	}

	for _, tt := range tests {
		name, value, ok := parseHeader(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.wantName, name, tt.in)
		assert.Equal(t, tt.wantValue, value, tt.in)
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Get user", firstLine("\n Get user\nmore detail"))
	assert.Equal(t, "", firstLine(""))
}

func TestRun(t *testing.T) {
	srv := newServer(t)
	c := client.NewBuilder().WithBaseURL(srv.URL).Build()

	schemaFile := filepath.Join(t.TempDir(), "user.json")
	require.NoError(t, os.WriteFile(schemaFile, []byte(`{"type": "object", "required": ["id", "name"]}`), 0o600))
	strictFile := filepath.Join(t.TempDir(), "strict.json")
	require.NoError(t, os.WriteFile(strictFile, []byte(`{"type": "object", "required": ["email"]}`), 0o600))

	tests := []struct {
		name    string
		path    string
		opts    outputOptions
		want    string
		wantErr string
	}{
		{name: "body", path: "/users/1", want: "{\"id\": 1, \"name\": \"ada\", \"tags\": [\"x\", \"y\"]}\n"},
		{name: "query", path: "/users/1", opts: outputOptions{query: "$.tags.1"}, want: "y\n"},
		{name: "missing query path", path: "/users/1", opts: outputOptions{query: "email"}, wantErr: "path not found"},
		{name: "schema match", path: "/users/1", opts: outputOptions{schemaFile: schemaFile}, want: "{\"id\": 1, \"name\": \"ada\", \"tags\": [\"x\", \"y\"]}\n"},
		{name: "schema mismatch", path: "/users/1", opts: outputOptions{schemaFile: strictFile}, wantErr: "email"},
		{name: "not found", path: "/nope", want: "404 page not found\n\n", wantErr: "404 Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			if opts.schemaFile != "" {
				raw, err := os.ReadFile(opts.schemaFile)
				require.NoError(t, err)
				opts.schema = string(raw)
			}

			var out bytes.Buffer
			err := run(context.Background(), c.Get(tt.path), opts, &out)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.want != "" {
				assert.Equal(t, tt.want, out.String())
			}
		})
	}
}

func TestRun_ShowHeadersAndData(t *testing.T) {
	srv := newServer(t)
	c := client.NewBuilder().WithBaseURL(srv.URL).Build()

	cmd := newRequestCmd()
	require.NoError(t, cmd.Flags().Set("data", `{"a": 1}`))
	require.NoError(t, cmd.Flags().Set("header", "X-One: 1"))

	d := c.Request(requester.MethodPost, "/echo")
	require.NoError(t, applyRequestFlags(cmd, d))
	assert.Equal(t, []string{"1"}, d.Headers().Get("x-one"))
	assert.Equal(t, []string{"application/json; charset=utf-8"}, d.Headers().Get("content-type"))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), d, outputOptions{showHeaders: true}, &out))
	assert.Contains(t, out.String(), "200 OK\n")
	assert.Contains(t, out.String(), "content-type: application/json; charset=utf-8\n")
	assert.Contains(t, out.String(), "\n\n{\"a\": 1}\n")
}

func TestApplyRequestFlags_Errors(t *testing.T) {
	c := client.NewBuilder().WithBaseURL("http://example.com").Build()

	cmd := newRequestCmd()
	require.NoError(t, cmd.Flags().Set("header", "broken"))
	assert.ErrorContains(t, applyRequestFlags(cmd, c.Get("/")), "invalid header")

	cmd = newRequestCmd()
	require.NoError(t, cmd.Flags().Set("data", "@"+filepath.Join(t.TempDir(), "missing")))
	assert.ErrorContains(t, applyRequestFlags(cmd, c.Post("/")), "failed to read request body")
}
