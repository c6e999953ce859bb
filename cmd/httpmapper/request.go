package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brizzai/httpmapper/internal/client"
	"github.com/brizzai/httpmapper/internal/mapper"
	"github.com/brizzai/httpmapper/internal/requester"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// outputOptions control how a response is printed
type outputOptions struct {
	query       string
	schemaFile  string
	schema      string
	showHeaders bool
}

func newRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send a request to PATH below the base URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := requester.ParseMethod(args[0])
			if err != nil {
				return err
			}
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			defer d.printMetrics()

			dispatch := d.client.Request(method, args[1])
			if err := applyRequestFlags(cmd, dispatch); err != nil {
				return err
			}
			opts, err := readOutputOptions(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), dispatch, opts, cmd.OutOrStdout())
		},
	}
	addRequestFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	cmd.Flags().StringP("data", "d", "", "Request body, prefix with @ to read it from a file")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("query", "q", "", "Print only the JSON value at this path of the response body")
	cmd.Flags().String("schema", "", "Validate the JSON response body against the JSON schema in this file")
	cmd.Flags().BoolP("include", "i", false, "Print the response status line and headers")
}

// applyRequestFlags adds the --header and --data values to the dispatch
func applyRequestFlags(cmd *cobra.Command, d *client.Dispatch) error {
	headers, _ := cmd.Flags().GetStringArray("header")
	for _, header := range headers {
		name, value, ok := parseHeader(header)
		if !ok {
			return fmt.Errorf("invalid header %q, expected 'Name: value'", header)
		}
		d.WithHeader(name, value)
	}

	data, _ := cmd.Flags().GetString("data")
	if data == "" {
		return nil
	}
	if strings.HasPrefix(data, "@") {
		raw, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return fmt.Errorf("failed to read request body: %w", err)
		}
		data = string(raw)
	}
	if !d.Headers().Has("Content-Type") && gjson.Valid(data) {
		d.WithHeader("Content-Type", mapper.JSON.String())
	}
	d.WithInput(func() any { return data })
	return nil
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	var opts outputOptions
	opts.query, _ = cmd.Flags().GetString("query")
	opts.schemaFile, _ = cmd.Flags().GetString("schema")
	opts.showHeaders, _ = cmd.Flags().GetBool("include")
	if opts.schemaFile != "" {
		raw, err := os.ReadFile(opts.schemaFile)
		if err != nil {
			return opts, fmt.Errorf("failed to read schema: %w", err)
		}
		opts.schema = string(raw)
	}
	return opts, nil
}

// parseHeader splits a "Name: value" header flag
func parseHeader(header string) (string, string, bool) {
	name, value, ok := strings.Cut(header, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}

// run executes the dispatch and prints the response. Responses outside 2xx are
// printed and reported as an error.
func run(ctx context.Context, d *client.Dispatch, opts outputOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.schema != "" {
		schema, err := mapper.CompileSchema(opts.schemaFile, opts.schema)
		if err != nil {
			return err
		}
		m := mapper.UseDocuments(mapper.New())
		m.RegisterDeserializer(mapper.TypeOf[gjson.Result](), mapper.Validated(schema, mapper.DocumentCodec{}))
		d.WithMapper(m)
	}

	resp, err := d.Execute(ctx)
	if err != nil {
		return err
	}

	if opts.showHeaders {
		fmt.Fprintf(out, "%d %s\n", resp.StatusCode(), resp.Status())
		h := resp.Headers()
		for _, name := range h.Names() {
			fmt.Fprintf(out, "%s: %s\n", name, strings.Join(h.Get(name), ", "))
		}
		fmt.Fprintln(out)
	}

	if err := printBody(resp, opts, out); err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("request failed: %d %s", resp.StatusCode(), resp.Status())
	}
	return nil
}

func printBody(resp *requester.Response, opts outputOptions, out io.Writer) error {
	if opts.schema != "" && resp.IsSuccess() {
		if _, err := requester.EntityAs[gjson.Result](resp); err != nil {
			return err
		}
		pterm.Success.Println("Response matches schema")
	}

	if opts.query != "" {
		result, err := mapper.Query(resp.RawBody(), opts.query)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result.String())
		return nil
	}

	body, err := requester.EntityAs[string](resp)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, body)
	return nil
}
