package main

import (
	"github.com/spf13/cobra"
)

func newCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call OPERATION",
		Short: "Dispatch an operation of the OpenAPI/Swagger document by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			if d.cfg.Catalog.SpecFile == "" {
				return errNoSpecFile
			}
			defer d.printMetrics()

			route, err := d.catalog.Find(args[0])
			if err != nil {
				return err
			}
			params, _ := cmd.Flags().GetStringToString("param")

			dispatch := d.client.Route(route, params)
			if err := applyRequestFlags(cmd, dispatch); err != nil {
				return err
			}
			opts, err := readOutputOptions(cmd)
			if err != nil {
				return err
			}
			validate, _ := cmd.Flags().GetBool("validate")
			if validate && opts.schema == "" && route.ResponseSchema != "" {
				opts.schemaFile = route.ID
				opts.schema = route.ResponseSchema
			}
			return run(cmd.Context(), dispatch, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringToStringP("param", "p", map[string]string{}, "Path and query parameters as name=value")
	cmd.Flags().Bool("validate", false, "Validate the response against the schema the document declares")
	addRequestFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}
