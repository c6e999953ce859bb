package main

import (
	"errors"
	"strings"

	"github.com/brizzai/httpmapper/internal/catalog"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var errNoSpecFile = errors.New("spec file is required, you must supply it with --spec-file")

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the operations of the OpenAPI/Swagger document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			if d.cfg.Catalog.SpecFile == "" {
				return errNoSpecFile
			}
			return renderRoutes(d.catalog.Routes())
		},
	}
}

func renderRoutes(routes []*catalog.Route) error {
	if len(routes) == 0 {
		pterm.Warning.Println("No routes selected")
		return nil
	}

	data := pterm.TableData{{"ID", "Method", "Path", "Params", "Description"}}
	for _, route := range routes {
		params := append(append([]string{}, route.PathParams...), route.QueryParams...)
		data = append(data, []string{
			route.ID,
			route.Method,
			route.Path,
			strings.Join(params, ", "),
			firstLine(route.Description),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Info.Printfln("%s routes", pterm.LightGreen(len(routes)))
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
