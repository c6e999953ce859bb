package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/brizzai/httpmapper/internal/catalog"
	"github.com/brizzai/httpmapper/internal/client"
	"github.com/brizzai/httpmapper/internal/config"
	"github.com/brizzai/httpmapper/internal/logger"
	"github.com/brizzai/httpmapper/internal/mapper"
	"github.com/brizzai/httpmapper/internal/metrics"
	"github.com/brizzai/httpmapper/internal/requester"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "httpmapper",
	Short: "Issue HTTP requests and map their entities",
	Long: `httpmapper sends HTTP requests against a base URL, decodes response entities by
content type and dispatches operations described by an OpenAPI/Swagger document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	}

	rootCmd.AddCommand(newRequestCmd(), newRoutesCmd(), newCallCmd())
}

// deps are the components a command works with
type deps struct {
	cfg      *config.Config
	client   *client.Client
	catalog  *catalog.Catalog
	registry *prometheus.Registry
}

// newDeps loads the configuration from the command flags and assembles the
// components through fx
func newDeps(cmd *cobra.Command) (*deps, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.InitLogger(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	d := &deps{cfg: cfg}
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		mapper.Module,
		requester.Module,
		metrics.Module,
		catalog.Module,
		client.Module,
		fx.Populate(&d.client, &d.catalog, &d.registry),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// printMetrics writes the exchange counters when metrics are enabled
func (d *deps) printMetrics() {
	if !d.cfg.Metrics.Enabled {
		return
	}
	families, err := d.registry.Gather()
	if err != nil {
		logger.Warn("failed to gather metrics", zap.Error(err))
		return
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := ""
			for _, pair := range metric.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", pair.GetName(), pair.GetValue())
			}
			switch {
			case metric.GetCounter() != nil:
				pterm.Info.Printfln("%s%s %v", family.GetName(), labels, metric.GetCounter().GetValue())
			case metric.GetHistogram() != nil:
				pterm.Info.Printfln("%s%s count=%d sum=%.3fs", family.GetName(), labels,
					metric.GetHistogram().GetSampleCount(), metric.GetHistogram().GetSampleSum())
			}
		}
	}
}
