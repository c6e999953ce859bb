package catalog

import (
	"github.com/brizzai/httpmapper/internal/config"
	"go.uber.org/fx"
)

// Module provides the catalog loaded from the configured document and selection files
var Module = fx.Module("catalog",
	fx.Provide(
		NewSelection,
		NewFromConfig,
		func(c *Catalog) Loader { return c },
	),
)

// NewFromConfig creates a catalog and loads the configured document. Without a document
// file the catalog is empty.
func NewFromConfig(cfg *config.Config, selection *Selection) (*Catalog, error) {
	c := NewCatalog(selection)
	if cfg.Catalog.SpecFile == "" {
		return c, nil
	}
	if err := c.Load(cfg.Catalog.SpecFile, cfg.Catalog.SelectionFile); err != nil {
		return nil, err
	}
	return c, nil
}
