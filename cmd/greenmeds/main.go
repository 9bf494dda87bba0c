package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazyhaar/greenmeds/pkg/api"
	"github.com/hazyhaar/greenmeds/pkg/catalog"
	"github.com/hazyhaar/greenmeds/pkg/config"
	"github.com/hazyhaar/greenmeds/pkg/resolve"
)

var (
	cfg         *config.Config
	configPath  string
	catalogPath string
)

var rootCmd = &cobra.Command{
	Use:   "greenmeds",
	Short: "Medicine eco-toxicity lookup",
	Long: "Resolves medicine names typed by hand or read from a package photo against a fixed catalog, " +
		"and reports an eco-toxicity score with disposal guidance.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if catalogPath != "" {
			c.Catalog.Path = catalogPath
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./greenmeds.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog CSV, snapshot or directory (overrides catalog.path)")
}

// newService loads the configured catalog and wires the endpoints over it.
func newService() (*api.Service, error) {
	store, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("catalog loaded",
		zap.String("source", store.Source()),
		zap.Int("records", store.Len()),
		zap.Int("issues", len(store.Issues())))

	r := resolve.NewResolver(store, cfg.Resolver.Options())
	return api.NewService(r, cfg.Batch.Concurrency), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
