package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"CartStore/internal/config"
)

type globalFlags struct {
	configPath string
	catalogs   []string
	logLevel   string
}

func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:          "shop",
		Short:        "Catalog search and shopping cart",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML config file (optional)")
	cmd.PersistentFlags().StringSliceVar(&g.catalogs, "catalog", nil, "Catalog YAML file (repeatable)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(serveCmd(g))
	cmd.AddCommand(itemsCmd(g))
	cmd.AddCommand(shellCmd(g))
	return cmd
}

// load resolves config with command-line flags taking precedence over file and env.
func (g *globalFlags) load() (*config.Config, error) {
	overrides := map[string]any{}
	if len(g.catalogs) > 0 {
		overrides["catalog.path"] = strings.Join(g.catalogs, ",")
	}
	if g.logLevel != "" {
		overrides["log.level"] = g.logLevel
	}
	return config.Load(g.configPath, overrides)
}
