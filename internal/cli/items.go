package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"CartStore/internal/catalog"
)

func itemsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "Print the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}

			items, err := loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(catalog is empty)")
				return nil
			}
			printItems(cmd.OutOrStdout(), items)
			return nil
		},
	}
}

func printItems(w io.Writer, items []catalog.Item) {
	for _, it := range items {
		line := fmt.Sprintf("%-24s %8d", it.Name(), it.Price())
		if tags := it.Hashtags(); len(tags) > 0 {
			line += "  #" + strings.Join(tags, " #")
		}
		fmt.Fprintln(w, line)
	}
}
