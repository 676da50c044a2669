package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"CartStore/internal/catalog"
	"CartStore/internal/shop"
)

const shellHelp = `commands:
  items               list the catalog
  search <fragment>   ranked items whose name contains fragment
  tag <hashtag>       ranked items carrying hashtag
  add <fragment>      add the single matching item to the cart
  remove <fragment>   remove the single matching cart item
  cart                show cart contents
  checkout            show cart subtotal
  help                this text
  quit                leave`

func shellCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive cart session on stdin/stdout",
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

			return runShell(cmd.Context(), shop.New(items), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runShell(ctx context.Context, st *shop.Store, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)

	fmt.Fprintln(out, `type "help" for commands`)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		verb, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch verb {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, shellHelp)
		case "items":
			printItems(out, st.Items())
		case "search":
			printResults(out, st.SearchByName(arg))
		case "tag":
			printResults(out, st.SearchByHashtag(arg))
		case "add":
			it, err := st.AddItem(arg)
			if err != nil {
				fmt.Fprintln(out, describe(err))
				continue
			}
			fmt.Fprintf(out, "added %s\n", it.Name())
		case "remove":
			it, err := st.RemoveItem(arg)
			if err != nil {
				fmt.Fprintln(out, describe(err))
				continue
			}
			fmt.Fprintf(out, "removed %s\n", it.Name())
		case "cart":
			printResults(out, st.Cart())
		case "checkout":
			fmt.Fprintf(out, "subtotal %d\n", st.Checkout())
		default:
			fmt.Fprintf(out, "unknown command %q\n", verb)
		}
	}
}

func printResults(w io.Writer, items []catalog.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	printItems(w, items)
}

func describe(err error) string {
	switch {
	case errors.Is(err, catalog.ErrTooManyMatches):
		return "too many matches: " + strings.Join(catalog.MatchesOf(err), ", ")
	case errors.Is(err, catalog.ErrAlreadyExists):
		return "already in cart"
	case errors.Is(err, catalog.ErrNotFound):
		return "not found"
	default:
		return "error: " + err.Error()
	}
}
