package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kitchenbook/kitchenbook/internal/model"
)

func newCategoryCommand(opts *options) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Inspect record categories",
	}

	var kind string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories and their default VAT rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			cats := a.cats.All()
			if kind != "" {
				if !model.Kind(kind).Valid() {
					return fmt.Errorf("unknown kind %q: want expense or sale", kind)
				}
				cats = a.cats.ByKind(model.Kind(kind))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tRATE\tDESCRIPTION")
			for _, c := range cats {
				fmt.Fprintf(tw, "%s\t%s\t%d%%\t%s\n", c.Name, c.Kind, c.DefaultRate, c.Description)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().StringVar(&kind, "kind", "", "only expense or sale categories")

	categoryCmd.AddCommand(listCmd)
	return categoryCmd
}
