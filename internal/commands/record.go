package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kitchenbook/kitchenbook/internal/auditlog"
	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/model"
)

func newRecordCommand(opts *options) *cobra.Command {
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "List and delete records",
	}
	recordCmd.AddCommand(newRecordListCommand(opts), newRecordDeleteCommand(opts))
	return recordCmd
}

func newRecordListCommand(opts *options) *cobra.Command {
	var rf rangeFlags
	var kind string
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records in a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := rf.resolve(ledger.AllTime())
			if err != nil {
				return err
			}
			if kind != "" && !model.Kind(kind).Valid() {
				return fmt.Errorf("unknown kind %q: want expense or sale", kind)
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			recs, err := a.svc.List(cmd.Context(), rng)
			if err != nil {
				return err
			}

			var shown []model.Record
			for _, rec := range recs {
				if kind != "" && rec.Kind != model.Kind(kind) {
					continue
				}
				if category != "" && rec.Category != category {
					continue
				}
				shown = append(shown, rec)
			}
			return printRecords(cmd.OutOrStdout(), shown)
		},
	}

	rf.register(cmd)
	cmd.Flags().StringVar(&kind, "kind", "", "only expense or sale records")
	cmd.Flags().StringVar(&category, "category", "", "only records in this category")

	return cmd
}

func printRecords(out io.Writer, recs []model.Record) error {
	if len(recs) == 0 {
		fmt.Fprintln(out, "No records.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tKIND\tCATEGORY\tGROSS\tRATE\tVAT\tDESCRIPTION")
	for _, rec := range recs {
		vat, err := ledger.VATPortion(rec.Gross, rec.VATRate)
		if err != nil {
			return fmt.Errorf("record %s: %w", rec.ID, err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d%%\t%s\t%s\n",
			rec.ID, rec.Date.Format(ledger.DateFormat), rec.Kind, rec.Category,
			rec.Gross.StringFixed(2), rec.VATRate, money(vat), rec.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d records\n", len(recs))
	return nil
}

func newRecordDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.record(auditlog.ActionDelete, args[0], "deleted")
			a.commit(cmd.Context(), "delete: "+args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
