package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kitchenbook/kitchenbook/internal/auditlog"
	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/model"
	"github.com/kitchenbook/kitchenbook/internal/records"
)

// addKind describes the expense and sale command groups, which differ only
// in naming.
type addKind struct {
	kind             model.Kind
	counterpartyFlag string
	counterpartyHelp string
	defaultSource    model.Source
}

var (
	kindExpense = addKind{
		kind:             model.KindExpense,
		counterpartyFlag: "supplier",
		counterpartyHelp: "supplier name",
		defaultSource:    model.SourceManual,
	}
	kindSale = addKind{
		kind:             model.KindSale,
		counterpartyFlag: "client",
		counterpartyHelp: "client or customer name",
		defaultSource:    model.SourceManual,
	}
)

func newAddCommand(opts *options, k addKind) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   string(k.kind),
		Short: fmt.Sprintf("Manage %s records", k.kind),
	}
	groupCmd.AddCommand(newAddSubcommand(opts, k))
	return groupCmd
}

func newAddSubcommand(opts *options, k addKind) *cobra.Command {
	var (
		date, amount, category  string
		description, party      string
		source, reference, note string
		rate                    int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Record a VAT-inclusive %s", k.kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			d, err := parseDate(date)
			if err != nil {
				return err
			}
			gross, err := parseAmount(amount)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rate") {
				rate = a.cats.DefaultRate(category, a.cfg.VAT.DefaultRate)
			}
			src := model.Source(source)
			if src == "" {
				src = k.defaultSource
			}

			rec, err := a.svc.Add(cmd.Context(), records.AddParams{
				Date:         d,
				Kind:         k.kind,
				Description:  description,
				Category:     category,
				Gross:        gross,
				VATRate:      rate,
				Counterparty: party,
				Source:       src,
				Reference:    reference,
				Notes:        note,
			})
			if err != nil {
				return err
			}
			a.record(auditlog.ActionAdd, rec.ID, describeRecord(rec))
			a.commit(cmd.Context(), fmt.Sprintf("add: %s %s", rec.ID, describeRecord(rec)))
			printAdded(cmd.OutOrStdout(), rec)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "record date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&amount, "amount", "", "gross amount including VAT (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&category, "category", "", "category name (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().IntVar(&rate, "rate", 0, "VAT rate: 0, 9 or 21 (default: the category's rate)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&party, k.counterpartyFlag, "", k.counterpartyHelp)
	cmd.Flags().StringVar(&source, "source", "", "source or order channel (manual, call, website, whatsapp, platform)")
	cmd.Flags().StringVar(&reference, "reference", "", "external reference")
	cmd.Flags().StringVar(&note, "notes", "", "free-form notes")

	return cmd
}

func describeRecord(rec model.Record) string {
	return fmt.Sprintf("%s %s @%d%% %s", rec.Kind, rec.Gross.StringFixed(2), rec.VATRate, rec.Category)
}

func printAdded(out io.Writer, rec model.Record) {
	vat, _ := ledger.VATPortion(rec.Gross, rec.VATRate)
	fmt.Fprintf(out, "Added %s: %s %s EUR @ %d%% (VAT %s) %s\n",
		rec.ID, rec.Kind, rec.Gross.StringFixed(2), rec.VATRate, money(vat), rec.Category)
}
