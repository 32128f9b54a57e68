package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kitchenbook/kitchenbook/internal/ledger"
)

func newVATCommand(opts *options) *cobra.Command {
	vatCmd := &cobra.Command{
		Use:   "vat",
		Short: "VAT positions and filing periods",
	}
	vatCmd.AddCommand(newVATQuarterCommand(opts), newVATReportCommand(opts))
	return vatCmd
}

func newVATQuarterCommand(opts *options) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "quarter",
		Short: "Show the fiscal quarter, its filing deadline and VAT position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseDate(date)
			if err != nil {
				return err
			}
			q := ledger.CurrentFiscalQuarter(ref)

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			recs, err := a.svc.List(cmd.Context(), q.Range())
			if err != nil {
				return err
			}
			pos, err := ledger.Aggregate(recs, q.Range())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', 0)
			fmt.Fprintf(tw, "Fiscal quarter:\t%s %d\n", q.Label(), q.Year)
			fmt.Fprintf(tw, "Filing deadline:\t%s\n", q.DeadlineString())
			writePosition(tw, pos)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reference date (YYYY-MM-DD, default today)")
	return cmd
}

func newVATReportCommand(opts *options) *cobra.Command {
	var rf rangeFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize sales, expenses and the VAT position over a range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseDate("")
			if err != nil {
				return err
			}
			rng, err := rf.resolve(ledger.CurrentFiscalQuarter(now).Range())
			if err != nil {
				return err
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
			s, err := ledger.Summarize(recs, rng)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := writeSummary(out, s); err != nil {
				return err
			}
			if rf.year != 0 {
				writeKOR(out, s, a.cfg.VAT.Threshold(), a.cfg.VAT.KOROptIn)
			}
			return nil
		},
	}

	rf.register(cmd)
	return cmd
}

func writePosition(w io.Writer, pos ledger.Position) {
	r := pos.Rounded()
	fmt.Fprintf(w, "VAT on sales:\t%s\n", r.VATOutput.StringFixed(2))
	fmt.Fprintf(w, "VAT on expenses:\t%s\n", r.VATInput.StringFixed(2))
	switch pos.Direction() {
	case ledger.DirectionPay:
		fmt.Fprintf(w, "Net position:\t%s to pay\n", r.Net.StringFixed(2))
	case ledger.DirectionRefund:
		fmt.Fprintf(w, "Net position:\t%s refund\n", r.Net.Abs().StringFixed(2))
	default:
		fmt.Fprintf(w, "Net position:\t%s\n", r.Net.StringFixed(2))
	}
}

func writeSummary(out io.Writer, s ledger.Summary) error {
	fmt.Fprintf(out, "VAT report %s (%d records)\n\n", s.Range, s.Records)

	tw := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Sales (incl. VAT):\t%s\n", money(s.SalesGross))
	fmt.Fprintf(tw, "Sales (excl. VAT):\t%s\n", money(s.SalesNet))
	fmt.Fprintf(tw, "Expenses (incl. VAT):\t%s\n", money(s.ExpensesGross))
	fmt.Fprintf(tw, "Expenses (excl. VAT):\t%s\n", money(s.ExpensesNet))
	writePosition(tw, s.Position)
	fmt.Fprintf(tw, "Estimated profit:\t%s\n", money(s.Profit))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.ExpensesByCategory) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nExpenses by category:")
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tGROSS\tVAT")
	for _, ct := range s.ExpensesByCategory {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ct.Category, money(ct.Gross), money(ct.VAT))
	}
	return tw.Flush()
}

func writeKOR(out io.Writer, s ledger.Summary, threshold decimal.Decimal, optIn bool) {
	if !ledger.KOREligible(s.SalesNet, threshold) {
		fmt.Fprintf(out, "\nKOR: not eligible (turnover %s, threshold %s)\n", money(s.SalesNet), money(threshold))
		return
	}
	fmt.Fprintf(out, "\nKOR: eligible (turnover %s, threshold %s)\n", money(s.SalesNet), money(threshold))
	if optIn {
		fmt.Fprintln(out, "KOR is enabled: no VAT is charged or reclaimed, the position above is informational.")
	}
}
