package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kitchenbook/kitchenbook/internal/auditlog"
	"github.com/kitchenbook/kitchenbook/internal/invoice"
	"github.com/kitchenbook/kitchenbook/internal/ledger"
)

func newInvoiceCommand(opts *options) *cobra.Command {
	invoiceCmd := &cobra.Command{
		Use:   "invoice",
		Short: "Issue outgoing invoices",
	}
	invoiceCmd.AddCommand(
		newInvoiceAddCommand(opts),
		newInvoiceListCommand(opts),
		newInvoiceMarkCommand(opts),
	)
	return invoiceCmd
}

func newInvoiceAddCommand(opts *options) *cobra.Command {
	var client, date, category, status string
	var rawItems []string
	var rate int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an invoice and record it as a sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(date)
			if err != nil {
				return err
			}
			st, err := invoice.ParseStatus(status)
			if err != nil {
				return err
			}
			items := make([]invoice.LineItem, 0, len(rawItems))
			for _, raw := range rawItems {
				li, err := invoice.ParseLineItem(raw)
				if err != nil {
					return err
				}
				items = append(items, li)
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			if !cmd.Flags().Changed("rate") {
				rate = a.cats.DefaultRate(category, a.cfg.VAT.DefaultRate)
			}

			yearRecs, err := a.svc.List(cmd.Context(), ledger.YearRange(d.Year()))
			if err != nil {
				return err
			}
			number := invoice.NextNumber(yearRecs, d.Year())

			inv, err := invoice.Build(number, client, d, items, rate, a.cfg.Invoice.PaymentTermDays)
			if err != nil {
				return err
			}
			inv.Status = st

			rec, err := a.svc.Add(cmd.Context(), inv.Record(category))
			if err != nil {
				return err
			}
			if err := invoice.NewRegister(a.root).Add(inv.Entry(rec.ID)); err != nil {
				return fmt.Errorf("%s recorded as %s but not registered: %w", inv.Number, rec.ID, err)
			}
			a.record(auditlog.ActionInvoice, rec.ID, inv.Number+" "+describeRecord(rec))
			a.commit(cmd.Context(), fmt.Sprintf("invoice: %s %s", inv.Number, rec.ID))

			if err := printInvoice(cmd.OutOrStdout(), inv); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded as %s\n", rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&client, "client", "", "client name (required)")
	_ = cmd.MarkFlagRequired("client")
	cmd.Flags().StringArrayVar(&rawItems, "item", nil, `line item "description:quantity:unit_price" excluding VAT (repeatable, required)`)
	_ = cmd.MarkFlagRequired("item")
	cmd.Flags().StringVar(&date, "date", "", "invoice date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&category, "category", invoice.DefaultCategory, "sale category")
	cmd.Flags().IntVar(&rate, "rate", 0, "VAT rate: 0, 9 or 21 (default: the category's rate)")
	cmd.Flags().StringVar(&status, "status", string(invoice.StatusDraft), "initial status: draft, sent or paid")

	return cmd
}

func newInvoiceListCommand(opts *options) *cobra.Command {
	var outstanding bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issued invoices and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			entries, err := invoice.NewRegister(a.root).List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			today := ledger.Day(time.Now())
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			shown := 0
			for _, e := range entries {
				if outstanding && !e.Status.Outstanding() {
					continue
				}
				if shown == 0 {
					fmt.Fprintln(tw, "NUMBER\tCLIENT\tDATE\tDUE\tTOTAL\tSTATUS\tRECORD")
				}
				st := string(e.Status)
				if e.Overdue(today) {
					st += " (overdue)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					e.Number, e.Client,
					e.Date.Format(ledger.DateFormat), e.DueDate.Format(ledger.DateFormat),
					money(e.Total), st, e.RecordID)
				shown++
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if shown == 0 {
				fmt.Fprintln(out, "No invoices.")
				return nil
			}
			fmt.Fprintf(out, "%d invoices\n", shown)
			return nil
		},
	}

	cmd.Flags().BoolVar(&outstanding, "outstanding", false, "only invoices not yet paid")
	return cmd
}

func newInvoiceMarkCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <number> <draft|sent|paid>",
		Short: "Change the status of an invoice",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := invoice.ParseStatus(args[1])
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			e, err := invoice.NewRegister(a.root).SetStatus(args[0], st)
			if err != nil {
				return err
			}
			a.record(auditlog.ActionInvoice, e.RecordID, fmt.Sprintf("%s marked %s", e.Number, st))
			a.commit(cmd.Context(), fmt.Sprintf("invoice: %s %s", e.Number, st))

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", e.Number, st)
			return nil
		},
	}
}

func printInvoice(out io.Writer, inv invoice.Invoice) error {
	fmt.Fprintf(out, "Invoice %s for %s (%s)\n", inv.Number, inv.Client, inv.Status)
	fmt.Fprintf(out, "Date %s, due %s\n\n", inv.Date.Format(ledger.DateFormat), inv.DueDate.Format(ledger.DateFormat))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DESCRIPTION\tQTY\tPRICE\tAMOUNT\t")
	for _, li := range inv.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", li.Description, li.Quantity, money(li.UnitPrice), money(li.Amount()))
	}
	fmt.Fprintf(tw, "Subtotal\t\t\t%s\t\n", money(inv.Subtotal))
	fmt.Fprintf(tw, "VAT %d%%\t\t\t%s\t\n", inv.VATRate, money(inv.VAT))
	fmt.Fprintf(tw, "Total\t\t\t%s\t\n", money(inv.Total))
	return tw.Flush()
}
