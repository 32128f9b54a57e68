package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kitchenbook/kitchenbook/internal/auditlog"
	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/log"
	"github.com/kitchenbook/kitchenbook/internal/receipt"
)

func newReceiptCommand(opts *options) *cobra.Command {
	receiptCmd := &cobra.Command{
		Use:   "receipt",
		Short: "Record expenses from receipt scans",
	}
	receiptCmd.AddCommand(newReceiptAddCommand(opts))
	return receiptCmd
}

func newReceiptAddCommand(opts *options) *cobra.Command {
	var category string
	var date string
	var supplier string

	cmd := &cobra.Command{
		Use:   "add <scan.json|->",
		Short: "Record an expense from a receipt scanner JSON response",
		Long: `Reads the JSON object a receipt scanner returns, for example
{"amount": 45.00, "vatRate": 9, "description": "Basmati Rice", "category": "ingredients", "date": "2023-10-25"}
and records it as an expense. Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading scan: %w", err)
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			scan, err := receipt.Parse(data)
			if err != nil {
				a.logger.WithComponent(log.ComponentReceipt).Warn("rejected receipt scan",
					log.FieldOperation, log.OpParse, log.FieldError, err)
				return err
			}

			params := scan.Record(ledger.Day(time.Now()))
			if category != "" {
				params.Category = category
			}
			if date != "" {
				if params.Date, err = parseDate(date); err != nil {
					return err
				}
			}
			params.Counterparty = supplier

			rec, err := a.svc.Add(cmd.Context(), params)
			if err != nil {
				return err
			}
			a.record(auditlog.ActionScan, rec.ID, describeRecord(rec)+" "+rec.Reference)
			a.commit(cmd.Context(), fmt.Sprintf("scan: %s %s", rec.ID, describeRecord(rec)))
			printAdded(cmd.OutOrStdout(), rec)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "override the scanned category")
	cmd.Flags().StringVar(&date, "date", "", "override the scanned date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&supplier, "supplier", "", "supplier name")

	return cmd
}
