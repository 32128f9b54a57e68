package commands

import (
	"github.com/spf13/cobra"

	"github.com/kitchenbook/kitchenbook/internal/buildinfo"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	repo    string
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "kitchenbook",
		Short:   "VAT bookkeeping for a cloud kitchen",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "project directory")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAddCommand(opts, kindExpense),
		newAddCommand(opts, kindSale),
		newInvoiceCommand(opts),
		newRecordCommand(opts),
		newCategoryCommand(opts),
		newVATCommand(opts),
		newImportCommand(opts),
		newReceiptCommand(opts),
	)

	return rootCmd
}
