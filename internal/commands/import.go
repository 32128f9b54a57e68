package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kitchenbook/kitchenbook/internal/auditlog"
	"github.com/kitchenbook/kitchenbook/internal/importer"
	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/log"
	"github.com/kitchenbook/kitchenbook/internal/records"
)

func newImportCommand(opts *options) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import exported CSV files from import/",
	}
	importCmd.AddCommand(newImportRunCommand(opts))
	return importCmd
}

func newImportRunCommand(opts *options) *cobra.Command {
	var format string
	var dryRun bool

	registry := importer.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Parse every CSV in import/ and record its rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q (available: %s)", format, strings.Join(registry.Formats(), ", "))
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			logger := a.logger.WithComponent(log.ComponentImporter)

			files, err := importer.Scan(a.root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "Nothing to import.")
				return nil
			}

			existing, err := a.svc.List(cmd.Context(), ledger.AllTime())
			if err != nil {
				return err
			}
			seen := make(map[string]bool, len(existing))
			for _, rec := range existing {
				if rec.Reference != "" {
					seen[referenceKey(string(rec.Kind), rec.Reference)] = true
				}
			}

			for _, f := range files {
				params, err := importer.ParseFile(parser, f.Path)
				if err != nil {
					return err
				}

				var fresh []records.AddParams
				skipped := 0
				for _, p := range params {
					key := referenceKey(string(p.Kind), p.Reference)
					if p.Reference != "" && seen[key] {
						skipped++
						continue
					}
					seen[key] = true
					fresh = append(fresh, p)
				}

				logger.Info("parsed import file",
					log.FieldOperation, log.OpImport,
					log.FieldFile, f.Name,
					log.FieldFormat, parser.Format(),
					log.FieldCount, len(fresh),
					"skipped", skipped)

				if dryRun {
					fmt.Fprintf(out, "%s: %d new records, %d duplicates (dry run)\n", f.Name, len(fresh), skipped)
					continue
				}

				added, err := a.svc.AddBatch(cmd.Context(), fresh)
				if err != nil {
					return fmt.Errorf("importing %s: %w", f.Name, err)
				}
				for _, rec := range added {
					a.record(auditlog.ActionImport, rec.ID, f.Name+": "+describeRecord(rec))
				}
				if err := importer.MarkProcessed(a.root, f.Name); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: imported %d records, skipped %d duplicates\n", f.Name, len(added), skipped)
				a.commit(cmd.Context(), fmt.Sprintf("import: %s (%d records)", f.Name, len(added)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "export format ("+strings.Join(registry.Formats(), ", ")+")")
	_ = cmd.MarkFlagRequired("format")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse files without recording anything")

	return cmd
}

// referenceKey scopes a reference to a record kind: an order's sale and its
// platform fee share one reference.
func referenceKey(kind, ref string) string {
	return kind + "/" + ref
}
