package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kitchenbook/kitchenbook/internal/auditlog"
	"github.com/kitchenbook/kitchenbook/internal/categories"
	"github.com/kitchenbook/kitchenbook/internal/config"
	"github.com/kitchenbook/kitchenbook/internal/gitops"
	"github.com/kitchenbook/kitchenbook/internal/records"
)

func newInitCommand(opts *options) *cobra.Command {
	var name string
	var businessType string
	var backend string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new kitchenbook project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.repo
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, name, businessType, backend, useGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&businessType, "type", "cloud_kitchen", "business type")
	cmd.Flags().StringVar(&backend, "backend", config.BackendCSV, "record storage backend (csv or sqlite)")
	cmd.Flags().BoolVar(&useGit, "git", false, "keep the project in a git repository and commit every change")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name, businessType, backend string, useGit bool) error {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	cfg := config.Default(name, businessType)
	cfg.Storage.Backend = backend
	cfg.Git.AutoCommit = useGit
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	dirs := []string{
		"categories",
		"records",
		"receipts",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	svc := categories.NewService(categories.DefaultSet(businessType))
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}

	// Create the database up front so a bad path fails here.
	if backend == config.BackendSQLite {
		s, err := records.NewSQLiteStore(filepath.Join(dir, cfg.Storage.SQLitePath), nil)
		if err != nil {
			return fmt.Errorf("creating database: %w", err)
		}
		s.Close()
	}

	gitignore := "receipts/\ndata/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if err := auditlog.New(dir, cfg.Audit.Actor).Log(auditlog.ActionInit, "", "initialized "+name); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if useGit {
		repo := gitops.New(dir, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err := repo.Init(cmd.Context()); err != nil {
			return err
		}
		hash, err := repo.Commit(cmd.Context(), "init: Initialize "+name)
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Fprintf(out, "Initialized git repository (%s)\n", hash)
	}

	fmt.Fprintf(out, "Initialized kitchenbook project at %s (%s storage, %d categories)\n", dir, backend, len(svc.All()))
	return nil
}
