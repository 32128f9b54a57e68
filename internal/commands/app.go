package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kitchenbook/kitchenbook/internal/auditlog"
	"github.com/kitchenbook/kitchenbook/internal/categories"
	"github.com/kitchenbook/kitchenbook/internal/config"
	"github.com/kitchenbook/kitchenbook/internal/gitops"
	"github.com/kitchenbook/kitchenbook/internal/log"
	"github.com/kitchenbook/kitchenbook/internal/records"
)

// app is the opened project a command works on.
type app struct {
	root   string
	cfg    *config.Config
	logger *log.Logger
	cats   *categories.Service
	store  records.Store
	svc    *records.Service
	audit  *auditlog.Logger
	git    *gitops.Repo

	closeStore func() error
}

func newLogger(cmd *cobra.Command, opts *options) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = cmd.ErrOrStderr()
	if opts.verbose {
		cfg.Level = slog.LevelDebug
	}
	return log.New(cfg)
}

// openApp loads the project at --repo and opens its record store.
func openApp(cmd *cobra.Command, opts *options) (*app, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	logger := newLogger(cmd, opts)

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s is not a kitchenbook project (run kitchenbook init)", root)
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.FileName, err)
	}

	cats, err := categories.Load(root)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(root, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("project opened",
		log.FieldPath, root,
		log.FieldBackend, cfg.Storage.Backend)

	return &app{
		root:       root,
		cfg:        cfg,
		logger:     logger,
		cats:       cats,
		store:      store,
		svc:        records.NewService(store, cats, logger),
		audit:      auditlog.New(root, cfg.Audit.Actor),
		git:        gitops.New(root, cfg.Git.AuthorName, cfg.Git.AuthorEmail),
		closeStore: closeStore,
	}, nil
}

func openStore(root string, cfg *config.Config, logger *log.Logger) (records.Store, func() error, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		path := cfg.Storage.SQLitePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		s, err := records.NewSQLiteStore(path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, s.Close, nil
	default:
		return records.NewFileStore(root, logger), func() error { return nil }, nil
	}
}

// record writes an audit entry; a failure is logged rather than returned
// because the mutation itself already succeeded.
func (a *app) record(action auditlog.Action, recordID, details string) {
	if err := a.audit.Log(action, recordID, details); err != nil {
		a.logger.Warn("failed to write audit log", log.FieldError, err, log.FieldRecordID, recordID)
	}
}

// close releases the record store. Commands defer it after their work is
// done, so a failure is logged.
func (a *app) close() {
	if err := a.closeStore(); err != nil {
		a.logger.Warn("failed to close record store", log.FieldError, err, log.FieldBackend, a.cfg.Storage.Backend)
	}
}

// commit records the project's changes in git when auto_commit is on.
// Failures are logged: the records are already stored.
func (a *app) commit(ctx context.Context, message string) {
	if !a.cfg.Git.AutoCommit || !a.git.IsRepo() {
		return
	}
	hash, err := a.git.Commit(ctx, message)
	if err != nil {
		a.logger.Warn("git commit failed", log.FieldError, err)
		return
	}
	if hash != "" {
		a.logger.Debug("committed changes", "commit", hash)
	}
}
