package gitops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoGit is returned when the git binary is not on PATH.
var ErrNoGit = errors.New("git not found on PATH")

// Available reports whether git can be run.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Repo runs git in a project directory under a fixed identity.
type Repo struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// New returns a Repo for dir committing as name <email>.
func New(dir, name, email string) *Repo {
	return &Repo{Dir: dir, AuthorName: name, AuthorEmail: email}
}

// Init initializes a new git repository.
func (r *Repo) Init(ctx context.Context) error {
	if !Available() {
		return ErrNoGit
	}
	if out, err := r.git(ctx, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether the directory holds a git repository.
func (r *Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// Commit stages paths (everything when none are given) and commits them.
// It returns the short hash, or "" when there was nothing to commit.
func (r *Repo) Commit(ctx context.Context, message string, paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = []string{"-A"}
	} else {
		paths = append([]string{"--"}, paths...)
	}
	if out, err := r.git(ctx, append([]string{"add"}, paths...)...); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// Exit status 1 from diff --cached --quiet means staged changes exist.
	if _, err := r.git(ctx, "diff", "--cached", "--quiet"); err == nil {
		return "", nil
	}

	author := fmt.Sprintf("%s <%s>", r.AuthorName, r.AuthorEmail)
	if out, err := r.git(ctx, "commit", "--quiet", "-m", message, "--author", author); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}
	return r.Head(ctx)
}

// Head returns the short hash of HEAD.
func (r *Repo) Head(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %s: %w", out, err)
	}
	return strings.TrimSpace(out), nil
}

// git runs one git command with the repo's identity as committer too, so
// commits work on machines without a global git config.
func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	full := append([]string{
		"-c", "user.name=" + r.AuthorName,
		"-c", "user.email=" + r.AuthorEmail,
	}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}
