// Package history versions files of the data directory with git.
//
// It uses go-git so no git binary is needed.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// maxLog caps the number of commits returned by Log.
const maxLog = 1000

// Commit describes one commit touching a file.
type Commit struct {
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Email   string    `json:"email"`
	Date    time.Time `json:"date"`
}

// Repo is a git repository rooted at the data directory.
type Repo struct {
	dir   string
	name  string
	email string
	repo  *gogit.Repository
	mu    sync.Mutex
}

// Open opens the repository at dir, initializing it when needed. name and
// email sign every commit.
func Open(dir, name, email string) (*Repo, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create repo directory: %w", err)
	}
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		if !errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("failed to open git repo: %w", err)
		}
		if repo, err = gogit.PlainInit(dir, false); err != nil {
			return nil, fmt.Errorf("failed to initialize git repo: %w", err)
		}
		cfg, err := repo.Config()
		if err != nil {
			return nil, fmt.Errorf("failed to read git config: %w", err)
		}
		cfg.User.Name = name
		cfg.User.Email = email
		if err := repo.SetConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to write git config: %w", err)
		}
	}
	return &Repo{dir: dir, name: name, email: email, repo: repo}, nil
}

// Dir returns the repository root.
func (r *Repo) Dir() string {
	return r.dir
}

// Commit stages files and commits them with msg. Paths may be absolute or
// relative to the repository root. It is a no-op when none of the files
// changed.
func (r *Repo) Commit(ctx context.Context, msg string, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	for _, f := range files {
		rel, err := r.rel(f)
		if err != nil {
			return err
		}
		if _, err := w.Add(rel); err != nil {
			return fmt.Errorf("failed to stage %s: %w", rel, err)
		}
	}
	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("failed to get worktree status: %w", err)
	}
	if !hasStaged(status) {
		return nil
	}
	now := time.Now()
	sig := &object.Signature{Name: r.name, Email: r.email, When: now}
	h, err := w.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	slog.DebugContext(ctx, "Committed", "hash", h.String(), "msg", msg)
	return nil
}

// Log returns up to n commits touching path, newest first. A repository
// without commits yields an empty slice.
func (r *Repo) Log(ctx context.Context, path string, n int) ([]*Commit, error) {
	if n <= 0 || n > maxLog {
		n = maxLog
	}
	opts := &gogit.LogOptions{}
	if path != "" {
		rel, err := r.rel(path)
		if err != nil {
			return nil, err
		}
		opts.FileName = &rel
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	iter, err := r.repo.Log(opts)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []*Commit{}, nil
		}
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	commits := []*Commit{}
	for range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := iter.Next()
		if err != nil {
			break
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		commits = append(commits, &Commit{
			Hash:    c.Hash.String(),
			Message: subject,
			Author:  c.Author.Name,
			Email:   c.Author.Email,
			Date:    c.Author.When,
		})
	}
	return commits, nil
}

// rel converts p to a slash separated path relative to the repository root.
func (r *Repo) rel(p string) (string, error) {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.dir, p)
		if err != nil {
			return "", fmt.Errorf("%s is outside %s: %w", p, r.dir, err)
		}
		p = rel
	}
	if p == ".." || strings.HasPrefix(p, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", p, r.dir)
	}
	return filepath.ToSlash(p), nil
}

// hasStaged reports whether the index differs from HEAD.
func hasStaged(status gogit.Status) bool {
	for _, s := range status {
		if s.Staging != gogit.Unmodified && s.Staging != gogit.Untracked {
			return true
		}
	}
	return false
}
