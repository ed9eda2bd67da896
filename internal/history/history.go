// Package history keeps snapshots of a database file in a git repository
// created next to it, using go-git so no git binary is needed.
//
// The repository metadata lives in its own directory, GitDir, with the
// database's directory as work tree. It has its own index, so a project
// repository the file happens to sit in is never read nor committed to.
package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Default identity recorded on snapshots.
const (
	DefaultName  = "jsondb"
	DefaultEmail = "jsondb@localhost"
)

// GitDir is the directory, relative to the work tree, holding the snapshot
// repository.
const GitDir = ".jsondb-history"

// Commit is one snapshot.
type Commit struct {
	Hash    string
	Message string
	Author  string
	When    time.Time
}

// Repo is a git repository holding database snapshots.
type Repo struct {
	dir  string
	repo *gogit.Repository
	mu   sync.Mutex
}

// Open opens the snapshot repository of dir, initializing it when needed.
func Open(dir string) (*Repo, error) {
	gitDir := filepath.Join(dir, GitDir)
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create repo directory: %w", err)
	}
	st := filesystem.NewStorage(osfs.New(gitDir), cache.NewObjectLRUDefault())
	wt := osfs.New(dir)
	repo, err := gogit.Open(st, wt)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		// Initialize without a work tree so go-git doesn't drop a .git file
		// into dir, then attach the work tree.
		if _, err := gogit.Init(st, nil); err != nil {
			return nil, fmt.Errorf("failed to initialize git repo: %w", err)
		}
		if repo, err = gogit.Open(st, wt); err != nil {
			return nil, fmt.Errorf("failed to open git repo: %w", err)
		}
		cfg, err := repo.Config()
		if err != nil {
			return nil, fmt.Errorf("failed to read git config: %w", err)
		}
		cfg.Core.IsBare = false
		cfg.Core.Worktree = ".."
		cfg.User.Name = DefaultName
		cfg.User.Email = DefaultEmail
		if err := repo.SetConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to write git config: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to open git repo: %w", err)
	}
	return &Repo{dir: dir, repo: repo}, nil
}

// OpenFor opens the repository holding the database file at path.
func OpenFor(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return Open(filepath.Dir(abs))
}

// Dir returns the repository root.
func (r *Repo) Dir() string {
	return r.dir
}

// Commit stages file and commits it with msg. It returns false without
// committing when the file has no change since the last snapshot. file may
// be absolute or relative to the repository root.
func (r *Repo) Commit(_ context.Context, file, msg string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, err := r.rel(file)
	if err != nil {
		return false, err
	}
	w, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := w.AddWithOptions(&gogit.AddOptions{Path: name, SkipStatus: true}); err != nil {
		return false, fmt.Errorf("failed to stage %s: %w", name, err)
	}
	sig := &object.Signature{Name: DefaultName, Email: DefaultEmail, When: time.Now()}
	if _, err := w.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		if errors.Is(err, gogit.ErrEmptyCommit) {
			return false, nil
		}
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	return true, nil
}

// Log returns up to n snapshots of file, newest first. n <= 0 means 100.
func (r *Repo) Log(_ context.Context, file string, n int) ([]Commit, error) {
	if n <= 0 {
		n = 100
	}
	name, err := r.rel(file)
	if err != nil {
		return nil, err
	}
	it, err := r.repo.Log(&gogit.LogOptions{FileName: &name})
	if err != nil {
		// No commit yet.
		return nil, nil
	}
	defer it.Close()
	var commits []Commit
	for range n {
		c, err := it.Next()
		if err != nil {
			break
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		commits = append(commits, Commit{
			Hash:    c.Hash.String(),
			Message: subject,
			Author:  c.Author.Name,
			When:    c.Author.When,
		})
	}
	return commits, nil
}

// FileAt returns the content of file at the commit hash, or at HEAD when
// hash is "HEAD".
func (r *Repo) FileAt(_ context.Context, hash, file string) ([]byte, error) {
	name, err := r.rel(file)
	if err != nil {
		return nil, err
	}
	h := plumbing.NewHash(hash)
	if hash == "HEAD" {
		ref, err := r.repo.Head()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
		}
		h = ref.Hash()
	}
	c, err := r.repo.CommitObject(h)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}
	f, err := c.File(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get file at commit: %w", err)
	}
	reader, err := f.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = reader.Close() }()
	return io.ReadAll(reader)
}

// rel returns file relative to the repository root, slash separated.
func (r *Repo) rel(file string) (string, error) {
	if !filepath.IsAbs(file) {
		return filepath.ToSlash(filepath.Clean(file)), nil
	}
	root, err := filepath.Abs(r.dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside of repository %s", file, r.dir)
	}
	return filepath.ToSlash(rel), nil
}
