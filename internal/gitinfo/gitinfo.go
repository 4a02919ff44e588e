// Package gitinfo reads lightweight repository metadata for build reports
// and change detection. It never clones or mutates anything; callers that
// run outside a repository get ErrNotRepository and typically treat it as
// "no metadata" rather than a failure.
package gitinfo

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository reports that the directory is not inside a git worktree.
var ErrNotRepository = git.ErrRepositoryNotExists

// Info describes the repository state at HEAD.
type Info struct {
	Commit string
	Branch string
	Dirty  bool
}

// Describe returns the HEAD commit, branch name, and worktree dirty state
// for the repository containing dir. dir may be any directory inside the
// worktree.
func Describe(dir string) (Info, error) {
	repo, err := open(dir)
	if err != nil {
		return Info{}, err
	}

	var info Info
	head, err := repo.Head()
	if err != nil {
		return Info{}, fmt.Errorf("read HEAD: %w", err)
	}
	info.Commit = head.Hash().String()
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return Info{}, fmt.Errorf("get worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return Info{}, fmt.Errorf("read status: %w", err)
	}
	info.Dirty = !status.IsClean()
	return info, nil
}

// ChangedFiles returns worktree-relative paths with uncommitted changes,
// untracked files included, sorted. An empty slice means a clean tree.
func ChangedFiles(dir string) ([]string, error) {
	repo, err := open(dir)
	if err != nil {
		return nil, err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("read status: %w", err)
	}

	var files []string
	for path, st := range status {
		if st.Worktree == git.Unmodified && st.Staging == git.Unmodified {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// Root returns the absolute path of the worktree containing dir.
func Root(dir string) (string, error) {
	repo, err := open(dir)
	if err != nil {
		return "", err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("get worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// IsNotRepository reports whether err means dir is outside any repository.
func IsNotRepository(err error) bool {
	return errors.Is(err, ErrNotRepository)
}

func open(dir string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
}
