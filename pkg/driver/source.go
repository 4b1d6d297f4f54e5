package driver

import (
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// LoadSource returns the contents of path. With an empty rev the working
// tree copy is read; otherwise the file is read as of rev in the git
// repository that contains it.
func LoadSource(path, rev string) ([]byte, error) {
	if rev == "" {
		return os.ReadFile(path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("source: resolve %s: %w", path, err)
	}
	repo, err := git.PlainOpenWithOptions(filepath.Dir(absPath), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("source: open repository for %s: %w", path, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("source: worktree for %s: %w", path, err)
	}
	rel, err := filepath.Rel(worktree.Filesystem.Root(), absPath)
	if err != nil {
		return nil, fmt.Errorf("source: %s is outside the repository: %w", path, err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("source: resolve revision %q: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("source: load commit %s: %w", hash, err)
	}
	file, err := commit.File(filepath.ToSlash(rel))
	if err != nil {
		return nil, fmt.Errorf("source: %s at %s: %w", rel, rev, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("source: read %s at %s: %w", rel, rev, err)
	}
	return []byte(contents), nil
}
