package publisher

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/yargevad/filepathx"
)

// Mirror keeps a local git working copy of everything pushed to the host, so
// the full history of generated output survives even if the remote is
// deleted. One publish run becomes one commit.
type Mirror struct {
	root string
}

// NewMirror roots the mirror at dir, creating it if needed.
func NewMirror(dir string) *Mirror {
	return &Mirror{root: dir}
}

// Record writes files under the mirror directory for repoName and commits
// them. An existing mirror is reused; a missing one is initialized.
func (m *Mirror) Record(repoName string, files []FileContent, message string) error {
	dir := filepath.Join(m.root, repoName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create mirror dir: %w", err)
	}

	repo, err := git.PlainOpen(dir)
	if err == git.ErrRepositoryNotExists {
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		return fmt.Errorf("failed to open mirror repo: %w", err)
	}

	for _, file := range files {
		target := filepath.Join(dir, filepath.FromSlash(file.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create dir for %s: %w", file.Path, err)
		}
		if err := os.WriteFile(target, []byte(file.Content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if _, err := worktree.Add("."); err != nil {
		return fmt.Errorf("failed to stage mirror files: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("failed to get mirror status: %w", err)
	}
	if status.IsClean() {
		return nil
	}

	commit, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "devforge",
			Email: "devforge@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit mirror: %w", err)
	}
	log.Printf("Mirror: committed %s in %s", commit.String()[:8], dir)
	return nil
}

// Files lists the project files currently in the mirror for repoName,
// relative slash paths, excluding git metadata.
func (m *Mirror) Files(repoName string) ([]string, error) {
	dir := filepath.Join(m.root, repoName)
	matches, err := filepathx.Glob(filepath.Join(dir, "**", "*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list mirror files: %w", err)
	}
	var files []string
	for _, match := range matches {
		rel, err := filepath.Rel(dir, match)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, ".git/") || rel == ".git" {
			continue
		}
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, rel)
	}
	return files, nil
}
