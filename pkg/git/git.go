package git

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
)

var NoChangesError = fmt.Errorf("no changes")

const (
	defaultAuthor     = "github-actions[bot]"
	defaultAuthorMail = "41898282+github-actions[bot]@users.noreply.github.com"
)

type Author struct {
	Name  string
	Email string
}

func (a Author) signature() *object.Signature {
	s := &object.Signature{
		Name:  a.Name,
		Email: a.Email,
		When:  time.Now(),
	}
	if s.Name == "" {
		s.Name = defaultAuthor
	}
	if s.Email == "" {
		s.Email = defaultAuthorMail
	}
	return s
}

// Commit stages the given files of the repository containing dir and commits them.
// File paths are interpreted relative to dir. If none of the files changed,
// NoChangesError is returned.
func Commit(dir string, files []string, msg string, author Author) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.Wrap(err, "error opening git repository")
	}

	w, err := r.Worktree()
	if err != nil {
		return "", fmt.Errorf("error getting worktree: %w", err)
	}

	var paths []string
	for _, f := range files {
		path, err := relativePath(w.Filesystem.Root(), dir, f)
		if err != nil {
			return "", err
		}

		_, err = w.Add(path)
		if err != nil {
			return "", fmt.Errorf("error adding %s to git index: %w", path, err)
		}

		paths = append(paths, path)
	}

	status, err := w.Status()
	if err != nil {
		return "", fmt.Errorf("error getting git status: %w", err)
	}

	if !staged(status, paths) {
		return "", NoChangesError
	}

	hash, err := w.Commit(msg, &git.CommitOptions{
		Author: author.signature(),
	})
	if err != nil {
		return "", fmt.Errorf("error during git commit: %w", err)
	}

	return hash.String(), nil
}

func staged(status git.Status, paths []string) bool {
	for _, p := range paths {
		s, ok := status[p]
		if !ok {
			continue
		}
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			return true
		}
	}
	return false
}

func relativePath(root, dir, file string) (string, error) {
	if !filepath.IsAbs(file) {
		file = filepath.Join(dir, file)
	}

	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", fmt.Errorf("unable to resolve %s in repository: %w", file, err)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("file %s is outside of repository %s", file, root)
	}

	return filepath.ToSlash(rel), nil
}
