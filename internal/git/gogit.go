package git

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	gitignore "github.com/monochromegane/go-gitignore"
)

// GoGitSource reads status in-process with go-git, for machines without a
// git binary. Ignored paths are classified from the root .gitignore.
type GoGitSource struct{}

// NewGoGitSource creates a go-git backed Source.
func NewGoGitSource() *GoGitSource {
	return &GoGitSource{}
}

// Status implements Source.
func (GoGitSource) Status(ctx context.Context, dir string) (*Report, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrNotRepo
		}
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no working tree to decorate.
		return nil, ErrNotRepo
	}

	report := &Report{
		Root:  wt.Filesystem.Root(),
		Files: make(map[string]Status),
	}
	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			report.Branch = head.Name().Short()
		} else {
			report.Branch = "(" + head.Hash().String()[:7] + ")"
		}
	}

	st, err := wt.Status()
	if err != nil {
		return nil, err
	}
	for path, fst := range st {
		if s := ParseStatus(byte(fst.Staging), byte(fst.Worktree)); s != StatusNone {
			report.Files[path] = s
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	collectIgnored(ctx, report)
	return report, nil
}

// collectIgnored walks the worktree once and records every path matched by
// the root .gitignore. Matched directories are recorded with a trailing
// slash and not descended into.
func collectIgnored(ctx context.Context, report *Report) {
	ignorePath := filepath.Join(report.Root, ".gitignore")
	if _, err := os.Stat(ignorePath); err != nil {
		return
	}
	matcher, err := gitignore.NewGitIgnore(ignorePath)
	if err != nil {
		return
	}

	_ = filepath.WalkDir(report.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if path == report.Root {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if !matcher.Match(path, d.IsDir()) {
			return nil
		}

		rel, err := filepath.Rel(report.Root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			report.Files[rel+"/"] = StatusIgnored
			return filepath.SkipDir
		}
		if _, tracked := report.Files[rel]; !tracked {
			report.Files[rel] = StatusIgnored
		}
		return nil
	})
}
