package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avitaltamir/vibetree/internal/apperr"
)

var (
	errIntoSelf   = errors.New("cannot paste a directory into itself")
	errRootDelete = errors.New("refusing to delete the tree root")
	errEmptyName  = errors.New("name cannot be empty")
	errBadName    = errors.New("invalid name")
	errSeparator  = errors.New("name cannot contain a path separator")
	errControl    = errors.New("name contains invalid characters")

	errSpecialFile = errors.New("cannot copy a socket or device")
)

func joinErrors(errs []error) error {
	return errors.Join(errs...)
}

// Engine owns the clipboard and performs file operations below root.
type Engine struct {
	root string
	clip Clipboard
}

// NewEngine creates an Engine. The root itself can never be deleted.
func NewEngine(root string) *Engine {
	return &Engine{root: filepath.Clean(root)}
}

// Clipboard returns the pending operation.
func (e *Engine) Clipboard() Clipboard {
	return e.clip
}

// Yank queues paths for copying.
func (e *Engine) Yank(paths []string) {
	e.clip = Clipboard{Op: OpCopy, Paths: append([]string(nil), paths...)}
}

// Cut queues paths for moving.
func (e *Engine) Cut(paths []string) {
	e.clip = Clipboard{Op: OpMove, Paths: append([]string(nil), paths...)}
}

// ClearClipboard drops the pending operation.
func (e *Engine) ClearClipboard() {
	e.clip = Clipboard{}
}

// Paste copies or moves the clipboard into destDir. A copy can be pasted
// again. A move keeps only the sources that failed to move, so they can be
// retried; once everything has moved the clipboard is empty.
func (e *Engine) Paste(destDir string) Result {
	clip := e.clip
	res, failed := e.transfer(clip.Op, clip.Paths, destDir)
	if clip.Op == OpMove {
		if len(failed) == 0 {
			e.clip = Clipboard{}
		} else {
			e.clip = Clipboard{Op: OpMove, Paths: failed}
		}
	}
	return res
}

// Drop copies externally dropped paths into destDir without touching the clipboard.
func (e *Engine) Drop(paths []string, destDir string) Result {
	res, _ := e.transfer(OpCopy, paths, destDir)
	return res
}

// transfer runs op for every path and also returns the sources that failed.
func (e *Engine) transfer(op Op, paths []string, destDir string) (Result, []string) {
	var (
		res    Result
		failed []string
	)
	destDir = filepath.Clean(destDir)

	for _, src := range paths {
		src = filepath.Clean(src)
		dst, err := e.transferOne(op, src, destDir)
		if err != nil {
			res.fail(err)
			failed = append(failed, src)
			continue
		}
		res.Done = append(res.Done, dst)
		res.touch(destDir)
		if op == OpMove {
			res.touch(filepath.Dir(src))
		}
	}
	return res, failed
}

func (e *Engine) transferOne(op Op, src, destDir string) (string, error) {
	info, err := os.Lstat(src)
	if err != nil {
		return "", apperr.FromFS(op.String(), src, err)
	}
	if info.IsDir() && (destDir == src || strings.HasPrefix(destDir, src+string(filepath.Separator))) {
		return "", apperr.New(apperr.KindConflict, op.String(), src, errIntoSelf)
	}
	if op == OpMove && filepath.Dir(src) == destDir {
		return src, nil
	}

	dst := UniquePath(filepath.Join(destDir, filepath.Base(src)), info.IsDir())
	if op == OpMove {
		err = movePath(src, dst)
	} else {
		err = copyPath(src, dst)
	}
	if err != nil {
		return "", apperr.FromFS(op.String(), src, err)
	}
	return dst, nil
}

// Delete removes every path, recursively for directories.
func (e *Engine) Delete(paths []string) Result {
	var res Result
	for _, p := range paths {
		p = filepath.Clean(p)
		if p == e.root {
			res.fail(apperr.New(apperr.KindIO, "delete", p, errRootDelete))
			continue
		}
		if _, err := os.Lstat(p); err != nil {
			res.fail(apperr.FromFS("delete", p, err))
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			res.fail(apperr.FromFS("delete", p, err))
			continue
		}
		res.Done = append(res.Done, p)
		res.touch(filepath.Dir(p))
	}
	// Clipboard entries for deleted paths can no longer be pasted.
	if len(res.Done) > 0 && !e.clip.Empty() {
		e.clip.Paths = without(e.clip.Paths, res.Done)
	}
	return res
}

func without(paths, removed []string) []string {
	var kept []string
	for _, p := range paths {
		gone := false
		for _, r := range removed {
			if p == r || strings.HasPrefix(p, r+string(filepath.Separator)) {
				gone = true
				break
			}
		}
		if !gone {
			kept = append(kept, p)
		}
	}
	return kept
}

// Rename renames path to newName within the same directory and returns the
// new path. An existing target is a conflict.
func (e *Engine) Rename(path, newName string) (string, error) {
	if err := ValidateName(newName); err != nil {
		return "", apperr.New(apperr.KindIO, "rename", path, err)
	}
	path = filepath.Clean(path)
	if path == e.root {
		return "", apperr.New(apperr.KindIO, "rename", path, errBadName)
	}
	oldName := filepath.Base(path)
	if newName == oldName {
		return path, nil
	}
	srcInfo, err := os.Lstat(path)
	if err != nil {
		return "", apperr.FromFS("rename", path, err)
	}

	dst := filepath.Join(filepath.Dir(path), newName)

	if dstInfo, err := os.Lstat(dst); err == nil {
		if !strings.EqualFold(oldName, newName) || !os.SameFile(srcInfo, dstInfo) {
			return "", apperr.Conflict("rename", dst)
		}
		// A case-insensitive filesystem resolves dst to the source itself;
		// change the case through a temporary name.
		tmp := UniquePath(dst+".vtmp", false)
		if err := os.Rename(path, tmp); err != nil {
			return "", apperr.FromFS("rename", path, err)
		}
		if err := os.Rename(tmp, dst); err != nil {
			_ = os.Rename(tmp, path)
			return "", apperr.FromFS("rename", path, err)
		}
		return dst, nil
	}

	if err := os.Rename(path, dst); err != nil {
		return "", apperr.FromFS("rename", path, err)
	}
	return dst, nil
}

// CreateFile creates an empty file named name in dir. An existing entry is a conflict.
func (e *Engine) CreateFile(dir, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", apperr.New(apperr.KindIO, "create", filepath.Join(dir, name), err)
	}
	p := filepath.Join(dir, name)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", apperr.FromFS("create", p, err)
	}
	if err := f.Close(); err != nil {
		return "", apperr.FromFS("create", p, err)
	}
	return p, nil
}

// CreateDir creates a directory named name in dir. An existing entry is a conflict.
func (e *Engine) CreateDir(dir, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", apperr.New(apperr.KindIO, "mkdir", filepath.Join(dir, name), err)
	}
	p := filepath.Join(dir, name)
	if err := os.Mkdir(p, 0o755); err != nil {
		return "", apperr.FromFS("mkdir", p, err)
	}
	return p, nil
}

// ValidateName checks that name is a single usable path component.
func ValidateName(name string) error {
	if name == "" {
		return errEmptyName
	}
	if name == "." || name == ".." {
		return errBadName
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return errSeparator
	}
	for _, r := range name {
		if r == 0 || (r < 32 && r != '\t') || r == 0x7f {
			return errControl
		}
	}
	return nil
}

// UniquePath returns path if nothing exists there, otherwise the first free
// "stem_N.ext" sibling counting from 1. Directories and dotfiles keep their
// whole name as the stem.
func UniquePath(path string, isDir bool) string {
	if _, err := os.Lstat(path); err != nil {
		return path
	}
	dir, name := filepath.Split(path)
	stem, ext := name, ""
	if !isDir {
		if e := filepath.Ext(name); e != "" && e != name {
			stem, ext = strings.TrimSuffix(name, e), e
		}
	}
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if _, err := os.Lstat(candidate); err != nil {
			return candidate
		}
	}
}
