package fileops

import (
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/avitaltamir/vibetree/internal/apperr"
)

// copyPath copies src to dst. Directories are copied recursively; symlinks
// and named pipes are recreated rather than opened. Sockets and devices are
// refused.
func copyPath(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)
	case info.IsDir():
		return copyDir(src, dst, info.Mode())
	case info.Mode()&os.ModeNamedPipe != 0:
		if err := syscall.Mkfifo(dst, uint32(info.Mode().Perm())); err != nil {
			return &os.PathError{Op: "mkfifo", Path: dst, Err: err}
		}
		return nil
	case !info.Mode().IsRegular():
		return apperr.New(apperr.KindIO, "copy", src, errSpecialFile)
	default:
		return copyFile(src, dst, info.Mode())
	}
}

func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		_ = os.Remove(dst)
		return err
	}
	return dstFile.Close()
}

func copyDir(src, dst string, mode os.FileMode) error {
	if err := os.Mkdir(dst, mode.Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := copyPath(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// movePath renames src to dst, falling back to copy and remove when rename
// cannot cross filesystems.
func movePath(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if _, statErr := os.Lstat(src); statErr != nil {
		return err
	}
	if err := copyPath(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return err
	}
	return os.RemoveAll(src)
}
