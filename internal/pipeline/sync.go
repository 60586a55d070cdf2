package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// SyncResult is the outcome of SyncFile.
type SyncResult int

const (
	// SyncCopied means the destination did not exist.
	SyncCopied SyncResult = iota
	// SyncOverwritten means the source was strictly newer than the destination.
	SyncOverwritten
	// SyncSkipped means the destination was not older than the source.
	SyncSkipped
)

func (r SyncResult) String() string {
	switch r {
	case SyncCopied:
		return "copied"
	case SyncOverwritten:
		return "overwritten"
	case SyncSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("SyncResult(%d)", int(r))
	}
}

// SyncFile copies src into dstDir when the destination is missing or older
// by modification time. Contents are never compared. The copy carries the
// source mtime, so an unchanged source is skipped on the next call.
func SyncFile(src, dstDir string) (SyncResult, string, error) {
	dst := filepath.Join(dstDir, filepath.Base(src))

	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, dst, fmt.Errorf("sync %s: %w", src, err)
	}
	if !srcInfo.Mode().IsRegular() {
		return 0, dst, fmt.Errorf("sync %s: not a regular file", src)
	}

	dstInfo, err := os.Stat(dst)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return SyncCopied, dst, copyFile(src, dst, srcInfo)
	case err != nil:
		return 0, dst, fmt.Errorf("sync %s: %w", dst, err)
	case os.SameFile(srcInfo, dstInfo):
		return SyncSkipped, dst, nil
	case srcInfo.ModTime().After(dstInfo.ModTime()):
		return SyncOverwritten, dst, copyFile(src, dst, srcInfo)
	default:
		return SyncSkipped, dst, nil
	}
}

// copyFile writes src to a temp file next to dst and renames it into place.
func copyFile(src, dst string, srcInfo fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { os.Remove(tmpPath) }

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := os.Chmod(tmpPath, srcInfo.Mode().Perm()); err != nil {
		cleanup()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := os.Chtimes(tmpPath, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		cleanup()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		cleanup()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
