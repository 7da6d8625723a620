package mover

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// moveFile renames src to dst, copying across filesystems when needed.
func (m *Mover) moveFile(src, dst string) error {
	rename := m.rename
	if rename == nil {
		rename = os.Rename
	}
	err := rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	return copyAndRemove(src, dst)
}

// copyAndRemove copies src to a new file at dst, syncs it, and removes src.
// If src cannot be removed the copy is deleted so the file exists only once.
func copyAndRemove(src, dst string) (err error) {
	in, err := os.Open(src) // #nosec G304
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm()) // #nosec G304
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy across devices: %w", err)
	}
	if err = out.Sync(); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to sync copy: %w", err)
	}
	if err = out.Close(); err != nil {
		return err
	}
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())

	_ = in.Close()
	if err = os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}
	return nil
}
