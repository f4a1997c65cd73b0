package db

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	DefaultMaxBackups = 5
	backupFileExt     = ".bak"
	backupTimeLayout  = "20060102-150405"

	// maxBackupSeq bounds the "-NN" suffixes tried when several backups
	// are taken within the same second.
	maxBackupSeq = 99
)

// now is swapped in tests.
var now = time.Now

// Backup copies the store file to <path>.<timestamp>.bak and prunes all but
// the newest maxBackups backups. It returns "" when there is nothing to back up.
// An existing backup is never overwritten: a second backup in the same second
// gets a <timestamp>-01 name, and so on.
func (r *Resetter) Backup(maxBackups int) (string, error) {
	if r.path == "" || r.path == ":memory:" {
		return "", nil
	}
	info, err := r.fs.Stat(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("backup: stat %s: %w", r.path, err)
	}
	r.log.Infow("existing database file", "path", r.path, "bytes", info.Size())

	backupPath, err := r.createBackup(now().Format(backupTimeLayout))
	if err != nil {
		return "", fmt.Errorf("backup: failed to create DB backup: %w", err)
	}
	r.log.Infow("existing database backed up", "backup", backupPath)
	r.pruneOldBackups(maxBackups)
	return backupPath, nil
}

func (r *Resetter) createBackup(stamp string) (string, error) {
	base := r.path + "." + stamp
	for seq := 0; seq <= maxBackupSeq; seq++ {
		dst := base + backupFileExt
		if seq > 0 {
			dst = fmt.Sprintf("%s-%02d%s", base, seq, backupFileExt)
		}
		err := r.copyFile(r.path, dst)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		return dst, nil
	}
	return "", fmt.Errorf("%d backups already exist for %s", maxBackupSeq+1, stamp)
}

// copyFile copies src to dst. It fails with fs.ErrExist when dst exists.
func (r *Resetter) copyFile(src, dst string) error {
	stat, err := r.fs.Stat(src)
	if err != nil {
		return err
	}
	if !stat.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := r.fs.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if err := source.Close(); err != nil {
			r.log.Warnw("failed to close file", "path", src, "error", err)
		}
	}()

	destination, err := r.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destination, source); err != nil {
		_ = destination.Close()
		return err
	}
	return destination.Close()
}

// Backups lists existing backups of the store, oldest first.
func (r *Resetter) Backups() ([]string, error) {
	dir := filepath.Dir(r.path)
	prefix := filepath.Base(r.path) + "."
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return nil, err
	}
	var backups []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, backupFileExt) {
			backups = append(backups, filepath.Join(dir, name))
		}
	}
	// Compare without the extension so <stamp> sorts before <stamp>-01.
	sort.Slice(backups, func(i, j int) bool {
		return strings.TrimSuffix(backups[i], backupFileExt) < strings.TrimSuffix(backups[j], backupFileExt)
	})
	return backups, nil
}

func (r *Resetter) pruneOldBackups(max int) {
	if max <= 0 {
		return
	}
	backups, err := r.Backups()
	if err != nil {
		r.log.Warnw("failed to read backup directory", "error", err)
		return
	}
	if len(backups) <= max {
		return
	}
	for _, file := range backups[:len(backups)-max] {
		if err := r.fs.Remove(file); err != nil {
			r.log.Warnw("failed to remove old backup", "path", file, "error", err)
		} else {
			r.log.Infow("removed old backup", "path", file)
		}
	}
}

