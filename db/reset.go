package db

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"tripscheduler/logging"
)

// sqliteSideFiles are the suffixes of files SQLite keeps next to the store.
var sqliteSideFiles = []string{"-wal", "-shm", "-journal"}

// ResetError reports a store file that exists but could not be deleted.
type ResetError struct {
	Path string
	Err  error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("reset: failed to remove %s: %v", e.Path, e.Err)
}

func (e *ResetError) Unwrap() error {
	return e.Err
}

// Resetter deletes the store file. It never recreates the schema; the next
// seed does that.
type Resetter struct {
	fs   afero.Fs
	path string
	log  *zap.SugaredLogger
}

func NewResetter(fsys afero.Fs, dbPath string, log *zap.SugaredLogger) *Resetter {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Resetter{fs: fsys, path: dbPath, log: logging.OrNop(log)}
}

// Reset removes the store file and its SQLite side files. A missing file is
// not an error, so Reset can be called any number of times.
// It reports whether the main store file was present.
func (r *Resetter) Reset() (bool, error) {
	if r.path == "" || r.path == ":memory:" {
		return false, nil
	}
	removed, err := r.remove(r.path)
	if err != nil {
		return false, err
	}
	if removed {
		r.log.Infow("database file removed", "path", r.path)
	} else {
		r.log.Infow("database file not found, nothing to do", "path", r.path)
	}
	for _, suffix := range sqliteSideFiles {
		if _, err := r.remove(r.path + suffix); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func (r *Resetter) remove(path string) (bool, error) {
	if _, err := r.fs.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &ResetError{Path: path, Err: err}
	}
	if err := r.fs.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &ResetError{Path: path, Err: err}
	}
	return true, nil
}
