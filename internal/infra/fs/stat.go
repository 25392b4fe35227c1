package fs

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/djherbis/times"
	"github.com/spf13/afero"

	"exifsidecar/internal/domain"
	appErrors "exifsidecar/internal/errors"
)

// CreationTimeFunc resolves the creation time of path.
type CreationTimeFunc func(path string, info fs.FileInfo) time.Time

type StatReader struct {
	FS           afero.Fs
	CreationTime CreationTimeFunc
}

func NewStatReader(filesystem afero.Fs) StatReader {
	return StatReader{FS: filesystem}
}

func (r StatReader) Stat(ctx context.Context, path string) (domain.FileStat, error) {
	select {
	case <-ctx.Done():
		return domain.FileStat{}, ctx.Err()
	default:
	}

	info, err := r.FS.Stat(path)
	if err != nil {
		return domain.FileStat{}, appErrors.Wrap(appErrors.IOFailure, "stat", path, err)
	}

	return domain.FileStat{
		Filename: filepath.Base(path),
		Size:     info.Size(),
		Created:  r.creationTime(path, info),
		Modified: info.ModTime(),
	}, nil
}

func (r StatReader) creationTime(path string, info fs.FileInfo) time.Time {
	if r.CreationTime != nil {
		return r.CreationTime(path, info)
	}
	if _, ok := r.FS.(*afero.OsFs); ok {
		return OSCreationTime(path, info)
	}
	return info.ModTime()
}

// OSCreationTime prefers the birth time, then the inode change time, then
// the modification time.
func OSCreationTime(path string, info fs.FileInfo) time.Time {
	ts, err := times.Stat(path)
	if err != nil {
		return info.ModTime()
	}
	if ts.HasBirthTime() {
		return ts.BirthTime()
	}
	if ts.HasChangeTime() {
		return ts.ChangeTime()
	}
	return info.ModTime()
}
