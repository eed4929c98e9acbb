package fscap

import (
	"io"
	"os"
	"path/filepath"

	"gzt/pkg/streamerr"
)

// OS is the default FS implementation, backed by os/path/filepath. The
// POSIX/Windows mtime split lives in mtime_posix.go/mtime_windows.go.
type OS struct{}

func (OS) MtimeUnix(path string) uint64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	return mtimeUnix(info)
}

func (OS) IsDirectory(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode().IsDir()
}

func (OS) IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func (OS) IsRegular(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode().IsRegular()
}

func (OS) FileSize(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, streamerr.Wrap(streamerr.IoError, err, "fscap: stat %s", path)
	}
	return info.Size(), nil
}

func (OS) ReadSymlink(path string) ([]byte, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return nil, streamerr.Wrap(streamerr.IoError, err, "fscap: readlink %s", path)
	}
	return []byte(target), nil
}

func (OS) OpenRead(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, streamerr.Wrap(streamerr.IoError, err, "fscap: open %s", path)
	}
	return f, nil
}

func (OS) OpenWrite(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, streamerr.Wrap(streamerr.IoError, err, "fscap: create %s", path)
	}
	return f, nil
}

func (OS) CreateDirectory(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return streamerr.Wrap(streamerr.IoError, err, "fscap: mkdir %s", path)
	}
	return nil
}

func (OS) CreateSymlink(target, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return streamerr.Wrap(streamerr.IoError, err, "fscap: mkdir for symlink %s", link)
	}
	if err := os.Symlink(target, link); err != nil {
		return streamerr.Wrap(streamerr.IoError, err, "fscap: symlink %s -> %s", link, target)
	}
	return nil
}

func (OS) CreateHardlink(target, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return streamerr.Wrap(streamerr.IoError, err, "fscap: mkdir for hardlink %s", link)
	}
	if err := os.Link(target, link); err != nil {
		return streamerr.Wrap(streamerr.IoError, err, "fscap: hardlink %s -> %s", link, target)
	}
	return nil
}

func (OS) SetMode(path string, mode int64) error {
	return setMode(path, mode)
}

func (OS) Walk(root string, fn func(rel, abs string) error) error {
	return filepath.Walk(root, func(abs string, info os.FileInfo, err error) error {
		if err != nil {
			return streamerr.Wrap(streamerr.IoError, err, "fscap: walk %s", abs)
		}
		if abs == root {
			return nil
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			return streamerr.Wrap(streamerr.IoError, err, "fscap: relativize %s", abs)
		}
		return fn(filepath.ToSlash(rel), abs)
	})
}
