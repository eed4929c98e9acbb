//go:build !windows

package fscap

import (
	"os"
	"syscall"
)

// mtimeUnix returns st_mtime on POSIX platforms.
func mtimeUnix(info os.FileInfo) uint64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Mtim.Sec)
	}
	return uint64(info.ModTime().Unix())
}

func setMode(path string, mode int64) error {
	return os.Chmod(path, os.FileMode(mode)&os.ModePerm)
}
