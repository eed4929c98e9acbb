// Package fscap defines the minimal filesystem capability interface the
// ustar and targz packages require, and an OS-backed
// implementation of it. Keeping the interface narrow lets targz.Pack/
// Expand be tested against an in-memory fake without touching disk.
package fscap

import "io"

// FS is the minimal capability surface needed, nothing more: mtime,
// type tests, size, symlink target, stream open, directory/symlink/
// hardlink creation, mode, and a recursive walk.
type FS interface {
	MtimeUnix(path string) uint64
	IsDirectory(path string) bool
	IsSymlink(path string) bool
	IsRegular(path string) bool
	FileSize(path string) (int64, error)
	ReadSymlink(path string) ([]byte, error)

	OpenRead(path string) (io.ReadCloser, error)
	OpenWrite(path string) (io.WriteCloser, error)

	CreateDirectory(path string) error
	CreateSymlink(target, link string) error
	CreateHardlink(target, link string) error

	SetMode(path string, mode int64) error

	// Walk visits every entry under root, invoking fn with the path
	// relative to root and the absolute path, in the order
	// compression direction needs it walked.
	Walk(root string, fn func(rel, abs string) error) error
}
