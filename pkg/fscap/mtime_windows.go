//go:build windows

package fscap

import (
	"os"
	"syscall"
)

// windowsEpochOffset100ns is the number of 100-ns ticks between the
// Windows FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const windowsEpochOffset100ns = 0x019DB1DED53E8000

// mtimeUnix converts a Windows FILETIME to Unix seconds.
func mtimeUnix(info os.FileInfo) uint64 {
	if st, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		ft := uint64(st.LastWriteTime.HighDateTime)<<32 | uint64(st.LastWriteTime.LowDateTime)
		return (ft - windowsEpochOffset100ns) / 10_000_000
	}
	return uint64(info.ModTime().Unix())
}

// setMode is a no-op on Windows, which has no POSIX mode bits.
func setMode(path string, mode int64) error {
	return nil
}
