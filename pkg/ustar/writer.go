package ustar

import (
	"io"

	"gzt/pkg/fscap"
	"gzt/pkg/streamerr"
)

// Writer sequences ustar member headers and payloads onto dst, tracking
// bytes written to the current member so FinishMember can compute the
// correct alignment padding.
type Writer struct {
	dst               io.Writer
	memberDataWritten int64
	finished          bool
}

// NewWriter returns a Writer sequencing records onto dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

// WriteMemberHeader encodes m to a 512-byte record and writes it to dst.
func (w *Writer) WriteMemberHeader(m Member) error {
	b, err := encodeHeader(m)
	if err != nil {
		return err
	}
	if _, err := w.dst.Write(b[:]); err != nil {
		return streamerr.Wrap(streamerr.IoError, err, "ustar: write header")
	}
	w.memberDataWritten = 0
	return nil
}

// WriteMemberData forwards buf to dst and updates the byte counter used
// by FinishMember to compute padding.
func (w *Writer) WriteMemberData(buf []byte) (int, error) {
	n, err := w.dst.Write(buf)
	w.memberDataWritten += int64(n)
	if err != nil {
		return n, streamerr.Wrap(streamerr.IoError, err, "ustar: write member data")
	}
	return n, nil
}

// FinishMember writes (-memberDataWritten) mod 512 zero bytes so the next
// header lands on a block boundary, then resets the counter.
func (w *Writer) FinishMember() error {
	pad := (blockSize - w.memberDataWritten%blockSize) % blockSize
	if pad > 0 {
		if _, err := w.dst.Write(make([]byte, pad)); err != nil {
			return streamerr.Wrap(streamerr.IoError, err, "ustar: write member padding")
		}
	}
	w.memberDataWritten = 0
	return nil
}

// Finish calls FinishMember, then writes the two all-zero terminator
// records (end of archive is two consecutive all-zero
// 512-byte records).
func (w *Writer) Finish() error {
	if w.finished {
		return streamerr.New(streamerr.InvalidState, "ustar: Writer already finished")
	}
	if err := w.FinishMember(); err != nil {
		return err
	}
	if _, err := w.dst.Write(make([]byte, 2*blockSize)); err != nil {
		return streamerr.Wrap(streamerr.IoError, err, "ustar: write terminator")
	}
	w.finished = true
	return nil
}

// AddFile adds one filesystem entry to the archive under destPath,
// dispatching on fs.IsDirectory/IsSymlink/IsRegular. Regular files are
// streamed through in 32KiB chunks rather than read fully into memory.
func (w *Writer) AddFile(destPath string, fsPath string, fs fscap.FS) error {
	switch {
	case fs.IsSymlink(fsPath):
		target, err := fs.ReadSymlink(fsPath)
		if err != nil {
			return err
		}
		return w.addSimple(destPath, 0, TypeSymlink, string(target), fs.MtimeUnix(fsPath))

	case fs.IsDirectory(fsPath):
		name := destPath
		if len(name) == 0 || name[len(name)-1] != '/' {
			name += "/"
		}
		return w.addSimple(name, 0, TypeDirectory, "", fs.MtimeUnix(fsPath))

	case fs.IsRegular(fsPath):
		size, err := fs.FileSize(fsPath)
		if err != nil {
			return err
		}
		if err := w.WriteMemberHeader(Member{
			Filename: destPath,
			Mode:     0644,
			Size:     size,
			MTime:    int64(fs.MtimeUnix(fsPath)),
			Typeflag: TypeRegular,
		}); err != nil {
			return err
		}
		src, err := fs.OpenRead(fsPath)
		if err != nil {
			return err
		}
		defer src.Close()
		buf := make([]byte, 32*1024)
		for {
			n, rerr := src.Read(buf)
			if n > 0 {
				if _, werr := w.WriteMemberData(buf[:n]); werr != nil {
					return werr
				}
			}
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				return streamerr.Wrap(streamerr.IoError, rerr, "ustar: read %s", fsPath)
			}
		}
		return w.FinishMember()

	default:
		return streamerr.New(streamerr.UnsupportedFeature, "ustar: %s is neither regular, directory nor symlink", fsPath)
	}
}

func (w *Writer) addSimple(name string, size int64, typeflag byte, linkname string, mtime uint64) error {
	if err := w.WriteMemberHeader(Member{
		Filename: name,
		Mode:     0755,
		Size:     size,
		MTime:    int64(mtime),
		Typeflag: typeflag,
		Linkname: linkname,
	}); err != nil {
		return err
	}
	return w.FinishMember()
}
