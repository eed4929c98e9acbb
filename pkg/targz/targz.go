// Package targz composes pkg/fscap, pkg/ustar, pkg/gzip and pkg/deflate
// into the end-to-end directory packer/extractor:
//
//	Pack:   recursive_walk -> ustar writer -> gzip compressor -> deflate -> file sink
//	Expand: file source -> inflate -> gzip decompressor -> ustar reader -> filesystem writes
package targz

import (
	"io"
	"path"
	"strings"

	"gzt/pkg/fscap"
	"gzt/pkg/streamerr"
	"gzt/pkg/ustar"
)

// Pack writes dir's contents to a new .tar.gz file at outPath.
func Pack(dir, outPath string, fs fscap.FS) error {
	out, err := fs.OpenWrite(outPath)
	if err != nil {
		return err
	}
	sink := newGzipSink(out)
	w := ustar.NewWriter(sink)

	walkErr := fs.Walk(dir, func(rel, abs string) error {
		return w.AddFile(rel, abs, fs)
	})
	if walkErr != nil {
		sink.Close()
		return walkErr
	}
	if err := w.Finish(); err != nil {
		sink.Close()
		return err
	}
	return sink.Close()
}

// ExpandOptions configures Expand.
type ExpandOptions struct {
	// Destination is the directory new members are written under.
	Destination string
	// StripComponents is the number of leading path elements dropped
	// from every member's name before it is written.
	StripComponents int
}

// Expand reads a .tar.gz stream from input and recreates its members
// under opts.Destination, applying the path safety policy
// to every member before any filesystem action.
func Expand(opts ExpandOptions, input io.Reader, fs fscap.FS) error {
	src := newGzipSource(input)
	r := ustar.NewReader(src)

	for {
		m, err := r.NextMember()
		if err != nil {
			return err
		}
		if m == nil {
			return nil
		}

		final, skip, err := resolveMemberPath(opts.Destination, rawMemberName(*m), opts.StripComponents)
		if err != nil {
			return err
		}
		if skip {
			continue
		}

		if err := applyMember(*m, final, r, fs); err != nil {
			return err
		}
	}
}

// rawMemberName composes the prefix/filename split ustar uses to carry
// names longer than 100 bytes.
func rawMemberName(m ustar.Member) string {
	if m.Prefix == "" {
		return m.Filename
	}
	return m.Prefix + "/" + m.Filename
}

// resolveMemberPath implements the path safety policy,
// steps 1-7, verbatim.
func resolveMemberPath(destination, raw string, strip int) (final string, skip bool, err error) {
	elems := splitElements(raw)
	if strip >= len(elems) {
		return "", true, nil
	}

	norm := path.Clean(raw)
	if norm == "" || norm == "." {
		return "", false, streamerr.New(streamerr.InvalidFormat, "targz: empty member name")
	}
	if path.IsAbs(norm) {
		return "", false, streamerr.New(streamerr.UnsafePath, "targz: member %q is an absolute path", raw)
	}
	normElems := splitElements(norm)
	if normElems[0] == ".." {
		return "", false, streamerr.New(streamerr.UnsafePath, "targz: member %q escapes destination", raw)
	}

	remainder := strings.Join(elems[strip:], "/")
	final = path.Clean(destination + "/" + remainder)
	return final, false, nil
}

func splitElements(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func applyMember(m ustar.Member, final string, r *ustar.Reader, fs fscap.FS) error {
	switch m.Typeflag {
	case ustar.TypeDirectory:
		return fs.CreateDirectory(final)

	case ustar.TypeSymlink:
		return fs.CreateSymlink(m.Linkname, final)

	case ustar.TypeHardlink:
		return fs.CreateHardlink(m.Linkname, final)

	case ustar.TypeRegular, ustar.TypeHPC:
		if err := fs.CreateDirectory(path.Dir(final)); err != nil {
			return err
		}
		dst, err := fs.OpenWrite(final)
		if err != nil {
			return err
		}
		buf := make([]byte, 32*1024)
		var written int64
		for written < m.Size {
			n, rerr := r.ReadData(buf)
			if n > 0 {
				if _, werr := dst.Write(buf[:n]); werr != nil {
					dst.Close()
					return streamerr.Wrap(streamerr.IoError, werr, "targz: write %s", final)
				}
				written += int64(n)
			}
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				dst.Close()
				return rerr
			}
		}
		if err := dst.Close(); err != nil {
			return streamerr.Wrap(streamerr.IoError, err, "targz: close %s", final)
		}
		return fs.SetMode(final, m.Mode)

	case ustar.TypePaxRecord, ustar.TypePaxGlobal:
		// Leave the payload alone: Reader.NextMember discards whatever
		// of the current member went unread before decoding the next
		// header, so skipping pax records needs no action here.
		return nil

	default:
		return streamerr.New(streamerr.UnsupportedFeature, "targz: unsupported typeflag %q", m.Typeflag)
	}
}
