package codec

import (
	"io"

	"gzt/pkg/buffer"
	"gzt/pkg/streamerr"
)

const copyBufSize = 64 * 1024

// CompressWriter adapts a Compressor driven over bounded buffers into an
// io.WriteCloser: Write feeds bytes through Step with NoFlush, Close
// drains the codec with Finish and flushes what it produces, then closes
// the underlying sink if it is itself an io.Closer.
type CompressWriter struct {
	c   Compressor
	dst io.Writer
	buf []byte
}

// NewCompressWriter returns a CompressWriter driving c and writing its
// output to dst.
func NewCompressWriter(c Compressor, dst io.Writer) *CompressWriter {
	return &CompressWriter{c: c, dst: dst, buf: make([]byte, copyBufSize)}
}

func (w *CompressWriter) Write(p []byte) (int, error) {
	in := buffer.ConstBuf(p)
	for !in.Empty() {
		prog, err := w.c.Step(buffer.MutBuf(w.buf), in, NoFlush)
		if err != nil {
			return len(p) - in.Len(), err
		}
		if prog.BytesWritten > 0 {
			if _, werr := w.dst.Write(w.buf[:prog.BytesWritten]); werr != nil {
				return len(p) - in.Len(), streamerr.Wrap(streamerr.IoError, werr, "codec: write compressed bytes")
			}
		}
		in = in.Advance(int(prog.BytesRead))
		if prog.BytesRead == 0 && prog.BytesWritten == 0 {
			return len(p) - in.Len(), streamerr.New(streamerr.InvalidState, "codec: compressor made no progress")
		}
	}
	return len(p), nil
}

// Close implements io.Closer, finishing with FlushMode Finish.
func (w *CompressWriter) Close() error {
	return w.CloseWithFlush(Finish)
}

// CloseWithFlush drains the codec with the given flush mode instead of
// always forcing Finish, for callers (CompressDeflate) that expose the
// choice.
func (w *CompressWriter) CloseWithFlush(flush FlushMode) error {
	for {
		prog, err := w.c.Step(buffer.MutBuf(w.buf), buffer.ConstBuf(nil), flush)
		if err != nil {
			return err
		}
		if prog.BytesWritten > 0 {
			if _, werr := w.dst.Write(w.buf[:prog.BytesWritten]); werr != nil {
				return streamerr.Wrap(streamerr.IoError, werr, "codec: write trailing compressed bytes")
			}
		}
		if prog.Done {
			break
		}
		if flush != Finish && prog.BytesWritten < uint64(len(w.buf)) {
			// A non-terminal flush never reports Done; it is complete
			// once its output no longer fills the whole buffer.
			break
		}
		if prog.BytesWritten == 0 {
			return streamerr.New(streamerr.InvalidState, "codec: compressor stalled while finishing")
		}
	}
	if c, ok := w.dst.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// DecompressReader adapts a Decompressor into an io.Reader, pulling
// compressed bytes from src on demand as callers drain decoded output.
type DecompressReader struct {
	d       Decompressor
	src     io.Reader
	readBuf []byte
	pending []byte
	srcEOF  bool
	done    bool
}

// NewDecompressReader returns a DecompressReader driving d over bytes
// read from src.
func NewDecompressReader(d Decompressor, src io.Reader) *DecompressReader {
	return &DecompressReader{d: d, src: src, readBuf: make([]byte, copyBufSize)}
}

func (r *DecompressReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	for {
		if len(r.pending) == 0 && !r.srcEOF {
			n, err := r.src.Read(r.readBuf)
			if n > 0 {
				r.pending = append(r.pending[:0], r.readBuf[:n]...)
			}
			if err == io.EOF {
				r.srcEOF = true
			} else if err != nil {
				return 0, streamerr.Wrap(streamerr.IoError, err, "codec: read compressed bytes")
			}
		}

		prog, err := r.d.Step(buffer.MutBuf(p), buffer.ConstBuf(r.pending))
		if err != nil {
			return int(prog.BytesWritten), err
		}
		r.pending = r.pending[prog.BytesRead:]
		if prog.Done {
			r.done = true
		}
		if prog.BytesWritten > 0 {
			return int(prog.BytesWritten), nil
		}
		if prog.Done {
			return 0, io.EOF
		}
		if r.srcEOF && len(r.pending) == 0 && prog.BytesRead == 0 {
			return 0, streamerr.New(streamerr.CorruptedInput, "codec: truncated compressed stream")
		}
	}
}
