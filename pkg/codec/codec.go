// Package codec defines the narrow step-function contract that the
// stream transformers in gzt — the DEFLATE and LZ4 adapters and the gzip
// framing state machine — are built against. The ustar codec does not
// implement it; it works over io.Reader/io.Writer. Any type satisfying
// Compressor or Decompressor can be driven by DriveCompressor/
// DriveDecompressor, and gzip can be parameterized over any
// Compressor/Decompressor pair, not just the DEFLATE one in pkg/deflate.
package codec

import "gzt/pkg/buffer"

// FlushMode controls how aggressively a Compressor is asked to emit
// output. Only NoFlush and Finish affect the core algorithm; the others
// are accepted and, where the underlying engine has no equivalent,
// downgraded to the nearest one that does.
type FlushMode int

const (
	NoFlush FlushMode = iota
	Partial
	Sync
	Full
	Finish
	Block
)

// String renders the flush mode for logging.
func (f FlushMode) String() string {
	switch f {
	case NoFlush:
		return "NoFlush"
	case Partial:
		return "Partial"
	case Sync:
		return "Sync"
	case Full:
		return "Full"
	case Finish:
		return "Finish"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// Compressor is the step contract a compressing transformer exposes.
//
// A single call consumes any prefix of in and writes any prefix of out. It
// must advance BytesRead or BytesWritten by at least one on every call
// unless both buffers are empty or the codec is already Done; failing that
// is a bug in the implementation, not a condition callers need to guard
// against. Done becomes true only once a terminal marker has been emitted
// and all internal buffers are drained; calling Step again afterwards with
// non-empty in is an InvalidState error. Reset restores the initial state
// unconditionally and cannot fail.
type Compressor interface {
	Step(out buffer.MutBuf, in buffer.ConstBuf, flush FlushMode) (buffer.Progress, error)
	Reset()
}

// Decompressor is the step contract a decompressing transformer exposes.
// It has no flush parameter: decompression always makes as much progress
// as the current buffers allow and becomes Done exactly when the
// underlying format's own terminal marker is reached.
type Decompressor interface {
	Step(out buffer.MutBuf, in buffer.ConstBuf) (buffer.Progress, error)
	Reset()
}
