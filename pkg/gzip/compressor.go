package gzip

import (
	"encoding/binary"

	"gzt/pkg/buffer"
	"gzt/pkg/checksum"
	"gzt/pkg/codec"
	"gzt/pkg/deflate"
	"gzt/pkg/streamerr"
)

type compressState int

const (
	stateEmitMagic compressState = iota
	stateEmitFlagsByte
	stateEmitMtime
	stateEmitXfl
	stateEmitOs
	stateCompressBody
	stateEmitCrc
	stateEmitSize
	stateCompressDone
)

// byte offsets of each fixed-header field within the 10-byte preamble.
const (
	offMagic  = 0
	offMethod = 2
	offFlags  = 3
	offMtime  = 4
	offXfl    = 8
	offOs     = 9
	headerLen = 10
)

// Compressor is the gzip compression state machine:
// EmitMagic → EmitFlagsByte → EmitMtime → EmitXfl → EmitOs → CompressBody →
// EmitCrc → EmitSize → Done. It is resumable at every field boundary and
// mid-field, since an arbitrarily small output buffer must be accepted at
// any step without losing progress.
type Compressor struct {
	state  compressState
	header [headerLen]byte
	cursor int // position within whichever fixed-size field is active

	inner codec.Compressor

	crc  checksum.CRC32
	size uint32

	trailer [8]byte
}

// NewCompressor returns a Compressor that owns a freshly constructed
// pkg/deflate codec at the given level. mtime is written into the header
// verbatim; pass 0 for reproducible output.
func NewCompressor(level int, mtime uint32) *Compressor {
	return NewCompressorWithCodec(deflate.NewCompressor(level), mtime)
}

// NewCompressorWithCodec returns a Compressor that borrows inner rather
// than owning it, for callers that already have a configured codec.
// inner must not outlive the Compressor's use of it.
func NewCompressorWithCodec(inner codec.Compressor, mtime uint32) *Compressor {
	c := &Compressor{inner: inner}
	c.resetHeader(mtime)
	return c
}

func (c *Compressor) resetHeader(mtime uint32) {
	c.header[0] = magic1
	c.header[1] = magic2
	c.header[offMethod] = method
	c.header[offFlags] = 0
	binary.LittleEndian.PutUint32(c.header[offMtime:], mtime)
	c.header[offXfl] = 0
	c.header[offOs] = osUnknown
	c.state = stateEmitMagic
	c.cursor = 0
	c.crc.Reset()
	c.size = 0
}

// Reset implements codec.Compressor, restoring the initial state and
// resetting the inner codec unconditionally.
func (c *Compressor) Reset() {
	mtime := binary.LittleEndian.Uint32(c.header[offMtime:])
	c.inner.Reset()
	c.resetHeader(mtime)
}

// Step implements codec.Compressor.
func (c *Compressor) Step(out buffer.MutBuf, in buffer.ConstBuf, flush codec.FlushMode) (buffer.Progress, error) {
	if c.state == stateCompressDone {
		if !in.Empty() {
			return buffer.Progress{}, streamerr.New(streamerr.InvalidState, "gzip: Step called with input after Done")
		}
		return buffer.Progress{}, nil
	}

	var total buffer.Progress
	for {
		switch c.state {
		case stateEmitMagic:
			if !c.emitFixed(&total, &out, c.header[offMagic:offFlags]) {
				return total, nil
			}
			c.state = stateEmitFlagsByte
		case stateEmitFlagsByte:
			if !c.emitFixed(&total, &out, c.header[offFlags:offMtime]) {
				return total, nil
			}
			c.state = stateEmitMtime
		case stateEmitMtime:
			if !c.emitFixed(&total, &out, c.header[offMtime:offXfl]) {
				return total, nil
			}
			c.state = stateEmitXfl
		case stateEmitXfl:
			if !c.emitFixed(&total, &out, c.header[offXfl:offOs]) {
				return total, nil
			}
			c.state = stateEmitOs
		case stateEmitOs:
			if !c.emitFixed(&total, &out, c.header[offOs:headerLen]) {
				return total, nil
			}
			c.state = stateCompressBody
			c.cursor = 0

		case stateCompressBody:
			p, err := c.inner.Step(out, in, flush)
			if err != nil {
				return total, err
			}
			if p.BytesRead > 0 {
				c.crc.Feed(in[:p.BytesRead])
				c.size += uint32(p.BytesRead)
				in = in.Advance(int(p.BytesRead))
			}
			if p.BytesWritten > 0 {
				out = out.Advance(int(p.BytesWritten))
			}
			total.BytesWritten += p.BytesWritten
			total.BytesRead += p.BytesRead
			if !p.Done {
				return total, nil
			}
			binary.LittleEndian.PutUint32(c.trailer[0:4], c.crc.Sum32())
			binary.LittleEndian.PutUint32(c.trailer[4:8], c.size)
			c.cursor = 0
			c.state = stateEmitCrc

		case stateEmitCrc:
			if !c.emitFixed(&total, &out, c.trailer[0:4]) {
				return total, nil
			}
			c.state = stateEmitSize
		case stateEmitSize:
			if !c.emitFixed(&total, &out, c.trailer[4:8]) {
				return total, nil
			}
			c.state = stateCompressDone
			total.Done = true
			return total, nil
		}
	}
}

// emitFixed writes as much of field[cursor:] into *out as will fit,
// advancing *out and tallying total.BytesWritten. It returns true once
// field has been fully emitted (and resets the cursor for the next
// field), or false if output ran out first — in which case the caller
// must return and let the next Step call resume mid-field.
func (c *Compressor) emitFixed(total *buffer.Progress, out *buffer.MutBuf, field []byte) bool {
	n := out.Fill(field[c.cursor:])
	c.cursor += n
	*out = out.Advance(n)
	total.BytesWritten += uint64(n)
	if c.cursor == len(field) {
		c.cursor = 0
		return true
	}
	return false
}
