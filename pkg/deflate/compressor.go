// Package deflate adapts github.com/klauspost/compress/flate, a
// drop-in substitute for compress/flate, behind the
// codec.Compressor/codec.Decompressor contract. It owns no framing of
// its own; gzip framing lives in pkg/gzip.
package deflate

import (
	"bytes"

	"github.com/klauspost/compress/flate"

	"gzt/pkg/buffer"
	"gzt/pkg/codec"
	"gzt/pkg/streamerr"
)

// DefaultCompression mirrors flate.DefaultCompression so callers don't
// need to import klauspost/compress/flate themselves.
const DefaultCompression = flate.DefaultCompression

// Compressor adapts a *flate.Writer to the codec.Compressor contract.
// flate.Writer is push-based (Write/Flush/Close all run synchronously and
// call back into the sink we give it), so the adapter needs no background
// goroutine: Step simply forwards in to the writer and drains whatever
// compressed bytes it produced into out, buffering the remainder for the
// next call.
type Compressor struct {
	level  int
	zw     *flate.Writer
	sink   bytes.Buffer
	cursor int
	finish bool
	done   bool
}

// NewCompressor returns a Compressor at the given compression level
// (flate.DefaultCompression if level is 0).
func NewCompressor(level int) *Compressor {
	if level == 0 {
		level = flate.DefaultCompression
	}
	c := &Compressor{level: level}
	c.reinit()
	return c
}

func (c *Compressor) reinit() {
	c.sink.Reset()
	c.cursor = 0
	c.finish = false
	c.done = false
	zw, err := flate.NewWriter(&c.sink, c.level)
	if err != nil {
		// Only invalid levels fail; NewCompressor maps 0 to the default
		// but passes any other level through unchecked.
		panic(err)
	}
	c.zw = zw
}

// Reset restores the compressor to its initial state, discarding any
// buffered output.
func (c *Compressor) Reset() { c.reinit() }

func (c *Compressor) pending() []byte {
	return c.sink.Bytes()[c.cursor:]
}

func (c *Compressor) drainInto(out *buffer.MutBuf) int {
	n := out.Fill(c.pending())
	c.cursor += n
	*out = out.Advance(n)
	return n
}

// Step implements codec.Compressor.
func (c *Compressor) Step(out buffer.MutBuf, in buffer.ConstBuf, flush codec.FlushMode) (buffer.Progress, error) {
	if c.done && !in.Empty() {
		return buffer.Progress{}, streamerr.New(streamerr.InvalidState, "deflate: Step called with input after Done")
	}

	var p buffer.Progress
	p.BytesWritten += uint64(c.drainInto(&out))

	if !in.Empty() {
		n, err := c.zw.Write(in)
		if err != nil {
			return p, streamerr.Wrap(streamerr.IoError, err, "deflate: write to underlying engine")
		}
		p.BytesRead += uint64(n)
		p.BytesWritten += uint64(c.drainInto(&out))
	}

	switch flush {
	case codec.Finish:
		if !c.finish {
			if err := c.zw.Close(); err != nil {
				return p, streamerr.Wrap(streamerr.IoError, err, "deflate: close underlying engine")
			}
			c.finish = true
			p.BytesWritten += uint64(c.drainInto(&out))
		}
	case codec.Sync, codec.Full, codec.Partial, codec.Block:
		if err := c.zw.Flush(); err != nil {
			return p, streamerr.Wrap(streamerr.IoError, err, "deflate: flush underlying engine")
		}
		p.BytesWritten += uint64(c.drainInto(&out))
	}

	if c.finish && len(c.pending()) == 0 {
		c.done = true
		p.Done = true
	}
	return p, nil
}
