// Package lz4codec wraps github.com/pierrec/lz4/v4 behind the same
// codec.Compressor/codec.Decompressor contract pkg/deflate implements.
// It is not wired into the gzip pipeline (LZ4's framing isn't
// gzip-compatible), but it exists to prove the contract in pkg/codec is
// genuinely generic over the underlying engine: pkg/gzip's state
// machine, and pkg/codec's driver loops, work identically whether
// they're handed a pkg/deflate codec or this one.
package lz4codec

import (
	"bytes"

	"github.com/pierrec/lz4/v4"

	"gzt/pkg/buffer"
	"gzt/pkg/codec"
	"gzt/pkg/streamerr"
)

// Compressor adapts an *lz4.Writer, which like flate.Writer is push-based
// and therefore synchronous to drive.
type Compressor struct {
	zw     *lz4.Writer
	sink   bytes.Buffer
	cursor int
	finish bool
	done   bool
}

// NewCompressor returns an LZ4 Compressor at the library's default settings.
func NewCompressor() *Compressor {
	c := &Compressor{}
	c.reinit()
	return c
}

func (c *Compressor) reinit() {
	c.sink.Reset()
	c.cursor = 0
	c.finish = false
	c.done = false
	c.zw = lz4.NewWriter(&c.sink)
}

// Reset implements codec.Compressor.
func (c *Compressor) Reset() { c.reinit() }

func (c *Compressor) pending() []byte { return c.sink.Bytes()[c.cursor:] }

func (c *Compressor) drainInto(out *buffer.MutBuf) int {
	n := out.Fill(c.pending())
	c.cursor += n
	*out = out.Advance(n)
	return n
}

// Step implements codec.Compressor.
func (c *Compressor) Step(out buffer.MutBuf, in buffer.ConstBuf, flush codec.FlushMode) (buffer.Progress, error) {
	if c.done && !in.Empty() {
		return buffer.Progress{}, streamerr.New(streamerr.InvalidState, "lz4codec: Step called with input after Done")
	}

	var p buffer.Progress
	p.BytesWritten += uint64(c.drainInto(&out))

	if !in.Empty() {
		n, err := c.zw.Write(in)
		if err != nil {
			return p, streamerr.Wrap(streamerr.IoError, err, "lz4codec: write to underlying engine")
		}
		p.BytesRead += uint64(n)
		p.BytesWritten += uint64(c.drainInto(&out))
	}

	if flush == codec.Finish && !c.finish {
		if err := c.zw.Close(); err != nil {
			return p, streamerr.Wrap(streamerr.IoError, err, "lz4codec: close underlying engine")
		}
		c.finish = true
		p.BytesWritten += uint64(c.drainInto(&out))
	}

	if c.finish && len(c.pending()) == 0 {
		c.done = true
		p.Done = true
	}
	return p, nil
}
