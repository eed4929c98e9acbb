package lz4codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gzt/pkg/buffer"
	"gzt/pkg/codec"
)

func compressAll(t *testing.T, c *Compressor, plain []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	buf := make([]byte, 1024)
	in := buffer.ConstBuf(plain)
	for {
		flush := codec.NoFlush
		if in.Empty() {
			flush = codec.Finish
		}
		p, err := c.Step(buffer.MutBuf(buf), in, flush)
		require.NoError(t, err)
		out.Write(buf[:p.BytesWritten])
		in = in.Advance(int(p.BytesRead))
		if p.Done {
			break
		}
	}
	return out.Bytes()
}

func decompressAll(t *testing.T, d *Decompressor, compressed []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	buf := make([]byte, 1024)
	in := buffer.ConstBuf(compressed)
	for {
		p, err := d.Step(buffer.MutBuf(buf), in)
		require.NoError(t, err)
		out.Write(buf[:p.BytesWritten])
		in = in.Advance(int(p.BytesRead))
		if p.Done {
			break
		}
	}
	return out.Bytes()
}

func TestRoundTrip(t *testing.T) {
	plain := []byte("proving the codec.Compressor contract is genuinely generic, not deflate-specific")
	compressed := compressAll(t, NewCompressor(), plain)
	got := decompressAll(t, NewDecompressor(), compressed)
	assert.Equal(t, plain, got)
}

func TestRoundTripTinyOutputBuffer(t *testing.T) {
	plain := bytes.Repeat([]byte("lz4"), 2000)
	c := NewCompressor()
	var out bytes.Buffer
	in := buffer.ConstBuf(plain)
	tiny := make([]byte, 2)
	for {
		flush := codec.NoFlush
		if in.Empty() {
			flush = codec.Finish
		}
		p, err := c.Step(buffer.MutBuf(tiny), in, flush)
		require.NoError(t, err)
		out.Write(tiny[:p.BytesWritten])
		in = in.Advance(int(p.BytesRead))
		if p.Done {
			break
		}
	}
	got := decompressAll(t, NewDecompressor(), out.Bytes())
	assert.Equal(t, plain, got)
}

func TestResetAllowsReuse(t *testing.T) {
	c := NewCompressor()
	first := compressAll(t, c, []byte("hello lz4"))
	c.Reset()
	second := compressAll(t, c, []byte("hello lz4"))
	assert.Equal(t, first, second)
}

func TestStepAfterDoneWithInputIsInvalidState(t *testing.T) {
	c := NewCompressor()
	compressAll(t, c, []byte("x"))
	_, err := c.Step(make(buffer.MutBuf, 16), buffer.ConstBuf("y"), codec.Finish)
	require.Error(t, err)
}

// TestSatisfiesCodecContract pins lz4codec's types to the generic
// codec.Compressor/codec.Decompressor interfaces, the property this
// package exists to demonstrate.
func TestSatisfiesCodecContract(t *testing.T) {
	var _ codec.Compressor = NewCompressor()
	var _ codec.Decompressor = NewDecompressor()
}
