package deflate

import (
	"bytes"
	"crypto/rand"
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
	plain := []byte("the quick brown fox jumps over the lazy dog, repeatedly, repeatedly, repeatedly")
	compressed := compressAll(t, NewCompressor(6), plain)
	got := decompressAll(t, NewDecompressor(), compressed)
	assert.Equal(t, plain, got)
}

func TestRoundTripRandomData(t *testing.T) {
	plain := make([]byte, 64*1024)
	_, err := rand.Read(plain)
	require.NoError(t, err)

	compressed := compressAll(t, NewCompressor(6), plain)
	got := decompressAll(t, NewDecompressor(), compressed)
	assert.Equal(t, plain, got)
}

func TestStepOneByteAtATimeOutput(t *testing.T) {
	plain := []byte("small buffers must not lose progress, small buffers must not lose progress")
	c := NewCompressor(6)
	var out bytes.Buffer
	in := buffer.ConstBuf(plain)
	tiny := make([]byte, 1)
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

func TestStepAfterDoneWithInputIsInvalidState(t *testing.T) {
	c := NewCompressor(6)
	compressAll(t, c, []byte("x"))
	_, err := c.Step(make(buffer.MutBuf, 16), buffer.ConstBuf("y"), codec.Finish)
	require.Error(t, err)
}

func TestResetAllowsReuse(t *testing.T) {
	c := NewCompressor(6)
	first := compressAll(t, c, []byte("hello"))
	c.Reset()
	second := compressAll(t, c, []byte("hello"))
	assert.Equal(t, first, second)
}

// TestStepDoesNotConsumeBytesPastEndOfStream guards against exactly what a
// gzip member relies on: bytes following the DEFLATE stream (its CRC/size
// trailer) must still be there, unread, once Done is reported, so the
// caller can read them itself.
func TestStepDoesNotConsumeBytesPastEndOfStream(t *testing.T) {
	plain := []byte("the trailer bytes must survive decompression")
	compressed := compressAll(t, NewCompressor(6), plain)
	trailer := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04}
	withTrailer := append(append([]byte{}, compressed...), trailer...)

	d := NewDecompressor()
	var out bytes.Buffer
	buf := make([]byte, 1024)
	in := buffer.ConstBuf(withTrailer)
	for {
		p, err := d.Step(buffer.MutBuf(buf), in)
		require.NoError(t, err)
		out.Write(buf[:p.BytesWritten])
		in = in.Advance(int(p.BytesRead))
		if p.Done {
			break
		}
	}

	assert.Equal(t, plain, out.Bytes())
	assert.Equal(t, trailer, []byte(in))
}
