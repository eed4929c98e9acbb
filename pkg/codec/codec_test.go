package codec_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gzt/pkg/buffer"
	"gzt/pkg/codec"
	"gzt/pkg/deflate"
)

func TestDriveCompressorAcrossChainSegments(t *testing.T) {
	plain := []byte("drive the compressor across several small chained segments")
	in := buffer.NewChain(
		buffer.ConstBuf(plain[:10]),
		buffer.ConstBuf(plain[10:30]),
		buffer.ConstBuf(plain[30:]),
	)

	var out bytes.Buffer
	outBuf := make([]byte, 8)
	c := deflate.NewCompressor(6)
	for {
		outChain := buffer.NewChain(buffer.MutBuf(outBuf))
		flush := codec.NoFlush
		if in.Done() {
			flush = codec.Finish
		}
		p, err := codec.DriveCompressor(c, outChain, in, flush)
		require.NoError(t, err)
		out.Write(outBuf[:p.BytesWritten])
		if p.Done {
			break
		}
		if p.BytesWritten == 0 && p.BytesRead == 0 {
			break
		}
	}

	d := deflate.NewDecompressor()
	var got bytes.Buffer
	gotBuf := make([]byte, 8)
	compressedIn := buffer.NewChain(buffer.ConstBuf(out.Bytes()))
	for {
		outChain := buffer.NewChain(buffer.MutBuf(gotBuf))
		p, err := codec.DriveDecompressor(d, outChain, compressedIn)
		require.NoError(t, err)
		got.Write(gotBuf[:p.BytesWritten])
		if p.Done {
			break
		}
	}

	assert.Equal(t, plain, got.Bytes())
}

func TestCompressWriterDecompressReaderRoundTrip(t *testing.T) {
	plain := []byte("round trip through the generic io.Writer/io.Reader bridge, twice for good measure")

	var compressed bytes.Buffer
	w := codec.NewCompressWriter(deflate.NewCompressor(6), &compressed)
	n, err := w.Write(plain)
	require.NoError(t, err)
	assert.Equal(t, len(plain), n)
	require.NoError(t, w.Close())

	r := codec.NewDecompressReader(deflate.NewDecompressor(), bytes.NewReader(compressed.Bytes()))
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestCompressWriterCloseWithFlushSync(t *testing.T) {
	var compressed bytes.Buffer
	w := codec.NewCompressWriter(deflate.NewCompressor(6), &compressed)
	_, err := w.Write([]byte("partial block"))
	require.NoError(t, err)
	require.NoError(t, w.CloseWithFlush(codec.Sync))
	assert.NotEmpty(t, compressed.Bytes())
}

func TestDecompressReaderSmallOutputBuffer(t *testing.T) {
	plain := bytes.Repeat([]byte("xy"), 1000)
	var compressed bytes.Buffer
	w := codec.NewCompressWriter(deflate.NewCompressor(6), &compressed)
	_, err := w.Write(plain)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := codec.NewDecompressReader(deflate.NewDecompressor(), bytes.NewReader(compressed.Bytes()))
	var got bytes.Buffer
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		got.Write(buf[:n])
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, plain, got.Bytes())
}

func TestFlushModeString(t *testing.T) {
	assert.Equal(t, "NoFlush", codec.NoFlush.String())
	assert.Equal(t, "Finish", codec.Finish.String())
	assert.Equal(t, "Unknown", codec.FlushMode(99).String())
}
