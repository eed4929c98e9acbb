package targz

import (
	"io"

	"gzt/pkg/codec"
	"gzt/pkg/gzip"
)

// deflateLevel is the fixed compression level Pack uses. Reproducible
// output across runs comes from pinning the gzip mtime field to 0, but a
// fixed level keeps the compressed bytes themselves deterministic too.
const deflateLevel = 6

// newGzipSink wraps dst in a gzip-compressing io.WriteCloser, composing
// pkg/codec's generic bounded-buffer bridge with a fresh gzip.Compressor.
func newGzipSink(dst io.Writer) *codec.CompressWriter {
	return codec.NewCompressWriter(gzip.NewCompressor(deflateLevel, 0), dst)
}

// newGzipSource wraps src in a gzip-decompressing io.Reader.
func newGzipSource(src io.Reader) *codec.DecompressReader {
	return codec.NewDecompressReader(gzip.NewDecompressor(), src)
}
