// Package lib is the public façade over gzt's components: callers get
// plain io.Reader/io.Writer functions and never touch pkg/buffer or
// pkg/codec directly.
package lib

import (
	"io"

	"gzt/pkg/buffer"
	"gzt/pkg/codec"
	"gzt/pkg/deflate"
	"gzt/pkg/fscap"
	"gzt/pkg/gzip"
	"gzt/pkg/targz"
)

// DefaultCompressionLevel is the level CompressDeflate and CompressGzip
// use; pass a different level directly to pkg/deflate/pkg/gzip for
// finer control.
const DefaultCompressionLevel = 6

// CompressDeflate compresses src into dst as a raw DEFLATE stream,
// finishing with the given flush mode (ordinarily codec.Finish).
func CompressDeflate(dst io.Writer, src io.Reader, flush codec.FlushMode) (buffer.Progress, error) {
	return copyThroughCompressor(deflate.NewCompressor(DefaultCompressionLevel), dst, src, flush)
}

// DecompressInflate decompresses a raw DEFLATE stream from src into dst.
func DecompressInflate(dst io.Writer, src io.Reader) (buffer.Progress, error) {
	return copyThroughDecompressor(deflate.NewDecompressor(), dst, src)
}

// CompressGzip writes src to dst as a complete gzip member (header,
// compressed body, CRC-32 and size trailer).
func CompressGzip(dst io.Writer, src io.Reader) (buffer.Progress, error) {
	return copyThroughCompressor(gzip.NewCompressor(DefaultCompressionLevel, 0), dst, src, codec.Finish)
}

// DecompressGzip reads one gzip member from src and writes its
// decompressed payload to dst, verifying the CRC-32 and size trailer.
func DecompressGzip(dst io.Writer, src io.Reader) (buffer.Progress, error) {
	return copyThroughDecompressor(gzip.NewDecompressor(), dst, src)
}

// CompressDirectoryTarGz walks dir and writes a .tar.gz archive of it to
// outPath.
func CompressDirectoryTarGz(dir, outPath string) error {
	return targz.Pack(dir, outPath, fscap.OS{})
}

// ExpandDirectoryTarGz reads a .tar.gz archive from input and recreates
// its members under opts.Destination.
func ExpandDirectoryTarGz(opts targz.ExpandOptions, input io.Reader) error {
	return targz.Expand(opts, input, fscap.OS{})
}

func copyThroughCompressor(c codec.Compressor, dst io.Writer, src io.Reader, flush codec.FlushMode) (buffer.Progress, error) {
	w := codec.NewCompressWriter(c, dst)
	n, err := io.Copy(w, src)
	if err != nil {
		return buffer.Progress{BytesRead: uint64(n)}, err
	}
	if err := w.CloseWithFlush(flush); err != nil {
		return buffer.Progress{BytesRead: uint64(n)}, err
	}
	return buffer.Progress{BytesRead: uint64(n), Done: true}, nil
}

func copyThroughDecompressor(d codec.Decompressor, dst io.Writer, src io.Reader) (buffer.Progress, error) {
	r := codec.NewDecompressReader(d, src)
	n, err := io.Copy(dst, r)
	if err != nil {
		return buffer.Progress{BytesWritten: uint64(n)}, err
	}
	return buffer.Progress{BytesWritten: uint64(n), Done: true}, nil
}
