// Package cli defines the kong command tree for the gzt binary. The
// library itself (lib, pkg/*) never reads os.Args or the environment;
// this package is the one place that boundary is crossed.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"gzt/lib"
	"gzt/pkg/buffer"
	"gzt/pkg/codec"
	"gzt/pkg/targz"
)

// CLI is the root kong command set.
type CLI struct {
	Compress   CompressCmd   `cmd:"" help:"Compress a file as a raw DEFLATE stream."`
	Decompress DecompressCmd `cmd:"" help:"Decompress a raw DEFLATE stream."`
	Gzip       GzipCmd       `cmd:"" help:"Compress a file into a gzip member."`
	Gunzip     GunzipCmd     `cmd:"" help:"Decompress a gzip member."`
	Pack       PackCmd       `cmd:"" help:"Create a .tar.gz archive from a directory."`
	Extract    ExtractCmd    `cmd:"" help:"Extract a .tar.gz archive into a directory."`
}

type CompressCmd struct {
	Input  string `arg:"" help:"Input file."`
	Output string `arg:"" optional:"" help:"Output file (defaults to input + .deflate)."`
}

func (c *CompressCmd) Run() error {
	return runCompress(c.Input, outputOr(c.Output, c.Input, ".deflate"), lib.CompressDeflate)
}

type DecompressCmd struct {
	Input  string `arg:"" help:"Input file."`
	Output string `arg:"" optional:"" help:"Output file."`
}

func (c *DecompressCmd) Run() error {
	return runDecompress(c.Input, outputOr(c.Output, c.Input, ".out"), lib.DecompressInflate)
}

type GzipCmd struct {
	Input  string `arg:"" help:"Input file."`
	Output string `arg:"" optional:"" help:"Output file (defaults to input + .gz)."`
}

func (c *GzipCmd) Run() error {
	return runCompress(c.Input, outputOr(c.Output, c.Input, ".gz"),
		func(dst io.Writer, src io.Reader, _ codec.FlushMode) (buffer.Progress, error) {
			return lib.CompressGzip(dst, src)
		})
}

type GunzipCmd struct {
	Input  string `arg:"" help:"Input file."`
	Output string `arg:"" optional:"" help:"Output file."`
}

func (c *GunzipCmd) Run() error {
	return runDecompress(c.Input, outputOr(c.Output, c.Input, ".out"), lib.DecompressGzip)
}

type PackCmd struct {
	Dir    string `arg:"" help:"Directory to archive."`
	Output string `arg:"" help:"Output .tar.gz path."`
}

func (c *PackCmd) Run() error {
	log.Info().Str("dir", c.Dir).Str("output", c.Output).Msg("packing directory")
	return lib.CompressDirectoryTarGz(c.Dir, c.Output)
}

type ExtractCmd struct {
	Input           string `arg:"" help:"Input .tar.gz path."`
	Destination     string `arg:"" help:"Destination directory."`
	StripComponents int    `help:"Number of leading path elements to strip from each member." default:"0"`
}

func (c *ExtractCmd) Run() error {
	f, err := os.Open(c.Input)
	if err != nil {
		return err
	}
	defer f.Close()
	log.Info().Str("input", c.Input).Str("destination", c.Destination).Msg("extracting archive")
	return lib.ExpandDirectoryTarGz(targz.ExpandOptions{
		Destination:     c.Destination,
		StripComponents: c.StripComponents,
	}, f)
}

func outputOr(explicit, input, suffix string) string {
	if explicit != "" {
		return explicit
	}
	return input + suffix
}

func runCompress(input, output string, fn func(dst io.Writer, src io.Reader, flush codec.FlushMode) (buffer.Progress, error)) error {
	src, err := os.Open(input)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(output)
	if err != nil {
		return err
	}
	defer dst.Close()

	bar := newBar(sizeOf(src), fmt.Sprintf("compress %s", input))
	defer bar.wait()

	progress, err := fn(dst, bar.wrap(src), codec.Finish)
	if err != nil {
		return err
	}
	log.Info().Uint64("bytes_read", progress.BytesRead).Uint64("bytes_written", progress.BytesWritten).Msg("done")
	return nil
}

func runDecompress(input, output string, fn func(dst io.Writer, src io.Reader) (buffer.Progress, error)) error {
	src, err := os.Open(input)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(output)
	if err != nil {
		return err
	}
	defer dst.Close()

	bar := newBar(sizeOf(src), fmt.Sprintf("decompress %s", input))
	defer bar.wait()

	progress, err := fn(dst, bar.wrap(src))
	if err != nil {
		return err
	}
	log.Info().Uint64("bytes_read", progress.BytesRead).Uint64("bytes_written", progress.BytesWritten).Msg("done")
	return nil
}

func sizeOf(f *os.File) int64 {
	st, err := f.Stat()
	if err != nil {
		return 0
	}
	return st.Size()
}

// bar wraps an mpb progress bar around the CLI's source reader, so the
// byte count driving the bar reflects bytes actually fed into the
// codec rather than an estimate.
type bar struct {
	p *mpb.Progress
	b *mpb.Bar
}

func newBar(total int64, label string) *bar {
	if total <= 0 {
		total = 1
	}
	p := mpb.New(mpb.WithWidth(48))
	b := p.AddBar(total,
		mpb.PrependDecorators(decor.Name(label)),
		mpb.AppendDecorators(decor.CountersKibiByte("% .1f / % .1f"), decor.Percentage()),
	)
	return &bar{p: p, b: b}
}

func (bar *bar) wrap(r io.Reader) io.Reader { return &barReader{r: r, b: bar.b} }
func (bar *bar) wait()                      { bar.p.Wait() }

type barReader struct {
	r io.Reader
	b *mpb.Bar
}

func (br *barReader) Read(p []byte) (int, error) {
	n, err := br.r.Read(p)
	if n > 0 {
		br.b.IncrBy(n)
	}
	return n, err
}
