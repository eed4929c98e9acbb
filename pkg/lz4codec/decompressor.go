package lz4codec

import (
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"

	"gzt/pkg/buffer"
	"gzt/pkg/streamerr"
)

// Decompressor adapts an *lz4.Reader, which is pull-based the same way
// flate.Reader is. Like deflate.Decompressor it bridges with one background
// goroutine per instance and a condvar, but Step differs: it appends all of
// in to an internal queue and reports it read at once (bytes past the end
// of the LZ4 frame are consumed too), and it never waits for decoded
// output, returning only what the goroutine has produced so far.
type Decompressor struct {
	mu      sync.Mutex
	cond    *sync.Cond
	inBuf   []byte
	closed  bool
	outBuf  []byte
	outErr  error
	done    bool
	started bool
	src     *feedReader
	zr      *lz4.Reader
}

// NewDecompressor returns a ready-to-use Decompressor.
func NewDecompressor() *Decompressor {
	d := &Decompressor{}
	d.cond = sync.NewCond(&d.mu)
	d.reinit()
	return d
}

func (d *Decompressor) reinit() {
	d.inBuf = nil
	d.closed = false
	d.outBuf = nil
	d.outErr = nil
	d.done = false
	d.started = false
	d.src = &feedReader{d: d}
	d.zr = lz4.NewReader(d.src)
}

// Reset implements codec.Decompressor.
func (d *Decompressor) Reset() {
	d.mu.Lock()
	d.closed = true
	d.cond.Broadcast()
	for d.started && d.outErr == nil {
		d.cond.Wait()
	}
	d.mu.Unlock()
	d.cond = sync.NewCond(&d.mu)
	d.reinit()
}

type feedReader struct{ d *Decompressor }

func (f *feedReader) Read(p []byte) (int, error) {
	d := f.d
	d.mu.Lock()
	defer d.mu.Unlock()
	for len(d.inBuf) == 0 && !d.closed {
		d.cond.Wait()
	}
	if len(d.inBuf) == 0 && d.closed {
		return 0, io.EOF
	}
	n := copy(p, d.inBuf)
	d.inBuf = d.inBuf[n:]
	return n, nil
}

func (d *Decompressor) ensureStarted() {
	if d.started {
		return
	}
	d.started = true
	go d.pump()
}

func (d *Decompressor) pump() {
	buf := make([]byte, 32*1024)
	for {
		n, err := d.zr.Read(buf)
		d.mu.Lock()
		if n > 0 {
			d.outBuf = append(d.outBuf, buf[:n]...)
		}
		if err != nil {
			d.outErr = err
		}
		d.cond.Broadcast()
		d.mu.Unlock()
		if err != nil {
			return
		}
	}
}

// Step implements codec.Decompressor.
func (d *Decompressor) Step(out buffer.MutBuf, in buffer.ConstBuf) (buffer.Progress, error) {
	d.mu.Lock()
	if d.done && !in.Empty() {
		d.mu.Unlock()
		return buffer.Progress{}, streamerr.New(streamerr.InvalidState, "lz4codec: Step called with input after Done")
	}

	var p buffer.Progress
	if !in.Empty() {
		d.inBuf = append(d.inBuf, in...)
		p.BytesRead = uint64(len(in))
		d.cond.Broadcast()
	}
	d.ensureStarted()

	n := out.Fill(d.outBuf)
	d.outBuf = d.outBuf[n:]
	p.BytesWritten = uint64(n)

	var err error
	if len(d.outBuf) == 0 && d.outErr != nil {
		if d.outErr == io.EOF {
			d.done = true
			p.Done = true
		} else {
			err = streamerr.WithSub(streamerr.CorruptedInput, streamerr.DeflateError, "lz4codec: %v", d.outErr)
		}
	}
	d.mu.Unlock()
	return p, err
}
