package deflate

import (
	"io"
	"sync"

	"github.com/klauspost/compress/flate"

	"gzt/pkg/buffer"
	"gzt/pkg/streamerr"
)

// Decompressor adapts a flate.Reader to the codec.Decompressor contract.
// flate.Reader is pull-based: its Read method calls back into the source
// we give it, which is the opposite direction from the bounded-buffer push
// contract Step exposes. The adapter bridges the two with one background
// goroutine per instance that owns the underlying reader: it blocks on a
// condition variable when starved for input, and Step exposes only the
// current call's input as a bounded view, never blocking beyond what's
// needed to guarantee progress.
type Decompressor struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []byte // the current Step call's unconsumed input; nil between calls
	closed  bool   // true once Reset tears this instance down
	outBuf  []byte
	outErr  error
	done    bool
	started bool
	src     *feedReader
	zr      io.ReadCloser
}

// NewDecompressor returns a ready-to-use Decompressor. The underlying
// engine is started lazily on the first Step call.
func NewDecompressor() *Decompressor {
	d := &Decompressor{}
	d.cond = sync.NewCond(&d.mu)
	d.reinit()
	return d
}

func (d *Decompressor) reinit() {
	d.pending = nil
	d.closed = false
	d.outBuf = nil
	d.outErr = nil
	d.done = false
	d.started = false
	d.src = &feedReader{d: d}
	d.zr = flate.NewReader(d.src)
}

// Reset tears down any in-flight background goroutine and restores the
// decompressor to its initial state. It is infallible: the goroutine, if
// any, is unblocked, and Reset waits until the engine has reported its
// terminal error so the old goroutine never reads the next stream's input.
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

// feedReader is the source the underlying flate.Reader pulls from. It
// implements ReadByte as well as Read so flate.NewReader drives it
// directly instead of wrapping it in a bufio.Reader: a bufio wrap reads
// ahead in large chunks and would pull bytes past the end of the DEFLATE
// stream into whatever trailer follows it (the gzip CRC/size fields),
// handing them to the engine instead of leaving them in pending for the
// caller to read back out of in. Both methods block on d's condition
// variable whenever the current call's pending input is exhausted, waking
// up when Step exposes more or Reset closes the instance.
type feedReader struct{ d *Decompressor }

func (f *feedReader) Read(p []byte) (int, error) {
	d := f.d
	d.mu.Lock()
	defer d.mu.Unlock()
	for len(d.pending) == 0 && !d.closed {
		d.cond.Wait()
	}
	if len(d.pending) == 0 && d.closed {
		return 0, io.EOF
	}
	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	d.cond.Broadcast()
	return n, nil
}

func (f *feedReader) ReadByte() (byte, error) {
	d := f.d
	d.mu.Lock()
	defer d.mu.Unlock()
	for len(d.pending) == 0 && !d.closed {
		d.cond.Wait()
	}
	if len(d.pending) == 0 && d.closed {
		return 0, io.EOF
	}
	b := d.pending[0]
	d.pending = d.pending[1:]
	d.cond.Broadcast()
	return b, nil
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
	defer d.mu.Unlock()
	if d.done && !in.Empty() {
		return buffer.Progress{}, streamerr.New(streamerr.InvalidState, "deflate: Step called with input after Done")
	}

	d.pending = []byte(in)
	d.cond.Broadcast()
	d.ensureStarted()

	// Wait until the engine has produced output, finished, failed, or
	// pulled everything we just offered off pending — whichever comes
	// first. This bounds BytesRead to what flate actually consumed: once
	// outErr is set, anything still sitting in pending (the gzip trailer,
	// past end-of-stream) is never reported as read, so it stays visible
	// to the caller on the next call.
	for len(d.outBuf) == 0 && d.outErr == nil && len(d.pending) > 0 {
		d.cond.Wait()
	}

	var p buffer.Progress
	p.BytesRead = uint64(len(in) - len(d.pending))
	d.pending = nil

	n := out.Fill(d.outBuf)
	d.outBuf = d.outBuf[n:]
	p.BytesWritten = uint64(n)

	var err error
	if len(d.outBuf) == 0 && d.outErr != nil {
		// Only surface the engine's terminal state once every decoded
		// byte ahead of it has reached the caller.
		if d.outErr == io.EOF {
			d.done = true
			p.Done = true
		} else {
			err = streamerr.WithSub(streamerr.CorruptedInput, streamerr.DeflateError, "deflate: %v", d.outErr)
		}
	}
	return p, err
}
