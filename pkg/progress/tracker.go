// Package progress reports periodic throughput updates for a long-running
// compress/extract operation: a global ticker plus an atomic byte
// counter, logging through zerolog and formatting sizes/rates with
// github.com/docker/go-units.
package progress

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	totalBytesProcessed atomic.Uint64
	totalSize           uint64
	done                chan struct{}
	running             bool
	mu                  sync.Mutex
)

// Init starts the background ticker. size is the expected total byte
// count, used to report a percentage and ETA; pass 0 if unknown.
func Init(size uint64) {
	mu.Lock()
	defer mu.Unlock()
	if running {
		return
	}
	totalBytesProcessed.Store(0)
	totalSize = size
	done = make(chan struct{})
	running = true
	go tick()
}

// Stop stops the ticker and logs a final summary line.
func Stop() {
	mu.Lock()
	defer mu.Unlock()
	if running {
		close(done)
		running = false
	}
}

// AddBytes records n more bytes processed.
func AddBytes(n uint64) {
	if n > 0 {
		totalBytesProcessed.Add(n)
	}
}

func tick() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var prevBytes uint64
	var lastLog time.Time
	start := time.Now()

	for {
		select {
		case <-ticker.C:
			current := totalBytesProcessed.Load()
			rate := (current - prevBytes) * 4 // 250ms sampling interval
			prevBytes = current

			if time.Since(lastLog) < time.Second {
				continue
			}
			lastLog = time.Now()

			ev := log.Info().
				Str("processed", units.BytesSize(float64(current))).
				Str("rate", units.BytesSize(float64(rate))+"/s")
			if totalSize > 0 {
				pct := float64(current) / float64(totalSize) * 100
				ev = ev.Float64("pct", pct)
				if rate > 0 {
					eta := time.Duration(float64(totalSize-current)/float64(rate)) * time.Second
					ev = ev.Dur("eta", eta)
				}
			}
			ev.Msg("processing")

		case <-done:
			elapsed := time.Since(start).Seconds()
			if elapsed < 0.001 {
				elapsed = 0.001
			}
			avgRate := float64(totalBytesProcessed.Load()) / elapsed
			log.WithLevel(zerolog.InfoLevel).
				Str("total", units.BytesSize(float64(totalBytesProcessed.Load()))).
				Str("avg_rate", units.BytesSize(avgRate)+"/s").
				Dur("elapsed", time.Duration(elapsed*float64(time.Second))).
				Msg("processing complete")
			return
		}
	}
}

// Writer wraps an io.Writer, reporting every successful write's byte
// count to AddBytes.
type Writer struct {
	W io.Writer
}

func (pw *Writer) Write(p []byte) (int, error) {
	n, err := pw.W.Write(p)
	if err == nil && n > 0 {
		AddBytes(uint64(n))
	}
	return n, err
}
