package progress

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitStopLifecycle(t *testing.T) {
	Init(100)
	defer Stop()

	assert.True(t, running)
	Init(100) // second call while running is a no-op, not a double-start
	assert.True(t, running)
}

func TestAddBytesAccumulates(t *testing.T) {
	Init(0)
	defer Stop()

	totalBytesProcessed.Store(0)
	AddBytes(10)
	AddBytes(5)
	assert.EqualValues(t, 15, totalBytesProcessed.Load())
}

func TestWriterReportsBytesWritten(t *testing.T) {
	Init(0)
	defer Stop()
	totalBytesProcessed.Store(0)

	var dst bytes.Buffer
	pw := &Writer{W: &dst}
	n, err := pw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.EqualValues(t, 5, totalBytesProcessed.Load())
}

func TestStopAllowsRestart(t *testing.T) {
	Init(0)
	Stop()
	// A second Init after Stop must be able to start a fresh ticker
	// goroutine rather than silently doing nothing forever.
	Init(0)
	time.Sleep(time.Millisecond)
	assert.True(t, running)
	Stop()
}
