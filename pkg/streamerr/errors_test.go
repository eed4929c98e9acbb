package streamerr

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(UnsafePath, "member %q escapes destination", "../x")
	assert.True(t, Is(err, UnsafePath))
	assert.False(t, Is(err, InvalidFormat))
}

func TestIsFalseForPlainError(t *testing.T) {
	assert.False(t, Is(io.EOF, InvalidFormat))
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := Wrap(IoError, cause, "targz: write failed")
	assert.True(t, Is(err, IoError))
	assert.ErrorIs(t, err, cause)
}

func TestWithSubCarriesSubKind(t *testing.T) {
	err := WithSub(CorruptedInput, CrcMismatch, "gzip: crc mismatch")
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, CorruptedInput, se.Kind)
	assert.Equal(t, CrcMismatch, se.Sub)
	assert.Contains(t, err.Error(), "CrcMismatch")
}

func TestErrorMessageWithoutSubKind(t *testing.T) {
	err := New(InvalidState, "step called after Done")
	assert.Equal(t, "InvalidState: step called after Done", err.Error())
}

func TestKindStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestSubKindStringNoSubKind(t *testing.T) {
	assert.Equal(t, "", NoSubKind.String())
}

func TestNewCapturesStack(t *testing.T) {
	err := New(InvalidFormat, "bad magic")
	// github.com/pkg/errors.WithStack wraps the cause in a type exposing
	// StackTrace(); confirm that's still reachable through the chain.
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	var st stackTracer
	require.True(t, errors.As(err, &st))
	assert.NotEmpty(t, st.StackTrace())
}
