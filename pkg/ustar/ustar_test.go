package ustar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	m := Member{
		Filename: "test.txt",
		Mode:     0644,
		UID:      1000,
		GID:      1000,
		Size:     5,
		MTime:    1700000000,
		Typeflag: TypeRegular,
		Uname:    "alice",
		Gname:    "staff",
	}

	block, err := encodeHeader(m)
	require.NoError(t, err)

	got, terminator, err := decodeHeader(block)
	require.NoError(t, err)
	assert.False(t, terminator)
	assert.Equal(t, m.Filename, got.Filename)
	assert.Equal(t, m.Mode, got.Mode)
	assert.Equal(t, m.UID, got.UID)
	assert.Equal(t, m.GID, got.GID)
	assert.Equal(t, m.Size, got.Size)
	assert.Equal(t, m.MTime, got.MTime)
	assert.Equal(t, m.Typeflag, got.Typeflag)
	assert.Equal(t, m.Uname, got.Uname)
	assert.Equal(t, m.Gname, got.Gname)
}

func TestDecodeTerminator(t *testing.T) {
	var block [blockSize]byte
	_, terminator, err := decodeHeader(block)
	require.NoError(t, err)
	assert.True(t, terminator)
}

func TestDecodeUnrecognizedMagicIsInvalidFormat(t *testing.T) {
	var block [blockSize]byte
	copy(block[offMagic:], "notmagic")
	block[offFilename] = 'x' // a non-blank record; only the magic is wrong
	_, _, err := decodeHeader(block)
	require.Error(t, err)
}

func TestChecksumBlanksChksumField(t *testing.T) {
	m := Member{Filename: "a", Typeflag: TypeRegular}
	block, err := encodeHeader(m)
	require.NoError(t, err)

	var direct [blockSize]byte
	copy(direct[:], block[:])
	sum := checksumOf(direct)

	got, err := getOctal(block[offChksum : offChksum+6])
	require.NoError(t, err)
	assert.Equal(t, sum, got)
}

func TestGetOctalAcceptsSpacePadding(t *testing.T) {
	v, err := getOctal([]byte("   1234\x00"))
	require.NoError(t, err)
	assert.EqualValues(t, 0o1234, v)
}

func TestGetOctalAllSpacesIsZero(t *testing.T) {
	v, err := getOctal([]byte("        "))
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)
}

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteMemberHeader(Member{
		Filename: "test.txt",
		Mode:     0644,
		Size:     5,
		Typeflag: TypeRegular,
	}))
	_, err := w.WriteMemberData([]byte("howdy"))
	require.NoError(t, err)
	require.NoError(t, w.FinishMember())
	require.NoError(t, w.Finish())

	r := NewReader(&buf)
	m, err := r.NextMember()
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "test.txt", m.Filename)
	assert.EqualValues(t, 5, m.Size)

	data := make([]byte, 5)
	n, err := r.ReadData(data)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "howdy", string(data))

	next, err := r.NextMember()
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestWriterPadsToBlockBoundary(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteMemberHeader(Member{Filename: "a", Size: 3, Typeflag: TypeRegular}))
	_, err := w.WriteMemberData([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, w.FinishMember())
	require.NoError(t, w.Finish())

	// header + 3 bytes + 509 padding + 1024 terminator.
	assert.Equal(t, blockSize+3+509+2*blockSize, buf.Len())
}

func TestReaderSkipsUnreadMemberData(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteMemberHeader(Member{Filename: "first", Size: 5, Typeflag: TypeRegular}))
	_, _ = w.WriteMemberData([]byte("howdy"))
	require.NoError(t, w.FinishMember())
	require.NoError(t, w.WriteMemberHeader(Member{Filename: "second", Size: 3, Typeflag: TypeRegular}))
	_, _ = w.WriteMemberData([]byte("abc"))
	require.NoError(t, w.FinishMember())
	require.NoError(t, w.Finish())

	r := NewReader(&buf)
	first, err := r.NextMember()
	require.NoError(t, err)
	assert.Equal(t, "first", first.Filename)
	// Deliberately don't read "first"'s payload.

	second, err := r.NextMember()
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "second", second.Filename)

	data := make([]byte, 3)
	n, err := r.ReadData(data)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data[:n]))

	_, err = r.NextMember()
	assert.NoError(t, err)
}
