package ustar

import (
	"io"

	"gzt/pkg/streamerr"
)

// Reader walks member headers and payloads out of src, tracking
// remainingMemberBytes/pendingPadding between NextMember calls.
type Reader struct {
	src                  io.Reader
	remainingMemberBytes int64
	pendingPadding       int64
	atEOF                bool
}

// NewReader returns a Reader over src.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// NextMember silently drains whatever is left of the current member plus
// its padding, then decodes the next header. A nil Member with a nil
// error signals end of archive.
func (r *Reader) NextMember() (*Member, error) {
	if r.atEOF {
		return nil, nil
	}
	if err := r.discard(r.remainingMemberBytes + r.pendingPadding); err != nil {
		return nil, err
	}
	r.remainingMemberBytes = 0
	r.pendingPadding = 0

	var block [blockSize]byte
	if _, err := io.ReadFull(r.src, block[:]); err != nil {
		return nil, streamerr.Wrap(streamerr.IoError, err, "ustar: read header")
	}

	m, terminator, err := decodeHeader(block)
	if err != nil {
		return nil, err
	}
	if terminator {
		r.atEOF = true
		return nil, nil
	}

	r.remainingMemberBytes = m.Size
	r.pendingPadding = (blockSize - m.Size%blockSize) % blockSize
	return &m, nil
}

// ReadData returns up to min(len(p), remainingMemberBytes) bytes of the
// current member's payload.
func (r *Reader) ReadData(p []byte) (int, error) {
	if r.remainingMemberBytes == 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > r.remainingMemberBytes {
		p = p[:r.remainingMemberBytes]
	}
	n, err := r.src.Read(p)
	r.remainingMemberBytes -= int64(n)
	if err != nil && err != io.EOF {
		return n, streamerr.Wrap(streamerr.IoError, err, "ustar: read member data")
	}
	return n, nil
}

func (r *Reader) discard(n int64) error {
	if n == 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r.src, n)
	if err != nil {
		return streamerr.Wrap(streamerr.IoError, err, "ustar: discard %d bytes", n)
	}
	return nil
}
