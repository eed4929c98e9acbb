// Package buffer provides the bounded byte views and progress bookkeeping
// shared by every transformer in gzt: a read-only ConstBuf, a writable
// MutBuf, and the Chain type that pkg/codec's driver loops use to run a
// codec to completion over a sequence of such views.
package buffer

// ConstBuf is a read-only view over a contiguous byte range. Advance moves
// the view's start forward, shrinking it; it never copies.
type ConstBuf []byte

// Advance drops the first n bytes from the view.
func (b ConstBuf) Advance(n int) ConstBuf { return b[n:] }

// Len reports the number of unread bytes remaining in the view.
func (b ConstBuf) Len() int { return len(b) }

// Empty reports whether the view has no unread bytes.
func (b ConstBuf) Empty() bool { return len(b) == 0 }

// MutBuf is a writable view over a contiguous byte range. Advance moves the
// view's start forward past bytes already filled in by a producer.
type MutBuf []byte

// Advance drops the first n bytes from the view.
func (b MutBuf) Advance(n int) MutBuf { return b[n:] }

// Len reports the number of unfilled bytes remaining in the view.
func (b MutBuf) Len() int { return len(b) }

// Empty reports whether the view has no room left.
func (b MutBuf) Empty() bool { return len(b) == 0 }

// Fill copies as much of src into b as will fit, returning the number of
// bytes copied. It never copies more than min(len(b), len(src)).
func (b MutBuf) Fill(src []byte) int {
	return copy(b, src)
}
