// Package gzip implements the resumable gzip framing state machine:
// magic bytes, optional metadata fields, and a CRC-32/size trailer,
// wrapped around an inner codec.Compressor/codec.Decompressor supplied by
// pkg/deflate or any other conforming implementation.
package gzip

const (
	magic1 = 0x1F
	magic2 = 0x8B
	method = 0x08 // DEFLATE

	osUnknown = 0xFF
)

// Flag bits, LSB-first.
const (
	fText    = 1 << 0
	fHCRC    = 1 << 1
	fExtra   = 1 << 2
	fName    = 1 << 3
	fComment = 1 << 4
)

// Capacities for the optional variable-length fields.
const (
	maxNameLen    = 1024
	maxCommentLen = 256
	maxExtraLen   = 2048
)

// Header describes the fixed and optional fields of a gzip member,
// exposed to callers that want to inspect what a Decompressor read.
type Header struct {
	Flags   byte
	MTime   uint32
	XFL     byte
	OS      byte
	Extra   []byte
	Name    string
	Comment string
}
