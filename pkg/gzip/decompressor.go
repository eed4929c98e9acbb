package gzip

import (
	"encoding/binary"

	"gzt/pkg/buffer"
	"gzt/pkg/checksum"
	"gzt/pkg/codec"
	"gzt/pkg/deflate"
	"gzt/pkg/streamerr"
)

type decompressState int

const (
	stateReadMagic decompressState = iota
	stateReadMethod
	stateReadFlags
	stateReadMtime
	stateReadXfl
	stateReadOs
	stateReadXlen
	stateReadExtra
	stateReadName
	stateReadComment
	stateReadHcrc
	stateDecompressBody
	stateReadStoredCrc
	stateReadStoredSize
	stateVerifyCrc
	stateVerifySize
	stateDecompressDone
)

// Decompressor is the gzip decompression state machine.
// Bracketed states (ReadXlen/ReadExtra, ReadName, ReadComment, ReadHcrc)
// are entered only when the corresponding header flag bit is set.
type Decompressor struct {
	state decompressState
	hdr   Header

	fixed  [4]byte // scratch for the field currently being read
	cursor int

	xlen     uint16
	overflow bool // true once a capture buffer has hit its cap and is discarding

	inner codec.Decompressor

	crc  checksum.CRC32
	size uint32

	storedCrc  uint32
	storedSize uint32
}

// NewDecompressor returns a Decompressor that owns a freshly constructed
// pkg/deflate codec.
func NewDecompressor() *Decompressor {
	return NewDecompressorWithCodec(deflate.NewDecompressor())
}

// NewDecompressorWithCodec returns a Decompressor that borrows inner
// rather than owning it.
func NewDecompressorWithCodec(inner codec.Decompressor) *Decompressor {
	d := &Decompressor{inner: inner}
	d.resetState()
	return d
}

func (d *Decompressor) resetState() {
	d.state = stateReadMagic
	d.cursor = 0
	d.xlen = 0
	d.overflow = false
	d.crc.Reset()
	d.size = 0
	d.storedCrc = 0
	d.storedSize = 0
	d.hdr = Header{}
}

// Reset implements codec.Decompressor.
func (d *Decompressor) Reset() {
	d.inner.Reset()
	d.resetState()
}

// Header returns the header fields read so far; valid once DecompressBody
// has been entered (i.e. after ReadOs/ReadXlen/ReadExtra/ReadName/
// ReadComment/ReadHcrc have all run).
func (d *Decompressor) Header() Header { return d.hdr }

// Step implements codec.Decompressor.
func (d *Decompressor) Step(out buffer.MutBuf, in buffer.ConstBuf) (buffer.Progress, error) {
	if d.state == stateDecompressDone {
		return buffer.Progress{}, nil
	}

	var total buffer.Progress
	for {
		switch d.state {
		case stateReadMagic:
			ok, n, err := d.readFixed(&in, 2)
			total.BytesRead += n
			if err != nil {
				return total, err
			}
			if !ok {
				return total, nil
			}
			if d.fixed[0] != magic1 || d.fixed[1] != magic2 {
				return total, streamerr.New(streamerr.InvalidFormat, "gzip: bad magic bytes")
			}
			d.state = stateReadMethod

		case stateReadMethod:
			ok, n, err := d.readFixed(&in, 1)
			total.BytesRead += n
			if err != nil {
				return total, err
			}
			if !ok {
				return total, nil
			}
			if d.fixed[0] != method {
				return total, streamerr.New(streamerr.InvalidFormat, "gzip: unsupported compression method %d", d.fixed[0])
			}
			d.state = stateReadFlags

		case stateReadFlags:
			ok, n, err := d.readFixed(&in, 1)
			total.BytesRead += n
			if err != nil {
				return total, err
			}
			if !ok {
				return total, nil
			}
			d.hdr.Flags = d.fixed[0]
			d.state = stateReadMtime

		case stateReadMtime:
			ok, n, err := d.readFixed(&in, 4)
			total.BytesRead += n
			if err != nil {
				return total, err
			}
			if !ok {
				return total, nil
			}
			d.hdr.MTime = binary.LittleEndian.Uint32(d.fixed[:4])
			d.state = stateReadXfl

		case stateReadXfl:
			ok, n, err := d.readFixed(&in, 1)
			total.BytesRead += n
			if err != nil {
				return total, err
			}
			if !ok {
				return total, nil
			}
			d.hdr.XFL = d.fixed[0]
			d.state = stateReadOs

		case stateReadOs:
			ok, n, err := d.readFixed(&in, 1)
			total.BytesRead += n
			if err != nil {
				return total, err
			}
			if !ok {
				return total, nil
			}
			d.hdr.OS = d.fixed[0]
			if d.hdr.Flags&fExtra != 0 {
				d.state = stateReadXlen
			} else if d.hdr.Flags&fName != 0 {
				d.state = stateReadName
			} else if d.hdr.Flags&fComment != 0 {
				d.state = stateReadComment
			} else if d.hdr.Flags&fHCRC != 0 {
				d.state = stateReadHcrc
			} else {
				d.state = stateDecompressBody
			}

		case stateReadXlen:
			ok, n, err := d.readFixed(&in, 2)
			total.BytesRead += n
			if err != nil {
				return total, err
			}
			if !ok {
				return total, nil
			}
			d.xlen = binary.LittleEndian.Uint16(d.fixed[:2])
			if int(d.xlen) > maxExtraLen {
				return total, streamerr.New(streamerr.CapacityExceeded, "gzip: FEXTRA length %d exceeds capacity %d", d.xlen, maxExtraLen)
			}
			d.cursor = 0
			d.state = stateReadExtra

		case stateReadExtra:
			n := d.readBoundedInto(&in, &d.hdr.Extra, int(d.xlen))
			total.BytesRead += uint64(n)
			if d.cursor < int(d.xlen) {
				return total, nil
			}
			d.cursor = 0
			if d.hdr.Flags&fName != 0 {
				d.state = stateReadName
			} else if d.hdr.Flags&fComment != 0 {
				d.state = stateReadComment
			} else if d.hdr.Flags&fHCRC != 0 {
				d.state = stateReadHcrc
			} else {
				d.state = stateDecompressBody
			}

		case stateReadName:
			done, n := d.readNulTerminated(&in, &d.hdr.Name, maxNameLen)
			total.BytesRead += uint64(n)
			if !done {
				return total, nil
			}
			d.cursor = 0
			d.overflow = false
			if d.hdr.Flags&fComment != 0 {
				d.state = stateReadComment
			} else if d.hdr.Flags&fHCRC != 0 {
				d.state = stateReadHcrc
			} else {
				d.state = stateDecompressBody
			}

		case stateReadComment:
			done, n := d.readNulTerminated(&in, &d.hdr.Comment, maxCommentLen)
			total.BytesRead += uint64(n)
			if !done {
				return total, nil
			}
			d.cursor = 0
			d.overflow = false
			if d.hdr.Flags&fHCRC != 0 {
				d.state = stateReadHcrc
			} else {
				d.state = stateDecompressBody
			}

		case stateReadHcrc:
			ok, n, err := d.readFixed(&in, 2)
			total.BytesRead += n
			if err != nil {
				return total, err
			}
			if !ok {
				return total, nil
			}
			d.state = stateDecompressBody

		case stateDecompressBody:
			p, err := d.inner.Step(out, in)
			if err != nil {
				return total, err
			}
			if p.BytesWritten > 0 {
				d.crc.Feed(out[:p.BytesWritten])
				d.size += uint32(p.BytesWritten)
				out = out.Advance(int(p.BytesWritten))
			}
			if p.BytesRead > 0 {
				in = in.Advance(int(p.BytesRead))
			}
			total.BytesWritten += p.BytesWritten
			total.BytesRead += p.BytesRead
			if !p.Done {
				return total, nil
			}
			d.state = stateReadStoredCrc

		case stateReadStoredCrc:
			ok, n, err := d.readFixed(&in, 4)
			total.BytesRead += n
			if err != nil {
				return total, err
			}
			if !ok {
				return total, nil
			}
			d.storedCrc = binary.LittleEndian.Uint32(d.fixed[:4])
			d.state = stateReadStoredSize

		case stateReadStoredSize:
			ok, n, err := d.readFixed(&in, 4)
			total.BytesRead += n
			if err != nil {
				return total, err
			}
			if !ok {
				return total, nil
			}
			d.storedSize = binary.LittleEndian.Uint32(d.fixed[:4])
			d.state = stateVerifyCrc

		case stateVerifyCrc:
			if d.crc.Sum32() != d.storedCrc {
				return total, streamerr.WithSub(streamerr.CorruptedInput, streamerr.CrcMismatch,
					"gzip: crc mismatch: got %08x want %08x", d.crc.Sum32(), d.storedCrc)
			}
			d.state = stateVerifySize

		case stateVerifySize:
			if d.size != d.storedSize {
				return total, streamerr.WithSub(streamerr.CorruptedInput, streamerr.LengthMismatch,
					"gzip: size mismatch: got %d want %d", d.size, d.storedSize)
			}
			d.state = stateDecompressDone
			total.Done = true
			return total, nil
		}
	}
}

// readFixed accumulates n bytes of a fixed-size field into d.fixed across
// calls, returning (true, bytesConsumed, nil) once the field is complete.
func (d *Decompressor) readFixed(in *buffer.ConstBuf, n int) (bool, uint64, error) {
	avail := in.Len()
	need := n - d.cursor
	take := avail
	if take > need {
		take = need
	}
	if take > 0 {
		copy(d.fixed[d.cursor:], (*in)[:take])
		d.cursor += take
		*in = in.Advance(take)
	}
	if d.cursor == n {
		d.cursor = 0
		return true, uint64(take), nil
	}
	return false, uint64(take), nil
}

// readBoundedInto copies up to n bytes from in into *dst, tracked by
// d.cursor across calls, returning the number of bytes consumed this call.
// It is used for FEXTRA, which has a known length rather than a
// terminator.
func (d *Decompressor) readBoundedInto(in *buffer.ConstBuf, dst *[]byte, n int) int {
	avail := in.Len()
	need := n - d.cursor
	take := avail
	if take > need {
		take = need
	}
	if take > 0 {
		*dst = append(*dst, (*in)[:take]...)
		d.cursor += take
		*in = in.Advance(take)
	}
	return take
}

// readNulTerminated reads into *dst until and including a NUL terminator,
// discarding bytes once cap is reached but still counting them as
// consumed. It returns (true, n) once the terminator has been seen.
func (d *Decompressor) readNulTerminated(in *buffer.ConstBuf, dst *string, cap int) (bool, int) {
	var consumed int
	buf := []byte(*dst)
	for in.Len() > 0 {
		b := (*in)[0]
		*in = in.Advance(1)
		consumed++
		if b == 0 {
			*dst = string(buf)
			return true, consumed
		}
		if len(buf) < cap {
			buf = append(buf, b)
		} else {
			d.overflow = true
		}
	}
	*dst = string(buf)
	return false, consumed
}
