package ustar

import (
	"strconv"

	"gzt/pkg/streamerr"
)

const blockSize = 512

// Byte offsets and widths of each field within a 512-byte header record,
// the ustar header layout.
const (
	offFilename = 0
	widFilename = 100
	offMode     = 100
	widMode     = 8
	offUID      = 108
	widUID      = 8
	offGID      = 116
	widGID      = 8
	offSize     = 124
	widSize     = 12
	offMTime    = 136
	widMTime    = 12
	offChksum   = 148
	widChksum   = 8
	offTypeflag = 156
	offLinkname = 157
	widLinkname = 100
	offMagic    = 257
	widMagic    = 8
	offUname    = 265
	widUname    = 32
	offGname    = 297
	widGname    = 32
	offDevMajor = 329
	widDevMajor = 8
	offDevMinor = 337
	widDevMinor = 8
	offPrefix   = 345
	widPrefix   = 155
)

const (
	magicPOSIX = "ustar\x0000"
	magicGNU   = "ustar  \x00"
)

// encodeHeader produces exactly 512 bytes from m: byte
// fields copied directly, octal fields written right-aligned with
// leading-zero padding and a trailing NUL, chksum computed over the
// whole record with the chksum field itself blanked to spaces.
func encodeHeader(m Member) ([blockSize]byte, error) {
	var b [blockSize]byte

	putString(b[offFilename:offFilename+widFilename], m.Filename)
	putOctal(b[offMode:offMode+widMode], m.Mode)
	putOctal(b[offUID:offUID+widUID], m.UID)
	putOctal(b[offGID:offGID+widGID], m.GID)
	putOctal(b[offSize:offSize+widSize], m.Size)
	putOctal(b[offMTime:offMTime+widMTime], m.MTime)
	for i := 0; i < widChksum; i++ {
		b[offChksum+i] = ' '
	}
	b[offTypeflag] = m.Typeflag
	putString(b[offLinkname:offLinkname+widLinkname], m.Linkname)
	copy(b[offMagic:offMagic+widMagic], magicPOSIX)
	putString(b[offUname:offUname+widUname], m.Uname)
	putString(b[offGname:offGname+widGname], m.Gname)
	putOctal(b[offDevMajor:offDevMajor+widDevMajor], m.DevMajor)
	putOctal(b[offDevMinor:offDevMinor+widDevMinor], m.DevMinor)
	putString(b[offPrefix:offPrefix+widPrefix], m.Prefix)

	sum := checksumOf(b)
	putChksum(b[offChksum:offChksum+widChksum], sum)

	return b, nil
}

// decodeHeader parses 512 bytes. A return of (Member{},
// true, nil) signals the end-of-archive terminator: a record whose
// magic/version field is all zero.
func decodeHeader(b [blockSize]byte) (Member, bool, error) {
	if isAllZero(b[offMagic : offMagic+widMagic]) {
		return Member{}, true, nil
	}

	magic := string(b[offMagic : offMagic+widMagic])
	if magic != magicPOSIX && magic != magicGNU {
		return Member{}, false, streamerr.New(streamerr.InvalidFormat, "ustar: unrecognized magic %q", magic)
	}

	var m Member
	var err error
	m.Filename = getString(b[offFilename : offFilename+widFilename])
	if m.Mode, err = getOctal(b[offMode : offMode+widMode]); err != nil {
		return Member{}, false, err
	}
	if m.UID, err = getOctal(b[offUID : offUID+widUID]); err != nil {
		return Member{}, false, err
	}
	if m.GID, err = getOctal(b[offGID : offGID+widGID]); err != nil {
		return Member{}, false, err
	}
	if m.Size, err = getOctal(b[offSize : offSize+widSize]); err != nil {
		return Member{}, false, err
	}
	if m.MTime, err = getOctal(b[offMTime : offMTime+widMTime]); err != nil {
		return Member{}, false, err
	}
	m.Typeflag = b[offTypeflag]
	m.Linkname = getString(b[offLinkname : offLinkname+widLinkname])
	m.Uname = getString(b[offUname : offUname+widUname])
	m.Gname = getString(b[offGname : offGname+widGname])
	if m.DevMajor, err = getOctal(b[offDevMajor : offDevMajor+widDevMajor]); err != nil {
		return Member{}, false, err
	}
	if m.DevMinor, err = getOctal(b[offDevMinor : offDevMinor+widDevMinor]); err != nil {
		return Member{}, false, err
	}
	m.Prefix = getString(b[offPrefix : offPrefix+widPrefix])

	return m, false, nil
}

func isAllZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// checksumOf sums all 512 bytes unsigned, with the chksum field treated
// as eight ASCII spaces regardless of what it currently holds.
func checksumOf(b [blockSize]byte) int64 {
	var sum int64
	for i, c := range b {
		if i >= offChksum && i < offChksum+widChksum {
			sum += int64(' ')
		} else {
			sum += int64(c)
		}
	}
	return sum
}

func putString(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

func getString(src []byte) string {
	n := 0
	for n < len(src) && src[n] != 0 {
		n++
	}
	return string(src[:n])
}

// putOctal writes v right-aligned in base 8 with leading-zero padding and
// a trailing NUL (width−1 digits + NUL).
func putOctal(dst []byte, v int64) {
	s := strconv.FormatInt(v, 8)
	if len(s) > len(dst)-1 {
		s = s[len(s)-(len(dst)-1):]
	}
	for i := range dst {
		dst[i] = '0'
	}
	copy(dst[len(dst)-1-len(s):len(dst)-1], s)
	dst[len(dst)-1] = 0
}

// putChksum writes the checksum as 6 octal digits followed by NUL and
// space.
func putChksum(dst []byte, v int64) {
	s := strconv.FormatInt(v, 8)
	for len(s) < 6 {
		s = "0" + s
	}
	if len(s) > 6 {
		s = s[len(s)-6:]
	}
	copy(dst[0:6], s)
	dst[6] = 0
	dst[7] = ' '
}

// getOctal parses an octal field, skipping the leading spaces some
// writers use to pad it instead of leading zeros. A leading NUL (or an
// all-space field) means zero. Anything else that fails to parse is
// InvalidFormat.
func getOctal(src []byte) (int64, error) {
	start := 0
	for start < len(src) && src[start] == ' ' {
		start++
	}
	if start >= len(src) || src[start] == 0 {
		return 0, nil
	}
	end := start
	for end < len(src) && src[end] != 0 && src[end] != ' ' {
		end++
	}
	s := string(src[start:end])
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 8, 64)
	if err != nil {
		return 0, streamerr.Wrap(streamerr.InvalidFormat, err, "ustar: bad octal field %q", s)
	}
	return v, nil
}
