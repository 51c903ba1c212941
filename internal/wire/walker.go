package wire

import (
	"encoding/binary"
	"fmt"
)

// RR is the typed view of one resource record's fixed prefix, as exposed by
// Walk. RDATA is never copied or interpreted here; Walk only reports where
// it starts and how long it is; callers that need the name inside an NS or
// CNAME's RDATA call DecompressName at RDataOffset themselves.
type RR struct {
	Type        uint16
	Class       uint16
	TTL         uint32
	RDLength    uint16
	RDataOffset int
}

// Walk advances past exactly one resource record starting at offset, which
// must point at the record's owner name, returning the record's typed view
// and the offset of whatever follows it. end is the exclusive upper bound of
// the packet (normally len(packet)).
//
// Walk does not decompress the owner name, it only needs to skip past it,
// so it consumes label bytes until a terminator (0x00) or the first byte of
// a compression pointer (>=0xC0); a pointer is always exactly two octets,
// so seeing its tag byte is enough to know where the name ends on the wire.
func Walk(packet []byte, offset, end int) (RR, int, error) {
	var rr RR

	pos := offset
	for {
		if pos >= end {
			return rr, 0, fmt.Errorf("%w: owner name runs past record bound", ErrMalformedMessage)
		}
		b := packet[pos]
		if b >= pointerTag {
			pos += 2
			break
		}
		if b == 0 {
			pos++
			break
		}
		if int(b) > MaxLabelLength {
			return rr, 0, fmt.Errorf("%w: label length %d exceeds %d", ErrMalformedMessage, b, MaxLabelLength)
		}
		pos += 1 + int(b)
	}

	const fixedPrefix = 10 // TYPE(2) + CLASS(2) + TTL(4) + RDLENGTH(2)
	if pos+fixedPrefix > end {
		return rr, 0, fmt.Errorf("%w: truncated resource record prefix", ErrMalformedMessage)
	}

	rr.Type = binary.BigEndian.Uint16(packet[pos : pos+2])
	rr.Class = binary.BigEndian.Uint16(packet[pos+2 : pos+4])
	rr.TTL = binary.BigEndian.Uint32(packet[pos+4 : pos+8])
	rr.RDLength = binary.BigEndian.Uint16(packet[pos+8 : pos+10])
	pos += fixedPrefix

	rr.RDataOffset = pos
	if pos+int(rr.RDLength) > end {
		return rr, 0, fmt.Errorf("%w: RDATA runs past record bound", ErrMalformedMessage)
	}
	pos += int(rr.RDLength)

	return rr, pos, nil
}

// SkipSection advances past count consecutive records starting at offset,
// returning the offset just past the last one. It's used to fast-forward
// over a section (e.g. AUTHORITY) whose records the caller doesn't need to
// inspect, without special-casing the loop at each call site.
func SkipSection(packet []byte, offset, end, count int) (int, error) {
	pos := offset
	var err error
	for i := 0; i < count; i++ {
		_, pos, err = Walk(packet, pos, end)
		if err != nil {
			return 0, err
		}
	}
	return pos, nil
}
