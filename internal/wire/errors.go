// Package wire implements RFC 1035 DNS message wire format: name encoding
// and decompression, query construction, and resource-record traversal.
//
// Everything here is bounds-checked against a caller-supplied buffer; no
// function trusts a length field without first checking it against the
// buffer it indexes into.
package wire

import "errors"

// Sentinel errors distinguishing the failure kinds the core cares about.
// Callers should use errors.Is against these; the concrete message carries
// the offset/detail for logging.
var (
	// ErrEncodeInvalid means a hostname has an empty label, an over-long
	// label, or encodes to more than MaxNameLength octets.
	ErrEncodeInvalid = errors.New("wire: invalid name for encoding")

	// ErrBufferTooSmall means a scratch buffer would overflow during
	// encode or decompress.
	ErrBufferTooSmall = errors.New("wire: output buffer too small")

	// ErrMalformedMessage means a record walk or name decompression would
	// exceed the packet bounds, or a compression pointer loops or
	// overruns.
	ErrMalformedMessage = errors.New("wire: malformed DNS message")
)

const (
	// MaxLabelLength is the largest a single label may be (RFC 1035 §3.1).
	MaxLabelLength = 63

	// MaxNameLength is the largest an encoded name (length bytes + label
	// bytes + terminator) may be.
	MaxNameLength = 255

	// MaxPacket is the UDP DNS message ceiling (RFC 1035 §2.3.4 plus the
	// practical UDP datagram cap this resolver enforces; no EDNS(0), so
	// no larger UDP response is ever expected).
	MaxPacket = 65536

	// HeaderSize is the fixed 12-octet DNS message header.
	HeaderSize = 12

	// pointerTag marks the top two bits of a label-length byte that,
	// together with the low 14 bits of a two-octet field, form a
	// compression pointer (RFC 1035 §4.1.4).
	pointerTag = 0xC0
)

// Record types this resolver interprets during traversal.
const (
	TypeA     = 1
	TypeNS    = 2
	TypeCNAME = 5
)

// ClassIN is the only record class this resolver queries or interprets.
const ClassIN = 1
