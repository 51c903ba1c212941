package wire

import (
	"encoding/binary"
	"fmt"
)

// Question trailer constants.
const questionTrailerSize = 4 // QTYPE (2) + QCLASS (2)

// BuildQuery assembles a standard recursion-desired A-record query into out:
// a 12-octet header (QDCOUNT=1, all other counts 0), the already-encoded
// QNAME, and the QTYPE/QCLASS trailer. It returns the total packet length.
//
// id is generated by the caller (see internal/random) fresh per query from
// crypto/rand, never from the clock, so transaction IDs aren't guessable by
// an off-path attacker racing a legitimate response.
func BuildQuery(id uint16, encodedName []byte, out []byte) (int, error) {
	need := HeaderSize + len(encodedName) + questionTrailerSize
	if need > len(out) {
		return 0, fmt.Errorf("%w: query packet needs %d bytes", ErrBufferTooSmall, need)
	}

	h := Header{
		ID:      id,
		RD:      true,
		QDCount: 1,
	}
	if err := PutHeader(h, out); err != nil {
		return 0, err
	}

	n := HeaderSize
	n += copy(out[n:], encodedName)

	binary.BigEndian.PutUint16(out[n:n+2], TypeA)
	binary.BigEndian.PutUint16(out[n+2:n+4], ClassIN)
	n += questionTrailerSize

	return n, nil
}

// QuestionEnd returns the offset immediately after the question section of
// a query/response packet built with the same encoded QNAME length as
// encodedNameLen, i.e. where the ANSWER section begins.
func QuestionEnd(encodedNameLen int) int {
	return HeaderSize + encodedNameLen + questionTrailerSize
}
