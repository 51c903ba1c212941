// Package random provides cryptographically secure randomization for the
// resolver, defending the two things an off-path attacker needs to guess to
// poison a response: the transaction ID, and the case pattern of the QNAME
// itself (servers compare names case-insensitively, but this resolver's
// QNAME-echo check is byte-for-byte).
//
// Attack model: Kaminsky-style cache poisoning. An attacker racing a
// legitimate response only has to match the 16-bit transaction id; DNS
// names are compared case-insensitively by servers but this resolver's
// QNAME-echo check is byte-for-byte, so randomizing the case of the
// outgoing name (RFC draft "0x20 encoding") adds bits of entropy the
// attacker must also guess, without this resolver needing to understand or
// validate case-insensitive equality anywhere else.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/dchest/siphash"
)

// TransactionID generates a cryptographically random 16-bit transaction ID.
// Never use math/rand here: a predictable id is a critical security flaw,
// not a style nit.
func TransactionID() uint16 {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return binary.BigEndian.Uint16(buf[:])
}

// CaseKey is a long-lived secret (each resolve.Engine draws its own when it
// is created) seeding the per-query case mask, so
// two different queries for the same name get independent 0x20 patterns.
type CaseKey struct {
	k0, k1 uint64
}

// NewCaseKey draws a fresh SipHash key from crypto/rand.
func NewCaseKey() (CaseKey, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return CaseKey{}, fmt.Errorf("generating case-randomization key: %w", err)
	}
	return CaseKey{
		k0: binary.LittleEndian.Uint64(buf[0:8]),
		k1: binary.LittleEndian.Uint64(buf[8:16]),
	}, nil
}

// Randomize0x20 mutates the ASCII letters of an encoded DNS name in place,
// flipping the case of each letter according to a bit of a SipHash-2-4
// digest keyed by k and the transaction id. Length bytes, digits, hyphens,
// and the terminating zero octet are left untouched; only label content
// bytes that are ASCII letters are eligible, matching how a name server
// will echo the question back unmodified except that DNS name comparison
// itself is case-insensitive.
func (k CaseKey) Randomize0x20(id uint16, encodedName []byte) {
	var seed [2]byte
	binary.BigEndian.PutUint16(seed[:], id)
	mask := siphash.Hash(k.k0, k.k1, seed[:])

	bit := uint(0)
	i := 0
	for i < len(encodedName) {
		length := int(encodedName[i])
		i++
		if length == 0 || length >= 0xC0 {
			break
		}
		for j := 0; j < length && i < len(encodedName); j++ {
			c := encodedName[i]
			if isASCIILetter(c) && (mask>>(bit%64))&1 == 1 {
				encodedName[i] = c ^ 0x20
			}
			bit++
			i++
		}
	}
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
