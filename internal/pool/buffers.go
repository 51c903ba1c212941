// Package pool holds sync.Pool-backed scratch buffers for the two sizes the
// resolver allocates on every query: an encoded-name scratch and a UDP
// packet buffer. Pooling them keeps resolution from allocating two buffers
// per query/response hop, which matters once a glue-less or CNAME-heavy
// lookup fans out into a dozen nested queries.
package pool

import "sync"

const (
	// NameBufferSize covers any wire-format encoded name: RFC 1035 already
	// bounds the encoding to 255 octets, rounded up to a clean buffer size.
	NameBufferSize = 256

	// PacketBufferSize is the ceiling for a single UDP datagram this
	// resolver will read: the maximum size of a UDP payload, and large
	// enough that no plain (non-EDNS) DNS response can exceed it.
	PacketBufferSize = 65536
)

var namePool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, NameBufferSize)
		return &buf
	},
}

var packetPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, PacketBufferSize)
		return &buf
	},
}

// GetNameBuffer returns a NameBufferSize-length scratch buffer for encoding
// or decompressing a single DNS name.
func GetNameBuffer() []byte {
	bufPtr := namePool.Get().(*[]byte)
	return (*bufPtr)[:NameBufferSize]
}

// PutNameBuffer returns buf to the pool. Buffers with less than
// NameBufferSize capacity are silently dropped rather than pooled.
func PutNameBuffer(buf []byte) {
	if cap(buf) < NameBufferSize {
		return
	}
	buf = buf[:cap(buf)]
	namePool.Put(&buf)
}

// GetPacketBuffer returns a PacketBufferSize-length buffer for building an
// outgoing query or receiving a response.
func GetPacketBuffer() []byte {
	bufPtr := packetPool.Get().(*[]byte)
	return (*bufPtr)[:PacketBufferSize]
}

// PutPacketBuffer returns buf to the pool.
func PutPacketBuffer(buf []byte) {
	if cap(buf) < PacketBufferSize {
		return
	}
	buf = buf[:cap(buf)]
	packetPool.Put(&buf)
}
