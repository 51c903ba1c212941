// Package transactor drives a single request/response exchange with a name
// server over UDP: bind an ephemeral socket, send once, and read replies
// until one matches the outgoing transaction id and echoed question name,
// or the attempt budget / deadline runs out. It performs no retransmission
// itself; retrying against a different server is the resolver engine's
// job.
package transactor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/iterdns/iterdns/internal/pool"
	"github.com/iterdns/iterdns/internal/wire"
)

// ErrSocketError wraps socket creation, send, and receive failures,
// including timeouts.
var ErrSocketError = errors.New("transactor: socket error")

const (
	// Timeout is the send and receive deadline applied to each UDP
	// exchange.
	Timeout = 3 * time.Second

	// MaxReceives bounds how many mismatched datagrams a single
	// transaction will discard before giving up, so an attacker flooding
	// spoofed responses can't stall a query forever.
	MaxReceives = 255

	dnsPort = 53
)

// Exchange sends query to ns:53 over UDP and returns the first reply whose
// transaction id equals wantID and whose
// echoed question name matches wantName byte-for-byte. The socket is
// created at the start of the call and closed on every return path, success
// or failure, so a caller never leaks one no matter how the exchange ends.
func Exchange(ctx context.Context, ns net.IP, query []byte, wantID uint16, wantName []byte) ([]byte, error) {
	dest := &net.UDPAddr{IP: ns.To4(), Port: dnsPort}
	return exchangeAt(ctx, dest, query, wantID, wantName)
}

// exchangeAt is Exchange with an explicit destination address (including
// port), split out so tests can point it at a fake peer bound to an
// ephemeral port instead of real port 53.
func exchangeAt(ctx context.Context, dest *net.UDPAddr, query []byte, wantID uint16, wantName []byte) ([]byte, error) {
	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating socket: %v", ErrSocketError, err)
	}
	defer conn.Close()

	// Each send and receive gets Timeout, cut short by ctx's deadline when
	// that comes first.
	deadline := func() time.Time {
		d := time.Now().Add(Timeout)
		if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
			d = ctxDeadline
		}
		return d
	}

	if err := conn.SetWriteDeadline(deadline()); err != nil {
		return nil, fmt.Errorf("%w: setting write deadline: %v", ErrSocketError, err)
	}
	if _, err := conn.WriteToUDP(query, dest); err != nil {
		return nil, fmt.Errorf("%w: send: %v", ErrSocketError, err)
	}

	buf := pool.GetPacketBuffer()
	defer pool.PutPacketBuffer(buf)

	for attempt := 0; attempt < MaxReceives; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSocketError, err)
		}

		if err := conn.SetReadDeadline(deadline()); err != nil {
			return nil, fmt.Errorf("%w: setting read deadline: %v", ErrSocketError, err)
		}

		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			return nil, fmt.Errorf("%w: receive: %v", ErrSocketError, err)
		}
		if !from.IP.Equal(dest.IP) {
			continue
		}

		packet := buf[:n]
		if matches(packet, wantID, wantName) {
			out := make([]byte, n)
			copy(out, packet)
			return out, nil
		}
	}

	return nil, fmt.Errorf("%w: no matching response within %d receives", ErrSocketError, MaxReceives)
}

// matches reports whether packet is a response to a query with the given
// transaction id and question name.
func matches(packet []byte, wantID uint16, wantName []byte) bool {
	h, err := wire.ParseHeader(packet)
	if err != nil || h.ID != wantID || !h.QR || h.QDCount != 1 {
		return false
	}

	echoed := make([]byte, wire.MaxNameLength)
	n, _, err := wire.DecompressName(packet, wire.HeaderSize, echoed)
	if err != nil || n != len(wantName) {
		return false
	}
	for i := 0; i < n; i++ {
		if echoed[i] != wantName[i] {
			return false
		}
	}
	return true
}
