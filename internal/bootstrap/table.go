// Package bootstrap holds the fixed, compiled-in set of root name servers
// this resolver starts every lookup from, and a wall-clock-seeded
// round-robin order to probe them in.
package bootstrap

import "net"

// servers is the IANA root server address list, each encoded as a 32-bit
// integer in host byte order. Net.IP values are derived from this table
// once at init time rather than re-parsed per lookup.
var servers = [...]uint32{
	0xc6290004, // a.root-servers.net 198.41.0.4
	0xc7090ec9, // b.root-servers.net 199.9.14.201
	0xc021040c, // c.root-servers.net 192.33.4.12
	0xc7075b0d, // d.root-servers.net 199.7.91.13
	0xc0cbe60a, // e.root-servers.net 192.203.230.10
	0xc00505f1, // f.root-servers.net 192.5.5.241
	0xc0702404, // g.root-servers.net 192.112.36.4
	0xc661be35, // h.root-servers.net 198.97.190.53
	0xc0249411, // i.root-servers.net 192.36.148.17
	0xc03a801e, // j.root-servers.net 192.58.128.30
	0xc1000e81, // k.root-servers.net 193.0.14.129
	0xc707532a, // l.root-servers.net 199.7.83.42
	0xca0c1b21, // m.root-servers.net 202.12.27.33
}

var addrs = func() []net.IP {
	out := make([]net.IP, len(servers))
	for i, v := range servers {
		out[i] = net.IPv4(byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return out
}()

// Count is the number of bootstrap servers.
func Count() int {
	return len(addrs)
}

// At returns the i'th bootstrap server address in network byte order,
// wrapping i into range.
func At(i int) net.IP {
	return addrs[((i%len(addrs))+len(addrs))%len(addrs)]
}

// Order returns the bootstrap indices in probe order starting from seed,
// i.e. [seed, seed+1, ..., seed+N-1] mod N, so repeated top-level lookups
// don't always hammer the same root server first.
func Order(seed int) []int {
	n := len(addrs)
	order := make([]int, n)
	for i := range order {
		order[i] = ((seed+i)%n + n) % n
	}
	return order
}
