// Package resolve implements the iterative resolver engine: it drives one
// query against one name server, decides what ANSWER/AUTHORITY/ADDITIONAL
// tell it to do next, and recurses, bounded by depth, until it has an
// address or has exhausted every avenue.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/iterdns/iterdns/internal/bootstrap"
	"github.com/iterdns/iterdns/internal/pool"
	"github.com/iterdns/iterdns/internal/random"
	"github.com/iterdns/iterdns/internal/ratelimit"
	"github.com/iterdns/iterdns/internal/transactor"
	"github.com/iterdns/iterdns/internal/wire"
)

// Sentinel errors for the failure kinds this package adds on top of the
// ones the wire and transactor packages already report.
var (
	// ErrNoAnswer means an authoritative response had no A record and no
	// usable referral or CNAME path.
	ErrNoAnswer = errors.New("resolve: no answer")

	// ErrDepthExceeded means recursion reached Config.MaxDepth.
	ErrDepthExceeded = errors.New("resolve: max recursion depth exceeded")

	// ErrNoNameservers means a nameserver was skipped because it was rate
	// limited, or resolveFromBootstrap had no candidate to try. When every
	// candidate fails, resolveFromBootstrap returns the last one's error.
	ErrNoNameservers = errors.New("resolve: no usable nameserver")
)

// DepthLimit is the default recursion bound: how many nested query/
// resolveFromBootstrap frames a single top-level Resolve call may reach
// before it gives up, regardless of how deep a delegation or CNAME chain
// actually goes.
const DepthLimit = 16

// Config configures an Engine.
type Config struct {
	// MaxDepth bounds nested query/resolveFromBootstrap recursion.
	// Defaults to DepthLimit.
	MaxDepth int

	// RateLimit throttles outbound queries per nameserver. Defaults to
	// ratelimit.DefaultConfig().
	RateLimit ratelimit.Config
}

// Engine is the iterative resolver. It holds no per-query state; every
// exported method is safe to call concurrently, and each call walks from
// the bootstrap table independently; there is no cache, so a repeated
// lookup for the same name re-walks the delegation chain from scratch.
type Engine struct {
	maxDepth int
	limiter  *ratelimit.Limiter
	caseKey  random.CaseKey
	metrics  *metrics

	// exchange performs one UDP round trip. It's a field rather than a
	// direct call to transactor.Exchange so tests can point the engine at
	// a fake peer without involving real network nameservers.
	exchange func(ctx context.Context, ns net.IP, query []byte, wantID uint16, wantName []byte) ([]byte, error)
}

// New creates an Engine. It fails only if the process's entropy source for
// 0x20 case randomization can't be seeded.
func New(cfg Config) (*Engine, error) {
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = DepthLimit
	}

	key, err := random.NewCaseKey()
	if err != nil {
		return nil, err
	}

	return &Engine{
		maxDepth: cfg.MaxDepth,
		limiter:  ratelimit.New(cfg.RateLimit),
		caseKey:  key,
		metrics:  newMetrics(),
		exchange: transactor.Exchange,
	}, nil
}

// Resolve resolves hostname to an IPv4 address, starting from the
// bootstrap root server table. An already-dotted-quad hostname short-
// circuits resolution entirely; there's no delegation chain to walk for
// an address that's already an address.
func (e *Engine) Resolve(ctx context.Context, hostname string) (net.IP, error) {
	if ip := net.ParseIP(hostname); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
	}

	nameBuf := pool.GetNameBuffer()
	defer pool.PutNameBuffer(nameBuf)
	n, err := wire.EncodeName(hostname, nameBuf)
	if err != nil {
		return nil, err
	}

	seed := int(time.Now().UnixNano())
	ip, err := e.resolveFromBootstrap(ctx, nameBuf[:n], 0, seed)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", hostname, err)
	}
	return ip, nil
}

// resolveFromBootstrap probes bootstrap servers in an order seeded from
// seed, trying each until one yields an address for encodedName, or all
// fail.
func (e *Engine) resolveFromBootstrap(ctx context.Context, encodedName []byte, depth, seed int) (net.IP, error) {
	if depth >= e.maxDepth {
		return nil, ErrDepthExceeded
	}

	var lastErr error
	for _, idx := range bootstrap.Order(seed) {
		ns := bootstrap.At(idx)
		ip, err := e.query(ctx, encodedName, depth, ns)
		if err == nil {
			return ip, nil
		}
		// The depth budget is spent at this level; probing the remaining
		// candidates would burn the same budget again.
		if errors.Is(err, ErrDepthExceeded) {
			return nil, err
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = ErrNoNameservers
	}
	return nil, lastErr
}

// query sends one query for encodedName to ns and decides, from the
// response, whether to answer, recurse on glue, recurse on a resolved NS,
// or recurse on a CNAME target.
func (e *Engine) query(ctx context.Context, encodedName []byte, depth int, ns net.IP) (net.IP, error) {
	if depth >= e.maxDepth {
		return nil, ErrDepthExceeded
	}
	if !e.limiter.Allow(ns) {
		return nil, fmt.Errorf("%w: %s rate limited", ErrNoNameservers, ns)
	}

	inflightQueries.Inc()
	start := time.Now()
	ip, err := e.doQuery(ctx, encodedName, depth, ns)
	e.metrics.observe(time.Since(start), err)
	inflightQueries.Dec()
	return ip, err
}

func (e *Engine) doQuery(ctx context.Context, encodedName []byte, depth int, ns net.IP) (net.IP, error) {
	id := random.TransactionID()

	sendBuf := pool.GetNameBuffer()
	defer pool.PutNameBuffer(sendBuf)
	sendName := sendBuf[:copy(sendBuf, encodedName)]
	e.caseKey.Randomize0x20(id, sendName)

	packet := pool.GetPacketBuffer()
	defer pool.PutPacketBuffer(packet)
	qn, err := wire.BuildQuery(id, sendName, packet)
	if err != nil {
		return nil, err
	}

	resp, err := e.exchange(ctx, ns, packet[:qn], id, sendName)
	if err != nil {
		return nil, err
	}

	h, err := wire.ParseHeader(resp)
	if err != nil {
		return nil, err
	}

	answerStart := wire.QuestionEnd(len(encodedName))
	end := len(resp)

	// Set when any recursion below hit the depth bound. Siblings at this
	// level still get tried (a shallower branch may yet succeed), but on
	// exhaustion the caller learns the search was cut short, not that the
	// responses held no path at all.
	depthHit := false

	// Pass 1: ANSWER for A.
	cursor := answerStart
	for i := 0; i < int(h.ANCount); i++ {
		rr, next, err := wire.Walk(resp, cursor, end)
		if err != nil {
			return nil, err
		}
		if rr.Type == wire.TypeA && rr.RDLength == 4 {
			return net.IP(resp[rr.RDataOffset : rr.RDataOffset+4]).To4(), nil
		}
		cursor = next
	}
	authStart := cursor

	// Pass 2: ADDITIONAL for glue.
	cursor, err = wire.SkipSection(resp, authStart, end, int(h.NSCount))
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(h.ARCount); i++ {
		rr, next, err := wire.Walk(resp, cursor, end)
		if err != nil {
			return nil, err
		}
		if rr.Type == wire.TypeA && rr.RDLength == 4 {
			glue := net.IP(resp[rr.RDataOffset : rr.RDataOffset+4]).To4()
			ip, err := e.query(ctx, encodedName, depth+1, glue)
			if err == nil {
				return ip, nil
			}
			if errors.Is(err, ErrDepthExceeded) {
				depthHit = true
			}
		}
		cursor = next
	}

	// Pass 3: AUTHORITY for NS without glue.
	cursor = authStart
	for i := 0; i < int(h.NSCount); i++ {
		rr, next, err := wire.Walk(resp, cursor, end)
		if err != nil {
			return nil, err
		}
		if rr.Type == wire.TypeNS {
			nsNameBuf := pool.GetNameBuffer()
			nsLen, _, err := wire.DecompressName(resp, rr.RDataOffset, nsNameBuf)
			if err == nil {
				seed := int(time.Now().UnixNano())
				nsIP, nsErr := e.resolveFromBootstrap(ctx, nsNameBuf[:nsLen], depth+1, seed)
				if nsErr == nil {
					ip, qErr := e.query(ctx, encodedName, depth+1, nsIP)
					if qErr == nil {
						pool.PutNameBuffer(nsNameBuf)
						return ip, nil
					}
					nsErr = qErr
				}
				if errors.Is(nsErr, ErrDepthExceeded) {
					depthHit = true
				}
			}
			pool.PutNameBuffer(nsNameBuf)
		}
		cursor = next
	}

	// Pass 4: ANSWER for CNAME.
	cursor = answerStart
	for i := 0; i < int(h.ANCount); i++ {
		rr, next, err := wire.Walk(resp, cursor, end)
		if err != nil {
			return nil, err
		}
		if rr.Type == wire.TypeCNAME {
			targetBuf := pool.GetNameBuffer()
			targetLen, _, err := wire.DecompressName(resp, rr.RDataOffset, targetBuf)
			if err == nil {
				seed := int(time.Now().UnixNano())
				ip, cErr := e.resolveFromBootstrap(ctx, targetBuf[:targetLen], depth+1, seed)
				if cErr == nil {
					pool.PutNameBuffer(targetBuf)
					return ip, nil
				}
				if errors.Is(cErr, ErrDepthExceeded) {
					depthHit = true
				}
			}
			pool.PutNameBuffer(targetBuf)
		}
		cursor = next
	}

	if depthHit {
		return nil, ErrDepthExceeded
	}
	return nil, ErrNoAnswer
}
