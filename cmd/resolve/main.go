// Command resolve looks up the A record for one or more hostnames by
// walking the DNS delegation chain itself, starting from the IANA root
// servers, rather than asking a configured recursive resolver to do it.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iterdns/iterdns/internal/ratelimit"
	"github.com/iterdns/iterdns/internal/resolve"
	"github.com/iterdns/iterdns/internal/worker"
)

var (
	timeout     = flag.Duration("timeout", 10*time.Second, "per-hostname resolution timeout")
	depth       = flag.Int("depth", resolve.DepthLimit, "maximum delegation/CNAME recursion depth")
	qps         = flag.Float64("qps", ratelimit.DefaultConfig().QueriesPerSecond, "queries allowed per second to any single nameserver")
	workers     = flag.Int("workers", runtime.NumCPU()*2, "concurrent resolutions when more than one hostname is given")
	metricsAddr = flag.String("metrics", "", "address to serve Prometheus metrics on (e.g. :9153); disabled if empty")
)

func main() {
	flag.Parse()

	hostnames := flag.Args()
	if len(hostnames) == 0 {
		fmt.Fprintln(os.Stderr, "usage: resolve [flags] hostname [hostname...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                                                              ║")
	fmt.Println("║              iterdns - Iterative DNS Resolver                ║")
	fmt.Println("║                                                              ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Max depth:   %d\n", *depth)
	fmt.Printf("  Rate limit:  %.0f qps per nameserver\n", *qps)
	fmt.Printf("  Timeout:     %s\n", *timeout)
	fmt.Println()

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
		fmt.Printf("  Metrics:     http://%s/metrics\n\n", *metricsAddr)
	}

	engine, err := resolve.New(resolve.Config{
		MaxDepth:  *depth,
		RateLimit: ratelimit.Config{QueriesPerSecond: *qps, Burst: int(*qps) * 2},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating resolver engine: %v\n", err)
		os.Exit(1)
	}

	if len(hostnames) == 1 {
		os.Exit(resolveOne(engine, hostnames[0]))
	}
	os.Exit(resolveMany(engine, hostnames))
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "metrics server stopped: %v\n", err)
	}
}

func resolveOne(engine *resolve.Engine, hostname string) int {
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	ip, err := engine.Resolve(ctx, hostname)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", hostname, err)
		return 1
	}
	fmt.Printf("%s: %s\n", hostname, ip)
	return 0
}

// resolveMany resolves every hostname concurrently through a bounded worker
// pool, so a batch of lookups doesn't spawn one goroutine (and one in-flight
// recursive walk of the delegation chain) per hostname, and prints each
// result as it completes rather than waiting for the slowest.
func resolveMany(engine *resolve.Engine, hostnames []string) int {
	pool := worker.NewPool(worker.Config{Workers: *workers})
	defer pool.Close()

	lookup := worker.Lookup(func(ctx context.Context, host string) (string, error) {
		ip, err := engine.Resolve(ctx, host)
		if err != nil {
			return "", err
		}
		return ip.String(), nil
	})

	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(len(hostnames))
	for _, host := range hostnames {
		host := host
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), *timeout)
			defer cancel()

			addr, err := pool.Resolve(ctx, host, lookup)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", host, err)
				return
			}
			fmt.Printf("%s: %s\n", host, addr)
		}()
	}
	wg.Wait()

	stats := pool.Stats()
	fmt.Println()
	fmt.Printf("Resolved %d/%d hostnames (%d failed)\n", stats.Resolved, len(hostnames), stats.Failed)

	if stats.Failed > 0 {
		return 1
	}
	return 0
}
