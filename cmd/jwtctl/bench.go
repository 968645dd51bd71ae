package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	mrand "math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"

	goJWT "github.com/MrEthical07/goJWT"
	"github.com/MrEthical07/goJWT/blacklist"
	"github.com/MrEthical07/goJWT/jwt"
)

// BenchCmd drives concurrent issue, verify and revoke phases against one
// engine. The blacklist runs on Redis: --redis-addr, REDIS_ADDR, or an
// embedded miniredis when both are empty.
type BenchCmd struct {
	Ops         int    `default:"20000" help:"Operations per phase."`
	Concurrency int    `default:"64" help:"Concurrent workers."`
	RedisAddr   string `name:"redis-addr" env:"REDIS_ADDR" help:"Redis address for the blacklist."`
	NoBlacklist bool   `name:"no-blacklist" help:"Skip revocation; verify does not touch Redis."`
}

var errBenchArgs = errors.New("ops and concurrency must be > 0")

// Run executes the phases and prints one line of statistics per phase.
func (c *BenchCmd) Run(ctx context.Context, g *Globals, logger *slog.Logger, out io.Writer) error {
	if c.Ops <= 0 || c.Concurrency <= 0 {
		return errBenchArgs
	}
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if err := benchSecret(&cfg); err != nil {
		return err
	}

	var client redis.UniversalClient
	if !c.NoBlacklist {
		addr := c.RedisAddr
		if addr == "" {
			mr, err := miniredis.Run()
			if err != nil {
				return fmt.Errorf("start miniredis: %w", err)
			}
			defer mr.Close()
			addr = mr.Addr()
			fmt.Fprintf(out, "using miniredis at %s\n", addr)
		} else {
			fmt.Fprintf(out, "using redis at %s\n", addr)
		}
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		defer client.Close()

		cfg.Blacklist.Enabled = true
		cfg.Blacklist.Cache.Provider = blacklist.ProviderRedis
	} else {
		cfg.Blacklist.Enabled = false
	}

	e, err := engine(cfg, logger, client)
	if err != nil {
		return err
	}
	defer e.Close()

	tokens := make([]string, c.Ops)
	issue := runPhase(c.Ops, c.Concurrency, func(i int, _ *mrand.Rand) error {
		raw, err := e.Issue(ctx, goJWT.StaticRequest{RootURL: "https://bench.local"}, goJWT.SubjectID(fmt.Sprintf("user-%d", i)))
		tokens[i] = raw
		return err
	})
	verify := runPhase(c.Ops, c.Concurrency, func(_ int, r *mrand.Rand) error {
		_, err := e.Payload(ctx, tokens[r.Intn(len(tokens))])
		return err
	})

	bold := color.New(color.Bold)
	bold.Fprintln(out, "---- results ----")
	printStats(out, "issue", issue)
	printStats(out, "verify", verify)

	if !c.NoBlacklist {
		revoke := runPhase(c.Ops, c.Concurrency, func(i int, _ *mrand.Rand) error {
			return e.Invalidate(ctx, goJWT.StaticRequest{Token: tokens[i]}, false)
		})
		printStats(out, "revoke", revoke)
	}
	return nil
}

// benchSecret fills in an ephemeral secret for symmetric algorithms when
// none is configured.
func benchSecret(cfg *goJWT.Config) error {
	alg, err := jwt.ParseAlgorithm(cfg.Algorithm)
	if err != nil || alg.Family() != jwt.FamilySymmetric || cfg.Secret != "" {
		return nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	cfg.Secret = hex.EncodeToString(buf)
	return nil
}

// runPhase calls op ops times across concurrency workers. Each worker owns
// its random source.
func runPhase(ops, concurrency int, op func(i int, r *mrand.Rand) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := mrand.New(mrand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(i, r)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	stats := phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
	}
	if total > 0 {
		stats.opsPerS = float64(len(samples)) / total.Seconds()
	}
	return stats
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(out io.Writer, name string, s phaseStats) {
	label := color.New(color.FgGreen)
	if s.failures > 0 {
		label = color.New(color.FgRed)
	}
	label.Fprintf(out, "%-7s", name)
	fmt.Fprintf(out, " ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
