package bytecode

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"scamscan/internal/address"
	"scamscan/internal/diag"
	"scamscan/internal/metrics"
	"scamscan/internal/secerr"
)

// ChainReader is the single chain capability the store depends on:
// fetch the code deployed at an address. Implementations return a hex
// byte string, or "0x"/"" for non-contract accounts.
type ChainReader interface {
	CodeAt(ctx context.Context, addr address.Address) (string, error)
}

const (
	DefaultMaxEntries     = 1000
	DefaultTTL            = 10 * time.Minute
	DefaultCallTimeout    = 15 * time.Second
	defaultPreloadWorkers = 8
)

// StoreOptions configure an explicit Store instance. Zero values fall
// back to the defaults above, so StoreOptions{} is a valid production
// configuration and each test can build an isolated store.
type StoreOptions struct {
	MaxEntries     int
	TTL            time.Duration
	CallTimeout    time.Duration
	PreloadWorkers int
	Metrics        *metrics.ScannerMetrics
}

// Store fetches and caches contract bytecode. Cache entries are
// independent key-value pairs bounded by entry count and age; the LRU
// is safe for concurrent readers and writers.
type Store struct {
	cache          *expirable.LRU[address.Address, Bytecode]
	maxEntries     int
	ttl            time.Duration
	callTimeout    time.Duration
	preloadWorkers int
	metrics        *metrics.ScannerMetrics
}

func NewStore(opts StoreOptions) *Store {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.PreloadWorkers <= 0 {
		opts.PreloadWorkers = defaultPreloadWorkers
	}
	return &Store{
		cache:          expirable.NewLRU[address.Address, Bytecode](opts.MaxEntries, nil, opts.TTL),
		maxEntries:     opts.MaxEntries,
		ttl:            opts.TTL,
		callTimeout:    opts.CallTimeout,
		preloadWorkers: opts.PreloadWorkers,
		metrics:        opts.Metrics,
	}
}

// Fetch validates raw, returns cached bytecode when present, and
// otherwise calls the chain reader with a per-call timeout. Invalid
// responses never populate the cache.
func (s *Store) Fetch(ctx context.Context, raw string, reader ChainReader) (Bytecode, error) {
	addr, err := address.Parse(raw)
	if err != nil {
		return "", err
	}

	if code, ok := s.cache.Get(addr); ok {
		s.metrics.CacheHit()
		return code, nil
	}
	s.metrics.CacheMiss()

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	s.metrics.CodeFetch()
	resp, err := reader.CodeAt(callCtx, addr)
	if err != nil {
		fault := classifyFault(err)
		s.metrics.FetchFault(string(fault))
		return "", &secerr.ProviderError{Address: string(addr), Fault: fault, Err: err}
	}

	code, err := Normalize(resp)
	if err != nil {
		var be *secerr.BytecodeError
		if errors.As(err, &be) {
			be.Address = string(addr)
		}
		return "", err
	}

	s.cache.Add(addr, code)
	return code, nil
}

// Preload fetches all addresses concurrently. A failure on one address
// is recorded as a diagnostic and excluded from the result; the call as
// a whole never fails because of a single bad address.
func (s *Store) Preload(ctx context.Context, raws []string, reader ChainReader) (map[address.Address]Bytecode, []diag.Diagnostic) {
	var (
		mu          sync.Mutex
		result      = make(map[address.Address]Bytecode, len(raws))
		diagnostics []diag.Diagnostic
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.preloadWorkers)
	for _, raw := range raws {
		raw := raw
		g.Go(func() error {
			code, err := s.Fetch(gctx, raw, reader)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				diagnostics = append(diagnostics, diag.Warning(raw, fmt.Sprintf("preload skipped: %v", err)))
				return nil
			}
			addr, _ := address.Parse(raw)
			result[addr] = code
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(diagnostics, func(i, j int) bool { return diagnostics[i].Address < diagnostics[j].Address })
	return result, diagnostics
}

// IsContract reports whether the address holds non-empty code. Any
// fetch failure is treated as "not a contract" rather than surfaced.
func (s *Store) IsContract(ctx context.Context, raw string, reader ChainReader) bool {
	code, err := s.Fetch(ctx, raw, reader)
	if err != nil {
		return false
	}
	return !code.IsEmpty()
}

// Clear drops every cache entry. Never fails.
func (s *Store) Clear() {
	s.cache.Purge()
}

// Size is the current entry count.
func (s *Store) Size() int {
	return s.cache.Len()
}

// Stats describes the cache configuration and current occupancy.
type Stats struct {
	Size    int           `json:"size"`
	MaxSize int           `json:"max_size"`
	MaxAge  time.Duration `json:"max_age"`
}

func (s *Store) Stats() Stats {
	return Stats{Size: s.cache.Len(), MaxSize: s.maxEntries, MaxAge: s.ttl}
}

// classifyFault maps a raw chain-reader failure onto the retry-relevant
// taxonomy by inspecting the cause chain and message.
func classifyFault(err error) secerr.Fault {
	if errors.Is(err, context.DeadlineExceeded) {
		return secerr.FaultTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "429"):
		return secerr.FaultRateLimit
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"):
		return secerr.FaultTimeout
	case strings.Contains(msg, "connection"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "network"),
		strings.Contains(msg, "dial tcp"),
		strings.Contains(msg, "eof"):
		return secerr.FaultNetwork
	default:
		return secerr.FaultGeneric
	}
}
