package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"scamscan/internal/bytecode"
	"scamscan/internal/descriptor"
	"scamscan/internal/diag"
	"scamscan/internal/metrics"
	"scamscan/internal/pattern"
	"scamscan/internal/risk"
)

const defaultBatchWorkers = 4

// AnalyzerOptions configure an Analyzer. Zero values fall back to
// defaults, so AnalyzerOptions{} is valid.
type AnalyzerOptions struct {
	RiskConfig *risk.Config
	Patterns   pattern.Options
	Metrics    *metrics.ScannerMetrics
	Workers    int

	// OnResult, when set, observes each finished analysis during a
	// batch. Called from worker goroutines, one call at a time.
	OnResult func(*ContractAnalysis)
}

// Analyzer drives the per-contract pipeline. It owns no chain or cache
// state beyond what is injected, so independent analyzers never
// interfere.
type Analyzer struct {
	store    *bytecode.Store
	reader   bytecode.ChainReader
	agg      *pattern.Aggregator
	riskCfg  *risk.Config
	patterns pattern.Options
	metrics  *metrics.ScannerMetrics
	workers  int
	onResult func(*ContractAnalysis)
}

func NewAnalyzer(store *bytecode.Store, reader bytecode.ChainReader, opts AnalyzerOptions) *Analyzer {
	if opts.RiskConfig == nil {
		opts.RiskConfig = risk.DefaultConfig()
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultBatchWorkers
	}
	return &Analyzer{
		store:    store,
		reader:   reader,
		agg:      pattern.NewAggregator(),
		riskCfg:  opts.RiskConfig,
		patterns: opts.Patterns,
		metrics:  opts.Metrics,
		workers:  opts.Workers,
		onResult: opts.OnResult,
	}
}

// AnalyzeContract runs the full pipeline for one target. It always
// returns an analysis; pipeline problems surface as failed status, not
// as an error.
func (a *Analyzer) AnalyzeContract(ctx context.Context, t Target) *ContractAnalysis {
	out := &ContractAnalysis{
		Address:   t.Address,
		Name:      t.Name,
		Status:    StatusInProgress,
		StartedAt: time.Now(),
	}
	start := out.StartedAt

	var (
		iface    descriptor.Interface
		hasIface bool
	)
	if t.ABI != "" {
		parsed, err := descriptor.Parse(t.ABI)
		if err != nil {
			return a.fail(out, fmt.Sprintf("invalid interface descriptor: %v", err))
		}
		iface = parsed
		hasIface = true
	}

	code, err := a.store.Fetch(ctx, t.Address, a.reader)
	hasCode := err == nil && !code.IsEmpty()
	if err != nil {
		if !hasIface {
			return a.fail(out, fmt.Sprintf("bytecode fetch failed: %v", err))
		}
		// Descriptor-only analysis still runs; the fetch problem is
		// recorded without failing the contract.
		out.Error = fmt.Sprintf("bytecode unavailable, descriptor-only analysis: %v", err)
	}

	var in pattern.Input
	switch {
	case hasIface && hasCode:
		in = pattern.CombinedInput(iface, code)
	case hasCode:
		in = pattern.BytecodeInput(code)
	case hasIface:
		in = pattern.DescriptorInput(iface)
	}
	if hasCode {
		out.BytecodeSize = code.ByteSize()
		// Minimal proxies forward to an implementation; detectors only
		// see the thin forwarder, so flag it for the reader.
		out.IsProxy = bytecode.LooksLikeProxy(code)
	}

	comp := a.agg.DetectAll(in, a.patterns)
	assessment := risk.Assess(comp.Results, a.riskCfg)

	for _, r := range comp.Results {
		if !r.Detected {
			continue
		}
		a.metrics.PatternDetected(string(r.Category))
		out.Vulnerabilities = append(out.Vulnerabilities, Vulnerability{
			Type:        r.Category,
			Severity:    r.Severity,
			Confidence:  r.Confidence,
			Description: r.Description,
			Evidence:    r.Evidence,
		})
	}

	out.Patterns = &comp
	out.Risk = &assessment
	out.Status = StatusComplete
	out.CompletedAt = time.Now()
	a.metrics.ObserveAnalysis(time.Since(start).Seconds())
	return out
}

func (a *Analyzer) fail(out *ContractAnalysis, msg string) *ContractAnalysis {
	out.Status = StatusFailed
	out.Error = msg
	out.CompletedAt = time.Now()
	a.metrics.AnalysisFailed()
	return out
}

// AnalyzeBatch analyzes all targets concurrently. Results preserve the
// input order, and one failing contract never aborts the batch; each
// failure is also surfaced as a diagnostic.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, targets []Target) ([]ContractAnalysis, []diag.Diagnostic) {
	results := make([]ContractAnalysis, len(targets))

	var cbMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			results[i] = *a.AnalyzeContract(gctx, t)
			if a.onResult != nil {
				cbMu.Lock()
				a.onResult(&results[i])
				cbMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	var diagnostics []diag.Diagnostic
	for _, r := range results {
		if r.Failed() {
			diagnostics = append(diagnostics, diag.Error(r.Address, r.Error))
		}
	}
	return results, diagnostics
}
