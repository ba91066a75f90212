package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"scamscan/internal/analysis"
	"scamscan/internal/bytecode"
	"scamscan/internal/chain"
	"scamscan/internal/config"
	"scamscan/internal/diag"
	"scamscan/internal/logger"
	"scamscan/internal/metrics"
	"scamscan/internal/report"
	"scamscan/internal/targets"
	"scamscan/internal/ui"
)

var (
	scanFile    string
	scanABIPath string
	scanChain   string
	scanDBAll   bool
	scanBlocks  string
	scanOutput  string
	scanWorkers int
	scanMetrics string
	scanTitle   string
)

var scanCmd = &cobra.Command{
	Use:   "scan [addresses...]",
	Short: "Analyze contracts for scam patterns and write a report",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFile, "file", "f", "", "target list file (txt or yaml)")
	scanCmd.Flags().StringVar(&scanABIPath, "abi", "", "ABI JSON file for a single target")
	scanCmd.Flags().StringVar(&scanChain, "chain", "default", "configured chain to scan against")
	scanCmd.Flags().BoolVar(&scanDBAll, "db", false, "load latest targets from the contract database")
	scanCmd.Flags().StringVar(&scanBlocks, "blocks", "", "database block range, start-end")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "report output directory")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "concurrent analyses")
	scanCmd.Flags().StringVar(&scanMetrics, "metrics", "", "serve Prometheus metrics on this address")
	scanCmd.Flags().StringVar(&scanTitle, "title", "", "report title")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainCfg, err := appCfg.Chain(scanChain)
	if err != nil {
		return err
	}

	list, diags, err := resolveTargets(args, chainCfg)
	if err != nil {
		return err
	}
	printDiagnostics(diags)
	if len(list) == 0 {
		return exitf("no valid targets to scan")
	}

	if scanABIPath != "" {
		if len(list) != 1 {
			return exitf("--abi applies to exactly one target, got %d", len(list))
		}
		raw, err := os.ReadFile(scanABIPath)
		if err != nil {
			return fmt.Errorf("failed to read ABI file: %w", err)
		}
		list[0].ABI = string(raw)
	}

	client, err := chain.Dial(chainCfg.RPCURLs, appCfg.Scan.CallTimeout)
	if err != nil {
		return err
	}
	defer client.Close()

	m := metrics.NewScannerMetrics()
	if scanMetrics != "" {
		reg := prometheus.NewRegistry()
		m.Register(reg)
		go func() {
			handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
			if err := http.ListenAndServe(scanMetrics, handler); err != nil {
				logger.Warn("metrics listener stopped: %v", err)
			}
		}()
	}

	store := bytecode.NewStore(bytecode.StoreOptions{
		MaxEntries:  appCfg.Cache.MaxEntries,
		TTL:         appCfg.Cache.TTL,
		CallTimeout: appCfg.Scan.CallTimeout,
		Metrics:     m,
	})

	ui.PrintBanner()
	logger.Info("scanning %d contract(s) via %s", len(list), client.CurrentURL())

	pb := ui.NewProgressBar(len(list), "scanning")
	workers := scanWorkers
	if workers <= 0 {
		workers = appCfg.Scan.Workers
	}
	analyzer := analysis.NewAnalyzer(store, client, analysis.AnalyzerOptions{
		Metrics: m,
		Workers: workers,
		OnResult: func(a *analysis.ContractAnalysis) {
			pb.Increment(a.Flagged())
		},
	})

	results, resultDiags := analyzer.AnalyzeBatch(ctx, list)
	pb.Finish()
	printDiagnostics(resultDiags)

	for i := range results {
		ui.PrintResult(&results[i])
	}

	rep, err := report.Generate(results, scanTitle)
	if err != nil {
		return err
	}
	md, err := report.NewMarkdownGenerator().Generate(rep)
	if err != nil {
		return err
	}

	outputDir := scanOutput
	if outputDir == "" {
		outputDir = appCfg.Scan.OutputDir
	}
	paths, err := report.NewFileStorage(outputDir).Save(rep, md)
	if err != nil {
		return err
	}

	ui.PrintSummary(rep)
	logger.Info("report saved: %s", paths.Markdown)
	logger.Info("json report saved: %s", paths.JSON)
	return nil
}

func resolveTargets(args []string, chainCfg *config.ChainConfig) ([]analysis.Target, []diag.Diagnostic, error) {
	var list []analysis.Target
	var diags []diag.Diagnostic

	for _, a := range args {
		list = append(list, analysis.Target{Address: a})
	}

	if scanFile != "" {
		fromFile, fileDiags, err := targets.FromFile(scanFile)
		if err != nil {
			return nil, nil, err
		}
		list = append(list, fromFile...)
		diags = append(diags, fileDiags...)
	}

	if scanDBAll || scanBlocks != "" {
		db, err := targets.OpenDB(appCfg.DSN(), chainCfg.TableName)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()

		var fromDB []analysis.Target
		var dbDiags []diag.Diagnostic
		if scanBlocks != "" {
			start, end, err := parseBlockRange(scanBlocks)
			if err != nil {
				return nil, nil, err
			}
			fromDB, dbDiags, err = db.ByBlockRange(start, end)
			if err != nil {
				return nil, nil, err
			}
		} else {
			fromDB, dbDiags, err = db.Latest(0)
			if err != nil {
				return nil, nil, err
			}
		}
		list = append(list, fromDB...)
		diags = append(diags, dbDiags...)
	}

	return list, diags, nil
}

func parseBlockRange(s string) (uint64, uint64, error) {
	startStr, endStr, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("block range must be start-end, got %q", s)
	}
	start, err := strconv.ParseUint(strings.TrimSpace(startStr), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start block: %w", err)
	}
	end, err := strconv.ParseUint(strings.TrimSpace(endStr), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end block: %w", err)
	}
	if end < start {
		return 0, 0, fmt.Errorf("block range end %d precedes start %d", end, start)
	}
	return start, end, nil
}

func printDiagnostics(diags []diag.Diagnostic) {
	for _, d := range diags {
		switch d.Level {
		case diag.LevelError:
			logger.Error("%s: %s", d.Address, d.Message)
		case diag.LevelWarning:
			logger.Warn("%s: %s", d.Address, d.Message)
		default:
			logger.Info("%s: %s", d.Address, d.Message)
		}
	}
}
