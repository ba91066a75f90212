package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scamscan/internal/analysis"
	"scamscan/internal/bytecode"
	"scamscan/internal/chain"
	"scamscan/internal/logger"
	"scamscan/internal/targets"
)

var (
	checkFile  string
	checkChain string
)

var checkCmd = &cobra.Command{
	Use:   "check [addresses...]",
	Short: "Verify targets resolve to contract code without analyzing",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "target list file (txt or yaml)")
	checkCmd.Flags().StringVar(&checkChain, "chain", "default", "configured chain to check against")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var list []analysis.Target
	for _, a := range args {
		list = append(list, analysis.Target{Address: a})
	}
	if checkFile != "" {
		fromFile, diags, err := targets.FromFile(checkFile)
		if err != nil {
			return err
		}
		printDiagnostics(diags)
		list = append(list, fromFile...)
	}
	if len(list) == 0 {
		return exitf("no targets to check")
	}

	chainCfg, err := appCfg.Chain(checkChain)
	if err != nil {
		return err
	}
	client, err := chain.Dial(chainCfg.RPCURLs, appCfg.Scan.CallTimeout)
	if err != nil {
		return err
	}
	defer client.Close()

	store := bytecode.NewStore(bytecode.StoreOptions{
		MaxEntries:  appCfg.Cache.MaxEntries,
		TTL:         appCfg.Cache.TTL,
		CallTimeout: appCfg.Scan.CallTimeout,
	})

	raws := make([]string, len(list))
	for i, t := range list {
		raws[i] = t.Address
	}
	codes, diags := store.Preload(ctx, raws, client)
	printDiagnostics(diags)

	for addr, code := range codes {
		if code.IsEmpty() {
			logger.Warn("%s holds no code (externally owned account?)", addr)
			continue
		}
		logger.Info("%s: contract, %d bytes", addr, code.ByteSize())
	}

	stats := store.Stats()
	logger.Info("cache: %d/%d entries, max age %s", stats.Size, stats.MaxSize, stats.MaxAge)
	return nil
}
