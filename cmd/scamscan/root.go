package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scamscan/internal/config"
	"scamscan/internal/logger"
)

var (
	cfgPath string
	appCfg  *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "scamscan",
	Short: "Static scam-pattern detection for EVM smart contracts",
	Long: `scamscan analyzes deployed bytecode and contract interfaces for the
four classic scam signatures: deceptive events, hidden fund
redirection, fabricated balances and non-functional transfers.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		appCfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		logPath, err := logger.Init(appCfg.Scan.LogDir)
		if err != nil {
			return err
		}
		logger.InfoFileOnly("log file: %s", logPath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to settings.yaml")
}

func exitf(format string, v ...interface{}) error {
	logger.Error(format, v...)
	return fmt.Errorf(format, v...)
}
