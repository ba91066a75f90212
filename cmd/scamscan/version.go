package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scamscan/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scamscan version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scamscan %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
