package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kioskflow/kioskflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of kioskflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kioskflow version %s\n", strings.TrimSpace(kioskflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
