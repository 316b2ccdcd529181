package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kioskflow",
	Short: "Kioskflow is a guided self-help questionnaire engine",
	Long:  `Kioskflow walks visitors through interactive questionnaire flows and recommends the court forms their answers call for.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("flows", "flows", "Directory containing the flow definitions")
}
