package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kioskflow/kioskflow"
	"github.com/kioskflow/kioskflow/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <flow-id>",
	Short: "Export a flow graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) representing the flow's pages and edges.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("flows")

		eng, err := kioskflow.New(dir)
		if err != nil {
			fmt.Printf("Error initializing kioskflow: %v\n", err)
			os.Exit(1)
		}

		flow, err := eng.Flow(context.Background(), args[0])
		if err != nil {
			fmt.Printf("Error loading flow %q: %v\n", args[0], err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(flow, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
