package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/flowdef"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check flow documents for content errors",
	Long:  `Parses every flow document in the directory and reports content errors and findings such as unreachable pages or forms missing from the catalog.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("flows")
		if !cmd.Flags().Changed("flows") && len(args) > 0 {
			dir = args[0]
		}

		failed, err := runValidate(dir)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		if failed {
			os.Exit(1)
		}
		fmt.Println("All flows are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(dir string) (failed bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	checked := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		checked++

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return false, err
		}

		id := strings.TrimSuffix(name, filepath.Ext(name))
		var def *domain.FlowDefinition
		if ext == ".json" {
			def, err = flowdef.Parse(id, data)
		} else {
			def, err = flowdef.ParseYAML(id, data)
		}
		if err != nil {
			failed = true
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				fmt.Printf("%s: %d content error(s)\n", name, len(verr.Errors))
				for _, e := range verr.Errors {
					fmt.Printf("  - %v\n", e)
				}
			} else {
				fmt.Printf("%s: %v\n", name, err)
			}
			continue
		}

		for _, finding := range flowdef.Lint(def) {
			fmt.Printf("%s: warning: %s\n", name, finding)
		}
	}

	if checked == 0 {
		return false, fmt.Errorf("no flow documents found in %s", dir)
	}
	return failed, nil
}
