package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kioskflow/kioskflow"
	"github.com/kioskflow/kioskflow/internal/presentation/tui"
	"github.com/kioskflow/kioskflow/pkg/domain"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <flow-id>",
	Short: "Walk a flow interactively in the terminal",
	Long:  `Starts an interactive preview session for one flow. Answer questions by number; type "back", "restart" or "quit" at any prompt.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("flows")
		locale, _ := cmd.Flags().GetString("locale")

		if err := runInteractive(dir, args[0], locale); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("locale", "l", "en", "Content language for the session")
}

func runInteractive(dir, flowID, locale string) error {
	ctx := context.Background()

	eng, err := kioskflow.New(dir)
	if err != nil {
		return err
	}
	rn, err := eng.Runner(ctx, flowID)
	if err != nil {
		return err
	}

	tui.PrintBanner()
	render := tui.NewRenderer()
	reader := bufio.NewReader(os.Stdin)

	state, err := eng.StartSession(ctx, flowID, locale)
	if err != nil {
		return err
	}
	fallback := rn.Flow().DefaultLocale()

	for {
		if state.Completed {
			out, err := render(tui.SummaryMarkdown(rn.Flow(), state.Forms))
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}

		node, err := rn.Current(state)
		if err != nil {
			return err
		}

		out, err := render(tui.PageMarkdown(node, state.Locale, fallback))
		if err != nil {
			return err
		}
		fmt.Print(out)

		switch node.Type {
		case domain.NodeTypeQuestion:
			fmt.Print("> ")
		default:
			fmt.Print("[Enter to continue] > ")
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		input := strings.TrimSpace(line)

		switch input {
		case "quit", "exit":
			fmt.Println("Bye!")
			return nil
		case "back":
			next, err := eng.Back(ctx, state.SessionID)
			if err != nil {
				fmt.Printf("Cannot go back: %v\n", err)
				continue
			}
			state = next
			continue
		case "restart":
			next, err := eng.Restart(ctx, state.SessionID)
			if err != nil {
				return err
			}
			state = next
			continue
		}

		if node.Type != domain.NodeTypeQuestion {
			next, err := eng.Continue(ctx, state.SessionID)
			if err != nil {
				return err
			}
			state = next
			continue
		}

		choice, err := strconv.Atoi(input)
		if err != nil || choice < 1 || choice > len(node.Options) {
			fmt.Printf("Please answer with a number between 1 and %d.\n", len(node.Options))
			continue
		}

		next, err := eng.Answer(ctx, state.SessionID, node.Options[choice-1].Value)
		if err != nil {
			fmt.Printf("Cannot record answer: %v\n", err)
			continue
		}
		state = next
	}
}
