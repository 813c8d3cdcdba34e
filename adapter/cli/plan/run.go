package plan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitaplan/vitaplan/adapter/cli"
	"github.com/vitaplan/vitaplan/internal/presentation/export"
	"github.com/vitaplan/vitaplan/internal/scheduling/application/bundle"
	"github.com/vitaplan/vitaplan/internal/scheduling/application/commands"
)

var (
	runInput  string
	runOutput string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduler over an input bundle",
	Long: `Run the two-phase scheduler over a JSON input bundle and store the
resulting plan.

Examples:
  vitaplan plan run --input month.json
  vitaplan plan run --input month.json --output plan.json
  cat month.json | vitaplan plan run --input -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RunPlanHandler == nil {
			return fmt.Errorf("application not initialized")
		}

		in := os.Stdin
		if runInput != "-" {
			f, err := os.Open(runInput)
			if err != nil {
				return fmt.Errorf("open input bundle: %w", err)
			}
			defer f.Close()
			in = f
		}

		b, err := bundle.Read(in)
		if err != nil {
			return err
		}
		inputs, err := b.ToInputs()
		if err != nil {
			return err
		}

		result, err := app.RunPlanHandler.Handle(cmd.Context(), commands.RunPlanCommand{Inputs: inputs})
		if err != nil {
			return err
		}

		fmt.Printf("plan %s: %d slots booked, %d occurrences unplaced over %d days\n",
			result.ID(), len(result.Slots()), result.FailureCount(), result.Horizon().Days())

		if runOutput != "" {
			out := os.Stdout
			if runOutput != "-" {
				f, err := os.Create(runOutput)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			if err := export.WriteJSON(out, result); err != nil {
				return fmt.Errorf("write plan: %w", err)
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "input bundle path, or - for stdin (required)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write the plan as JSON to this path, or - for stdout")
	_ = runCmd.MarkFlagRequired("input")
}
