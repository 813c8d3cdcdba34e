package plan

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vitaplan/vitaplan/adapter/cli"
	"github.com/vitaplan/vitaplan/internal/presentation/metrics"
	"github.com/vitaplan/vitaplan/internal/scheduling/application/bundle"
)

var (
	metricsID    string
	metricsInput string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show placement metrics for a stored plan",
	Long: `Show placement metrics for a stored plan. The input bundle is needed
to re-derive the required occurrence counts per activity.

Example:
  vitaplan plan metrics --id <plan-id> --input month.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetPlanHandler == nil {
			return fmt.Errorf("application not initialized")
		}

		id, err := uuid.Parse(metricsID)
		if err != nil {
			return fmt.Errorf("invalid plan id: %w", err)
		}
		plan, err := app.GetPlanHandler.Handle(cmd.Context(), id)
		if err != nil {
			return err
		}

		f, err := os.Open(metricsInput)
		if err != nil {
			return fmt.Errorf("open input bundle: %w", err)
		}
		defer f.Close()
		b, err := bundle.Read(f)
		if err != nil {
			return err
		}
		inputs, err := b.ToInputs()
		if err != nil {
			return err
		}

		m := metrics.Compute(plan, inputs.Activities)

		fmt.Printf("placed %d of %d occurrences (%.1f%%)\n",
			m.Total.Placed, m.Total.Required, m.Total.Rate()*100)
		fmt.Println("\nby priority:")
		for _, p := range m.Priorities() {
			s := m.ByPriority[p]
			fmt.Printf("  P%d: %d/%d (%.1f%%)\n", p, s.Placed, s.Required, s.Rate()*100)
		}
		fmt.Println("\nby type:")
		for _, t := range m.Types() {
			s := m.ByType[t]
			fmt.Printf("  %-12s %d/%d (%.1f%%)\n", t, s.Placed, s.Required, s.Rate()*100)
		}
		fmt.Printf("\nbusiest day: %s (%d slots), lightest day: %s (%d slots)\n",
			m.BusiestDay, m.SlotsPerDay[m.BusiestDay],
			m.LightestDay, m.SlotsPerDay[m.LightestDay])
		return nil
	},
}

func init() {
	metricsCmd.Flags().StringVar(&metricsID, "id", "", "plan id (required)")
	metricsCmd.Flags().StringVarP(&metricsInput, "input", "i", "", "input bundle the plan was produced from (required)")
	_ = metricsCmd.MarkFlagRequired("id")
	_ = metricsCmd.MarkFlagRequired("input")
}
