package plan

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vitaplan/vitaplan/adapter/cli"
	"github.com/vitaplan/vitaplan/internal/presentation/calendar"
)

var (
	showID   string
	showGrid bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a stored plan as a calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetPlanHandler == nil {
			return fmt.Errorf("application not initialized")
		}

		id, err := uuid.Parse(showID)
		if err != nil {
			return fmt.Errorf("invalid plan id: %w", err)
		}
		plan, err := app.GetPlanHandler.Handle(cmd.Context(), id)
		if err != nil {
			return err
		}

		if showGrid {
			fmt.Print(calendar.WeekGrid(plan))
			return nil
		}
		fmt.Print(calendar.HorizonView(plan))
		fmt.Println()
		fmt.Print(calendar.FailureReport(plan))
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showID, "id", "", "plan id (required)")
	showCmd.Flags().BoolVar(&showGrid, "grid", false, "show a week-by-weekday load grid instead of the day listing")
	_ = showCmd.MarkFlagRequired("id")
}
