package plan

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vitaplan/vitaplan/adapter/cli"
	"github.com/vitaplan/vitaplan/internal/presentation/export"
)

var (
	exportID     string
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored plan as JSON or iCalendar",
	Long: `Export a stored plan.

Formats: json, ics

Examples:
  vitaplan plan export --id <plan-id> --format json
  vitaplan plan export --id <plan-id> --format ics --output schedule.ics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetPlanHandler == nil {
			return fmt.Errorf("application not initialized")
		}

		id, err := uuid.Parse(exportID)
		if err != nil {
			return fmt.Errorf("invalid plan id: %w", err)
		}
		plan, err := app.GetPlanHandler.Handle(cmd.Context(), id)
		if err != nil {
			return err
		}

		out := os.Stdout
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		switch exportFormat {
		case "json":
			return export.WriteJSON(out, plan)
		case "ics":
			return export.WriteICalendar(out, plan)
		default:
			return fmt.Errorf("unknown format %q (valid: json, ics)", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportID, "id", "", "plan id (required)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "export format: json or ics")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path, defaults to stdout")
	_ = exportCmd.MarkFlagRequired("id")
}
