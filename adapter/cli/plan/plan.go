// Package plan provides the plan command group: running the scheduler over
// an input bundle and inspecting stored runs.
package plan

import (
	"github.com/spf13/cobra"

	"github.com/vitaplan/vitaplan/adapter/cli"
)

var planCmd = &cobra.Command{
	Use:     "plan",
	Short:   "Run and inspect schedules",
	Aliases: []string{"p"},
}

func init() {
	planCmd.AddCommand(runCmd)
	planCmd.AddCommand(showCmd)
	planCmd.AddCommand(exportCmd)
	planCmd.AddCommand(metricsCmd)
	planCmd.AddCommand(listCmd)
	cli.AddCommand(planCmd)
}
