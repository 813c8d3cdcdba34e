package plan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vitaplan/vitaplan/adapter/cli"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently stored plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListPlansHandler == nil {
			return fmt.Errorf("application not initialized")
		}

		ids, err := app.ListPlansHandler.Handle(cmd.Context(), listLimit)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("no stored plans")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "maximum number of plans to list")
}
