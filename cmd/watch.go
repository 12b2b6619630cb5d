package cmd

import (
	"github.com/anisan-cli/mediapool/tui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationP("refresh", "r", 0, "Interval between pool snapshots")
}

var watchCmd = &cobra.Command{
	Use:               "watch <scenario>",
	Short:             "Drive a scenario interactively",
	Long:              `Open a terminal UI listing the scenario's items and the pooled engines. Steps can be executed one by one or triggered per item.`,
	Args:              cobra.ExactArgs(1),
	Example:           "  mediapool watch pages",
	ValidArgsFunction: completeScenarios,
	Run: func(cmd *cobra.Command, args []string) {
		runner, err := loadRunner(args[0])
		handleErr(err)
		defer func() { handleErr(runner.Close()) }()

		handleErr(tui.Run(&tui.Options{
			Runner:  runner,
			Refresh: lo.Must(cmd.Flags().GetDuration("refresh")),
		}))
	},
}
