package cmd

import (
	"encoding/json"
	"os"

	"github.com/anisan-cli/mediapool/scenario"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:     "schema",
	Short:   "Print the JSON schema of scenario files",
	Example: "  mediapool schema > scenario.schema.json",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(scenario.Schema()))
	},
}
