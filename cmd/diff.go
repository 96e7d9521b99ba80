package cmd

import (
	"github.com/cinelist-cli/cinelist/internal/sync"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().BoolP("json", "j", false, "Print the run report as JSON")
}

// diffCmd shows what a synchronization would change.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show the films a synchronization would add and remove",
	Long:  "Fetch the catalog and compare it with the last imported snapshot without touching the list or the snapshot.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runSync(cmd, sync.Options{DryRun: true}, lo.Must(cmd.Flags().GetBool("json")))
	},
}
