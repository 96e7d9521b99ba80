package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cinelist-cli/cinelist/color"
	"github.com/cinelist-cli/cinelist/history"
	"github.com/cinelist-cli/cinelist/icon"
	"github.com/cinelist-cli/cinelist/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	historyCmd.Flags().IntP("last", "n", 0, "Show only the last n runs")
	historyCmd.Flags().Bool("clear", false, "Forget every recorded run")
	historyCmd.MarkFlagsMutuallyExclusive("clear", "json")
}

var outcomeColors = map[history.Outcome]func(string) string{
	history.OutcomeImported:     style.Fg(color.Green),
	history.OutcomeNoChange:     style.Fg(color.Cyan),
	history.OutcomeDryRun:       style.Fg(color.Blue),
	history.OutcomeRolledBack:   style.Fg(color.Yellow),
	history.OutcomeSuspicious:   style.Fg(color.Warning),
	history.OutcomeWrongCountry: style.Fg(color.Purple),
	history.OutcomeFailed:       style.Fg(color.Red),
}

// historyCmd lists past synchronizations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past synchronization runs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(history.Clear())
			cmd.Printf("%s Run history cleared\n", icon.Get(icon.Success))
			return
		}

		runs, err := history.Get()
		handleErr(err)

		if n := lo.Must(cmd.Flags().GetInt("last")); n > 0 && len(runs) > n {
			runs = runs[len(runs)-n:]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(runs))
			return
		}

		if len(runs) == 0 {
			cmd.Printf("%s No run recorded yet\n", icon.Get(icon.Info))
			return
		}

		for _, run := range runs {
			paint, ok := outcomeColors[run.Outcome]
			if !ok {
				paint = style.Faint
			}

			line := fmt.Sprintf(
				"%s %s %s %s",
				style.Faint(run.Started.Local().Format(time.DateTime)),
				paint(string(run.Outcome)),
				style.Fg(color.Added)(fmt.Sprintf("+%d", run.Added)),
				style.Fg(color.Removed)(fmt.Sprintf("-%d", run.Removed)),
			)
			if run.Strategy != "" && run.Strategy != "none" {
				line += " " + style.Italic(run.Strategy)
			}
			line += " " + style.Faint(run.Duration().Round(time.Second).String())
			cmd.Println(line)

			if run.Error != "" {
				cmd.Println("    " + style.Faint(run.Error))
			}
		}
	},
}
