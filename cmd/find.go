package cmd

import (
	"fmt"
	"strings"

	"github.com/cinelist-cli/cinelist/color"
	"github.com/cinelist-cli/cinelist/icon"
	"github.com/cinelist-cli/cinelist/query"
	"github.com/cinelist-cli/cinelist/store"
	"github.com/cinelist-cli/cinelist/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().IntP("limit", "l", 10, "Maximum number of films to show, 0 for all")
}

// findCmd searches the last imported snapshot.
var findCmd = &cobra.Command{
	Use:   "find <text>",
	Short: "Search the films of the last imported snapshot",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		q := strings.Join(args, " ")

		snap, err := store.Default().Load()
		handleErr(err)

		found := query.Find(snap.Films, q, lo.Must(cmd.Flags().GetInt("limit")))
		if len(found) == 0 {
			msg := fmt.Sprintf("%s No film matches %s", icon.Get(icon.Search), style.Fg(color.Yellow)(q))
			if suggestion, ok := query.Suggest(q).Get(); ok && suggestion != strings.ToLower(q) {
				msg += fmt.Sprintf(", did you mean %s?", style.Fg(color.Purple)(suggestion))
			}
			cmd.Println(msg)
			return
		}

		_ = query.Remember(q, 1)

		for _, f := range found {
			line := fmt.Sprintf("%s %s", icon.Get(icon.Film), style.Bold(f.String()))
			if f.Directors != "" {
				line += " " + style.Faint(f.Directors)
			}
			cmd.Println(line)
		}
	},
}
