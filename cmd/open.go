package cmd

import (
	"errors"
	"fmt"

	"github.com/cinelist-cli/cinelist/constant"
	"github.com/cinelist-cli/cinelist/icon"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/open"
	"github.com/cinelist-cli/cinelist/remote/letterboxd"
	"github.com/cinelist-cli/cinelist/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().BoolP("snapshot", "s", false, "Open the snapshot file instead of the list")
}

// openCmd shows the synchronized list in the default browser.
var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the Letterboxd list in the default browser",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("snapshot")) {
			handleErr(open.Start(where.Snapshot()))
			return
		}

		username, list := viper.GetString(key.LetterboxdUsername), viper.GetString(key.LetterboxdList)
		if username == "" || list == "" {
			handleErr(errors.New("no list configured, run `cinelist auth login` first"))
		}

		u := letterboxd.ListURL(constant.LetterboxdBaseURL, username, list)
		fmt.Printf("%s Opening %s\n", icon.Get(icon.Info), u)
		handleErr(open.Start(u))
	},
}
