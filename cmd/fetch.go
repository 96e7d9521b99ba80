package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cinelist-cli/cinelist/catalog"
	"github.com/cinelist-cli/cinelist/filesystem"
	"github.com/cinelist-cli/cinelist/icon"
	"github.com/cinelist-cli/cinelist/snapshot"
	"github.com/cinelist-cli/cinelist/store"
	"github.com/cinelist-cli/cinelist/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringP("sort", "s", "date", "Sort order of the pass: title or date")
	lo.Must0(fetchCmd.RegisterFlagCompletionFunc("sort", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"title", "date"}, cobra.ShellCompDirectiveNoFileComp
	}))
	fetchCmd.Flags().StringP("out", "o", "", "Write the CSV to this file instead of stdout")
}

// fetchCmd dumps one normalized catalog pass.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and normalize the catalog without importing anything",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sort, ok := catalog.ParseSortOrder(lo.Must(cmd.Flags().GetString("sort")))
		if !ok {
			handleErr(fmt.Errorf("unknown sort order, expected title or date"))
		}

		ctx, stop := interruptible()
		defer stop()

		builder := snapshot.NewBuilder(catalog.NewClient(catalog.OptionsFromConfig()))
		films, err := builder.Pass(ctx, sort)
		handleErr(err)

		var buf bytes.Buffer
		handleErr(store.Encode(&buf, films, true))

		out := lo.Must(cmd.Flags().GetString("out"))
		if out == "" {
			_, err = os.Stdout.Write(buf.Bytes())
			handleErr(err)
			return
		}

		handleErr(filesystem.WriteAtomic(filesystem.API(), out, buf.Bytes()))
		cmd.PrintErrf("%s Wrote %s to %s\n", icon.Get(icon.Success), util.Quantify(len(films), "film", "films"), out)
	},
}
