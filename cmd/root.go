// Package cmd implements the command-line interface for cinelist.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/cinelist-cli/cinelist/color"
	"github.com/cinelist-cli/cinelist/constant"
	"github.com/cinelist-cli/cinelist/film"
	"github.com/cinelist-cli/cinelist/history"
	"github.com/cinelist-cli/cinelist/icon"
	"github.com/cinelist-cli/cinelist/internal/sync"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/log"
	"github.com/cinelist-cli/cinelist/style"
	"github.com/cinelist-cli/cinelist/util"
	"github.com/cinelist-cli/cinelist/version"
	"github.com/cinelist-cli/cinelist/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// listedTitles is the largest change printed title by title.
const listedTitles = 20

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().BoolP("dry-run", "n", false, "Compute the changes without importing them")
	rootCmd.Flags().BoolP("full", "f", false, "Replace the whole list even if no film was removed")
	rootCmd.Flags().BoolP("json", "j", false, "Print the run report as JSON")
	rootCmd.MarkFlagsMutuallyExclusive("dry-run", "full")

	rootCmd.Flags().Bool("headless", true, "Run the browser without a window")
	lo.Must0(viper.BindPFlag(key.LetterboxdHeadless, rootCmd.Flags().Lookup("headless")))

	rootCmd.SetOut(os.Stdout)

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd runs one synchronization.
var rootCmd = &cobra.Command{
	Use:   constant.Cinelist,
	Short: "Keep a Letterboxd list in sync with the Médiathèque numérique catalog",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Keep a Letterboxd list in sync with the Médiathèque numérique catalog"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		runSync(cmd, sync.Options{
			DryRun: lo.Must(cmd.Flags().GetBool("dry-run")),
			Full:   lo.Must(cmd.Flags().GetBool("full")),
		}, lo.Must(cmd.Flags().GetBool("json")))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

// interruptible returns a context cancelled on Ctrl-C.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// runSync runs one synchronization, prints its report and exits with its code.
func runSync(cmd *cobra.Command, opts sync.Options, asJSON bool) {
	ctx, stop := interruptible()
	defer stop()

	if !asJSON {
		if last, ok, err := history.Last(); err == nil && ok && last.Outcome == history.OutcomeRolledBack {
			cmd.PrintErrf("%s The previous run was rolled back: %s\n", icon.Get(icon.Warn), style.Faint(last.Error))
		}
	}

	deps := sync.DefaultDeps()
	stopSpinner := func() {}
	if !asJSON {
		var step func(string)
		step, stopSpinner = startSpinner()
		deps.Progress = func(s string) {
			log.Debug(s)
			step(s)
		}
	}

	report, err := sync.Run(ctx, deps, opts)
	stopSpinner()

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		lo.Must0(encoder.Encode(report))
	} else {
		printReport(cmd, report)
	}

	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
	}

	stop()
	os.Exit(sync.ExitCode(report.Outcome))
}

func printReport(cmd *cobra.Command, report *sync.Report) {
	if report.Films > 0 {
		cmd.Printf("%s %s in the catalog\n", icon.Get(icon.Film), util.Quantify(report.Films, "film", "films"))
	}

	printChange(cmd, icon.Added, style.Fg(color.Added), report.Added, "added")
	printChange(cmd, icon.Removed, style.Fg(color.Removed), report.Removed, "removed")

	switch report.Outcome {
	case history.OutcomeImported:
		msg := fmt.Sprintf("List updated (%s)", report.Strategy)
		if report.Fallback {
			msg += ", removals postponed to the next run"
		}
		cmd.Printf("%s %s\n", icon.Get(icon.Success), msg)
	case history.OutcomeNoChange:
		cmd.Printf("%s No new films, nothing imported\n", icon.Get(icon.Success))
	case history.OutcomeDryRun:
		cmd.Printf("%s Dry run, would apply %s\n", icon.Get(icon.Info), style.Bold(report.Strategy.String()))
	case history.OutcomeRolledBack:
		cmd.Printf("%s Import failed, previous snapshot restored\n", icon.Get(icon.Warn))
	case history.OutcomeSuspicious:
		cmd.Printf("%s Too many films disappeared, nothing was changed\n", icon.Get(icon.Warn))
	}
}

func printChange(cmd *cobra.Command, i icon.Icon, paint func(string) string, films []film.Film, verb string) {
	if len(films) == 0 {
		return
	}

	cmd.Printf("%s %s %s\n", icon.Get(i), paint(util.Quantify(len(films), "film", "films")), verb)
	if len(films) > listedTitles {
		return
	}

	width, _, err := util.TerminalSize()
	if err != nil || width <= 4 {
		width = 80
	}
	width = util.Min(width, 120)
	cmd.Println(style.Faint(indent(wordwrap.String(strings.Join(film.Titles(films), ", "), width-4), "    ")))
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
