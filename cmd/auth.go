package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/cinelist-cli/cinelist/color"
	"github.com/cinelist-cli/cinelist/credentials"
	"github.com/cinelist-cli/cinelist/icon"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authStatusCmd)
}

// authCmd groups the Letterboxd account commands.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Letterboxd account used for imports",
}

// writeConfig persists viper, creating the file on first use.
func writeConfig() error {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		return viper.SafeWriteConfig()
	default:
		return err
	}
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the Letterboxd account and target list",
	Long:  "Prompt for the account and the list. The password goes to the system keyring, the rest to the config file.",
	Run: func(cmd *cobra.Command, args []string) {
		var answers struct {
			Username string
			Password string
			List     string
		}

		questions := []*survey.Question{
			{
				Name:     "username",
				Prompt:   &survey.Input{Message: "Letterboxd username", Default: viper.GetString(key.LetterboxdUsername)},
				Validate: survey.Required,
			},
			{
				Name:     "password",
				Prompt:   &survey.Password{Message: "Letterboxd password"},
				Validate: survey.Required,
			},
			{
				Name:     "list",
				Prompt:   &survey.Input{Message: "List slug (as in letterboxd.com/<you>/list/<slug>/)", Default: viper.GetString(key.LetterboxdList)},
				Validate: survey.Required,
			},
		}

		handleErr(survey.Ask(questions, &answers))
		handleErr(credentials.SetPassword(answers.Username, answers.Password))

		viper.Set(key.LetterboxdUsername, answers.Username)
		viper.Set(key.LetterboxdList, answers.List)
		handleErr(writeConfig())

		fmt.Printf(
			"%s logged in as %s, importing into %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(answers.Username),
			style.Fg(color.Yellow)(answers.List),
		)
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored Letterboxd password",
	Run: func(cmd *cobra.Command, args []string) {
		username := viper.GetString(key.LetterboxdUsername)
		if username == "" {
			handleErr(errors.New("no account configured"))
		}

		handleErr(credentials.DeletePassword(username))
		fmt.Printf("%s removed the password of %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), username)
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that every credential is available",
	Run: func(cmd *cobra.Command, args []string) {
		creds, err := credentials.Resolve()
		handleErr(err)

		source := "config"
		if viper.GetString(key.LetterboxdPassword) == "" && credentials.HasPassword(creds.Username) {
			source = "keyring"
		}

		fmt.Printf(
			"%s %s, list %s, password from %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(creds.Username),
			style.Fg(color.Yellow)(creds.List),
			source,
		)
	},
}
