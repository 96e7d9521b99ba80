package cmd

import (
	"encoding/json"
	"os"
	"reflect"

	"github.com/cinelist-cli/cinelist/history"
	"github.com/cinelist-cli/cinelist/internal/sync"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportSchemaCmd)
	reportSchemaCmd.Flags().BoolP("history", "H", false, "Schema of the history entries instead of the run report")
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Machine readable output helpers",
}

// reportSchemaCmd prints the JSON schema of --json outputs.
var reportSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the run report",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return t.Name()
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("history")):
			schema = reflector.Reflect([]*history.Run{})
		default:
			schema = reflector.Reflect(&sync.Report{})
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
