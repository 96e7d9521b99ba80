// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/cinelist-cli/cinelist/color"
	"github.com/cinelist-cli/cinelist/constant"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Cinelist + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

// legacyEnv maps keys to the unprefixed variable names older .env files use.
var legacyEnv = map[string]string{
	key.LetterboxdUsername: "LETTERBOXD_USERNAME",
	key.LetterboxdPassword: "LETTERBOXD_PASSWORD",
	key.LetterboxdList:     "LETTERBOXD_LIST",
}

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.CatalogURL, constant.CatalogSearchURL, "Product search endpoint of the Médiathèque numérique")
	register(key.CatalogCategory, constant.CinemaCategory, "Product category UUID to synchronize")
	register(key.CatalogPageSize, 1000, "Number of products requested per page")
	register(key.CatalogMaxPages, 200, "Upper bound on pages fetched in a single pass.\nReaching it fails the run instead of truncating the catalog")
	register(key.CatalogTimeoutSeconds, 5, "Timeout of a single catalog request, in seconds")
	register(key.CatalogRequestsPerSecond, 4, "Maximum catalog requests per second. 0 disables pacing")
	register(key.CatalogCompletenessAttempts, 10, "How many times the publication-date pass is re-fetched\nbefore giving up on matching the title pass")
	register(key.CatalogMinDuration, 3000, "Programs at or below this duration (seconds) are ignored")
	register(key.NetworkTLSFingerprint, false, "Present a Chrome TLS fingerprint to the catalog")
	register(key.GeoEnable, true, "Check the country of the current IP before running")
	register(key.GeoCountry, "FR", "ISO country code the catalog is available from")
	register(key.GeoURL, constant.GeolocationURL, "Geolocation endpoint returning {\"country\": ...}")
	register(key.LetterboxdUsername, "", "Letterboxd account username")
	register(key.LetterboxdPassword, "", "Letterboxd account password.\nPrefer \"cinelist auth login\" which stores it in the system keyring")
	register(key.LetterboxdList, "", "Slug of the Letterboxd list to keep in sync")
	register(key.LetterboxdAnchor, "", "Title of the list entry new films are moved in front of.\nLeave empty for unordered lists")
	register(key.LetterboxdHeadless, true, "Run the browser without a window")
	register(key.LetterboxdMatchTimeoutMinutes, 120, "How long Letterboxd may take to match an imported file, in minutes")
	register(key.LetterboxdStepTimeoutSeconds, 60, "Timeout of each other browser step, in seconds")
	register(key.ImportMaxRemoved, 100, "Removals above this count abort the run as suspicious")
	register(key.ImportFallback, true, "Retry a failed full replace as an add of the new films only")
	register(key.MirrorPostgresDSN, "", "Postgres DSN receiving a copy of every committed snapshot.\nLeave empty to disable")
	register(key.HistoryLimit, 50, "Number of runs kept in the history")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, true, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))

// Parse converts raw command line values to the type of the field's default.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no value given for %s", f.Key)
	}

	switch f.Value.(type) {
	case string:
		return raw[0], nil
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value for %s: %q", f.Key, raw[0])
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value for %s: %q", f.Key, raw[0])
		}
		return b, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", f.Key)
	}
}
