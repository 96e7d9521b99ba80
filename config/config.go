// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"path/filepath"
	"strings"

	"github.com/cinelist-cli/cinelist/constant"
	"github.com/cinelist-cli/cinelist/filesystem"
	"github.com/cinelist-cli/cinelist/where"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including .env files, defaults, environment bindings, and localized file resolution.
func Setup() error {
	// godotenv never overrides variables already present in the process environment.
	_ = godotenv.Load()
	_ = godotenv.Load(filepath.Join(where.Config(), ".env"))

	viper.SetConfigName(constant.Cinelist)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Cinelist)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		if legacy, ok := legacyEnv[env]; ok {
			prefixed := strings.ToUpper(constant.Cinelist + "_" + EnvKeyReplacer.Replace(env))
			viper.MustBindEnv(env, prefixed, legacy)
			continue
		}
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}
