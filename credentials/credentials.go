// Package credentials resolves the Letterboxd account and target list.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cinelist-cli/cinelist/constant"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/log"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const service = constant.Cinelist + "-letterboxd"

// ErrMissing is returned when a required credential is not configured anywhere.
var ErrMissing = errors.New("letterboxd credentials are not set")

// Credentials identify the account and the list to synchronize.
type Credentials struct {
	Username string
	Password string
	List     string
}

// Resolve reads the credentials from the configuration, the environment or
// the .env file, then falls back to the system keyring for the password.
func Resolve() (Credentials, error) {
	c := Credentials{
		Username: strings.TrimSpace(viper.GetString(key.LetterboxdUsername)),
		Password: viper.GetString(key.LetterboxdPassword),
		List:     strings.TrimSpace(viper.GetString(key.LetterboxdList)),
	}

	if c.Password == "" && c.Username != "" {
		password, err := keyring.Get(service, c.Username)
		switch {
		case err == nil:
			c.Password = password
		case errors.Is(err, keyring.ErrNotFound):
		default:
			log.Warnf("keyring unavailable: %v", err)
		}
	}

	var missing []string
	if c.Username == "" {
		missing = append(missing, key.LetterboxdUsername)
	}
	if c.Password == "" {
		missing = append(missing, key.LetterboxdPassword)
	}
	if c.List == "" {
		missing = append(missing, key.LetterboxdList)
	}

	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}

	return c, nil
}

// SetPassword stores the account password in the system keyring.
func SetPassword(username, password string) error {
	return keyring.Set(service, username, password)
}

// DeletePassword removes the account password from the system keyring.
func DeletePassword(username string) error {
	err := keyring.Delete(service, username)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// HasPassword reports whether the keyring holds a password for username.
func HasPassword(username string) bool {
	_, err := keyring.Get(service, username)
	return err == nil
}
