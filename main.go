// Package main is the entry point for the cinelist application.
package main

import (
	"github.com/cinelist-cli/cinelist/cmd"
	"github.com/cinelist-cli/cinelist/config"
	"github.com/cinelist-cli/cinelist/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
