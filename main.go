// Package main is the entry point for the soi application.
package main

import (
	"github.com/samber/lo"
	"github.com/soi-cli/soi/cmd"
	"github.com/soi-cli/soi/config"
	"github.com/soi-cli/soi/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
