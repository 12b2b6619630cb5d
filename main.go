// Package main is the entry point for the mediapool application.
package main

import (
	"github.com/anisan-cli/mediapool/cmd"
	"github.com/anisan-cli/mediapool/config"
	"github.com/anisan-cli/mediapool/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go log.CollectGarbage()

	cmd.Execute()
}
