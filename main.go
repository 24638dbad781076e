// Package main is the entry point of quarrel.
package main

import (
	"github.com/quarrel-cli/quarrel/cmd"
	"github.com/quarrel-cli/quarrel/config"
	"github.com/quarrel-cli/quarrel/internal/cache"
	"github.com/quarrel-cli/quarrel/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
