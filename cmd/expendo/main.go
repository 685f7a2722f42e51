// main is the entry point for the expendo CLI.
package main

import (
	"github.com/expendo-io/expendo/cmd"
	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Cannot run expendo", err)
	}
}
