package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/autopeer-io/vocbridge/cmd/cpeer-voc-bridge/app"
)

func main() {
	if err := app.NewBridgeCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
