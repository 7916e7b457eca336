package main

import (
	"os"

	"github.com/warp/bridge-planner/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
