package main

import (
	"fmt"
	"os"

	"github.com/zintix-labs/fruitslot/sdk/perf"
)

// makefile runner
func main() {
	cfg, err := bindVar(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := perf.Run(perf.DefaultDir, cfg.pprofmode, cfg.execute); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
