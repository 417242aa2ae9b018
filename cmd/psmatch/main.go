// Command psmatch runs propensity score matching studies on synthetic data.
//
// Usage:
//
//	psmatch run [--config study.yaml] [-n 10000] [--caliper 0.2] [--seed 460] [--export file://./runs]
//	psmatch replicate --seeds 460,461,462 [--workers 4]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
