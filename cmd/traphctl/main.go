// Command traphctl drives a Traph from the command line: bulk ingestion
// of pages and links, webentity-creation-rule management, and a
// Prometheus metrics endpoint for long-running ingestion jobs.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
