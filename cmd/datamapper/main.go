// Command datamapper runs the mapper's data pipeline from the shell: filter
// chains, casts, hydration references and format conversion over JSON or
// YAML documents.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "datamapper:", err)
		os.Exit(1)
	}
}
