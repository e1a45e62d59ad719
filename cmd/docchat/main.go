// Command docchat is the entry point for the document chat service.
// It provides a CLI interface (via Cobra) and an HTTP server that answers
// questions grounded in a single uploaded document.
package main

import (
	"fmt"
	"os"

	"github.com/54b3r/docchat-go/cmd/docchat/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
