// Command lawrag is the entry point for the labor-law retrieval toolkit.
// It indexes statute corpora into a vector store, answers ad-hoc retrieval
// queries, and evaluates retrieval strategies against labeled datasets.
package main

import (
	"fmt"
	"os"

	"github.com/lawrag/lawrag/cmd/lawrag/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
