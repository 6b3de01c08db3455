package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dotbak/internal/cli"
	"github.com/arthur-debert/dotbak/internal/version"
)

// Writes the man page for every command into the directory given as the
// only argument, or prints the root page to stdout.
func main() {
	rootCmd := cli.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DOTBAK",
		Section: "1",
		Source:  "dotbak " + version.Version,
		Manual:  "dotbak manual",
	}

	var err error
	if len(os.Args) > 1 {
		err = doc.GenManTree(rootCmd, header, os.Args[1])
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
