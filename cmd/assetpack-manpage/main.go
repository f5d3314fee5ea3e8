package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/assetpack/cmd/assetpack"
	"github.com/arthur-debert/assetpack/internal/version"
	"github.com/spf13/cobra/doc"
)

// Writes assetpack.1 to stdout, or one page per command into the directory
// given as the first argument.
func main() {
	rootCmd := assetpack.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "ASSETPACK",
		Section: "1",
		Source:  "assetpack " + version.Version,
		Manual:  "assetpack manual",
	}

	var err error
	if len(os.Args) > 1 {
		if err = os.MkdirAll(os.Args[1], 0755); err == nil {
			err = doc.GenManTree(rootCmd, header, os.Args[1])
		}
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
