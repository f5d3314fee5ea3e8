package main

import (
	"os"

	"github.com/arthur-debert/assetpack/cmd/assetpack"
)

func main() {
	os.Exit(assetpack.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
