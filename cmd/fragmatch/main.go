package main

import (
	"os"

	"github.com/andrew-torda/fragmatch/pkg/fragmatch"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

func main() {
	if err := fragmatch.NewRootCmd().Execute(); err != nil {
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}
