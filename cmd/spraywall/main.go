package main

import (
	"fmt"
	"os"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
