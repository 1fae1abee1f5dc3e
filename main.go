package main

import (
	"os"

	"github.com/kshimizu/manabo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
