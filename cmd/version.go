package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set via -ldflags at release build time.
var (
	version = "(devel)"
	commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		if commit != "" {
			fmt.Printf("manabo %s (%s)\n", version, commit)
			return
		}
		fmt.Println("manabo", version)
	},
}
