package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the compiler version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pseudoc " + version)
	},
}
