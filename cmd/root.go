package cmd

import (
	"github.com/spf13/cobra"
)

var outDir string

var rootCmd = &cobra.Command{
	Use:   "pseudoc",
	Short: "pseudoc — French pseudo-code to Python compiler",
	Long: `pseudoc compiles algorithmic pseudo-code written with French keywords
into plain executable Python.

Commands:
  build    Compile a (.pso) source file into a (.py) script
  version  Print the compiler version
`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "out", "output directory for build artifacts")

	rootCmd.AddCommand(BuildCmd, VersionCmd)
}
