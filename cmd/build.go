package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbouvier/pseudoc/internal/compiler"
)

var debugTokens bool

var BuildCmd = &cobra.Command{
	Use:   "build [source-file]",
	Short: "Compile a (.pso) source file into a (.py) script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcPath := args[0]

		if debugTokens {
			if err := dumpTokens(srcPath); err != nil {
				return err
			}
		}

		outFile, err := compiler.CompileAndWrite(srcPath, outDir)
		if err != nil {
			return err
		}

		fmt.Printf("compiled %s -> %s\n", srcPath, outFile)
		return nil
	},
}

// dumpTokens prints the token stream of the source file, one token per
// line, before compilation proceeds.
func dumpTokens(srcPath string) error {
	content, err := compiler.ReadSource(srcPath)
	if err != nil {
		return err
	}
	tokens, err := compiler.Tokenize(content)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		fmt.Printf("%d:%d\t%s\t%q\n", tok.Line, tok.Column, tok.Type, tok.Literal)
	}
	return nil
}

func init() {
	BuildCmd.Flags().BoolVar(&debugTokens, "debug", false, "print the token stream before compiling")
}
