package compiler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/tbouvier/pseudoc/internal/compiler/analyzer"
	"github.com/tbouvier/pseudoc/internal/compiler/ast"
	"github.com/tbouvier/pseudoc/internal/compiler/emitter"
	"github.com/tbouvier/pseudoc/internal/compiler/lexer"
	"github.com/tbouvier/pseudoc/internal/compiler/parser"
	"github.com/tbouvier/pseudoc/internal/compiler/token"
)

const (
	SourceExt = ".pso"
	OutputExt = ".py"
)

// Compile runs the full pipeline on a source string and returns the Python
// text. Lexing and parsing stop at the first error; semantic analysis
// collects every error before failing. No output is produced for an invalid
// program.
func Compile(source string) (string, error) {
	prog, err := Parse(source)
	if err != nil {
		return "", err
	}
	if err := analyzer.New().Analyze(prog); err != nil {
		return "", err
	}
	return emitter.New().Emit(prog), nil
}

// Parse tokenizes and parses a source string without analyzing it. Exposed
// for tooling that wants the tree, such as the token dump mode of the CLI.
func Parse(source string) (*ast.Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return parser.New(tokens).ParseProgram()
}

func Tokenize(source string) ([]token.Token, error) {
	return lexer.New(source).Tokenize()
}

// CompileAndWrite compiles the file at srcPath and writes <name>.py into
// outDir, creating the directory if needed. It returns the output path.
func CompileAndWrite(srcPath, outDir string) (string, error) {
	if err := validateExtension(srcPath); err != nil {
		return "", err
	}

	content, err := ReadSource(srcPath)
	if err != nil {
		return "", err
	}

	python, err := Compile(content)
	if err != nil {
		return "", err
	}

	outFile, err := writeOutput(python, srcPath, outDir)
	if err != nil {
		return "", err
	}

	return outFile, nil
}

func validateExtension(path string) error {
	if filepath.Ext(path) != SourceExt {
		return errors.Errorf("source must have %s extension", SourceExt)
	}
	return nil
}

func ReadSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "reading source")
	}
	return string(b), nil
}

func writeOutput(python, srcPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating output directory")
	}
	base := strings.TrimSuffix(filepath.Base(srcPath), SourceExt)
	outFile := filepath.Join(outDir, base+OutputExt)
	if err := os.WriteFile(outFile, []byte(python), 0o644); err != nil {
		return "", errors.Wrap(err, "writing output")
	}
	return outFile, nil
}
