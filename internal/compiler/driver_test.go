package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbouvier/pseudoc/internal/compiler/analyzer"
	"github.com/tbouvier/pseudoc/internal/compiler/lexer"
	"github.com/tbouvier/pseudoc/internal/compiler/parser"
)

const sumProgram = `
ALGORITHME Somme
VARIABLES
    a: ENTIER
    b: ENTIER
DEBUT
    a <- 2
    b <- (a + 3)
    ECRIRE(b)
FIN
`

func TestCompileEndToEnd(t *testing.T) {
	python, err := Compile(sumProgram)
	require.NoError(t, err)

	// Evaluating this script prints 5.
	want := "a = 2\n" +
		"b = (a + 3)\n" +
		"print(b)\n"
	assert.Equal(t, want, python)
}

func TestCompileLexicalErrorAborts(t *testing.T) {
	python, err := Compile("ALGORITHME Casse\nDEBUT\n    x <- 3 $ 4\nFIN\n")
	require.Error(t, err)
	assert.Empty(t, python)

	var lexErr *lexer.LexicalError
	assert.ErrorAs(t, err, &lexErr)
}

func TestCompileSyntaxErrorAborts(t *testing.T) {
	python, err := Compile("ALGORITHME Casse\nDEBUT\n    x <-\nFIN\n")
	require.Error(t, err)
	assert.Empty(t, python)

	var synErr *parser.SyntaxError
	assert.ErrorAs(t, err, &synErr)
}

func TestCompileSemanticErrorsAreBatched(t *testing.T) {
	python, err := Compile("ALGORITHME Casse\nDEBUT\n    ECRIRE(p)\n    ECRIRE(q)\nFIN\n")
	require.Error(t, err)
	assert.Empty(t, python)

	var semErr *analyzer.SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Len(t, semErr.Messages, 2)
}

func TestCompileAndWrite(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "somme.pso")
	require.NoError(t, os.WriteFile(srcPath, []byte(sumProgram), 0o644))

	outDir := filepath.Join(dir, "out")
	outFile, err := CompileAndWrite(srcPath, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "somme.py"), outFile)

	written, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(written), "print(b)")
}

func TestCompileAndWriteRejectsExtension(t *testing.T) {
	_, err := CompileAndWrite("programme.txt", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".pso")
}

func TestCompileAndWriteMissingFile(t *testing.T) {
	_, err := CompileAndWrite(filepath.Join(t.TempDir(), "absent.pso"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading source")
}

func TestCompileAndWriteInvalidProgramWritesNothing(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "casse.pso")
	require.NoError(t, os.WriteFile(srcPath, []byte("ALGORITHME Casse\nDEBUT\n    ECRIRE(p)\nFIN\n"), 0o644))

	outDir := filepath.Join(dir, "out")
	_, err := CompileAndWrite(srcPath, outDir)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "casse.py"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("x <- 1")
	require.NoError(t, err)
	assert.Len(t, tokens, 4)
}
