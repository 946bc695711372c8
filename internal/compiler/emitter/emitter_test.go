package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbouvier/pseudoc/internal/compiler/analyzer"
	"github.com/tbouvier/pseudoc/internal/compiler/ast"
	"github.com/tbouvier/pseudoc/internal/compiler/lexer"
	"github.com/tbouvier/pseudoc/internal/compiler/parser"
)

func parseValid(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := lexer.New(src).Tokenize()
	require.NoError(t, err)
	prog, err := parser.New(tokens).ParseProgram()
	require.NoError(t, err)
	require.NoError(t, analyzer.New().Analyze(prog))
	return prog
}

func emitSource(t *testing.T, src string) string {
	t.Helper()
	return New().Emit(parseValid(t, src))
}

func TestEmitAssignmentsAndPrint(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Exemple
VARIABLES
    a: ENTIER
    b: ENTIER
DEBUT
    a <- 2
    b <- (a + 3)
    ECRIRE(b)
FIN
`)

	want := "a = 2\n" +
		"b = (a + 3)\n" +
		"print(b)\n"
	assert.Equal(t, want, got)
}

func TestEmitExpressionsFullyParenthesized(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Paren
VARIABLES
    x: ENTIER
DEBUT
    x <- 2 + 3 * 4
FIN
`)

	assert.Equal(t, "x = (2 + (3 * 4))\n", got)
}

func TestEmitLogicalOperators(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Logique
VARIABLES
    ok: BOOLEEN
    a: ENTIER
DEBUT
    ok <- NON (a > 1 ET a < 9) OU FAUX
FIN
`)

	assert.Equal(t, "ok = ((not ((a > 1) and (a < 9))) or False)\n", got)
}

func TestEmitForLoopInclusiveBounds(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Compte
VARIABLES
    i: ENTIER
DEBUT
    POUR i DE 1 A 3 FAIRE
        ECRIRE(i)
    FINPOUR
FIN
`)

	want := "for i in range(1, 3 + 1):\n" +
		"    print(i)\n"
	assert.Equal(t, want, got)
}

func TestEmitIfElse(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Signe
VARIABLES
    n: ENTIER
DEBUT
    SI n >= 0 ALORS
        ECRIRE("positif")
    SINON
        ECRIRE("negatif")
    FINSI
FIN
`)

	want := "if (n >= 0):\n" +
		"    print(\"positif\")\n" +
		"else:\n" +
		"    print(\"negatif\")\n"
	assert.Equal(t, want, got)
}

func TestEmitEmptyBlockGetsPass(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Vide
VARIABLES
    n: ENTIER
DEBUT
    SI n > 0 ALORS
    FINSI
FIN
`)

	want := "if (n > 0):\n" +
		"    pass\n"
	assert.Equal(t, want, got)
}

func TestEmitWhile(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Boucle
VARIABLES
    x: ENTIER
DEBUT
    TANTQUE x < 10 FAIRE
        x <- x + 1
    FINTANTQUE
FIN
`)

	want := "while (x < 10):\n" +
		"    x = (x + 1)\n"
	assert.Equal(t, want, got)
}

func TestEmitFunctionWithZeroInitializedLocals(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Calculs
FONCTION double(n: ENTIER) RETOURNE ENTIER
    r: ENTIER
    r <- n * 2
    RETOURNE r
FINFONCTION
DEBUT
    ECRIRE(double(21))
FIN
`)

	want := "def double(n):\n" +
		"    r = 0\n" +
		"    r = (n * 2)\n" +
		"    return r\n" +
		"\n" +
		"print(double(21))\n"
	assert.Equal(t, want, got)
}

func TestEmitLocalZeroValuesPerType(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Zeros
PROCEDURE demo()
    i: ENTIER
    r: REEL
    s: TEXTE
    b: BOOLEEN
FINPROCEDURE
DEBUT
    demo()
FIN
`)

	want := "def demo():\n" +
		"    i = 0\n" +
		"    r = 0.0\n" +
		"    s = \"\"\n" +
		"    b = False\n" +
		"\n" +
		"demo()\n"
	assert.Equal(t, want, got)
}

func TestEmitEmptyProcedureGetsPass(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Rien
PROCEDURE rien()
FINPROCEDURE
DEBUT
    rien()
FIN
`)

	want := "def rien():\n" +
		"    pass\n" +
		"\n" +
		"rien()\n"
	assert.Equal(t, want, got)
}

func TestEmitSwitchAsIfElifElse(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Jour
VARIABLES
    j: ENTIER
DEBUT
    CAS j FAIRE
        1:
            ECRIRE("lundi")
        2:
            ECRIRE("mardi")
        DEFAUT:
            ECRIRE("autre")
    FINCAS
FIN
`)

	want := "if j == 1:\n" +
		"    print(\"lundi\")\n" +
		"elif j == 2:\n" +
		"    print(\"mardi\")\n" +
		"else:\n" +
		"    print(\"autre\")\n"
	assert.Equal(t, want, got)
}

func TestEmitArrayDeclarationAndAccess(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Tableau
VARIABLES
    notes[5]: ENTIER
    x: ENTIER
DEBUT
    notes[0] <- 12
    x <- notes[0]
FIN
`)

	want := "notes = [0] * 5\n" +
		"notes[0] = 12\n" +
		"x = notes[0]\n"
	assert.Equal(t, want, got)
}

func TestEmitReadCoercionByDeclaredType(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Saisie
VARIABLES
    n: ENTIER
    r: REEL
    s: TEXTE
DEBUT
    LIRE(n)
    LIRE(r)
    LIRE(s)
FIN
`)

	want := "n = int(input())\n" +
		"r = float(input())\n" +
		"s = input()\n"
	assert.Equal(t, want, got)
}

func TestEmitReadUsesLocalTypeInsideFunction(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Locale
VARIABLES
    v: TEXTE
PROCEDURE saisir()
    v: REEL
    LIRE(v)
FINPROCEDURE
DEBUT
    LIRE(v)
FIN
`)

	want := "def saisir():\n" +
		"    v = 0.0\n" +
		"    v = float(input())\n" +
		"\n" +
		"v = input()\n"
	assert.Equal(t, want, got)
}

func TestEmitPrintMultipleValues(t *testing.T) {
	got := emitSource(t, `
ALGORITHME Multi
VARIABLES
    n: ENTIER
DEBUT
    ECRIRE("valeur:", n, n + 1)
FIN
`)

	assert.Equal(t, "print(\"valeur:\", n, (n + 1))\n", got)
}

func TestEmitStringEscapesEmbeddedQuotes(t *testing.T) {
	prog := parseValid(t, `
ALGORITHME Citation
DEBUT
    ECRIRE("bonjour")
FIN
`)
	// Force an embedded quote through the AST; the lexer has no escapes, so
	// the value can only arrive this way.
	printStmt := prog.Body.Statements[0].(*ast.Print)
	lit := printStmt.Values[0].(*ast.StringLiteral)
	lit.Value = `dit "salut"`

	got := New().Emit(prog)
	assert.Equal(t, "print(\"dit \\\"salut\\\"\")\n", got)
}

func TestEmitDeterministic(t *testing.T) {
	prog := parseValid(t, `
ALGORITHME Stable
VARIABLES
    notes[3]: ENTIER
    total: ENTIER
FONCTION somme(a: ENTIER, b: ENTIER) RETOURNE ENTIER
    RETOURNE a + b
FINFONCTION
DEBUT
    notes[0] <- 1
    total <- somme(notes[0], 2)
    ECRIRE(total)
FIN
`)

	first := New().Emit(prog)
	second := New().Emit(prog)
	assert.Equal(t, first, second)

	// The same emitter instance is also reusable.
	em := New()
	assert.Equal(t, em.Emit(prog), em.Emit(prog))
}
