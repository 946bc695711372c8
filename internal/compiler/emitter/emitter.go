package emitter

import (
	"fmt"
	"strings"

	"github.com/tbouvier/pseudoc/internal/compiler/ast"
	"github.com/tbouvier/pseudoc/internal/compiler/symbols"
)

const indentUnit = "    " // 4 spaces per level

// Emitter renders a validated AST as a flat, directly executable Python
// script: no main() wrapper, no classes, no try/except, one statement per
// line. It performs no validation of its own and must only run on a tree
// that passed semantic analysis.
type Emitter struct {
	builder strings.Builder
	indent  int

	// Declared types drive the input() coercion for LIRE. localTypes is
	// populated while emitting a function body and checked before
	// globalTypes, so a local declaration shadows a global of the same name.
	globalTypes map[string]symbols.Type
	localTypes  map[string]symbols.Type
}

func New() *Emitter {
	return &Emitter{}
}

// Emit generates the Python text in one deterministic top-down traversal:
// array initializers in declaration order, then each function definition in
// declaration order, then the main body. Emitting the same tree twice
// produces byte-identical output.
func (e *Emitter) Emit(prog *ast.Program) string {
	e.builder.Reset()
	e.indent = 0
	e.globalTypes = make(map[string]symbols.Type)
	e.localTypes = nil

	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.VarDecl:
			e.globalTypes[d.Name] = d.Type
		case *ast.ArrayDecl:
			e.globalTypes[d.Name] = d.Type
			e.emitLine(fmt.Sprintf("%s = [0] * %d", d.Name, d.Size))
		}
	}

	for _, fn := range prog.Functions {
		e.emitFunction(fn)
	}

	e.emitBlockStatements(prog.Body)

	return e.builder.String()
}

// --- Line helpers ---

func (e *Emitter) emitLine(line string) {
	e.builder.WriteString(strings.Repeat(indentUnit, e.indent))
	e.builder.WriteString(line)
	e.builder.WriteString("\n")
}

// emitBlock emits a nested block at one deeper indentation level, with
// Python's 'pass' as the filler for a structurally empty block.
func (e *Emitter) emitBlock(block *ast.Block) {
	e.indent++
	if block == nil || len(block.Statements) == 0 {
		e.emitLine("pass")
	} else {
		e.emitBlockStatements(block)
	}
	e.indent--
}

func (e *Emitter) emitBlockStatements(block *ast.Block) {
	for _, stmt := range block.Statements {
		e.emitStatement(stmt)
	}
}

// --- Functions ---

func (e *Emitter) emitFunction(fn *ast.FunctionDef) {
	params := make([]string, 0, len(fn.Params))
	e.localTypes = make(map[string]symbols.Type)
	for _, p := range fn.Params {
		params = append(params, p.Name)
		e.localTypes[p.Name] = p.Type
	}

	e.emitLine("def " + fn.Name + "(" + strings.Join(params, ", ") + "):")

	e.indent++
	for _, l := range fn.Locals {
		e.localTypes[l.Name] = l.Type
		e.emitLine(l.Name + " = " + zeroValue(l.Type))
	}
	if len(fn.Body.Statements) == 0 && len(fn.Locals) == 0 {
		e.emitLine("pass")
	} else {
		e.emitBlockStatements(fn.Body)
	}
	e.indent--

	e.builder.WriteString("\n")
	e.localTypes = nil
}

// zeroValue is the Python initializer for a declared local before the body
// runs.
func zeroValue(t symbols.Type) string {
	switch t {
	case symbols.TypeInteger:
		return "0"
	case symbols.TypeReal:
		return "0.0"
	case symbols.TypeText:
		return `""`
	case symbols.TypeBoolean:
		return "False"
	}
	return "None"
}

// --- Statements ---

func (e *Emitter) emitStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Assign:
		if s.Index != nil {
			e.emitLine(s.Name + "[" + e.expr(s.Index) + "] = " + e.expr(s.Value))
		} else {
			e.emitLine(s.Name + " = " + e.expr(s.Value))
		}

	case *ast.ExpressionStatement:
		e.emitLine(e.expr(s.Expression))

	case *ast.Print:
		args := make([]string, 0, len(s.Values))
		for _, v := range s.Values {
			args = append(args, e.expr(v))
		}
		e.emitLine("print(" + strings.Join(args, ", ") + ")")

	case *ast.Read:
		e.emitLine(s.Name + " = " + e.readExpr(s.Name))

	case *ast.Return:
		e.emitLine("return " + e.expr(s.Value))

	case *ast.If:
		e.emitLine("if " + e.expr(s.Condition) + ":")
		e.emitBlock(s.Then)
		if s.Else != nil {
			e.emitLine("else:")
			e.emitBlock(s.Else)
		}

	case *ast.While:
		e.emitLine("while " + e.expr(s.Condition) + ":")
		e.emitBlock(s.Body)

	case *ast.For:
		// Inclusive bounds, step +1; range() runs zero times when from > to.
		e.emitLine("for " + s.Var + " in range(" + e.expr(s.From) + ", " + e.expr(s.To) + " + 1):")
		e.emitBlock(s.Body)

	case *ast.Switch:
		e.emitSwitch(s)
	}
}

// emitSwitch lowers CAS to an equality-guarded if/elif chain in case order,
// with DEFAUT as the final else.
func (e *Emitter) emitSwitch(s *ast.Switch) {
	subject := e.expr(s.Subject)

	for i, c := range s.Cases {
		keyword := "if"
		if i > 0 {
			keyword = "elif"
		}
		e.emitLine(fmt.Sprintf("%s %s == %d:", keyword, subject, c.Value))
		e.emitBlock(c.Body)
	}

	if s.Default != nil {
		if len(s.Cases) == 0 {
			// A switch with only a default branch runs it unconditionally.
			e.emitBlockStatements(s.Default)
			return
		}
		e.emitLine("else:")
		e.emitBlock(s.Default)
	}
}

// readExpr picks the input coercion from the declared type of the target
// variable: ENTIER parses an int, REEL a float, anything else keeps the raw
// input string.
func (e *Emitter) readExpr(name string) string {
	t, ok := e.localTypes[name]
	if !ok {
		t = e.globalTypes[name]
	}
	switch t {
	case symbols.TypeInteger:
		return "int(input())"
	case symbols.TypeReal:
		return "float(input())"
	}
	return "input()"
}

// --- Expressions ---

// expr renders an expression. Binary and unary nodes are always fully
// parenthesized so the emitted evaluation order is unambiguous regardless of
// Python's own precedence.
func (e *Emitter) expr(node ast.Expression) string {
	switch n := node.(type) {
	case *ast.IntLiteral:
		return n.Token.Literal

	case *ast.RealLiteral:
		return n.Token.Literal

	case *ast.StringLiteral:
		return `"` + strings.ReplaceAll(n.Value, `"`, `\"`) + `"`

	case *ast.BoolLiteral:
		if n.Value {
			return "True"
		}
		return "False"

	case *ast.Identifier:
		return n.Value

	case *ast.ArrayAccess:
		return n.Name + "[" + e.expr(n.Index) + "]"

	case *ast.Call:
		args := make([]string, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, e.expr(a))
		}
		return n.Name + "(" + strings.Join(args, ", ") + ")"

	case *ast.BinaryExpr:
		return "(" + e.expr(n.Left) + " " + pythonBinaryOp(n.Op) + " " + e.expr(n.Right) + ")"

	case *ast.UnaryExpr:
		return "(" + pythonUnaryOp(n.Op) + " " + e.expr(n.Operand) + ")"
	}

	return ""
}

// pythonBinaryOp translates the logical keyword operators; arithmetic and
// comparison operators keep their source spelling, which is already valid
// Python.
func pythonBinaryOp(op ast.BinaryOp) string {
	switch op {
	case ast.OpAnd:
		return "and"
	case ast.OpOr:
		return "or"
	}
	return string(op)
}

func pythonUnaryOp(op ast.UnaryOp) string {
	if op == ast.OpNot {
		return "not"
	}
	return string(op)
}
