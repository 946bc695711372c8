package analyzer

import (
	"fmt"
	"strings"

	"github.com/tbouvier/pseudoc/internal/compiler/ast"
	"github.com/tbouvier/pseudoc/internal/compiler/scope"
	"github.com/tbouvier/pseudoc/internal/compiler/symbols"
	"github.com/tbouvier/pseudoc/internal/compiler/token"
)

// SemanticError carries every violation found in one analysis pass, in
// traversal order. Unlike lexical and syntax errors, semantic errors are
// batched: the whole tree is walked before the pass fails.
type SemanticError struct {
	Messages []string
}

func (e *SemanticError) Error() string {
	var out strings.Builder
	fmt.Fprintf(&out, "semantic analysis failed with %d error(s):\n", len(e.Messages))
	for i, msg := range e.Messages {
		fmt.Fprintf(&out, "  %d. %s\n", i+1, msg)
	}
	return out.String()
}

// Analyzer walks the AST once, checking existence, scope, and type rules.
// The error slice is owned by one Analyze invocation; instances are not
// shared between compilations.
type Analyzer struct {
	global  *scope.Scope
	current *scope.Scope
	errors  []string
}

func New() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) addError(tok token.Token, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.errors = append(a.errors, fmt.Sprintf("%d:%d: %s", tok.Line, tok.Column, msg))
}

// Analyze checks the whole program and returns nil or a *SemanticError with
// the complete ordered message list. The pass order is: register global
// declarations and function signatures, analyze each function body in its
// own local scope, then analyze the main body against global scope only.
func (a *Analyzer) Analyze(prog *ast.Program) error {
	a.global = scope.NewScope(nil, "global")
	a.current = a.global
	a.errors = nil

	for _, decl := range prog.Declarations {
		a.registerDeclaration(decl)
	}
	for _, fn := range prog.Functions {
		a.registerFunction(fn)
	}

	for _, fn := range prog.Functions {
		a.analyzeFunction(fn)
	}

	a.analyzeBlock(prog.Body)

	if len(a.errors) > 0 {
		return &SemanticError{Messages: a.errors}
	}
	return nil
}

// --- Declarations ---

func (a *Analyzer) registerDeclaration(decl ast.Statement) {
	switch d := decl.(type) {
	case *ast.VarDecl:
		a.define(d.Token, symbols.SymbolInfo{
			Name: d.Name,
			Type: d.Type,
			Line: d.Token.Line,
			Col:  d.Token.Column,
		})

	case *ast.ArrayDecl:
		if d.Size <= 0 {
			a.addError(d.Token, "array '%s' size must be positive, got %d", d.Name, d.Size)
			return
		}
		a.define(d.Token, symbols.SymbolInfo{
			Name:    d.Name,
			Type:    d.Type,
			Line:    d.Token.Line,
			Col:     d.Token.Column,
			IsArray: true,
		})

	default:
		a.addError(token.Token{}, "unexpected declaration node %T", decl)
	}
}

func (a *Analyzer) registerFunction(fn *ast.FunctionDef) {
	paramTypes := make([]symbols.Type, 0, len(fn.Params))
	for _, p := range fn.Params {
		paramTypes = append(paramTypes, p.Type)
	}

	a.define(fn.Token, symbols.SymbolInfo{
		Name:       fn.Name,
		Type:       symbols.TypeUnknown,
		Line:       fn.Token.Line,
		Col:        fn.Token.Column,
		IsFunction: true,
		ParamTypes: paramTypes,
		ReturnType: fn.ReturnType,
	})
}

// define records a duplicate-symbol error instead of aborting, so the rest
// of the program is still analyzed.
func (a *Analyzer) define(tok token.Token, info symbols.SymbolInfo) {
	if err := a.current.Define(info.Name, info); err != nil {
		a.addError(tok, "%v", err)
	}
}

// --- Functions ---

// analyzeFunction pushes one local scope seeded with parameters then
// locals, analyzes the body against {local, then global}, and pops the
// scope. Function analyses never nest.
func (a *Analyzer) analyzeFunction(fn *ast.FunctionDef) {
	local := scope.NewScope(a.global, fn.Name)

	for _, p := range fn.Params {
		if _, exists := local.LookupCurrentScope(p.Name); exists {
			a.addError(p.Token, "duplicate parameter '%s' in function '%s'", p.Name, fn.Name)
			continue
		}
		local.Define(p.Name, symbols.SymbolInfo{
			Name: p.Name,
			Type: p.Type,
			Line: p.Token.Line,
			Col:  p.Token.Column,
		})
	}

	for _, l := range fn.Locals {
		if _, exists := local.LookupCurrentScope(l.Name); exists {
			a.addError(l.Token, "local variable '%s' in function '%s' collides with a parameter or local of the same name", l.Name, fn.Name)
			continue
		}
		local.Define(l.Name, symbols.SymbolInfo{
			Name: l.Name,
			Type: l.Type,
			Line: l.Token.Line,
			Col:  l.Token.Column,
		})
	}

	a.current = local
	a.analyzeBlock(fn.Body)
	a.current = a.global
}

// --- Statements ---

func (a *Analyzer) analyzeBlock(block *ast.Block) {
	for _, stmt := range block.Statements {
		a.analyzeStatement(stmt)
	}
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Assign:
		a.analyzeAssign(s)
	case *ast.If:
		a.typeOf(s.Condition)
		a.analyzeBlock(s.Then)
		if s.Else != nil {
			a.analyzeBlock(s.Else)
		}
	case *ast.While:
		a.typeOf(s.Condition)
		a.analyzeBlock(s.Body)
	case *ast.For:
		a.analyzeFor(s)
	case *ast.Switch:
		a.typeOf(s.Subject)
		for _, c := range s.Cases {
			a.analyzeBlock(c.Body)
		}
		if s.Default != nil {
			a.analyzeBlock(s.Default)
		}
	case *ast.Print:
		for _, v := range s.Values {
			a.typeOf(v)
		}
	case *ast.Read:
		if _, ok := a.current.Lookup(s.Name); !ok {
			a.addError(s.Token, "variable '%s' not declared; declare it before using LIRE", s.Name)
		}
	case *ast.Return:
		a.typeOf(s.Value)
	case *ast.ExpressionStatement:
		a.typeOf(s.Expression)
	default:
		a.addError(token.Token{}, "unexpected statement node %T", stmt)
	}
}

// analyzeAssign enforces the exact-match assignment rule: the right-hand
// type must equal the target's declared type, with no implicit narrowing or
// widening even though arithmetic promotion exists for operators.
func (a *Analyzer) analyzeAssign(s *ast.Assign) {
	if s.Index != nil {
		a.typeOf(s.Index)
	}

	valueType := a.typeOf(s.Value)

	info, ok := a.current.Lookup(s.Name)
	if !ok {
		a.addError(s.Token, "variable '%s' not declared; declare it in the VARIABLES section before assigning to it", s.Name)
		return
	}

	if s.Index != nil && !info.IsArray {
		a.addError(s.Token, "'%s' is not an array", s.Name)
		return
	}

	if valueType != symbols.TypeUnknown && valueType != info.Type {
		a.addError(s.Token, "type mismatch: cannot assign %s to variable '%s' of type %s", valueType, s.Name, info.Type)
	}
}

// analyzeFor checks that both bounds are numeric; the loop variable itself
// is not required to be declared.
func (a *Analyzer) analyzeFor(s *ast.For) {
	fromType := a.typeOf(s.From)
	toType := a.typeOf(s.To)

	if fromType != symbols.TypeUnknown && !fromType.IsNumeric() {
		a.addError(s.From.GetToken(), "POUR loop start expression must be numeric, got %s", fromType)
	}
	if toType != symbols.TypeUnknown && !toType.IsNumeric() {
		a.addError(s.To.GetToken(), "POUR loop end expression must be numeric, got %s", toType)
	}

	a.analyzeBlock(s.Body)
}

// --- Expressions ---

// typeOf determines the type of an expression, recording any violations
// found inside it. An unresolved identifier yields TypeUnknown, which
// suppresses cascading errors further up the expression.
func (a *Analyzer) typeOf(expr ast.Expression) symbols.Type {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return symbols.TypeInteger
	case *ast.RealLiteral:
		return symbols.TypeReal
	case *ast.StringLiteral:
		return symbols.TypeText
	case *ast.BoolLiteral:
		return symbols.TypeBoolean

	case *ast.Identifier:
		info, ok := a.current.Lookup(e.Value)
		if !ok {
			a.addError(e.Token, "variable '%s' not declared; declare it in the VARIABLES section or as a parameter/local", e.Value)
			return symbols.TypeUnknown
		}
		if info.IsFunction {
			a.addError(e.Token, "'%s' is a function; call it with parentheses", e.Value)
			return symbols.TypeUnknown
		}
		return info.Type

	case *ast.ArrayAccess:
		a.typeOf(e.Index)
		info, ok := a.current.Lookup(e.Name)
		if !ok {
			a.addError(e.Token, "array '%s' not declared", e.Name)
			return symbols.TypeUnknown
		}
		if !info.IsArray {
			a.addError(e.Token, "'%s' is not an array", e.Name)
			return symbols.TypeUnknown
		}
		return info.Type

	case *ast.Call:
		return a.typeOfCall(e)

	case *ast.BinaryExpr:
		return a.typeOfBinary(e)

	case *ast.UnaryExpr:
		a.typeOf(e.Operand)
		return symbols.TypeBoolean
	}

	return symbols.TypeUnknown
}

// typeOfCall checks that the callee is a declared function with a matching
// argument count. Argument types are deliberately not checked against
// parameter types.
func (a *Analyzer) typeOfCall(call *ast.Call) symbols.Type {
	for _, arg := range call.Args {
		a.typeOf(arg)
	}

	info, ok := a.global.Lookup(call.Name)
	if !ok {
		a.addError(call.Token, "function '%s' not declared", call.Name)
		return symbols.TypeUnknown
	}
	if !info.IsFunction {
		a.addError(call.Token, "'%s' is not a function", call.Name)
		return symbols.TypeUnknown
	}
	if len(call.Args) != len(info.ParamTypes) {
		a.addError(call.Token, "function '%s' expects %d argument(s), got %d",
			call.Name, len(info.ParamTypes), len(call.Args))
	}

	return info.ReturnType
}

// typeOfBinary applies the operator rules: arithmetic needs numeric
// operands and promotes to REEL when either side is REEL; ordering needs
// numeric operands and yields BOOLEEN; equality needs equal determined
// types; ET/OU are permissive and yield BOOLEEN.
func (a *Analyzer) typeOfBinary(e *ast.BinaryExpr) symbols.Type {
	leftType := a.typeOf(e.Left)
	rightType := a.typeOf(e.Right)

	switch {
	case e.Op.IsArithmetic():
		if leftType != symbols.TypeUnknown && !leftType.IsNumeric() {
			a.addError(e.Token, "operator '%s' requires numeric operands (ENTIER or REEL); left operand is %s", e.Op, leftType)
		}
		if rightType != symbols.TypeUnknown && !rightType.IsNumeric() {
			a.addError(e.Token, "operator '%s' requires numeric operands (ENTIER or REEL); right operand is %s", e.Op, rightType)
		}
		if leftType == symbols.TypeReal || rightType == symbols.TypeReal {
			return symbols.TypeReal
		}
		return symbols.TypeInteger

	case e.Op.IsOrdering():
		if leftType != symbols.TypeUnknown && !leftType.IsNumeric() {
			a.addError(e.Token, "comparison '%s' requires numeric operands (ENTIER or REEL); left operand is %s", e.Op, leftType)
		}
		if rightType != symbols.TypeUnknown && !rightType.IsNumeric() {
			a.addError(e.Token, "comparison '%s' requires numeric operands (ENTIER or REEL); right operand is %s", e.Op, rightType)
		}
		return symbols.TypeBoolean

	case e.Op.IsEquality():
		if leftType != symbols.TypeUnknown && rightType != symbols.TypeUnknown && leftType != rightType {
			a.addError(e.Token, "operator '%s' compares different types: %s and %s", e.Op, leftType, rightType)
		}
		return symbols.TypeBoolean

	case e.Op.IsLogical():
		return symbols.TypeBoolean
	}

	return leftType
}
