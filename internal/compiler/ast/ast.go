package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tbouvier/pseudoc/internal/compiler/symbols"
	"github.com/tbouvier/pseudoc/internal/compiler/token"
)

// The node set is closed: the analyzer and the emitter each dispatch with an
// exhaustive type switch, so a new node kind has to be handled everywhere.
// Nodes are not mutated after the parser builds them and every child has
// exactly one parent.

// --- Interfaces ---

type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// --- Operators ---

// BinaryOp is decided once by the parser from the operator token; later
// stages switch on it and never re-parse operator text. The value is the
// source spelling, which keeps diagnostics readable.
type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpMod BinaryOp = "%"

	OpGT  BinaryOp = ">"
	OpLT  BinaryOp = "<"
	OpGTE BinaryOp = ">="
	OpLTE BinaryOp = "<="

	OpEq    BinaryOp = "=="
	OpNotEq BinaryOp = "!="

	OpAnd BinaryOp = "ET"
	OpOr  BinaryOp = "OU"
)

type UnaryOp string

const OpNot UnaryOp = "NON"

// IsArithmetic reports + - * / %.
func (op BinaryOp) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return true
	}
	return false
}

// IsOrdering reports > < >= <=.
func (op BinaryOp) IsOrdering() bool {
	switch op {
	case OpGT, OpLT, OpGTE, OpLTE:
		return true
	}
	return false
}

// IsEquality reports == !=.
func (op BinaryOp) IsEquality() bool {
	return op == OpEq || op == OpNotEq
}

// IsLogical reports ET OU.
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// --- Program ---

// Program is the root: ALGORITHME name, the VARIABLES section, the function
// definitions, and the DEBUT..FIN main body.
type Program struct {
	Name         string
	Declarations []Statement // *VarDecl and *ArrayDecl, in source order
	Functions    []*FunctionDef
	Body         *Block
}

func (p *Program) TokenLiteral() string { return "ALGORITHME" }
func (p *Program) String() string {
	var out bytes.Buffer
	out.WriteString("ALGORITHME " + p.Name + "\n")
	if len(p.Declarations) > 0 {
		out.WriteString("VARIABLES\n")
		for _, d := range p.Declarations {
			out.WriteString("  " + d.String() + "\n")
		}
	}
	for _, f := range p.Functions {
		out.WriteString(f.String() + "\n")
	}
	out.WriteString("DEBUT\n")
	out.WriteString(p.Body.String())
	out.WriteString("FIN\n")
	return out.String()
}

// Block is an ordered statement list; it carries no scope of its own.
type Block struct {
	Statements []Statement
}

func (b *Block) statementNode() {}
func (b *Block) TokenLiteral() string {
	if len(b.Statements) > 0 {
		return b.Statements[0].TokenLiteral()
	}
	return ""
}

func (b *Block) String() string {
	var out bytes.Buffer
	for _, s := range b.Statements {
		out.WriteString("  " + s.String() + "\n")
	}
	return out.String()
}

// --- Declarations ---

// VarDecl -> name: ENTIER
type VarDecl struct {
	Token token.Token // the identifier
	Name  string
	Type  symbols.Type
}

func (vd *VarDecl) statementNode()       {}
func (vd *VarDecl) TokenLiteral() string { return vd.Token.Literal }
func (vd *VarDecl) String() string       { return vd.Name + ": " + string(vd.Type) }

// ArrayDecl -> name[10]: ENTIER
type ArrayDecl struct {
	Token token.Token // the identifier
	Name  string
	Size  int
	Type  symbols.Type
}

func (ad *ArrayDecl) statementNode()       {}
func (ad *ArrayDecl) TokenLiteral() string { return ad.Token.Literal }
func (ad *ArrayDecl) String() string {
	return fmt.Sprintf("%s[%d]: %s", ad.Name, ad.Size, ad.Type)
}

// Param -> name: ENTIER, inside a function header.
type Param struct {
	Token token.Token
	Name  string
	Type  symbols.Type
}

func (p *Param) String() string { return p.Name + ": " + string(p.Type) }

// FunctionDef covers FONCTION and PROCEDURE definitions. ReturnType is
// TypeUnknown for procedures. Locals are the declarations opening the body.
type FunctionDef struct {
	Token       token.Token // FONCTION or PROCEDURE
	Name        string
	Params      []*Param
	IsProcedure bool
	ReturnType  symbols.Type
	Locals      []*VarDecl
	Body        *Block
}

func (fd *FunctionDef) statementNode()       {}
func (fd *FunctionDef) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDef) String() string {
	var out bytes.Buffer
	out.WriteString(fd.Token.Literal + " " + fd.Name + "(")
	params := make([]string, 0, len(fd.Params))
	for _, p := range fd.Params {
		params = append(params, p.String())
	}
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(")")
	if !fd.IsProcedure {
		out.WriteString(" RETOURNE " + string(fd.ReturnType))
	}
	out.WriteString("\n")
	for _, l := range fd.Locals {
		out.WriteString("  " + l.String() + "\n")
	}
	out.WriteString(fd.Body.String())
	if fd.IsProcedure {
		out.WriteString("FINPROCEDURE")
	} else {
		out.WriteString("FINFONCTION")
	}
	return out.String()
}

// --- Statements ---

// Assign -> x <- expr, or x[i] <- expr when Index is non-nil.
type Assign struct {
	Token token.Token // the target identifier
	Name  string
	Index Expression // nil for scalar targets
	Value Expression
}

func (a *Assign) statementNode()       {}
func (a *Assign) TokenLiteral() string { return a.Token.Literal }
func (a *Assign) String() string {
	var out bytes.Buffer
	out.WriteString(a.Name)
	if a.Index != nil {
		out.WriteString("[" + a.Index.String() + "]")
	}
	out.WriteString(" <- ")
	out.WriteString(a.Value.String())
	return out.String()
}

// If -> SI cond ALORS ... (SINON ...)? FINSI. Else is nil when absent.
type If struct {
	Token     token.Token
	Condition Expression
	Then      *Block
	Else      *Block
}

func (i *If) statementNode()       {}
func (i *If) TokenLiteral() string { return i.Token.Literal }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("SI " + i.Condition.String() + " ALORS\n")
	out.WriteString(i.Then.String())
	if i.Else != nil {
		out.WriteString("SINON\n")
		out.WriteString(i.Else.String())
	}
	out.WriteString("FINSI")
	return out.String()
}

// While -> TANTQUE cond FAIRE ... FINTANTQUE
type While struct {
	Token     token.Token
	Condition Expression
	Body      *Block
}

func (w *While) statementNode()       {}
func (w *While) TokenLiteral() string { return w.Token.Literal }
func (w *While) String() string {
	return "TANTQUE " + w.Condition.String() + " FAIRE\n" + w.Body.String() + "FINTANTQUE"
}

// For -> POUR i DE a A b FAIRE ... FINPOUR. Step is +1 and both bounds are
// inclusive; a descending range runs zero times.
type For struct {
	Token token.Token
	Var   string
	From  Expression
	To    Expression
	Body  *Block
}

func (f *For) statementNode()       {}
func (f *For) TokenLiteral() string { return f.Token.Literal }
func (f *For) String() string {
	return "POUR " + f.Var + " DE " + f.From.String() + " A " + f.To.String() +
		" FAIRE\n" + f.Body.String() + "FINPOUR"
}

// Case is one integer-labelled branch of a CAS statement.
type Case struct {
	Token token.Token // the label number
	Value int
	Body  *Block
}

func (c *Case) String() string {
	return fmt.Sprintf("%d:\n%s", c.Value, c.Body.String())
}

// Switch -> CAS expr FAIRE (n: ...)* (DEFAUT: ...)? FINCAS. Default is nil
// when absent.
type Switch struct {
	Token   token.Token
	Subject Expression
	Cases   []*Case
	Default *Block
}

func (s *Switch) statementNode()       {}
func (s *Switch) TokenLiteral() string { return s.Token.Literal }
func (s *Switch) String() string {
	var out bytes.Buffer
	out.WriteString("CAS " + s.Subject.String() + " FAIRE\n")
	for _, c := range s.Cases {
		out.WriteString(c.String())
	}
	if s.Default != nil {
		out.WriteString("DEFAUT:\n")
		out.WriteString(s.Default.String())
	}
	out.WriteString("FINCAS")
	return out.String()
}

// Print -> ECRIRE(e1, e2, ...), at least one expression.
type Print struct {
	Token  token.Token
	Values []Expression
}

func (p *Print) statementNode()       {}
func (p *Print) TokenLiteral() string { return p.Token.Literal }
func (p *Print) String() string {
	vals := make([]string, 0, len(p.Values))
	for _, v := range p.Values {
		vals = append(vals, v.String())
	}
	return "ECRIRE(" + strings.Join(vals, ", ") + ")"
}

// Read -> LIRE(name)
type Read struct {
	Token token.Token
	Name  string
}

func (r *Read) statementNode()       {}
func (r *Read) TokenLiteral() string { return r.Token.Literal }
func (r *Read) String() string       { return "LIRE(" + r.Name + ")" }

// Return -> RETOURNE expr
type Return struct {
	Token token.Token
	Value Expression
}

func (r *Return) statementNode()       {}
func (r *Return) TokenLiteral() string { return r.Token.Literal }
func (r *Return) String() string       { return "RETOURNE " + r.Value.String() }

// ExpressionStatement wraps a call used where a statement is expected; the
// result, if any, is discarded.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// --- Expressions ---

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Literal }
func (i *Identifier) String() string        { return i.Value }
func (i *Identifier) GetToken() token.Token { return i.Token }

type IntLiteral struct {
	Token token.Token
	Value int
}

func (il *IntLiteral) expressionNode()       {}
func (il *IntLiteral) TokenLiteral() string  { return il.Token.Literal }
func (il *IntLiteral) String() string        { return il.Token.Literal }
func (il *IntLiteral) GetToken() token.Token { return il.Token }

type RealLiteral struct {
	Token token.Token
	Value float64
}

func (rl *RealLiteral) expressionNode()       {}
func (rl *RealLiteral) TokenLiteral() string  { return rl.Token.Literal }
func (rl *RealLiteral) String() string        { return rl.Token.Literal }
func (rl *RealLiteral) GetToken() token.Token { return rl.Token }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Literal }
func (sl *StringLiteral) String() string        { return fmt.Sprintf("%q", sl.Value) }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BoolLiteral) expressionNode()       {}
func (bl *BoolLiteral) TokenLiteral() string  { return bl.Token.Literal }
func (bl *BoolLiteral) String() string        { return bl.Token.Literal }
func (bl *BoolLiteral) GetToken() token.Token { return bl.Token }

// BinaryExpr -> left op right
type BinaryExpr struct {
	Token token.Token // the operator token
	Left  Expression
	Op    BinaryOp
	Right Expression
}

func (be *BinaryExpr) expressionNode()      {}
func (be *BinaryExpr) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpr) String() string {
	return "(" + be.Left.String() + " " + string(be.Op) + " " + be.Right.String() + ")"
}
func (be *BinaryExpr) GetToken() token.Token { return be.Token }

// UnaryExpr -> NON operand
type UnaryExpr struct {
	Token   token.Token
	Op      UnaryOp
	Operand Expression
}

func (ue *UnaryExpr) expressionNode()      {}
func (ue *UnaryExpr) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpr) String() string {
	return "(" + string(ue.Op) + " " + ue.Operand.String() + ")"
}
func (ue *UnaryExpr) GetToken() token.Token { return ue.Token }

// Call -> name(arg1, arg2), as an expression or wrapped in an
// ExpressionStatement.
type Call struct {
	Token token.Token // the callee identifier
	Name  string
	Args  []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Token.Literal }
func (c *Call) String() string {
	args := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, a.String())
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}
func (c *Call) GetToken() token.Token { return c.Token }

// ArrayAccess -> name[index]
type ArrayAccess struct {
	Token token.Token // the array identifier
	Name  string
	Index Expression
}

func (aa *ArrayAccess) expressionNode()       {}
func (aa *ArrayAccess) TokenLiteral() string  { return aa.Token.Literal }
func (aa *ArrayAccess) String() string        { return aa.Name + "[" + aa.Index.String() + "]" }
func (aa *ArrayAccess) GetToken() token.Token { return aa.Token }
