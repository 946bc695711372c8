package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tbouvier/pseudoc/internal/compiler/ast"
	"github.com/tbouvier/pseudoc/internal/compiler/symbols"
	"github.com/tbouvier/pseudoc/internal/compiler/token"
)

// SyntaxError is fatal: the first expectation that fails aborts parsing with
// no resynchronization and no partial tree.
type SyntaxError struct {
	Msg    string
	Found  token.Token
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: syntax error: %s (found %s %q)",
		e.Line, e.Column, e.Msg, e.Found.Type, e.Found.Literal)
}

// Parser is a recursive-descent parser with one token of lookahead over the
// lexer's output. NEWLINE tokens are grammatically inert: they are skipped
// whenever the parser moves between meaningful tokens.
type Parser struct {
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// --- Token handling ---

func (p *Parser) curTok() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

// advance returns the current token and moves past it and any newlines.
func (p *Parser) advance() token.Token {
	tok := p.curTok()
	p.pos++
	p.skipNewlines()
	return tok
}

func (p *Parser) skipNewlines() {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Type == token.TokenNewline {
		p.pos++
	}
}

func (p *Parser) check(tt token.TokenType) bool {
	return p.curTok().Type == tt
}

// expect consumes the current token when it matches, and otherwise raises a
// syntax error naming the expectation and the offending token.
func (p *Parser) expect(tt token.TokenType, msg string) (token.Token, error) {
	p.skipNewlines()
	if p.check(tt) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorf(msg)
}

func (p *Parser) errorf(format string, args ...any) error {
	t := p.curTok()
	return &SyntaxError{
		Msg:    fmt.Sprintf(format, args...),
		Found:  t,
		Line:   t.Line,
		Column: t.Column,
	}
}

// --- Program ---

// ParseProgram parses:
//
//	programme -> ALGORITHME name VARIABLES? declaration* fonction* DEBUT instruction* FIN
func (p *Parser) ParseProgram() (*ast.Program, error) {
	p.skipNewlines()

	if _, err := p.expect(token.TokenAlgorithm, "expected 'ALGORITHME' at start of program"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.TokenIdent, "expected algorithm name after 'ALGORITHME'")
	if err != nil {
		return nil, err
	}

	var declarations []ast.Statement
	if p.check(token.TokenVariables) {
		p.advance()
		declarations, err = p.parseDeclarations()
		if err != nil {
			return nil, err
		}
	}

	var functions []*ast.FunctionDef
	for p.check(token.TokenFunction) || p.check(token.TokenProcedure) {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		functions = append(functions, fn)
	}

	if _, err := p.expect(token.TokenBegin, "expected 'DEBUT'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenEnd, "expected 'FIN' at end of program"); err != nil {
		return nil, err
	}

	return &ast.Program{
		Name:         nameTok.Literal,
		Declarations: declarations,
		Functions:    functions,
		Body:         body,
	}, nil
}

// parseDeclarations parses the VARIABLES section: zero or more variable or
// array declarations, each starting with an identifier.
func (p *Parser) parseDeclarations() ([]ast.Statement, error) {
	var decls []ast.Statement
	for p.check(token.TokenIdent) {
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// parseDeclaration parses one of:
//
//	declaration       -> name ':' type
//	array_declaration -> name '[' int ']' ':' type
func (p *Parser) parseDeclaration() (ast.Statement, error) {
	nameTok, err := p.expect(token.TokenIdent, "expected variable name")
	if err != nil {
		return nil, err
	}

	if p.check(token.TokenLBracket) {
		p.advance()
		sizeTok, err := p.expect(token.TokenInt, "expected integer array size")
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(sizeTok.Literal)
		if err != nil {
			return nil, p.errorf("invalid array size %q", sizeTok.Literal)
		}
		if _, err := p.expect(token.TokenRBracket, "expected ']' after array size"); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TokenColon, "expected ':' after array size"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.ArrayDecl{Token: nameTok, Name: nameTok.Literal, Size: size, Type: typ}, nil
	}

	return p.parseScalarDecl(nameTok)
}

// parseScalarDecl parses the ':' type tail of a scalar declaration whose
// name has already been consumed.
func (p *Parser) parseScalarDecl(nameTok token.Token) (*ast.VarDecl, error) {
	if _, err := p.expect(token.TokenColon, "expected ':' after variable name"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.VarDecl{Token: nameTok, Name: nameTok.Literal, Type: typ}, nil
}

func (p *Parser) parseType() (symbols.Type, error) {
	p.skipNewlines()
	tok := p.curTok()
	if !tok.IsTypeKeyword() {
		return symbols.TypeUnknown, p.errorf("expected type (ENTIER, REEL, TEXTE or BOOLEEN)")
	}
	p.advance()
	return symbols.Type(tok.Literal), nil
}

// --- Functions ---

// parseFunction parses:
//
//	fonction -> (FONCTION | PROCEDURE) name '(' parametres? ')' (RETOURNE type)?
//	            local_declaration* instruction* (FINFONCTION | FINPROCEDURE)
func (p *Parser) parseFunction() (*ast.FunctionDef, error) {
	kwTok := p.advance() // FONCTION or PROCEDURE
	isProcedure := kwTok.Type == token.TokenProcedure

	nameTok, err := p.expect(token.TokenIdent, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenLParen, "expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []*ast.Param
	if !p.check(token.TokenRParen) {
		params, err = p.parseParams()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.TokenRParen, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	returnType := symbols.TypeUnknown
	if !isProcedure && p.check(token.TokenReturn) {
		p.advance()
		returnType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	// Local declarations open the body: an identifier directly followed by
	// ':' is a declaration, anything else starts the statements. Locals are
	// scalars; array syntax falls through to statement parsing and fails
	// there.
	var locals []*ast.VarDecl
	for p.check(token.TokenIdent) && p.peekIs(token.TokenColon) {
		nameTok := p.advance()
		decl, err := p.parseScalarDecl(nameTok)
		if err != nil {
			return nil, err
		}
		locals = append(locals, decl)
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	terminator := token.TokenEndFunction
	if isProcedure {
		terminator = token.TokenEndProcedure
	}
	if _, err := p.expect(terminator, fmt.Sprintf("expected '%s'", terminator)); err != nil {
		return nil, err
	}

	return &ast.FunctionDef{
		Token:       kwTok,
		Name:        nameTok.Literal,
		Params:      params,
		IsProcedure: isProcedure,
		ReturnType:  returnType,
		Locals:      locals,
		Body:        body,
	}, nil
}

func (p *Parser) peekIs(tt token.TokenType) bool {
	for i := p.pos + 1; i < len(p.tokens); i++ {
		if p.tokens[i].Type == token.TokenNewline {
			continue
		}
		return p.tokens[i].Type == tt
	}
	return false
}

// parseParams parses: param (',' param)* with param -> name ':' type.
func (p *Parser) parseParams() ([]*ast.Param, error) {
	var params []*ast.Param
	for {
		nameTok, err := p.expect(token.TokenIdent, "expected parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TokenColon, "expected ':' after parameter name"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{Token: nameTok, Name: nameTok.Literal, Type: typ})

		if !p.check(token.TokenComma) {
			return params, nil
		}
		p.advance()
	}
}

// --- Statements ---

// blockTerminators are the tokens that close the innermost open construct.
// An integer token also stops a block so that switch case bodies end at the
// next case label; the enclosing construct's expect() then reports any
// mismatch.
var blockTerminators = map[token.TokenType]bool{
	token.TokenEnd:          true,
	token.TokenElse:         true,
	token.TokenEndIf:        true,
	token.TokenEndWhile:     true,
	token.TokenEndFor:       true,
	token.TokenEndSwitch:    true,
	token.TokenEndFunction:  true,
	token.TokenEndProcedure: true,
	token.TokenDefault:      true,
	token.TokenInt:          true,
	token.TokenEOF:          true,
}

// parseBlock parses statements until a block terminator or end of input.
func (p *Parser) parseBlock() (*ast.Block, error) {
	block := &ast.Block{}
	p.skipNewlines()

	for !blockTerminators[p.curTok().Type] {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		p.skipNewlines()
	}

	return block, nil
}

// parseStatement parses:
//
//	instruction -> affectation | si | tantque | pour | cas | ecrire | lire | retourne | appel
func (p *Parser) parseStatement() (ast.Statement, error) {
	p.skipNewlines()

	switch p.curTok().Type {
	case token.TokenReturn:
		return p.parseReturn()
	case token.TokenIf:
		return p.parseIf()
	case token.TokenWhile:
		return p.parseWhile()
	case token.TokenFor:
		return p.parseFor()
	case token.TokenSwitch:
		return p.parseSwitch()
	case token.TokenWrite:
		return p.parsePrint()
	case token.TokenRead:
		return p.parseRead()
	case token.TokenIdent:
		return p.parseAssignOrCall()
	default:
		return nil, p.errorf("unexpected token at start of statement")
	}
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	retTok := p.advance()
	value, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	return &ast.Return{Token: retTok, Value: value}, nil
}

// parseAssignOrCall disambiguates the three statements opening with an
// identifier: a call, an array element assignment, or a scalar assignment.
func (p *Parser) parseAssignOrCall() (ast.Statement, error) {
	nameTok := p.advance()

	if p.check(token.TokenLParen) {
		call, err := p.parseCallArgs(nameTok)
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Token: nameTok, Expression: call}, nil
	}

	var index ast.Expression
	if p.check(token.TokenLBracket) {
		p.advance()
		idx, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TokenRBracket, "expected ']' after array index"); err != nil {
			return nil, err
		}
		index = idx
	}

	if _, err := p.expect(token.TokenAssign, "expected '<-'"); err != nil {
		return nil, err
	}
	value, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	return &ast.Assign{Token: nameTok, Name: nameTok.Literal, Index: index, Value: value}, nil
}

// parseIf parses: SI condition ALORS bloc (SINON bloc)? FINSI
func (p *Parser) parseIf() (*ast.If, error) {
	ifTok := p.advance()

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenThen, "expected 'ALORS' after condition"); err != nil {
		return nil, err
	}

	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBlock *ast.Block
	if p.check(token.TokenElse) {
		p.advance()
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.TokenEndIf, "expected 'FINSI'"); err != nil {
		return nil, err
	}

	return &ast.If{Token: ifTok, Condition: cond, Then: thenBlock, Else: elseBlock}, nil
}

// parseWhile parses: TANTQUE condition FAIRE bloc FINTANTQUE
func (p *Parser) parseWhile() (*ast.While, error) {
	whileTok := p.advance()

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenDo, "expected 'FAIRE' after condition"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenEndWhile, "expected 'FINTANTQUE'"); err != nil {
		return nil, err
	}

	return &ast.While{Token: whileTok, Condition: cond, Body: body}, nil
}

// parseFor parses: POUR name DE expression A expression FAIRE bloc FINPOUR
func (p *Parser) parseFor() (*ast.For, error) {
	forTok := p.advance()

	varTok, err := p.expect(token.TokenIdent, "expected loop variable name after 'POUR'")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenFrom, "expected 'DE' after loop variable"); err != nil {
		return nil, err
	}
	from, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if err := p.expectLoopTo(); err != nil {
		return nil, err
	}
	to, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenDo, "expected 'FAIRE' after end expression"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenEndFor, "expected 'FINPOUR'"); err != nil {
		return nil, err
	}

	return &ast.For{Token: forTok, Var: varTok.Literal, From: from, To: to, Body: body}, nil
}

// expectLoopTo consumes the bound separator A of a POUR loop. The lexer
// leaves it an identifier (a one-letter keyword would shadow the variable
// 'a'), so it is matched here, case-insensitively like every keyword.
func (p *Parser) expectLoopTo() error {
	p.skipNewlines()
	tok := p.curTok()
	if tok.Type == token.TokenIdent && strings.EqualFold(tok.Literal, "A") {
		p.advance()
		return nil
	}
	return p.errorf("expected 'A' after start expression")
}

// parseSwitch parses: CAS expression FAIRE (int ':' bloc)* (DEFAUT ':' bloc)? FINCAS
func (p *Parser) parseSwitch() (*ast.Switch, error) {
	switchTok := p.advance()

	subject, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenDo, "expected 'FAIRE' after switch expression"); err != nil {
		return nil, err
	}

	sw := &ast.Switch{Token: switchTok, Subject: subject}
	p.skipNewlines()

	for !p.check(token.TokenEndSwitch) && !p.check(token.TokenEOF) {
		if p.check(token.TokenDefault) {
			p.advance()
			if _, err := p.expect(token.TokenColon, "expected ':' after 'DEFAUT'"); err != nil {
				return nil, err
			}
			sw.Default, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
			break
		}

		labelTok, err := p.expect(token.TokenInt, "expected case label or 'DEFAUT'")
		if err != nil {
			return nil, err
		}
		label, convErr := strconv.Atoi(labelTok.Literal)
		if convErr != nil {
			return nil, p.errorf("invalid case label %q", labelTok.Literal)
		}
		if _, err := p.expect(token.TokenColon, "expected ':' after case label"); err != nil {
			return nil, err
		}

		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		sw.Cases = append(sw.Cases, &ast.Case{Token: labelTok, Value: label, Body: body})
		p.skipNewlines()
	}

	if _, err := p.expect(token.TokenEndSwitch, "expected 'FINCAS'"); err != nil {
		return nil, err
	}
	return sw, nil
}

// parsePrint parses: ECRIRE '(' expression (',' expression)* ')'
func (p *Parser) parsePrint() (*ast.Print, error) {
	printTok := p.advance()

	if _, err := p.expect(token.TokenLParen, "expected '(' after 'ECRIRE'"); err != nil {
		return nil, err
	}

	var values []ast.Expression
	first, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	values = append(values, first)

	for p.check(token.TokenComma) {
		p.advance()
		next, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		values = append(values, next)
	}

	if _, err := p.expect(token.TokenRParen, "expected ')' after expressions"); err != nil {
		return nil, err
	}
	return &ast.Print{Token: printTok, Values: values}, nil
}

// parseRead parses: LIRE '(' name ')'
func (p *Parser) parseRead() (*ast.Read, error) {
	readTok := p.advance()

	if _, err := p.expect(token.TokenLParen, "expected '(' after 'LIRE'"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.TokenIdent, "expected variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TokenRParen, "expected ')' after variable name"); err != nil {
		return nil, err
	}
	return &ast.Read{Token: readTok, Name: nameTok.Literal}, nil
}

// --- Expressions ---
//
// Precedence, loosest first: OU, ET, comparison (non-chaining), additive,
// multiplicative, unary NON, postfix call/index, primary.

func (p *Parser) parseCondition() (ast.Expression, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.check(token.TokenOr) {
		opTok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Token: opTok, Left: left, Op: ast.OpOr, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for p.check(token.TokenAnd) {
		opTok := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Token: opTok, Left: left, Op: ast.OpAnd, Right: right}
	}
	return left, nil
}

var comparisonOps = map[token.TokenType]ast.BinaryOp{
	token.TokenGT:    ast.OpGT,
	token.TokenLT:    ast.OpLT,
	token.TokenGTE:   ast.OpGTE,
	token.TokenLTE:   ast.OpLTE,
	token.TokenEq:    ast.OpEq,
	token.TokenNotEq: ast.OpNotEq,
}

// parseComparison allows at most one comparison operator: `a < b < c` is a
// syntax error without parentheses and an ET.
func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if op, ok := comparisonOps[p.curTok().Type]; ok {
		opTok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Token: opTok, Left: left, Op: op, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.check(token.TokenPlus) || p.check(token.TokenMinus) {
		opTok := p.advance()
		op := ast.OpAdd
		if opTok.Type == token.TokenMinus {
			op = ast.OpSub
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Token: opTok, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.check(token.TokenAsterisk) || p.check(token.TokenSlash) || p.check(token.TokenPercent) {
		opTok := p.advance()
		var op ast.BinaryOp
		switch opTok.Type {
		case token.TokenAsterisk:
			op = ast.OpMul
		case token.TokenSlash:
			op = ast.OpDiv
		default:
			op = ast.OpMod
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Token: opTok, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.check(token.TokenNot) {
		opTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Token: opTok, Op: ast.OpNot, Operand: operand}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses a literal, an identifier (optionally carrying a single
// call or index postfix), or a parenthesized condition.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	p.skipNewlines()
	tok := p.curTok()

	switch tok.Type {
	case token.TokenInt:
		p.advance()
		value, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", tok.Literal)
		}
		return &ast.IntLiteral{Token: tok, Value: value}, nil

	case token.TokenReal:
		p.advance()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf("invalid real literal %q", tok.Literal)
		}
		return &ast.RealLiteral{Token: tok, Value: value}, nil

	case token.TokenString:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}, nil

	case token.TokenTrue:
		p.advance()
		return &ast.BoolLiteral{Token: tok, Value: true}, nil

	case token.TokenFalse:
		p.advance()
		return &ast.BoolLiteral{Token: tok, Value: false}, nil

	case token.TokenIdent:
		p.advance()

		if p.check(token.TokenLParen) {
			return p.parseCallArgs(tok)
		}

		if p.check(token.TokenLBracket) {
			p.advance()
			index, err := p.parseCondition()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.TokenRBracket, "expected ']' after array index"); err != nil {
				return nil, err
			}
			return &ast.ArrayAccess{Token: tok, Name: tok.Literal, Index: index}, nil
		}

		return &ast.Identifier{Token: tok, Value: tok.Literal}, nil

	case token.TokenLParen:
		p.advance()
		expr, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TokenRParen, "expected ')'"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, p.errorf("expected expression")
}

// parseCallArgs parses the argument list of a call whose callee identifier
// has already been consumed; the current token is '('.
func (p *Parser) parseCallArgs(nameTok token.Token) (*ast.Call, error) {
	p.advance() // '('

	var args []ast.Expression
	if !p.check(token.TokenRParen) {
		first, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		args = append(args, first)

		for p.check(token.TokenComma) {
			p.advance()
			next, err := p.parseCondition()
			if err != nil {
				return nil, err
			}
			args = append(args, next)
		}
	}

	if _, err := p.expect(token.TokenRParen, "expected ')' after call arguments"); err != nil {
		return nil, err
	}
	return &ast.Call{Token: nameTok, Name: nameTok.Literal, Args: args}, nil
}
