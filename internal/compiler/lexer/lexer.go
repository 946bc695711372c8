package lexer

import (
	"fmt"

	"github.com/tbouvier/pseudoc/internal/compiler/token"
)

// LexicalError is fatal: the first unrecognized character or unterminated
// string aborts tokenization with no recovery.
type LexicalError struct {
	Msg    string
	Line   int
	Column int
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%d:%d: lexical error: %s", e.Line, e.Column, e.Msg)
}

type Lexer struct {
	input    string
	position int  // current char index
	ch       byte // current char, 0 at EOF

	line   int // 1-indexed
	column int // 1-indexed
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 1}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

// Tokenize consumes the whole source in one left-to-right pass and returns
// the token sequence, terminated by exactly one EOF token. Spaces and tabs
// are skipped, '\r' is dropped, and each '\n' yields an explicit NEWLINE
// token.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token

	for l.ch != 0 {
		startLine := l.line
		startCol := l.column

		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()

		case l.ch == '\n':
			tokens = append(tokens, token.Token{Type: token.TokenNewline, Literal: "\\n", Line: startLine, Column: startCol})
			l.readChar()
			l.line++
			l.column = 1

		case l.ch == '/' && l.peekChar() == '/':
			l.skipLineComment()

		case l.ch == '<' && l.peekChar() == '-':
			l.readChar()
			l.readChar()
			tokens = append(tokens, token.Token{Type: token.TokenAssign, Literal: "<-", Line: startLine, Column: startCol})

		case l.ch == '<' && l.peekChar() == '=':
			l.readChar()
			l.readChar()
			tokens = append(tokens, token.Token{Type: token.TokenLTE, Literal: "<=", Line: startLine, Column: startCol})

		case l.ch == '>' && l.peekChar() == '=':
			l.readChar()
			l.readChar()
			tokens = append(tokens, token.Token{Type: token.TokenGTE, Literal: ">=", Line: startLine, Column: startCol})

		case l.ch == '=' && l.peekChar() == '=':
			l.readChar()
			l.readChar()
			tokens = append(tokens, token.Token{Type: token.TokenEq, Literal: "==", Line: startLine, Column: startCol})

		case l.ch == '!' && l.peekChar() == '=':
			l.readChar()
			l.readChar()
			tokens = append(tokens, token.Token{Type: token.TokenNotEq, Literal: "!=", Line: startLine, Column: startCol})

		case l.ch == '"':
			tok, err := l.readString(startLine, startCol)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

		case isDigit(l.ch):
			tokens = append(tokens, l.readNumber(startLine, startCol))

		case isLetter(l.ch):
			tokens = append(tokens, l.readWord(startLine, startCol))

		default:
			tt, ok := singleCharTokens[l.ch]
			if !ok {
				return nil, &LexicalError{
					Msg:    fmt.Sprintf("unrecognized character %q", string(l.ch)),
					Line:   startLine,
					Column: startCol,
				}
			}
			tokens = append(tokens, token.Token{Type: tt, Literal: string(l.ch), Line: startLine, Column: startCol})
			l.readChar()
		}
	}

	tokens = append(tokens, token.Token{Type: token.TokenEOF, Literal: "", Line: l.line, Column: l.column})
	return tokens, nil
}

var singleCharTokens = map[byte]token.TokenType{
	'+': token.TokenPlus,
	'-': token.TokenMinus,
	'*': token.TokenAsterisk,
	'/': token.TokenSlash,
	'%': token.TokenPercent,
	'<': token.TokenLT,
	'>': token.TokenGT,
	'(': token.TokenLParen,
	')': token.TokenRParen,
	'[': token.TokenLBracket,
	']': token.TokenRBracket,
	':': token.TokenColon,
	',': token.TokenComma,
}

// readChar advances one character without touching line bookkeeping for
// '\n' (the Tokenize loop owns that, since the newline itself is a token).
func (l *Lexer) readChar() {
	l.position++
	l.column++
	if l.position >= len(l.input) {
		l.ch = 0
		return
	}
	l.ch = l.input[l.position]
}

func (l *Lexer) peekChar() byte {
	if l.position+1 >= len(l.input) {
		return 0
	}
	return l.input[l.position+1]
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readString scans a double-quoted literal. No escape processing: the
// literal runs to the next '"'. A line break or end of input before the
// closing quote is a lexical error.
func (l *Lexer) readString(startLine, startCol int) (token.Token, error) {
	l.readChar() // opening quote

	start := l.position
	for l.ch != '"' {
		if l.ch == '\n' || l.ch == 0 {
			return token.Token{}, &LexicalError{Msg: "unterminated string", Line: startLine, Column: startCol}
		}
		l.readChar()
	}

	lit := l.input[start:l.position]
	l.readChar() // closing quote
	return token.Token{Type: token.TokenString, Literal: lit, Line: startLine, Column: startCol}, nil
}

// readNumber scans digits, continuing past a '.' only when at least one
// digit follows it, which distinguishes real literals from an integer
// adjoining punctuation.
func (l *Lexer) readNumber(startLine, startCol int) token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		return token.Token{Type: token.TokenReal, Literal: l.input[start:l.position], Line: startLine, Column: startCol}
	}

	return token.Token{Type: token.TokenInt, Literal: l.input[start:l.position], Line: startLine, Column: startCol}
}

func (l *Lexer) readWord(startLine, startCol int) token.Token {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}

	tt, lit := token.LookupIdent(l.input[start:l.position])
	return token.Token{Type: tt, Literal: lit, Line: startLine, Column: startCol}
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
