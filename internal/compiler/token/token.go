package token

import "strings"

type TokenType string

const (
	// Structure keywords
	TokenAlgorithm TokenType = "ALGORITHME" // program header
	TokenVariables TokenType = "VARIABLES"  // declaration section
	TokenBegin     TokenType = "DEBUT"      // start of main block
	TokenEnd       TokenType = "FIN"        // end of program

	// Function keywords
	TokenFunction     TokenType = "FONCTION"
	TokenProcedure    TokenType = "PROCEDURE"
	TokenReturn       TokenType = "RETOURNE" // return-type marker and return statement
	TokenEndFunction  TokenType = "FINFONCTION"
	TokenEndProcedure TokenType = "FINPROCEDURE"

	// Type keywords
	TokenIntType  TokenType = "ENTIER"
	TokenRealType TokenType = "REEL"
	TokenTextType TokenType = "TEXTE"
	TokenBoolType TokenType = "BOOLEEN"

	// Boolean literals
	TokenTrue  TokenType = "VRAI"
	TokenFalse TokenType = "FAUX"

	// I/O keywords (AFFICHER lexes as TokenWrite too)
	TokenWrite TokenType = "ECRIRE"
	TokenRead  TokenType = "LIRE"

	// Conditionals
	TokenIf    TokenType = "SI"
	TokenThen  TokenType = "ALORS"
	TokenElse  TokenType = "SINON"
	TokenEndIf TokenType = "FINSI"

	// Loops. The bound separator A has no token type of its own: one
	// letter, so a keyword-table entry would swallow the identifier 'a'.
	// The parser matches it case-insensitively in its only grammatical
	// position, between the POUR bounds.
	TokenWhile    TokenType = "TANTQUE"
	TokenDo       TokenType = "FAIRE"
	TokenEndWhile TokenType = "FINTANTQUE"
	TokenFor      TokenType = "POUR"
	TokenFrom     TokenType = "DE"
	TokenEndFor   TokenType = "FINPOUR"

	// Switch
	TokenSwitch    TokenType = "CAS"
	TokenDefault   TokenType = "DEFAUT"
	TokenEndSwitch TokenType = "FINCAS"

	// Logical operators (keywords)
	TokenAnd TokenType = "ET"
	TokenOr  TokenType = "OU"
	TokenNot TokenType = "NON"

	// Operators
	TokenAssign   TokenType = "ASSIGN"   // <-
	TokenPlus     TokenType = "PLUS"     // +
	TokenMinus    TokenType = "MINUS"    // -
	TokenAsterisk TokenType = "ASTERISK" // *
	TokenSlash    TokenType = "SLASH"    // /
	TokenPercent  TokenType = "PERCENT"  // %
	TokenGT       TokenType = "GT"       // >
	TokenLT       TokenType = "LT"       // <
	TokenGTE      TokenType = "GTE"      // >=
	TokenLTE      TokenType = "LTE"      // <=
	TokenEq       TokenType = "EQ"       // ==
	TokenNotEq    TokenType = "NOT_EQ"   // !=

	// Punctuation
	TokenLParen   TokenType = "LPAREN"   // (
	TokenRParen   TokenType = "RPAREN"   // )
	TokenLBracket TokenType = "LBRACKET" // [
	TokenRBracket TokenType = "RBRACKET" // ]
	TokenColon    TokenType = "COLON"    // :
	TokenComma    TokenType = "COMMA"    // ,

	// Literals & identifiers
	TokenIdent  TokenType = "IDENT"
	TokenInt    TokenType = "INT"
	TokenReal   TokenType = "REAL"
	TokenString TokenType = "STRING"

	// Special
	TokenNewline TokenType = "NEWLINE"
	TokenEOF     TokenType = "EOF"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsTypeKeyword reports whether the token names one of the four primitive
// types usable in declarations, parameters, and return clauses.
func (t Token) IsTypeKeyword() bool {
	switch t.Type {
	case TokenIntType, TokenRealType, TokenTextType, TokenBoolType:
		return true
	}
	return false
}

// keywords maps the uppercase spelling of every reserved word to its token
// type. AFFICHER is an alias of ECRIRE.
var keywords = map[string]TokenType{
	"ALGORITHME":   TokenAlgorithm,
	"VARIABLES":    TokenVariables,
	"DEBUT":        TokenBegin,
	"FIN":          TokenEnd,
	"FONCTION":     TokenFunction,
	"PROCEDURE":    TokenProcedure,
	"RETOURNE":     TokenReturn,
	"FINFONCTION":  TokenEndFunction,
	"FINPROCEDURE": TokenEndProcedure,
	"ENTIER":       TokenIntType,
	"REEL":         TokenRealType,
	"TEXTE":        TokenTextType,
	"BOOLEEN":      TokenBoolType,
	"VRAI":         TokenTrue,
	"FAUX":         TokenFalse,
	"ECRIRE":       TokenWrite,
	"AFFICHER":     TokenWrite,
	"LIRE":         TokenRead,
	"SI":           TokenIf,
	"ALORS":        TokenThen,
	"SINON":        TokenElse,
	"FINSI":        TokenEndIf,
	"TANTQUE":      TokenWhile,
	"FAIRE":        TokenDo,
	"FINTANTQUE":   TokenEndWhile,
	"POUR":         TokenFor,
	"DE":           TokenFrom,
	"FINPOUR":      TokenEndFor,
	"CAS":          TokenSwitch,
	"DEFAUT":       TokenDefault,
	"FINCAS":       TokenEndSwitch,
	"ET":           TokenAnd,
	"OU":           TokenOr,
	"NON":          TokenNot,
}

// LookupIdent resolves a scanned word to a keyword token type or TokenIdent.
// Keywords are case-insensitive; the returned literal is the canonical form
// to store on the token (uppercase for keywords, original text for
// identifiers, which stay case-sensitive).
func LookupIdent(word string) (TokenType, string) {
	upper := strings.ToUpper(word)
	if tt, ok := keywords[upper]; ok {
		return tt, upper
	}
	return TokenIdent, word
}
