package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types
const (
	// 演算子
	TokenAnd TokenType = iota
	TokenOr
	TokenNot
	TokenMaterialImplication
	TokenTherefore
	TokenAssign

	// 記号
	TokenLeftBracket
	TokenRightBracket
	TokenComma

	// リテラル
	TokenAtom
	TokenIdentifier
	TokenString
	TokenTrue
	TokenFalse

	// キーワード
	TokenArgument
	TokenAssert
	TokenPrint
	TokenValidate
	TokenValuate
)

var tokenNames = map[TokenType]string{
	TokenAnd:                 "AND",
	TokenOr:                  "OR",
	TokenNot:                 "NOT",
	TokenMaterialImplication: "MATERIAL_IMPLICATION",
	TokenTherefore:           "THEREFORE",
	TokenAssign:              "ASSIGN",
	TokenLeftBracket:         "LEFT_BRACKET",
	TokenRightBracket:        "RIGHT_BRACKET",
	TokenComma:               "COMMA",
	TokenAtom:                "ATOM",
	TokenIdentifier:          "IDENTIFIER",
	TokenString:              "STRING",
	TokenTrue:                "TRUE",
	TokenFalse:               "FALSE",
	TokenArgument:            "ARGUMENT",
	TokenAssert:              "ASSERT",
	TokenPrint:               "PRINT",
	TokenValidate:            "VALIDATE",
	TokenValuate:             "VALUATE",
}

// symbols holds the display text of every token whose text is fixed
var symbols = map[TokenType]string{
	TokenAnd:                 "∧",
	TokenOr:                  "∨",
	TokenNot:                 "¬",
	TokenMaterialImplication: "→",
	TokenTherefore:           "∴",
	TokenAssign:              ":=",
	TokenLeftBracket:         "(",
	TokenRightBracket:        ")",
	TokenComma:               ",",
	TokenTrue:                "true",
	TokenFalse:               "false",
	TokenArgument:            "argument",
	TokenAssert:              "assert",
	TokenPrint:               "print",
	TokenValidate:            "validate",
	TokenValuate:             "valuate",
}

// Token is an immutable lexical unit. Literal is the display text.
type Token struct {
	Type    TokenType
	Literal string
}

// NewToken creates a token with the canonical display text of tt
func NewToken(tt TokenType) Token {
	return Token{Type: tt, Literal: symbols[tt]}
}

// NewValueToken creates an ATOM, IDENTIFIER or STRING token
func NewValueToken(tt TokenType, value string) Token {
	return Token{Type: tt, Literal: value}
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q}", t.Type, t.Literal)
}

// formulaStart is the set of tokens that may open a formula
var formulaStart = []TokenType{TokenAtom, TokenLeftBracket, TokenNot}

// followers is the adjacency table: current token type -> allowed next types.
// Types missing from the table accept any follower.
var followers = map[TokenType][]TokenType{
	TokenAnd:                 formulaStart,
	TokenComma:               formulaStart,
	TokenLeftBracket:         formulaStart,
	TokenMaterialImplication: formulaStart,
	TokenNot:                 formulaStart,
	TokenOr:                  formulaStart,
	TokenTherefore:           formulaStart,
	TokenArgument:            {TokenIdentifier},
	TokenAssert:              {TokenIdentifier},
	TokenValidate:            {TokenIdentifier},
	TokenValuate:             {TokenIdentifier},
	TokenAssign:              {TokenAtom, TokenFalse, TokenLeftBracket, TokenNot, TokenTrue},
	TokenAtom: {
		TokenAnd, TokenAssign, TokenComma, TokenMaterialImplication,
		TokenLeftBracket, TokenOr, TokenRightBracket, TokenTherefore,
	},
	TokenIdentifier: {TokenAssign},
	TokenPrint:      {TokenString},
	TokenRightBracket: {
		TokenAnd, TokenComma, TokenMaterialImplication, TokenOr,
		TokenRightBracket, TokenTherefore,
	},
}

// CanFollow reports whether next may directly follow current on a line
func CanFollow(current, next TokenType) bool {
	allowed, ok := followers[current]
	if !ok {
		return true
	}
	for _, tt := range allowed {
		if tt == next {
			return true
		}
	}
	return false
}

// isStatementHead reports whether tt may open a statement (ATOM is checked
// separately because it must be followed by ASSIGN).
func isStatementHead(tt TokenType) bool {
	switch tt {
	case TokenArgument, TokenAssert, TokenPrint, TokenValuate, TokenValidate:
		return true
	}
	return false
}

// Queue is a destructive FIFO of tokens consumed front to back
type Queue struct {
	items []Token
}

// NewQueue creates a queue holding a copy of tokens
func NewQueue(tokens ...Token) *Queue {
	items := make([]Token, len(tokens))
	copy(items, tokens)
	return &Queue{items: items}
}

// Peek returns the head token without removing it
func (q *Queue) Peek() (Token, bool) {
	if len(q.items) == 0 {
		return Token{}, false
	}
	return q.items[0], true
}

// Pop removes and returns the head token
func (q *Queue) Pop() (Token, bool) {
	if len(q.items) == 0 {
		return Token{}, false
	}
	tok := q.items[0]
	q.items = q.items[1:]
	return tok, true
}

// PeekIs reports whether the head token has type tt
func (q *Queue) PeekIs(tt TokenType) bool {
	tok, ok := q.Peek()
	return ok && tok.Type == tt
}

func (q *Queue) Len() int    { return len(q.items) }
func (q *Queue) Empty() bool { return len(q.items) == 0 }

// Statement is one validated source line
type Statement struct {
	Line   int    // 1-based line number, 0 when tokenized standalone
	Source string // the line after comment truncation
	Tokens []Token
}

// Queue returns a fresh queue over the statement's tokens
func (s Statement) Queue() *Queue {
	return NewQueue(s.Tokens...)
}

// Head returns the leading token type of the statement
func (s Statement) Head() TokenType {
	return s.Tokens[0].Type
}
