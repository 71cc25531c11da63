// Package lexer implements the Aris lexical analyzer.
// Source is scanned one physical line at a time; each non-empty line becomes
// a Statement whose token sequence has passed the adjacency check.
package lexer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aris-lang/aris/internal/errors"
)

// maxLineSize bounds a single source line for the scanner buffer
const maxLineSize = 1 << 20

// keyword is a lowercase reserved word. Keywords are matched as prefixes in
// declaration order; limited keywords may appear at most once per line.
type keyword struct {
	text    string
	typ     TokenType
	limited bool
}

var keywords = []keyword{
	{"argument", TokenArgument, true},
	{"assert", TokenAssert, false},
	{"false", TokenFalse, false},
	{"print", TokenPrint, true},
	{"therefore", TokenTherefore, true},
	{"true", TokenTrue, false},
	{"validate", TokenValidate, false},
	{"valuate", TokenValuate, true},
}

// scanMode tracks multi-character tokens in progress
type scanMode int

const (
	modeNone scanMode = iota
	modeAtom
	modeIdentifier
	modeString
)

// Lexer scans a single source line
type Lexer struct {
	input    string // line after comment truncation
	position int    // current position in input (points to current char)
	ch       byte   // current char under examination

	mode   scanMode
	buf    strings.Builder
	seen   map[TokenType]int
	tokens []Token
}

// New creates a lexer for one line of source
func New(line string) *Lexer {
	line = strings.TrimRight(line, "\r\n")
	if idx := strings.Index(line, "//"); idx >= 0 {
		line = line[:idx]
	}
	l := &Lexer{
		input:    line,
		position: -1,
		seen:     make(map[TokenType]int),
	}
	l.readChar()
	return l
}

// readChar advances to the next character; ch is 0 past the end
func (l *Lexer) readChar() {
	l.position++
	if l.position >= len(l.input) {
		l.ch = 0
		return
	}
	l.ch = l.input[l.position]
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() (byte, bool) {
	if l.position+1 >= len(l.input) {
		return 0, false
	}
	return l.input[l.position+1], true
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) emit(tok Token) {
	l.tokens = append(l.tokens, tok)
}

// charAt renders the (possibly multi-byte) character starting at pos
func (l *Lexer) charAt(pos int) string {
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return string(r)
}

func (l *Lexer) unexpectedCharacter(pos int) error {
	return errors.UnexpectedCharacter(l.charAt(pos), pos, l.input)
}

// Tokenize scans the line and validates token adjacency. A blank or
// comment-only line yields a nil slice and no error.
func (l *Lexer) Tokenize() ([]Token, error) {
	for ; !l.atEnd(); l.readChar() {
		consumed, err := l.continueToken()
		if err != nil {
			return nil, err
		}
		if consumed {
			continue
		}
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	// an atom or an identifier can be the last item of a line
	switch l.mode {
	case modeAtom:
		l.emit(NewValueToken(TokenAtom, l.buf.String()))
	case modeIdentifier:
		l.emit(NewValueToken(TokenIdentifier, l.buf.String()))
	case modeString:
		// only reachable when the opening quote is the last character
		return nil, l.unexpectedCharacter(len(l.input) - 1)
	}

	if len(l.tokens) == 0 {
		return nil, nil
	}
	if err := validate(l.tokens, l.input); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

// continueToken extends an atom, identifier or string in progress. It
// reports whether the current character was consumed.
func (l *Lexer) continueToken() (bool, error) {
	c := l.ch
	switch l.mode {
	case modeAtom:
		if isAtomTerminator(c) {
			l.emit(NewValueToken(TokenAtom, l.buf.String()))
			l.mode = modeNone
			return false, nil
		}
		if isAtomChar(c) {
			l.buf.WriteByte(c)
			return true, nil
		}
		return false, l.unexpectedCharacter(l.position)
	case modeIdentifier:
		if isSpace(c) {
			l.emit(NewValueToken(TokenIdentifier, l.buf.String()))
			l.mode = modeNone
			return false, nil
		}
		if isIdentifierChar(c) {
			l.buf.WriteByte(c)
			return true, nil
		}
		return false, l.unexpectedCharacter(l.position)
	case modeString:
		if c == '"' {
			l.emit(NewValueToken(TokenString, l.buf.String()))
			l.mode = modeNone
			return true, nil
		}
		if l.position == len(l.input)-1 {
			return false, l.unexpectedCharacter(l.position)
		}
		l.buf.WriteByte(c)
		return true, nil
	}
	return false, nil
}

// scanToken starts a new token at the current character
func (l *Lexer) scanToken() error {
	c := l.ch
	switch {
	case isSpace(c):
		return nil
	case c == '"':
		l.mode = modeString
		l.buf.Reset()
	case c == '(':
		l.emit(NewToken(TokenLeftBracket))
	case c == ')':
		l.emit(NewToken(TokenRightBracket))
	case c == '&':
		l.emit(NewToken(TokenAnd))
	case c == ',':
		l.emit(NewToken(TokenComma))
	case c == '!' || c == '~':
		l.emit(NewToken(TokenNot))
	case c == '|':
		l.emit(NewToken(TokenOr))
	case c == ':':
		return l.scanPair('=', TokenAssign)
	case c == '-':
		return l.scanPair('>', TokenMaterialImplication)
	case c == '=':
		return l.scanPair('>', TokenTherefore)
	case 'A' <= c && c <= 'Z':
		l.mode = modeAtom
		l.buf.Reset()
		l.buf.WriteByte(c)
	case 'a' <= c && c <= 'z':
		return l.scanWord()
	default:
		return l.unexpectedCharacter(l.position)
	}
	return nil
}

// scanPair reads a two-character symbol whose second character must be want
func (l *Lexer) scanPair(want byte, tt TokenType) error {
	next, ok := l.peekChar()
	if !ok {
		// the end of the line reads as a NUL character
		return errors.UnexpectedCharacter("\x00", l.position+1, l.input)
	}
	l.readChar()
	if next != want {
		return l.unexpectedCharacter(l.position)
	}
	l.emit(NewToken(tt))
	return nil
}

// scanWord matches a keyword at the current position or starts an identifier
func (l *Lexer) scanWord() error {
	rest := l.input[l.position:]
	for _, kw := range keywords {
		if !strings.HasPrefix(rest, kw.text) {
			continue
		}
		if kw.limited && l.seen[kw.typ] > 0 {
			return errors.UnexpectedSymbolAt(kw.text, l.position, l.input)
		}
		l.seen[kw.typ]++
		l.emit(NewToken(kw.typ))

		end := l.position + len(kw.text)
		if end < len(l.input) && !isSpace(l.input[end]) {
			return l.unexpectedCharacter(end)
		}
		// leave position on the separator (or past the end); the scan
		// loop steps over it
		l.position = end
		if end < len(l.input) {
			l.ch = l.input[end]
		} else {
			l.ch = 0
		}
		return nil
	}

	l.mode = modeIdentifier
	l.buf.Reset()
	l.buf.WriteByte(l.ch)
	return nil
}

// validate applies the statement-head rule and the adjacency table
func validate(tokens []Token, line string) error {
	for i, tok := range tokens {
		pos := i + 1
		var next *Token
		if i+1 < len(tokens) {
			next = &tokens[i+1]
		}

		if i == 0 {
			if tok.Type != TokenPrint && next == nil {
				return errors.UnexpectedEndOfLine(line)
			}
			if tok.Type == TokenAtom {
				if next.Type != TokenAssign {
					return errors.UnexpectedSymbolAt(next.Literal, pos, line)
				}
			} else if !isStatementHead(tok.Type) {
				return errors.UnexpectedSymbolAt(tok.Literal, pos, line)
			}
		}

		if next != nil && !CanFollow(tok.Type, next.Type) {
			return errors.UnexpectedSymbolAt(next.Literal, pos, line)
		}
	}
	return nil
}

// TokenizeLine tokenizes and validates a single line. It returns a nil
// statement for blank and comment-only lines.
func TokenizeLine(line string) (*Statement, error) {
	l := New(line)
	tokens, err := l.Tokenize()
	if err != nil || tokens == nil {
		return nil, err
	}
	return &Statement{Source: l.input, Tokens: tokens}, nil
}

// Tokenize reads the whole source and returns one statement per non-empty
// line. The first lexical error aborts tokenization.
func Tokenize(r io.Reader) ([]Statement, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var statements []Statement
	for lineNo := 1; scanner.Scan(); lineNo++ {
		stmt, err := TokenizeLine(scanner.Text())
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			continue
		}
		stmt.Line = lineNo
		statements = append(statements, *stmt)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return statements, nil
}

// TokenizeString is a convenience wrapper around Tokenize
func TokenizeString(src string) ([]Statement, error) {
	return Tokenize(strings.NewReader(src))
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

func isAtomChar(ch byte) bool {
	return 'A' <= ch && ch <= 'Z' || '0' <= ch && ch <= '9' || ch == '_' || ch == '\''
}

func isAtomTerminator(ch byte) bool {
	switch ch {
	case ' ', '\t', '&', ')', ',', ':', '-', '|':
		return true
	}
	return false
}

func isIdentifierChar(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || '0' <= ch && ch <= '9' || ch == '_'
}
