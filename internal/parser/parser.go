// Package parser implements the Aris recursive descent formula parser.
// Binary connectives carry no precedence: every one must be parenthesized,
// so the tree shape comes entirely from the brackets.
package parser

import (
	"github.com/aris-lang/aris/internal/ast"
	"github.com/aris-lang/aris/internal/errors"
	"github.com/aris-lang/aris/internal/lexer"
)

// Parser builds formulas from a token queue, consuming it front to back
type Parser struct {
	queue    *lexer.Queue
	maxDepth int // 0 disables the limit
	depth    int
}

// NewParser creates a parser over q. maxDepth bounds formula nesting;
// zero means unlimited.
func NewParser(q *lexer.Queue, maxDepth int) *Parser {
	return &Parser{queue: q, maxDepth: maxDepth}
}

// Queue returns the underlying token queue
func (p *Parser) Queue() *lexer.Queue {
	return p.queue
}

// ParseFormula parses one formula. It returns (nil, nil) when the head of
// the queue is a COMMA, RIGHT_BRACKET or THEREFORE: there is no formula here.
func (p *Parser) ParseFormula() (ast.Formula, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return nil, errors.DepthExceeded(p.maxDepth)
	}

	tok, ok := p.queue.Peek()
	if !ok {
		return nil, errors.UnexpectedSymbol(errors.EndOfInput)
	}

	switch tok.Type {
	case lexer.TokenComma, lexer.TokenRightBracket, lexer.TokenTherefore:
		return nil, nil
	}

	p.queue.Pop()
	switch tok.Type {
	case lexer.TokenAtom:
		return ast.NewAtom(tok.Literal), nil
	case lexer.TokenNot:
		return p.parseNegation()
	case lexer.TokenLeftBracket:
		return p.parseBinary()
	default:
		return nil, errors.UnexpectedSymbol(tok.Literal)
	}
}

// parseNegation parses the operand following NOT; no bracket is required
func (p *Parser) parseNegation() (ast.Formula, error) {
	operand, err := p.ParseFormula()
	if err != nil {
		return nil, err
	}
	if operand == nil {
		return nil, p.unexpectedHead()
	}
	return ast.Not(operand), nil
}

// parseBinary parses "L op R)" after the opening bracket
func (p *Parser) parseBinary() (ast.Formula, error) {
	left, err := p.ParseFormula()
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, errors.MissingOperand("left")
	}

	op, ok := p.queue.Pop()
	if !ok {
		return nil, errors.UnexpectedSymbol(errors.EndOfInput)
	}

	right, err := p.ParseFormula()
	if err != nil {
		return nil, err
	}
	if right == nil {
		return nil, errors.MissingOperand("right")
	}

	closing, ok := p.queue.Pop()
	if !ok {
		return nil, errors.UnexpectedSymbol(errors.EndOfInput)
	}
	if closing.Type != lexer.TokenRightBracket {
		return nil, errors.UnexpectedSymbol(closing.Literal)
	}

	switch op.Type {
	case lexer.TokenAnd:
		return ast.And(left, right), nil
	case lexer.TokenOr:
		return ast.Or(left, right), nil
	default:
		return ast.Implies(left, right), nil
	}
}

// unexpectedHead reports the token at the head of the queue
func (p *Parser) unexpectedHead() error {
	if tok, ok := p.queue.Peek(); ok {
		return errors.UnexpectedSymbol(tok.Literal)
	}
	return errors.UnexpectedSymbol(errors.EndOfInput)
}

// ParseFormula parses a single formula from q without a depth limit
func ParseFormula(q *lexer.Queue) (ast.Formula, error) {
	return NewParser(q, 0).ParseFormula()
}
