// Package errors provides standardized error messaging for Aris
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryLexical  ErrorCategory = "LEXICAL"
	CategoryParse    ErrorCategory = "PARSE"
	CategorySemantic ErrorCategory = "SEMANTIC"
	CategoryLimit    ErrorCategory = "LIMIT"
)

// Error codes
const (
	CodeUnexpectedCharacter = "UNEXPECTED_CHARACTER"
	CodeUnexpectedSymbol    = "UNEXPECTED_SYMBOL"
	CodeUnexpectedEOL       = "UNEXPECTED_END_OF_LINE"
	CodeMalformedFormula    = "MALFORMED_FORMULA"
	CodeMissingOperand      = "MISSING_OPERAND"
	CodeMissingPremises     = "MISSING_PREMISES"
	CodeMissingSymbol       = "MISSING_SYMBOL"
	CodeUndefinedArgument   = "UNDEFINED_ARGUMENT"
	CodeInvalidUsage        = "INVALID_USAGE"
	CodeDepthExceeded       = "DEPTH_EXCEEDED"
	CodeTooManyAtoms        = "TOO_MANY_ATOMS"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface. It returns the user-facing message
// only; scripts report it verbatim.
func (e *StandardError) Error() string {
	return e.Message
}

// Detail returns the categorized form used in debug logs
func (e *StandardError) Detail() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(2)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// CodeOf returns the code of the first StandardError in err's chain, or "".
func CodeOf(err error) string {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// Lexical errors

func UnexpectedCharacter(ch string, pos int, line string) *StandardError {
	return NewStandardError(CategoryLexical, CodeUnexpectedCharacter,
		fmt.Sprintf("Unexpected character '%s' at position %d of line '%s'", ch, pos, line),
		map[string]interface{}{"character": ch, "position": pos, "line": line})
}

func UnexpectedSymbolAt(symbol string, pos int, line string) *StandardError {
	return NewStandardError(CategoryLexical, CodeUnexpectedSymbol,
		fmt.Sprintf("Unexpected symbol '%s' at position %d of line '%s'", symbol, pos, line),
		map[string]interface{}{"symbol": symbol, "position": pos, "line": line})
}

func UnexpectedEndOfLine(line string) *StandardError {
	return NewStandardError(CategoryLexical, CodeUnexpectedEOL,
		fmt.Sprintf("Unexpected end of line at line '%s'", line),
		map[string]interface{}{"line": line})
}

// Parse errors

// EndOfInput is the symbol reported when a formula is required but the
// token queue is exhausted.
const EndOfInput = "null"

func UnexpectedSymbol(symbol string) *StandardError {
	return NewStandardError(CategoryParse, CodeMalformedFormula,
		fmt.Sprintf("Unexpected symbol '%s'", symbol),
		map[string]interface{}{"symbol": symbol})
}

func MissingOperand(side string) *StandardError {
	return NewStandardError(CategoryParse, CodeMissingOperand,
		fmt.Sprintf("Malformed formula: missing %s operand", side),
		map[string]interface{}{"side": side})
}

func MissingPremises(argument string) *StandardError {
	return NewStandardError(CategoryParse, CodeMissingPremises,
		fmt.Sprintf("Missing premises for argument %s", argument),
		map[string]interface{}{"argument": argument})
}

// Semantic errors

func MissingSymbol(name string) *StandardError {
	return NewStandardError(CategorySemantic, CodeMissingSymbol,
		fmt.Sprintf("Missing symbol %s", name),
		map[string]interface{}{"symbol": name})
}

func UndefinedArgument(name string) *StandardError {
	return NewStandardError(CategorySemantic, CodeUndefinedArgument,
		fmt.Sprintf("Undefined argument %s", name),
		map[string]interface{}{"argument": name})
}

func InvalidUsage(details string) *StandardError {
	return NewStandardError(CategorySemantic, CodeInvalidUsage,
		details,
		map[string]interface{}{"details": details})
}

// Limit errors

func DepthExceeded(limit int) *StandardError {
	return NewStandardError(CategoryLimit, CodeDepthExceeded,
		fmt.Sprintf("Formula nesting exceeds maximum depth %d", limit),
		map[string]interface{}{"limit": limit})
}

func TooManyAtoms(count, limit int) *StandardError {
	return NewStandardError(CategoryLimit, CodeTooManyAtoms,
		fmt.Sprintf("Truth table over %d atoms exceeds the limit of %d", count, limit),
		map[string]interface{}{"count": count, "limit": limit})
}
