package compiler

import "fmt"

// Phase identifies which analysis phase produced a diagnostic.
type Phase int

const (
	PhaseLexical Phase = iota + 1
	PhaseSyntax
	PhaseSemantic
)

// Code narrows a diagnostic within its phase.
type Code int

const (
	// lexical
	CodeInvalidCharacter Code = iota + 1
	CodeUnclosedString
	CodeUnclosedComment
	// syntax
	CodeExpectedTokenMissing
	CodeUnexpectedToken
	// semantic
	CodeTableNotFound
	CodeColumnNotFound
	CodeRedeclaration
	CodeAmbiguousColumn
	CodeTypeMismatch
	CodeArityMismatch
)

// Diagnostic is a pure value describing one finding. Diagnostics are
// accumulated in ordered lists; they never abort analysis of subsequent,
// independent statements.
type Diagnostic struct {
	Phase   Phase
	Code    Code
	Message string
	Line    int
	Column  int
	// Expected and Found are filled for syntax diagnostics only.
	Expected string
	Found    string
}

// String renders the diagnostic in the fixed user-visible wording. The exact
// formats are part of the external contract.
func (d Diagnostic) String() string {
	switch d.Phase {
	case PhaseLexical:
		return fmt.Sprintf("Error: %s at line %d, position %d.", d.Message, d.Line, d.Column)
	case PhaseSyntax:
		s := fmt.Sprintf("Syntax Error: %s at line %d, position %d.", d.Message, d.Line, d.Column)
		if d.Expected != "" && d.Found != "" {
			s += fmt.Sprintf(" Expected '%s', but found '%s'.", d.Expected, d.Found)
		}
		return s
	case PhaseSemantic:
		return fmt.Sprintf("Semantic Error: %s at line %d, position %d.", d.Message, d.Line, d.Column)
	}
	return d.Message
}
