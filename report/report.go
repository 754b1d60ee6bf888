// Package report builds the serializable result payloads the presentation
// layer consumes: token listings (detailed or grouped), parse trees, and full
// analysis results. Each payload carries every diagnostic from its phase,
// never just the first.
package report

import (
	"github.com/google/uuid"
	"github.com/shaahdmaansour/miniSQLCompiler/analyzer"
	"github.com/shaahdmaansour/miniSQLCompiler/compiler"
)

// Mode selects between the full token listing and the grouped summary.
type Mode string

const (
	ModeDetailed Mode = "detailed"
	ModeGeneral  Mode = "general"
)

// maxGroupExamples caps the example lexemes kept per token group.
const maxGroupExamples = 5

// Error is one diagnostic in payload form.
type Error struct {
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"col"`
	Expected string `json:"expected,omitempty"`
	Found    string `json:"found,omitempty"`
}

func toErrors(diags []compiler.Diagnostic) []Error {
	out := make([]Error, 0, len(diags))
	for _, d := range diags {
		out = append(out, Error{
			Message:  d.Message,
			Line:     d.Line,
			Column:   d.Column,
			Expected: d.Expected,
			Found:    d.Found,
		})
	}
	return out
}

// TokenInfo is one token in payload form.
type TokenInfo struct {
	Type   string `json:"type"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// TokenGroup is one of the five fixed categories of the general mode.
type TokenGroup struct {
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

// TokenizeResult is the tokenize operation's payload.
type TokenizeResult struct {
	ID      string                `json:"id"`
	Success bool                  `json:"success"`
	Mode    Mode                  `json:"mode"`
	Tokens  []TokenInfo           `json:"tokens,omitempty"`
	Count   int                   `json:"count,omitempty"`
	Groups  map[string]TokenGroup `json:"groups,omitempty"`
	Total   int                   `json:"total,omitempty"`
	Errors  []Error               `json:"errors,omitempty"`
}

// groupNames are the five fixed categories, in presentation order.
var groupNames = []string{"Keywords", "Identifiers", "Literals", "Operators", "Delimiters"}

// Pipeline runs the three phases with front-end settings applied. The zero
// value uses the parser defaults.
type Pipeline struct {
	// MaxExprDepth caps nested parenthesized expressions; 0 keeps the
	// parser's default.
	MaxExprDepth int
}

func (p Pipeline) parse(tokens []compiler.Token) (*compiler.Node, []compiler.Diagnostic) {
	pr := compiler.NewParser(tokens)
	if p.MaxExprDepth > 0 {
		pr.SetMaxDepth(p.MaxExprDepth)
	}
	return pr.Parse()
}

// Tokenize scans source and reports the tokens in the requested mode. The
// EOF sentinel is not listed.
func Tokenize(source string, mode Mode) *TokenizeResult {
	tokens, errs := compiler.Tokenize(source)
	res := &TokenizeResult{
		ID:      uuid.NewString(),
		Success: len(errs) == 0,
		Mode:    mode,
		Errors:  toErrors(errs),
	}
	detailed := make([]TokenInfo, 0, len(tokens))
	for _, t := range tokens {
		if t.KindName() == "EOF" {
			continue
		}
		detailed = append(detailed, TokenInfo{
			Type:   t.KindName(),
			Lexeme: t.Lexeme,
			Line:   t.Line,
			Column: t.Column,
		})
	}
	if mode != ModeGeneral {
		res.Mode = ModeDetailed
		res.Tokens = detailed
		res.Count = len(detailed)
		return res
	}

	groups := map[string]TokenGroup{}
	for _, name := range groupNames {
		groups[name] = TokenGroup{Examples: []string{}}
	}
	for _, t := range tokens {
		var name string
		switch {
		case t.IsKeyword():
			name = "Keywords"
		case t.KindName() == "IDENTIFIER":
			name = "Identifiers"
		case t.IsLiteral():
			name = "Literals"
		case t.IsOperator():
			name = "Operators"
		case t.IsDelimiter():
			name = "Delimiters"
		default:
			continue
		}
		g := groups[name]
		g.Count++
		if len(g.Examples) < maxGroupExamples {
			g.Examples = append(g.Examples, t.Lexeme)
		}
		groups[name] = g
		res.Total++
	}
	res.Groups = groups
	return res
}

// ParseResult is the parse operation's payload. The root Query node is
// always present, possibly partial when syntax errors occurred.
type ParseResult struct {
	ID        string         `json:"id"`
	Success   bool           `json:"success"`
	ParseTree *compiler.Node `json:"parseTree"`
	Errors    []Error        `json:"errors,omitempty"`
}

// Parse tokenizes and parses source with default settings.
func Parse(source string) *ParseResult {
	return Pipeline{}.Parse(source)
}

// Parse tokenizes and parses source. Lexical and syntax diagnostics are
// surfaced together, in phase order.
func (p Pipeline) Parse(source string) *ParseResult {
	tokens, lexErrs := compiler.Tokenize(source)
	tree, parseErrs := p.parse(tokens)
	errs := append(lexErrs, parseErrs...)
	return &ParseResult{
		ID:        uuid.NewString(),
		Success:   len(errs) == 0,
		ParseTree: tree,
		Errors:    toErrors(errs),
	}
}

// AnalyzeResult is the analyze operation's payload.
type AnalyzeResult struct {
	ID            string         `json:"id"`
	Success       bool           `json:"success"`
	SymbolTable   string         `json:"symbolTable"`
	AnnotatedTree *compiler.Node `json:"annotatedTree"`
	Errors        []Error        `json:"errors,omitempty"`
}

// Analyze runs all three phases over source with default settings.
func Analyze(source string) *AnalyzeResult {
	return Pipeline{}.Analyze(source)
}

// Analyze runs all three phases over source with a fresh catalog. The parse
// tree is fed to the analyzer even when earlier phases reported errors, so
// whatever resolved stays inspectable.
func (p Pipeline) Analyze(source string) *AnalyzeResult {
	tokens, lexErrs := compiler.Tokenize(source)
	tree, parseErrs := p.parse(tokens)
	cat, annotated, semErrs := analyzer.Analyze(tree)
	errs := append(append(lexErrs, parseErrs...), semErrs...)
	return &AnalyzeResult{
		ID:            uuid.NewString(),
		Success:       len(errs) == 0,
		SymbolTable:   cat.String(),
		AnnotatedTree: annotated,
		Errors:        toErrors(errs),
	}
}
