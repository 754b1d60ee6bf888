// Package compiler performs the three analysis phases over miniSQL source:
// lexical analysis producing tokens, syntax analysis producing a parse tree,
// and the shared diagnostic values both phases report.
package compiler

type tokenKind int

// token kinds. Each keyword is its own kind so the parser can match on the
// kind alone without re-inspecting lexemes.
const (
	// keywords
	tkSelect tokenKind = iota + 1
	tkFrom
	tkWhere
	tkInsert
	tkInto
	tkValues
	tkUpdate
	tkSet
	tkDelete
	tkCreate
	tkTable
	tkInt
	tkFloat
	tkText
	tkAnd
	tkOr
	tkNot
	// identifiers and literals
	tkIdentifier
	tkNumber
	tkString
	// operators
	tkEqual
	tkNotEqual
	tkLessThan
	tkGreaterThan
	tkLessEqual
	tkGreaterEqual
	tkPlus
	tkMinus
	tkMultiply
	tkDivide
	// punctuation
	tkLeftParen
	tkRightParen
	tkComma
	tkSemicolon
	// tkEOF is the sentinel final token. It is always present so the parser
	// never reads past the end of the sequence.
	tkEOF
	// tkError marks a lexeme the scanner could not classify. It never reaches
	// the parser; the scanner reports a diagnostic and resumes.
	tkError
)

var tokenKindNames = map[tokenKind]string{
	tkSelect:       "SELECT",
	tkFrom:         "FROM",
	tkWhere:        "WHERE",
	tkInsert:       "INSERT",
	tkInto:         "INTO",
	tkValues:       "VALUES",
	tkUpdate:       "UPDATE",
	tkSet:          "SET",
	tkDelete:       "DELETE",
	tkCreate:       "CREATE",
	tkTable:        "TABLE",
	tkInt:          "INT",
	tkFloat:        "FLOAT",
	tkText:         "TEXT",
	tkAnd:          "AND",
	tkOr:           "OR",
	tkNot:          "NOT",
	tkIdentifier:   "IDENTIFIER",
	tkNumber:       "NUMBER",
	tkString:       "STRING",
	tkEqual:        "EQUAL",
	tkNotEqual:     "NOT_EQUAL",
	tkLessThan:     "LESS_THAN",
	tkGreaterThan:  "GREATER_THAN",
	tkLessEqual:    "LESS_EQUAL",
	tkGreaterEqual: "GREATER_EQUAL",
	tkPlus:         "PLUS",
	tkMinus:        "MINUS",
	tkMultiply:     "MULTIPLY",
	tkDivide:       "DIVIDE",
	tkLeftParen:    "LPAR",
	tkRightParen:   "RPAR",
	tkComma:        "COMMA",
	tkSemicolon:    "SEMICOLON",
	tkEOF:          "EOF",
	tkError:        "ERROR",
}

func (k tokenKind) String() string {
	if n, ok := tokenKindNames[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// keywords maps the 17 reserved words to their kinds. Lookup is
// case-sensitive: "select" is an identifier, "SELECT" is a keyword.
var keywords = map[string]tokenKind{
	"SELECT": tkSelect,
	"FROM":   tkFrom,
	"WHERE":  tkWhere,
	"INSERT": tkInsert,
	"INTO":   tkInto,
	"VALUES": tkValues,
	"UPDATE": tkUpdate,
	"SET":    tkSet,
	"DELETE": tkDelete,
	"CREATE": tkCreate,
	"TABLE":  tkTable,
	"INT":    tkInt,
	"FLOAT":  tkFloat,
	"TEXT":   tkText,
	"AND":    tkAnd,
	"OR":     tkOr,
	"NOT":    tkNot,
}

// Token is an immutable positioned lexeme produced by the scanner. Line and
// Column are 1 based and Column is the position of the first character.
type Token struct {
	Kind   tokenKind
	Lexeme string
	Line   int
	Column int
}

// Kinds that may begin a statement. The parser also uses these as
// synchronizing tokens during panic-mode recovery.
var statementKinds = []tokenKind{tkCreate, tkInsert, tkSelect, tkUpdate, tkDelete}

func (t Token) isStatementStart() bool {
	for _, k := range statementKinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// found renders the token for "but found '...'" diagnostic clauses.
func (t Token) found() string {
	if t.Lexeme != "" {
		return t.Lexeme
	}
	return t.Kind.String()
}

// Token groups used by the general token report. A token falls in exactly
// one group.
func (t Token) IsKeyword() bool  { return t.Kind >= tkSelect && t.Kind <= tkNot }
func (t Token) IsLiteral() bool  { return t.Kind == tkNumber || t.Kind == tkString }
func (t Token) IsOperator() bool { return t.Kind >= tkEqual && t.Kind <= tkDivide }
func (t Token) IsDelimiter() bool {
	return t.Kind >= tkLeftParen && t.Kind <= tkSemicolon
}

func (t Token) IsNumber() bool { return t.Kind == tkNumber }
func (t Token) IsString() bool { return t.Kind == tkString }

// KindName exposes the token kind name for presentation layers.
func (t Token) KindName() string { return t.Kind.String() }
