package compiler

import "unicode/utf8"

// lexer creates positioned tokens from a miniSQL string. The tokens are fed
// into the parser. Invalid characters are reported and skipped; an unclosed
// string or block comment corrupts the remaining character stream, so either
// one stops scanning.

type lexer struct {
	src    string
	pos    int
	line   int
	column int

	tokens []Token
	errs   []Diagnostic
}

func NewLexer(src string) *lexer {
	return &lexer{src: src, line: 1, column: 1}
}

// Tokenize scans src left to right and returns the token sequence and any
// lexical diagnostics. The final token is always tkEOF, even after errors.
func Tokenize(src string) ([]Token, []Diagnostic) {
	return NewLexer(src).Lex()
}

func (l *lexer) Lex() ([]Token, []Diagnostic) {
	for !l.atEnd() {
		l.skipWhitespace()
		if l.atEnd() {
			break
		}
		if !l.scanToken() {
			break
		}
	}
	l.tokens = append(l.tokens, Token{Kind: tkEOF, Line: l.line, Column: l.column})
	return l.tokens, l.errs
}

// scanToken scans a single token or comment at the cursor. It reports false
// when scanning cannot continue (unclosed string or comment).
func (l *lexer) scanToken() bool {
	r := l.peek(0)
	switch {
	case r == '-' && l.peek(1) == '-':
		l.skipLineComment()
	case r == '#' && l.peek(1) == '#':
		return l.skipBlockComment()
	case r == '\'':
		return l.scanString()
	case isLetter(r):
		l.scanWord()
	case isDigit(r):
		l.scanNumber()
	default:
		l.scanSymbol()
	}
	return true
}

func (l *lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// advance moves the cursor one character, maintaining the line and column
// counters. A newline resets column and increments line. The cursor moves a
// whole rune at a time so columns count characters, not bytes.
func (l *lexer) advance() {
	if l.peek(0) == '\n' {
		l.line++
		l.column = 1
		l.pos++
		return
	}
	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	l.column++
}

func (l *lexer) skipWhitespace() {
	for !l.atEnd() && isSpace(l.peek(0)) {
		l.advance()
	}
}

func (l *lexer) skipLineComment() {
	for !l.atEnd() && l.peek(0) != '\n' {
		l.advance()
	}
}

// skipBlockComment skips from an opening ## to the matching closing ##. If
// input ends first the diagnostic points at the opening ## and scanning
// stops.
func (l *lexer) skipBlockComment() bool {
	startLine, startCol := l.line, l.column
	l.advance()
	l.advance()
	for !l.atEnd() {
		if l.peek(0) == '#' && l.peek(1) == '#' {
			l.advance()
			l.advance()
			return true
		}
		l.advance()
	}
	l.errs = append(l.errs, Diagnostic{
		Phase:   PhaseLexical,
		Code:    CodeUnclosedComment,
		Message: "unclosed comment",
		Line:    startLine,
		Column:  startCol,
	})
	return false
}

// scanString accumulates characters between single quotes. The closing quote
// must appear on the same line; otherwise the diagnostic points at the
// opening quote and scanning stops.
func (l *lexer) scanString() bool {
	startLine, startCol := l.line, l.column
	start := l.pos
	l.advance()
	for !l.atEnd() && l.peek(0) != '\n' {
		if l.peek(0) == '\'' {
			l.advance()
			l.emit(tkString, l.src[start:l.pos], startLine, startCol)
			return true
		}
		l.advance()
	}
	l.errs = append(l.errs, Diagnostic{
		Phase:   PhaseLexical,
		Code:    CodeUnclosedString,
		Message: "unclosed string",
		Line:    startLine,
		Column:  startCol,
	})
	return false
}

func (l *lexer) scanWord() {
	startLine, startCol := l.line, l.column
	start := l.pos
	for !l.atEnd() && (isLetter(l.peek(0)) || isDigit(l.peek(0)) || l.peek(0) == '_') {
		l.advance()
	}
	word := l.src[start:l.pos]
	kind, ok := keywords[word]
	if !ok {
		kind = tkIdentifier
	}
	l.emit(kind, word, startLine, startCol)
}

// scanNumber consumes [0-9]+(\.[0-9]+)?. The dot is consumed only when a
// digit follows, so a trailing dot is left to be reported as an invalid
// character.
func (l *lexer) scanNumber() {
	startLine, startCol := l.line, l.column
	start := l.pos
	for !l.atEnd() && isDigit(l.peek(0)) {
		l.advance()
	}
	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		l.advance()
		for !l.atEnd() && isDigit(l.peek(0)) {
			l.advance()
		}
	}
	l.emit(tkNumber, l.src[start:l.pos], startLine, startCol)
}

var singleSymbols = map[byte]tokenKind{
	'+': tkPlus,
	'-': tkMinus,
	'*': tkMultiply,
	'/': tkDivide,
	'=': tkEqual,
	'(': tkLeftParen,
	')': tkRightParen,
	',': tkComma,
	';': tkSemicolon,
}

// scanSymbol scans operators and punctuation. Two-character operators are
// matched greedily before their one-character prefixes. Anything unknown is
// an invalid character: reported, skipped, and scanning continues.
func (l *lexer) scanSymbol() {
	startLine, startCol := l.line, l.column
	c := l.peek(0)
	switch c {
	case '!':
		if l.peek(1) == '=' {
			l.advance()
			l.advance()
			l.emit(tkNotEqual, "!=", startLine, startCol)
			return
		}
	case '<':
		l.advance()
		if l.peek(0) == '=' {
			l.advance()
			l.emit(tkLessEqual, "<=", startLine, startCol)
			return
		}
		l.emit(tkLessThan, "<", startLine, startCol)
		return
	case '>':
		l.advance()
		if l.peek(0) == '=' {
			l.advance()
			l.emit(tkGreaterEqual, ">=", startLine, startCol)
			return
		}
		l.emit(tkGreaterThan, ">", startLine, startCol)
		return
	default:
		if kind, ok := singleSymbols[c]; ok {
			l.advance()
			l.emit(kind, string(c), startLine, startCol)
			return
		}
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	l.errs = append(l.errs, Diagnostic{
		Phase:   PhaseLexical,
		Code:    CodeInvalidCharacter,
		Message: "invalid character '" + string(r) + "'",
		Line:    startLine,
		Column:  startCol,
	})
	l.advance()
}

func (l *lexer) emit(kind tokenKind, lexeme string, line, column int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Lexeme: lexeme, Line: line, Column: column})
}

// IsTerminated reports whether src ends with a semicolon-terminated
// statement, ignoring trailing whitespace and comments. The REPL uses it to
// decide between executing input and prompting for a continuation line.
func IsTerminated(src string) bool {
	tokens, _ := Tokenize(src)
	if len(tokens) < 2 {
		return false
	}
	return tokens[len(tokens)-2].Kind == tkSemicolon
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
