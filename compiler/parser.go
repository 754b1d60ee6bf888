package compiler

// parser takes tokens from the lexer and produces a parse tree. One parse
// method per grammar nonterminal; the read cursor only moves forward, except
// single-token peeks for disambiguation. Syntax errors are recorded as
// diagnostics and recovered with panic mode: tokens are discarded up to a
// semicolon or a statement-leading keyword, then statement parsing resumes.
// Recovery always advances the cursor, so parsing terminates on any input.

import (
	"errors"
	"fmt"
)

// defaultMaxDepth bounds nested parenthesized expressions so adversarial
// input cannot blow the stack.
const defaultMaxDepth = 200

// errSync unwinds a failed production back to the statement loop. The
// diagnostic has already been recorded when it is returned.
var errSync = errors.New("synchronize")

type parser struct {
	tokens   []Token
	pos      int
	errs     []Diagnostic
	maxDepth int
	depth    int
}

func NewParser(tokens []Token) *parser {
	return &parser{tokens: tokens, maxDepth: defaultMaxDepth}
}

// SetMaxDepth overrides the parenthesized-expression nesting cap.
func (p *parser) SetMaxDepth(n int) {
	if n > 0 {
		p.maxDepth = n
	}
}

// Parse builds a parse tree for the whole token sequence. The root Query
// node is always returned, possibly with fewer children than statements
// attempted.
func Parse(tokens []Token) (*Node, []Diagnostic) {
	return NewParser(tokens).Parse()
}

func (p *parser) Parse() (*Node, []Diagnostic) {
	root := newNode(NodeQuery)
	for p.cur().Kind != tkEOF {
		start := p.pos
		stmt, err := p.parseStatement()
		if err != nil {
			p.synchronize(start)
			continue
		}
		root.addChild(stmt)
		switch p.cur().Kind {
		case tkSemicolon:
			p.advance()
		case tkEOF:
			// trailing semicolon is optional
		default:
			p.expectFailed(";")
			p.synchronize(start)
		}
	}
	return root, p.errs
}

func (p *parser) cur() Token {
	if p.pos >= len(p.tokens) {
		// The scanner always emits a sentinel, but guard anyway.
		return Token{Kind: tkEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *parser) match(k tokenKind) bool {
	return p.cur().Kind == k
}

// expect consumes a token of the wanted kind or records an
// ExpectedTokenMissing diagnostic named by label and fails the production.
func (p *parser) expect(k tokenKind, label string) (Token, error) {
	if p.match(k) {
		t := p.cur()
		p.advance()
		return t, nil
	}
	p.expectFailed(label)
	return Token{}, errSync
}

func (p *parser) expectFailed(label string) {
	t := p.cur()
	p.errs = append(p.errs, Diagnostic{
		Phase:    PhaseSyntax,
		Code:     CodeExpectedTokenMissing,
		Message:  fmt.Sprintf("Expected '%s'", label),
		Line:     t.Line,
		Column:   t.Column,
		Expected: label,
		Found:    t.found(),
	})
}

// synchronize discards tokens until a semicolon (consumed) or a
// statement-leading keyword (left for the statement loop). start is the
// cursor position where the failed statement began; the cursor is forced
// forward when recovery would otherwise not move.
func (p *parser) synchronize(start int) {
	if p.pos == start && p.cur().Kind != tkEOF {
		p.advance()
	}
	for p.cur().Kind != tkEOF {
		if p.match(tkSemicolon) {
			p.advance()
			return
		}
		if p.cur().isStatementStart() {
			return
		}
		p.advance()
	}
}

func (p *parser) parseStatement() (*Node, error) {
	switch p.cur().Kind {
	case tkCreate:
		return p.parseCreate()
	case tkInsert:
		return p.parseInsert()
	case tkSelect:
		return p.parseSelect()
	case tkUpdate:
		return p.parseUpdate()
	case tkDelete:
		return p.parseDelete()
	}
	t := p.cur()
	p.errs = append(p.errs, Diagnostic{
		Phase:   PhaseSyntax,
		Code:    CodeUnexpectedToken,
		Message: "Unexpected token",
		Line:    t.Line,
		Column:  t.Column,
		Found:   t.found(),
	})
	return nil, errSync
}

// parseCreate parses CREATE TABLE name '(' ColumnDef (',' ColumnDef)* ')'.
// The statement node carries the table-name token.
func (p *parser) parseCreate() (*Node, error) {
	if _, err := p.expect(tkCreate, "CREATE"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tkTable, "TABLE"); err != nil {
		return nil, err
	}
	name, err := p.expect(tkIdentifier, "table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tkLeftParen, "("); err != nil {
		return nil, err
	}
	stmt := newTerminal(NodeCreateStmt, name)
	for {
		def, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.addChild(def)
		if !p.match(tkComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tkRightParen, ")"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseColumnDef() (*Node, error) {
	name, err := p.expect(tkIdentifier, "column name")
	if err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	def := newTerminal(NodeColumnDef, name)
	def.addChild(typ)
	return def, nil
}

func (p *parser) parseType() (*Node, error) {
	switch p.cur().Kind {
	case tkInt, tkFloat, tkText:
		t := p.cur()
		p.advance()
		return newTerminal(NodeType, t), nil
	}
	p.expectFailed("INT, FLOAT, or TEXT")
	return nil, errSync
}

// parseInsert parses INSERT INTO name VALUES '(' Literal (',' Literal)* ')'.
func (p *parser) parseInsert() (*Node, error) {
	if _, err := p.expect(tkInsert, "INSERT"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tkInto, "INTO"); err != nil {
		return nil, err
	}
	name, err := p.expect(tkIdentifier, "table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tkValues, "VALUES"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tkLeftParen, "("); err != nil {
		return nil, err
	}
	values := newNode(NodeValueList)
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		values.addChild(lit)
		if !p.match(tkComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tkRightParen, ")"); err != nil {
		return nil, err
	}
	stmt := newTerminal(NodeInsertStmt, name)
	stmt.addChild(values)
	return stmt, nil
}

func (p *parser) parseLiteral() (*Node, error) {
	switch p.cur().Kind {
	case tkNumber, tkString:
		t := p.cur()
		p.advance()
		return newTerminal(NodeLiteral, t), nil
	}
	p.expectFailed("NUMBER or STRING")
	return nil, errSync
}

// parseSelect parses SELECT col (',' col)* FROM name (WHERE Condition)?.
func (p *parser) parseSelect() (*Node, error) {
	if _, err := p.expect(tkSelect, "SELECT"); err != nil {
		return nil, err
	}
	cols := newNode(NodeColumnRefList)
	for {
		col, err := p.expect(tkIdentifier, "column name")
		if err != nil {
			return nil, err
		}
		cols.addChild(newTerminal(NodeColumnRef, col))
		if !p.match(tkComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tkFrom, "FROM"); err != nil {
		return nil, err
	}
	name, err := p.expect(tkIdentifier, "table name")
	if err != nil {
		return nil, err
	}
	stmt := newTerminal(NodeSelectStmt, name)
	stmt.addChild(cols)
	if p.match(tkWhere) {
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		stmt.addChild(where)
	}
	return stmt, nil
}

// parseUpdate parses UPDATE name SET Assign (',' Assign)* (WHERE Condition)?.
func (p *parser) parseUpdate() (*Node, error) {
	if _, err := p.expect(tkUpdate, "UPDATE"); err != nil {
		return nil, err
	}
	name, err := p.expect(tkIdentifier, "table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tkSet, "SET"); err != nil {
		return nil, err
	}
	assigns := newNode(NodeAssignList)
	for {
		assign, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		assigns.addChild(assign)
		if !p.match(tkComma) {
			break
		}
		p.advance()
	}
	stmt := newTerminal(NodeUpdateStmt, name)
	stmt.addChild(assigns)
	if p.match(tkWhere) {
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		stmt.addChild(where)
	}
	return stmt, nil
}

func (p *parser) parseAssign() (*Node, error) {
	col, err := p.expect(tkIdentifier, "column name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tkEqual, "="); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	assign := newTerminal(NodeAssign, col)
	assign.addChild(expr)
	return assign, nil
}

// parseDelete parses DELETE FROM name (WHERE Condition)?.
func (p *parser) parseDelete() (*Node, error) {
	if _, err := p.expect(tkDelete, "DELETE"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tkFrom, "FROM"); err != nil {
		return nil, err
	}
	name, err := p.expect(tkIdentifier, "table name")
	if err != nil {
		return nil, err
	}
	stmt := newTerminal(NodeDeleteStmt, name)
	if p.match(tkWhere) {
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		stmt.addChild(where)
	}
	return stmt, nil
}

func (p *parser) parseWhereClause() (*Node, error) {
	if _, err := p.expect(tkWhere, "WHERE"); err != nil {
		return nil, err
	}
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	where := newNode(NodeWhereClause)
	where.addChild(cond)
	return where, nil
}

// Conditions climb precedence bottom-up: OR is lowest, then AND, then NOT as
// a prefix, then comparison, then the arithmetic levels. Each binary level is
// left associative. A wrapper node is built only when its operator actually
// appears, so a lone literal is a Literal node, not five layers of wrappers.

func (p *parser) parseOr() (*Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(tkOr) {
		op := p.cur()
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		n := newTerminal(NodeOr, op)
		n.addChild(left)
		n.addChild(right)
		left = n
	}
	return left, nil
}

func (p *parser) parseAnd() (*Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.match(tkAnd) {
		op := p.cur()
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		n := newTerminal(NodeAnd, op)
		n.addChild(left)
		n.addChild(right)
		left = n
	}
	return left, nil
}

func (p *parser) parseNot() (*Node, error) {
	if p.match(tkNot) {
		op := p.cur()
		p.advance()
		operand, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		n := newTerminal(NodeNot, op)
		n.addChild(operand)
		return n, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (*Node, error) {
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	switch p.cur().Kind {
	case tkEqual, tkNotEqual, tkLessThan, tkGreaterThan, tkLessEqual, tkGreaterEqual:
		op := p.cur()
		p.advance()
		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n := newTerminal(NodeComparison, op)
		n.addChild(left)
		n.addChild(right)
		return n, nil
	}
	return left, nil
}

func (p *parser) parseExpression() (*Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.match(tkPlus) || p.match(tkMinus) {
		op := p.cur()
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		n := newTerminal(NodeAdditive, op)
		n.addChild(left)
		n.addChild(right)
		left = n
	}
	return left, nil
}

func (p *parser) parseTerm() (*Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.match(tkMultiply) || p.match(tkDivide) {
		op := p.cur()
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		n := newTerminal(NodeMultiplicative, op)
		n.addChild(left)
		n.addChild(right)
		left = n
	}
	return left, nil
}

func (p *parser) parseFactor() (*Node, error) {
	switch p.cur().Kind {
	case tkNumber, tkString:
		t := p.cur()
		p.advance()
		return newTerminal(NodeLiteral, t), nil
	case tkIdentifier:
		t := p.cur()
		p.advance()
		return newTerminal(NodeColumnRef, t), nil
	case tkLeftParen:
		t := p.cur()
		if p.depth >= p.maxDepth {
			p.errs = append(p.errs, Diagnostic{
				Phase:   PhaseSyntax,
				Code:    CodeUnexpectedToken,
				Message: "Expression nesting too deep",
				Line:    t.Line,
				Column:  t.Column,
			})
			return nil, errSync
		}
		p.advance()
		p.depth++
		expr, err := p.parseExpression()
		p.depth--
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tkRightParen, ")"); err != nil {
			return nil, err
		}
		return expr, nil
	}
	p.expectFailed("NUMBER, STRING, IDENTIFIER, or (")
	return nil, errSync
}
