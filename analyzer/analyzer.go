// Package analyzer walks a parse tree against a catalog of tables, resolving
// identifiers, checking redeclarations and types, and annotating resolved
// identifier nodes with their symbol and declared type. Statements are
// processed strictly in source order, so a table must be created before it is
// referenced. Diagnostics accumulate; one statement's findings never stop the
// analysis of its siblings.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/shaahdmaansour/miniSQLCompiler/catalog"
	"github.com/shaahdmaansour/miniSQLCompiler/compiler"
)

// Analyzer holds the catalog of one analysis run. A fresh Analyzer per run
// keeps independent runs safe to execute in parallel; a REPL session reuses
// one Analyzer so earlier CREATE statements stay visible.
type Analyzer struct {
	cat *catalog.Catalog
}

func New() *Analyzer {
	return &Analyzer{cat: catalog.NewCatalog()}
}

// Catalog returns the symbol table built so far.
func (a *Analyzer) Catalog() *catalog.Catalog {
	return a.cat
}

// Analyze validates and annotates a parse tree in one fresh run.
func Analyze(tree *compiler.Node) (*catalog.Catalog, *compiler.Node, []compiler.Diagnostic) {
	a := New()
	errs := a.Analyze(tree)
	return a.cat, tree, errs
}

// Analyze processes the Query's statement children in source order and
// returns this call's diagnostics. Annotations are attached in place; tree
// shape never changes.
func (a *Analyzer) Analyze(tree *compiler.Node) []compiler.Diagnostic {
	r := &run{cat: a.cat}
	if tree == nil || tree.Kind != compiler.NodeQuery {
		return nil
	}
	for _, stmt := range tree.Children {
		r.analyzeStatement(stmt)
	}
	return r.errs
}

// run collects the diagnostics of a single Analyze call.
type run struct {
	cat  *catalog.Catalog
	errs []compiler.Diagnostic
}

func (r *run) errorf(code compiler.Code, line, column int, format string, args ...any) {
	r.errs = append(r.errs, compiler.Diagnostic{
		Phase:   compiler.PhaseSemantic,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
	})
}

func (r *run) analyzeStatement(stmt *compiler.Node) {
	switch stmt.Kind {
	case compiler.NodeCreateStmt:
		r.analyzeCreate(stmt)
	case compiler.NodeInsertStmt:
		r.analyzeInsert(stmt)
	case compiler.NodeSelectStmt:
		r.analyzeSelect(stmt)
	case compiler.NodeUpdateStmt:
		r.analyzeUpdate(stmt)
	case compiler.NodeDeleteStmt:
		r.analyzeDelete(stmt)
	}
}

func (r *run) analyzeCreate(stmt *compiler.Node) {
	name := stmt.Token
	if name == nil {
		return
	}
	if r.cat.HasTable(name.Lexeme) {
		r.errorf(compiler.CodeRedeclaration, name.Line, name.Column,
			"Table '%s' is already declared", name.Lexeme)
		return
	}
	table, err := r.cat.CreateTable(name.Lexeme)
	if err != nil {
		return
	}
	for _, def := range stmt.Children {
		if def.Kind != compiler.NodeColumnDef {
			continue
		}
		colName := def.Token
		colType := catalog.Unknown
		if len(def.Children) > 0 && def.Children[0].Kind == compiler.NodeType {
			colType = catalog.TypeFromName(def.Children[0].Token.Lexeme)
		}
		if err := table.AddColumn(colName.Lexeme, colType); err != nil {
			// duplicate column: first declaration wins
			r.errorf(compiler.CodeRedeclaration, colName.Line, colName.Column,
				"Column '%s' is already declared in table '%s'", colName.Lexeme, name.Lexeme)
			continue
		}
		def.Ann = &compiler.Annotation{
			Table:  name.Lexeme,
			Column: colName.Lexeme,
			Type:   colType,
		}
	}
}

func (r *run) analyzeInsert(stmt *compiler.Node) {
	table := r.lookupTable(stmt)
	if table == nil {
		return
	}
	var values *compiler.Node
	for _, c := range stmt.Children {
		if c.Kind == compiler.NodeValueList {
			values = c
			break
		}
	}
	if values == nil {
		return
	}
	cols := table.Columns()
	if len(values.Children) != len(cols) {
		at := stmt.Token
		if len(values.Children) > 0 {
			if t := firstTerminal(values.Children[0]); t != nil {
				at = t
			}
		}
		r.errorf(compiler.CodeArityMismatch, at.Line, at.Column,
			"Number of values (%d) does not match number of columns (%d) for table '%s'",
			len(values.Children), len(cols), table.Name())
		return
	}
	for i, val := range values.Children {
		if val.Kind != compiler.NodeLiteral || val.Token == nil {
			continue
		}
		col := cols[i]
		if !literalType(val.Token).AssignableTo(col.Type) {
			r.errorf(compiler.CodeTypeMismatch, val.Token.Line, val.Token.Column,
				"Type mismatch: Column '%s' is defined as %s, but a %s literal was provided for insertion",
				col.Name, col.Type, literalKindName(val.Token))
		}
	}
}

func (r *run) analyzeSelect(stmt *compiler.Node) {
	table := r.lookupTable(stmt)
	if table == nil {
		return
	}
	scope := []*catalog.Table{table}
	for _, c := range stmt.Children {
		switch c.Kind {
		case compiler.NodeColumnRefList:
			for _, col := range c.Children {
				if col.Kind == compiler.NodeColumnRef {
					r.resolveColumn(col, scope)
				}
			}
		case compiler.NodeWhereClause:
			r.analyzeWhere(c, scope)
		}
	}
}

func (r *run) analyzeUpdate(stmt *compiler.Node) {
	table := r.lookupTable(stmt)
	if table == nil {
		return
	}
	scope := []*catalog.Table{table}
	for _, c := range stmt.Children {
		switch c.Kind {
		case compiler.NodeAssignList:
			for _, assign := range c.Children {
				if assign.Kind == compiler.NodeAssign {
					r.analyzeAssign(assign, scope)
				}
			}
		case compiler.NodeWhereClause:
			r.analyzeWhere(c, scope)
		}
	}
}

func (r *run) analyzeDelete(stmt *compiler.Node) {
	table := r.lookupTable(stmt)
	if table == nil {
		return
	}
	for _, c := range stmt.Children {
		if c.Kind == compiler.NodeWhereClause {
			r.analyzeWhere(c, []*catalog.Table{table})
		}
	}
}

// lookupTable resolves the table named by the statement's own token,
// reporting TableNotFound when the catalog has no such table.
func (r *run) lookupTable(stmt *compiler.Node) *catalog.Table {
	name := stmt.Token
	if name == nil {
		return nil
	}
	table := r.cat.Table(name.Lexeme)
	if table == nil {
		r.errorf(compiler.CodeTableNotFound, name.Line, name.Column,
			"Table '%s' does not exist", name.Lexeme)
	}
	return table
}

func (r *run) analyzeAssign(assign *compiler.Node, scope []*catalog.Table) {
	col := r.resolveColumn(assign, scope)
	if len(assign.Children) == 0 {
		return
	}
	exprType, ok := r.typeOf(assign.Children[0], scope)
	if !ok || col == nil {
		return
	}
	if !exprType.AssignableTo(col.Type) {
		at := assign.Token
		if t := firstTerminal(assign.Children[0]); t != nil {
			at = t
		}
		r.errorf(compiler.CodeTypeMismatch, at.Line, at.Column,
			"Type mismatch: Column '%s' is defined as %s, but a %s expression was assigned",
			col.Name, col.Type, exprType)
	}
}

func (r *run) analyzeWhere(where *compiler.Node, scope []*catalog.Table) {
	for _, c := range where.Children {
		r.analyzeCondition(c, scope)
	}
}

// analyzeCondition type-checks a boolean condition: AND/OR/NOT recurse, a
// comparison requires operand compatibility, and a bare expression is still
// typed so its identifiers resolve.
func (r *run) analyzeCondition(cond *compiler.Node, scope []*catalog.Table) {
	switch cond.Kind {
	case compiler.NodeOr, compiler.NodeAnd:
		for _, c := range cond.Children {
			r.analyzeCondition(c, scope)
		}
	case compiler.NodeNot:
		if len(cond.Children) > 0 {
			r.analyzeCondition(cond.Children[0], scope)
		}
	case compiler.NodeComparison:
		if len(cond.Children) != 2 {
			return
		}
		left, lok := r.typeOf(cond.Children[0], scope)
		right, rok := r.typeOf(cond.Children[1], scope)
		if lok && rok && !left.ComparableWith(right) {
			at := cond.Token
			if t := firstTerminal(cond.Children[1]); t != nil {
				at = t
			}
			r.errorf(compiler.CodeTypeMismatch, at.Line, at.Column,
				"Type mismatch in comparison: Cannot compare %s with %s", left, right)
		}
	default:
		r.typeOf(cond, scope)
	}
}

// typeOf infers the static type of an expression, resolving and annotating
// column references along the way. The bool result is false when the type is
// unknown because of an already-reported error.
func (r *run) typeOf(expr *compiler.Node, scope []*catalog.Table) (catalog.DataType, bool) {
	switch expr.Kind {
	case compiler.NodeLiteral:
		return literalType(expr.Token), true
	case compiler.NodeColumnRef:
		col := r.resolveColumn(expr, scope)
		if col == nil {
			return catalog.Unknown, false
		}
		return col.Type, true
	case compiler.NodeAdditive, compiler.NodeMultiplicative:
		left, lok := r.typeOf(expr.Children[0], scope)
		right, rok := r.typeOf(expr.Children[1], scope)
		if !lok || !rok {
			return catalog.Unknown, false
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			r.errorf(compiler.CodeTypeMismatch, expr.Token.Line, expr.Token.Column,
				"Type mismatch: Cannot apply arithmetic to %s and %s", left, right)
			return catalog.Unknown, false
		}
		if left == catalog.Float || right == catalog.Float {
			return catalog.Float, true
		}
		return catalog.Int, true
	}
	return catalog.Unknown, false
}

// resolveColumn resolves an identifier-bearing node against every table in
// scope. Exactly one owning table annotates the node; none reports
// ColumnNotFound; more than one reports AmbiguousColumn. The grammar
// currently puts a single table in scope per statement, but the resolution
// stays general so multi-table FROM lists would activate the ambiguity check
// unchanged.
func (r *run) resolveColumn(node *compiler.Node, scope []*catalog.Table) *catalog.Column {
	name := node.Token
	if name == nil || len(scope) == 0 {
		return nil
	}
	owners := r.cat.TablesWithColumn(scope, name.Lexeme)
	switch len(owners) {
	case 0:
		r.errorf(compiler.CodeColumnNotFound, name.Line, name.Column,
			"Column '%s' does not exist in table '%s'", name.Lexeme, scope[0].Name())
		return nil
	case 1:
		table := r.cat.Table(owners[0])
		col := table.Column(name.Lexeme)
		node.Ann = &compiler.Annotation{
			Table:  table.Name(),
			Column: col.Name,
			Type:   col.Type,
		}
		return col
	default:
		r.errorf(compiler.CodeAmbiguousColumn, name.Line, name.Column,
			"Column '%s' is ambiguous: it exists in multiple tables (%s). Use table.column format to disambiguate.",
			name.Lexeme, strings.Join(owners, ", "))
		return nil
	}
}

// literalType maps a literal token to its inferred type: a NUMBER without a
// decimal point satisfies INT, with one FLOAT, and a STRING is TEXT.
func literalType(t *compiler.Token) catalog.DataType {
	switch {
	case t.IsString():
		return catalog.Text
	case t.IsNumber():
		if strings.Contains(t.Lexeme, ".") {
			return catalog.Float
		}
		return catalog.Int
	}
	return catalog.Unknown
}

// literalKindName names a literal's kind for diagnostics: INT, FLOAT, or
// STRING.
func literalKindName(t *compiler.Token) string {
	if t.IsString() {
		return "STRING"
	}
	return literalType(t).String()
}

// firstTerminal returns the first token-bearing node at or below n, in
// depth-first order.
func firstTerminal(n *compiler.Node) *compiler.Token {
	if n == nil {
		return nil
	}
	if n.Token != nil {
		return n.Token
	}
	for _, c := range n.Children {
		if t := firstTerminal(c); t != nil {
			return t
		}
	}
	return nil
}
