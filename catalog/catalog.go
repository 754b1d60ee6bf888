// Package catalog holds the symbol table of a semantic-analysis run: the set
// of tables registered by CREATE statements, each owning its columns in
// declaration order.
package catalog

import (
	"fmt"
	"strings"
)

// DataType is a declared column type or an inferred literal/expression type.
type DataType int

const (
	Unknown DataType = iota
	Int
	Float
	Text
)

var dataTypeNames = map[DataType]string{
	Int:   "INT",
	Float: "FLOAT",
	Text:  "TEXT",
}

func (t DataType) String() string {
	if n, ok := dataTypeNames[t]; ok {
		return n
	}
	return "UNKNOWN"
}

// TypeFromName maps a type keyword lexeme to its DataType.
func TypeFromName(name string) DataType {
	switch name {
	case "INT":
		return Int
	case "FLOAT":
		return Float
	case "TEXT":
		return Text
	}
	return Unknown
}

// IsNumeric reports whether t is INT or FLOAT.
func (t DataType) IsNumeric() bool {
	return t == Int || t == Float
}

// AssignableTo reports whether a value of type t may be stored in a column
// declared as col. INT promotes to FLOAT; everything else must match exactly.
func (t DataType) AssignableTo(col DataType) bool {
	if col == Float {
		return t.IsNumeric()
	}
	return t == col
}

// ComparableWith reports whether t may be compared with other: numeric
// compares with numeric, otherwise the types must match.
func (t DataType) ComparableWith(other DataType) bool {
	if t.IsNumeric() && other.IsNumeric() {
		return true
	}
	return t == other
}

// Column is one declared column of a table.
type Column struct {
	Name string
	Type DataType
}

// Table owns an ordered set of columns. Column order is significant: INSERT
// values match columns positionally.
type Table struct {
	name    string
	columns []*Column
	index   map[string]*Column
}

func newTable(name string) *Table {
	return &Table{name: name, index: map[string]*Column{}}
}

func (t *Table) Name() string { return t.name }

// AddColumn appends a column. A duplicate name is rejected and the first
// declaration wins.
func (t *Table) AddColumn(name string, typ DataType) error {
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("column %s already declared", name)
	}
	c := &Column{Name: name, Type: typ}
	t.columns = append(t.columns, c)
	t.index[name] = c
	return nil
}

// Column returns the named column, or nil when the table has no such column.
func (t *Table) Column(name string) *Column {
	return t.index[name]
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column {
	return t.columns
}

func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// Catalog maps case-sensitive table names to tables, preserving registration
// order. It is scoped to one analysis run: created empty, tables added only
// by validated CREATE statements, never removed within the run.
type Catalog struct {
	tables []*Table
	index  map[string]*Table
}

func NewCatalog() *Catalog {
	return &Catalog{index: map[string]*Table{}}
}

// CreateTable registers a new empty table. It fails when the name is already
// taken; the existing table is kept.
func (c *Catalog) CreateTable(name string) (*Table, error) {
	if _, ok := c.index[name]; ok {
		return nil, fmt.Errorf("table %s already declared", name)
	}
	t := newTable(name)
	c.tables = append(c.tables, t)
	c.index[name] = t
	return t, nil
}

// Table returns the named table, or nil when it does not exist.
func (c *Catalog) Table(name string) *Table {
	return c.index[name]
}

func (c *Catalog) HasTable(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Tables returns the tables in registration order.
func (c *Catalog) Tables() []*Table {
	return c.tables
}

// TablesWithColumn returns, in registration order, the names of the tables in
// scope that declare the given column. The analyzer uses it to detect
// ambiguous column references when more than one table is in scope.
func (c *Catalog) TablesWithColumn(scope []*Table, column string) []string {
	var names []string
	for _, t := range scope {
		if t.HasColumn(column) {
			names = append(names, t.name)
		}
	}
	return names
}

// String dumps the catalog as the fixed symbol-table text rendering.
func (c *Catalog) String() string {
	var b strings.Builder
	b.WriteString("Symbol Table:")
	for _, t := range c.tables {
		b.WriteString(fmt.Sprintf("\n  Table: %s", t.name))
		for _, col := range t.columns {
			b.WriteString(fmt.Sprintf("\n    Column: %s: %s", col.Name, col.Type))
		}
	}
	return b.String()
}
