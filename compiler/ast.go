package compiler

// The parse tree is a strict tree of tagged nodes: every node was produced by
// exactly one grammar rule application, a node exclusively owns its children,
// and there are no back references. Semantic analysis later attaches an
// annotation to resolved identifier nodes; that is the only post-construction
// mutation and it never changes tree shape.

import (
	"encoding/json"
	"strings"

	"github.com/shaahdmaansour/miniSQLCompiler/catalog"
)

// NodeKind is the closed tag identifying which grammar rule produced a node.
type NodeKind int

const (
	NodeQuery NodeKind = iota + 1
	NodeCreateStmt
	NodeColumnDef
	NodeType
	NodeInsertStmt
	NodeValueList
	NodeSelectStmt
	NodeColumnRefList
	NodeWhereClause
	NodeOr
	NodeAnd
	NodeNot
	NodeComparison
	NodeAdditive
	NodeMultiplicative
	NodeLiteral
	NodeColumnRef
	NodeUpdateStmt
	NodeAssignList
	NodeAssign
	NodeDeleteStmt
)

var nodeKindNames = map[NodeKind]string{
	NodeQuery:          "Query",
	NodeCreateStmt:     "CreateStmt",
	NodeColumnDef:      "ColumnDef",
	NodeType:           "TypeNode",
	NodeInsertStmt:     "InsertStmt",
	NodeValueList:      "ValueList",
	NodeSelectStmt:     "SelectStmt",
	NodeColumnRefList:  "ColumnRefList",
	NodeWhereClause:    "WhereClause",
	NodeOr:             "Or",
	NodeAnd:            "And",
	NodeNot:            "Not",
	NodeComparison:     "Comparison",
	NodeAdditive:       "Additive",
	NodeMultiplicative: "Multiplicative",
	NodeLiteral:        "Literal",
	NodeColumnRef:      "ColumnRef",
	NodeUpdateStmt:     "UpdateStmt",
	NodeAssignList:     "AssignList",
	NodeAssign:         "Assign",
	NodeDeleteStmt:     "DeleteStmt",
}

func (k NodeKind) String() string {
	if n, ok := nodeKindNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Annotation is the semantic information attached to a resolved identifier
// node: the owning table, the column, and the column's declared type.
type Annotation struct {
	Table  string
	Column string
	Type   catalog.DataType
}

// Node is one parse tree node.
//
// Token is set only on terminal-bearing nodes: statement nodes carry their
// table-name identifier, ColumnDef its column name, TypeNode its type
// keyword, Literal and ColumnRef their literal/identifier, Assign its target
// column, and binary expression nodes their operator.
type Node struct {
	Kind     NodeKind
	Token    *Token
	Children []*Node
	// Ann is attached by the semantic analyzer to resolved identifier nodes.
	Ann *Annotation
}

func newNode(kind NodeKind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

func newTerminal(kind NodeKind, t Token) *Node {
	return &Node{Kind: kind, Token: &t}
}

func (n *Node) addChild(c *Node) {
	if c != nil {
		n.Children = append(n.Children, c)
	}
}

// Walk visits n and every node below it in depth-first order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// String renders the tree as indented text, one node per line with the
// lexeme of terminal-bearing nodes in brackets.
func (n *Node) String() string {
	var b strings.Builder
	n.render(&b, 0)
	return b.String()
}

func (n *Node) render(b *strings.Builder, level int) {
	for i := 0; i < level; i++ {
		b.WriteString("  ")
	}
	b.WriteString(n.Kind.String())
	if n.Token != nil {
		b.WriteString(" [")
		b.WriteString(n.Token.Lexeme)
		b.WriteString("]")
	}
	if n.Ann != nil {
		b.WriteString(" {")
		b.WriteString(n.Ann.Table)
		b.WriteString(".")
		b.WriteString(n.Ann.Column)
		b.WriteString(": ")
		b.WriteString(n.Ann.Type.String())
		b.WriteString("}")
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		c.render(b, level+1)
	}
}

type nodeJSON struct {
	NodeType     string          `json:"nodeType"`
	Token        *tokenJSON      `json:"token,omitempty"`
	Children     []*Node         `json:"children"`
	SemanticInfo *annotationJSON `json:"semanticInfo,omitempty"`
}

type tokenJSON struct {
	Type   string `json:"type"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type annotationJSON struct {
	DataType       string          `json:"dataType"`
	SymbolTableRef *symbolTableRef `json:"symbolTableRef"`
}

type symbolTableRef struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// MarshalJSON serializes the node in the shape the presentation layer
// consumes: nodeType, optional token, children, and semanticInfo once the
// analyzer has annotated the node.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		NodeType: n.Kind.String(),
		Children: n.Children,
	}
	if out.Children == nil {
		out.Children = []*Node{}
	}
	if n.Token != nil {
		out.Token = &tokenJSON{
			Type:   n.Token.Kind.String(),
			Lexeme: n.Token.Lexeme,
			Line:   n.Token.Line,
			Column: n.Token.Column,
		}
	}
	if n.Ann != nil {
		out.SemanticInfo = &annotationJSON{
			DataType: n.Ann.Type.String(),
			SymbolTableRef: &symbolTableRef{
				Table:  n.Ann.Table,
				Column: n.Ann.Column,
			},
		}
	}
	return json.Marshal(out)
}
