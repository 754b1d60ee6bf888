package compiler

import (
	"strings"
	"testing"
)

func parseSource(t *testing.T, sql string) (*Node, []Diagnostic) {
	t.Helper()
	tokens, errs := Tokenize(sql)
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors %v", errs)
	}
	return Parse(tokens)
}

type parseTreeTestCase struct {
	name   string
	sql    string
	expect string
}

func TestParseTreeShape(t *testing.T) {
	cases := []parseTreeTestCase{
		{
			name: "create table",
			sql:  "CREATE TABLE users (id INT, name TEXT);",
			expect: `Query
  CreateStmt [users]
    ColumnDef [id]
      TypeNode [INT]
    ColumnDef [name]
      TypeNode [TEXT]
`,
		},
		{
			name: "insert",
			sql:  "INSERT INTO users VALUES (1, 'ada');",
			expect: `Query
  InsertStmt [users]
    ValueList
      Literal [1]
      Literal ['ada']
`,
		},
		{
			name: "boolean precedence",
			sql:  "SELECT id, name FROM users WHERE id >= 2 AND name != 'x' OR NOT id < 1;",
			expect: `Query
  SelectStmt [users]
    ColumnRefList
      ColumnRef [id]
      ColumnRef [name]
    WhereClause
      Or [OR]
        And [AND]
          Comparison [>=]
            ColumnRef [id]
            Literal [2]
          Comparison [!=]
            ColumnRef [name]
            Literal ['x']
        Not [NOT]
          Comparison [<]
            ColumnRef [id]
            Literal [1]
`,
		},
		{
			name: "arithmetic precedence",
			sql:  "UPDATE t SET a = 1 + 2 * 3;",
			expect: `Query
  UpdateStmt [t]
    AssignList
      Assign [a]
        Additive [+]
          Literal [1]
          Multiplicative [*]
            Literal [2]
            Literal [3]
`,
		},
		{
			name: "parentheses group",
			sql:  "DELETE FROM t WHERE (a + b) * 2 > 10;",
			expect: `Query
  DeleteStmt [t]
    WhereClause
      Comparison [>]
        Multiplicative [*]
          Additive [+]
            ColumnRef [a]
            ColumnRef [b]
          Literal [2]
        Literal [10]
`,
		},
		{
			name: "bare literal condition has no wrappers",
			sql:  "SELECT a FROM t WHERE 1;",
			expect: `Query
  SelectStmt [t]
    ColumnRefList
      ColumnRef [a]
    WhereClause
      Literal [1]
`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree, errs := parseSource(t, c.sql)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors %v", errs)
			}
			if got := tree.String(); got != c.expect {
				t.Errorf("got:\n%s\nwant:\n%s", got, c.expect)
			}
		})
	}
}

func TestParseRecoversAtStatementBoundary(t *testing.T) {
	sql := "CREATE TABLE t (a INT);\nSELECT FROM t;\nINSERT INTO t VALUES (1);"
	tree, errs := parseSource(t, sql)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error got %v", errs)
	}
	want := "Syntax Error: Expected 'column name' at line 2, position 8. Expected 'column name', but found 'FROM'."
	if got := errs[0].String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	// the statements around the bad one still parse
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 statements got %d", len(tree.Children))
	}
	if tree.Children[0].Kind != NodeCreateStmt || tree.Children[1].Kind != NodeInsertStmt {
		t.Errorf("got kinds %v, %v", tree.Children[0].Kind, tree.Children[1].Kind)
	}
}

func TestParseMissingSemicolonResyncsOnKeyword(t *testing.T) {
	tree, errs := parseSource(t, "SELECT a FROM t SELECT b FROM t;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error got %v", errs)
	}
	if errs[0].Expected != ";" || errs[0].Found != "SELECT" {
		t.Errorf("got expected=%q found=%q", errs[0].Expected, errs[0].Found)
	}
	if len(tree.Children) != 2 {
		t.Errorf("expected both statements, got %d", len(tree.Children))
	}
}

func TestParseTrailingSemicolonOptional(t *testing.T) {
	tree, errs := parseSource(t, "SELECT a FROM t")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if len(tree.Children) != 1 {
		t.Errorf("expected 1 statement got %d", len(tree.Children))
	}
}

func TestParseUnexpectedLeadingToken(t *testing.T) {
	tree, errs := parseSource(t, "FROM t;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error got %v", errs)
	}
	want := "Syntax Error: Unexpected token at line 1, position 1."
	if got := errs[0].String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected empty query got %d children", len(tree.Children))
	}
}

// parsing must terminate even when every statement fails at its first or
// second token and recovery has nothing to consume but the keywords
// themselves.
func TestParseAlwaysTerminates(t *testing.T) {
	tree, errs := parseSource(t, "CREATE CREATE CREATE;")
	if len(tree.Children) != 0 {
		t.Errorf("expected no statements got %d", len(tree.Children))
	}
	if len(errs) != 3 {
		t.Errorf("expected 3 errors got %d", len(errs))
	}
}

func TestParseNestingCap(t *testing.T) {
	tokens, _ := Tokenize("SELECT a FROM t WHERE ((((1))));")
	p := NewParser(tokens)
	p.SetMaxDepth(3)
	_, errs := p.Parse()
	if len(errs) == 0 {
		t.Fatal("expected a nesting error")
	}
	if errs[0].Message != "Expression nesting too deep" {
		t.Errorf("got %q", errs[0].Message)
	}

	// the default cap allows the same input
	tree, errs := Parse(tokens)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if !strings.Contains(tree.String(), "Literal [1]") {
		t.Errorf("got:\n%s", tree.String())
	}
}
