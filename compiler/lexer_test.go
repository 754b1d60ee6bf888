package compiler

import (
	"reflect"
	"testing"
)

type lexTestCase struct {
	name     string
	sql      string
	expected []Token
}

func TestTokenize(t *testing.T) {
	cases := []lexTestCase{
		{
			name: "select with condition",
			sql:  "SELECT name FROM users WHERE age >= 18;",
			expected: []Token{
				{tkSelect, "SELECT", 1, 1},
				{tkIdentifier, "name", 1, 8},
				{tkFrom, "FROM", 1, 13},
				{tkIdentifier, "users", 1, 18},
				{tkWhere, "WHERE", 1, 24},
				{tkIdentifier, "age", 1, 30},
				{tkGreaterEqual, ">=", 1, 34},
				{tkNumber, "18", 1, 37},
				{tkSemicolon, ";", 1, 39},
				{tkEOF, "", 1, 40},
			},
		},
		{
			name: "insert with literals",
			sql:  "INSERT INTO t VALUES (1, 2.5, 'hi');",
			expected: []Token{
				{tkInsert, "INSERT", 1, 1},
				{tkInto, "INTO", 1, 8},
				{tkIdentifier, "t", 1, 13},
				{tkValues, "VALUES", 1, 15},
				{tkLeftParen, "(", 1, 22},
				{tkNumber, "1", 1, 23},
				{tkComma, ",", 1, 24},
				{tkNumber, "2.5", 1, 26},
				{tkComma, ",", 1, 29},
				{tkString, "'hi'", 1, 31},
				{tkRightParen, ")", 1, 35},
				{tkSemicolon, ";", 1, 36},
				{tkEOF, "", 1, 37},
			},
		},
		{
			name: "greedy two character operators",
			sql:  "a <= b >= c != d < e > f = g",
			expected: []Token{
				{tkIdentifier, "a", 1, 1},
				{tkLessEqual, "<=", 1, 3},
				{tkIdentifier, "b", 1, 6},
				{tkGreaterEqual, ">=", 1, 8},
				{tkIdentifier, "c", 1, 11},
				{tkNotEqual, "!=", 1, 13},
				{tkIdentifier, "d", 1, 16},
				{tkLessThan, "<", 1, 18},
				{tkIdentifier, "e", 1, 20},
				{tkGreaterThan, ">", 1, 22},
				{tkIdentifier, "f", 1, 24},
				{tkEqual, "=", 1, 26},
				{tkIdentifier, "g", 1, 28},
				{tkEOF, "", 1, 29},
			},
		},
		{
			name: "keywords are case sensitive",
			sql:  "select Select SELECT",
			expected: []Token{
				{tkIdentifier, "select", 1, 1},
				{tkIdentifier, "Select", 1, 8},
				{tkSelect, "SELECT", 1, 15},
				{tkEOF, "", 1, 21},
			},
		},
		{
			name: "comments are skipped",
			sql:  "SELECT -- trailing\n## a\nblock ## id FROM t;",
			expected: []Token{
				{tkSelect, "SELECT", 1, 1},
				{tkIdentifier, "id", 3, 10},
				{tkFrom, "FROM", 3, 13},
				{tkIdentifier, "t", 3, 18},
				{tkSemicolon, ";", 3, 19},
				{tkEOF, "", 3, 20},
			},
		},
		{
			name: "newline resets the column counter",
			sql:  "DELETE FROM t\nWHERE x = 1;",
			expected: []Token{
				{tkDelete, "DELETE", 1, 1},
				{tkFrom, "FROM", 1, 8},
				{tkIdentifier, "t", 1, 13},
				{tkWhere, "WHERE", 2, 1},
				{tkIdentifier, "x", 2, 7},
				{tkEqual, "=", 2, 9},
				{tkNumber, "1", 2, 11},
				{tkSemicolon, ";", 2, 12},
				{tkEOF, "", 2, 13},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tokens, errs := Tokenize(c.sql)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors %v", errs)
			}
			if !reflect.DeepEqual(tokens, c.expected) {
				t.Errorf("got %#v want %#v", tokens, c.expected)
			}
		})
	}
}

func TestTokenizeInvalidCharacter(t *testing.T) {
	tokens, errs := Tokenize("SELECT a@b FROM t;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error got %d", len(errs))
	}
	want := "Error: invalid character '@' at line 1, position 9."
	if got := errs[0].String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	// scanning continues past the bad character
	expected := []Token{
		{tkSelect, "SELECT", 1, 1},
		{tkIdentifier, "a", 1, 8},
		{tkIdentifier, "b", 1, 10},
		{tkFrom, "FROM", 1, 12},
		{tkIdentifier, "t", 1, 17},
		{tkSemicolon, ";", 1, 18},
		{tkEOF, "", 1, 19},
	}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("got %#v want %#v", tokens, expected)
	}
}

func TestTokenizeMultibyteColumns(t *testing.T) {
	// columns count characters, not bytes
	tokens, errs := Tokenize("'é' a")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	expected := []Token{
		{tkString, "'é'", 1, 1},
		{tkIdentifier, "a", 1, 5},
		{tkEOF, "", 1, 6},
	}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("got %#v want %#v", tokens, expected)
	}

	tokens, errs = Tokenize("## π ## a")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if tokens[0].Column != 9 {
		t.Errorf("got column %d want 9", tokens[0].Column)
	}
}

func TestTokenizeMultibyteInvalidCharacter(t *testing.T) {
	tokens, errs := Tokenize("a £ b")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error got %v", errs)
	}
	want := "Error: invalid character '£' at line 1, position 3."
	if got := errs[0].String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	expected := []Token{
		{tkIdentifier, "a", 1, 1},
		{tkIdentifier, "b", 1, 5},
		{tkEOF, "", 1, 6},
	}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("got %#v want %#v", tokens, expected)
	}
}

func TestTokenizeNumberTrailingDot(t *testing.T) {
	// the dot is consumed only when a digit follows, so "1." is the number 1
	// followed by an invalid character
	tokens, errs := Tokenize("1.")
	expected := []Token{
		{tkNumber, "1", 1, 1},
		{tkEOF, "", 1, 3},
	}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("got %#v want %#v", tokens, expected)
	}
	if len(errs) != 1 || errs[0].Code != CodeInvalidCharacter {
		t.Fatalf("expected invalid character error got %v", errs)
	}
	if errs[0].Column != 2 {
		t.Errorf("got column %d want 2", errs[0].Column)
	}
}

func TestTokenizeUnclosedString(t *testing.T) {
	tokens, errs := Tokenize("SELECT 'oops FROM t;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error got %d", len(errs))
	}
	want := "Error: unclosed string at line 1, position 8."
	if got := errs[0].String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	// scanning stops; only tokens before the string plus the sentinel remain
	if len(tokens) != 2 || tokens[0].Kind != tkSelect || tokens[1].Kind != tkEOF {
		t.Errorf("got %#v", tokens)
	}
}

func TestTokenizeUnclosedComment(t *testing.T) {
	_, errs := Tokenize("SELECT a FROM t;\n## never closed")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error got %d", len(errs))
	}
	// the error points at the opening ##
	want := "Error: unclosed comment at line 2, position 1."
	if got := errs[0].String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestTokenizeStringCannotSpanLines(t *testing.T) {
	_, errs := Tokenize("'line one\nline two'")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error got %d", len(errs))
	}
	if errs[0].Code != CodeUnclosedString {
		t.Errorf("got code %v want CodeUnclosedString", errs[0].Code)
	}
}

func TestTokenizeIsDeterministic(t *testing.T) {
	sql := "UPDATE t SET a = a + 1 WHERE b != 'x';"
	first, firstErrs := Tokenize(sql)
	second, secondErrs := Tokenize(sql)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("token streams differ: %#v vs %#v", first, second)
	}
	if !reflect.DeepEqual(firstErrs, secondErrs) {
		t.Errorf("error lists differ: %#v vs %#v", firstErrs, secondErrs)
	}
}

func TestIsTerminated(t *testing.T) {
	cases := []struct {
		sql  string
		want bool
	}{
		{"SELECT a FROM t;", true},
		{"SELECT a FROM t; -- trailing comment", true},
		{"SELECT a FROM t", false},
		{"", false},
		{"-- only a comment", false},
	}
	for _, c := range cases {
		if got := IsTerminated(c.sql); got != c.want {
			t.Errorf("IsTerminated(%q) = %v want %v", c.sql, got, c.want)
		}
	}
}
