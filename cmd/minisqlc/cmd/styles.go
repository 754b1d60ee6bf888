package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shaahdmaansour/miniSQLCompiler/report"
)

var (
	colorError   = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")
	colorHeader  = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")

	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// styled renders text through s unless color is disabled in the config.
func styled(enabled bool, s lipgloss.Style, text string) string {
	if !enabled {
		return text
	}
	return s.Render(text)
}

// printJSON writes the payload as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printErrors renders each diagnostic on its own line. The payload carries
// the bare message with line and column as separate fields, so the position
// clause is rendered here.
func printErrors(color bool, errs []report.Error) {
	for _, e := range errs {
		fmt.Println(styled(color, errorStyle, renderError(e)))
	}
}

func renderError(e report.Error) string {
	s := fmt.Sprintf("%s at line %d, position %d.", e.Message, e.Line, e.Column)
	if e.Expected != "" && e.Found != "" {
		s += fmt.Sprintf(" Expected '%s', but found '%s'.", e.Expected, e.Found)
	}
	return s
}

func printStatus(color bool, success bool, count int) {
	if success {
		fmt.Println(styled(color, successStyle, "OK"))
		return
	}
	fmt.Println(styled(color, errorStyle, fmt.Sprintf("%d error(s)", count)))
}

// printTokens renders the detailed token listing as an aligned table.
func printTokens(color bool, tokens []report.TokenInfo) {
	width := 0
	for _, t := range tokens {
		if len(t.Type) > width {
			width = len(t.Type)
		}
	}
	for _, t := range tokens {
		pos := fmt.Sprintf("line %d, col %d", t.Line, t.Column)
		fmt.Printf("%s  %-20s %s\n",
			styled(color, headerStyle, fmt.Sprintf("%-*s", width, t.Type)),
			t.Lexeme,
			styled(color, mutedStyle, pos))
	}
}

// printGroups renders the grouped summary in the fixed category order.
func printGroups(color bool, res *report.TokenizeResult) {
	for _, name := range []string{"Keywords", "Identifiers", "Literals", "Operators", "Delimiters"} {
		g, ok := res.Groups[name]
		if !ok {
			continue
		}
		examples := ""
		if len(g.Examples) > 0 {
			examples = styled(color, mutedStyle, "("+strings.Join(g.Examples, ", ")+")")
		}
		fmt.Printf("%s %d %s\n",
			styled(color, headerStyle, fmt.Sprintf("%-12s", name+":")), g.Count, examples)
	}
	fmt.Printf("%s %d\n", styled(color, headerStyle, "Total:      "), res.Total)
}
