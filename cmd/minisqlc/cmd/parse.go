package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaahdmaansour/miniSQLCompiler/report"
)

var parseCmd = &cobra.Command{
	Use:   "parse [source]",
	Short: "Parse miniSQL source into a tree",
	Long: `Tokenizes and parses the input, printing the parse tree as an indented
listing. On syntax errors the parser recovers at statement boundaries, so
the tree still shows every statement that parsed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		src, err := readSource(args)
		if err != nil {
			return err
		}
		p := report.Pipeline{MaxExprDepth: cfg.MaxExprDepth}
		res := p.Parse(src)
		if jsonOut {
			return printJSON(res)
		}
		printErrors(cfg.Color, res.Errors)
		fmt.Println(strings.TrimRight(res.ParseTree.String(), "\n"))
		printStatus(cfg.Color, res.Success, len(res.Errors))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
