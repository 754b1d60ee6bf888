package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaahdmaansour/miniSQLCompiler/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [source]",
	Short: "Run full semantic analysis over miniSQL source",
	Long: `Runs all three phases: scan, parse, and semantic analysis. Prints the
symbol table built from declarations, the annotated parse tree, and every
diagnostic across the phases.`,
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
		res := p.Analyze(src)
		if jsonOut {
			return printJSON(res)
		}
		printErrors(cfg.Color, res.Errors)
		fmt.Println(styled(cfg.Color, headerStyle, "Symbol Table"))
		fmt.Println(strings.TrimRight(res.SymbolTable, "\n"))
		fmt.Println(styled(cfg.Color, headerStyle, "Annotated Tree"))
		fmt.Println(strings.TrimRight(res.AnnotatedTree.String(), "\n"))
		printStatus(cfg.Color, res.Success, len(res.Errors))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
