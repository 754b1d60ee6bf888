package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shaahdmaansour/miniSQLCompiler/report"
)

var tokenizeMode string

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [source]",
	Short: "Scan miniSQL source into tokens",
	Long: `Scans the input and prints every token with its position, or a grouped
summary of keyword, identifier, literal, operator, and delimiter counts
when --mode general is given. Lexical errors are printed but do not stop
the scan unless a string or block comment is left unclosed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		src, err := readSource(args)
		if err != nil {
			return err
		}
		mode := report.Mode(cfg.Mode)
		if cmd.Flags().Changed("mode") {
			mode = report.Mode(tokenizeMode)
		}
		res := report.Tokenize(src, mode)
		if jsonOut {
			return printJSON(res)
		}
		printErrors(cfg.Color, res.Errors)
		if res.Mode == report.ModeGeneral {
			printGroups(cfg.Color, res)
		} else {
			printTokens(cfg.Color, res.Tokens)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	tokenizeCmd.Flags().StringVar(&tokenizeMode, "mode", "detailed", "token listing mode: detailed or general")
}
