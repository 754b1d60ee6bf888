package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shaahdmaansour/miniSQLCompiler/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive miniSQL session",
	Long: `Starts an interactive session. Statements are analyzed as they are
terminated with a semicolon, and tables declared earlier in the session
stay visible to later statements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		repl.New(cfg).Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
