package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaahdmaansour/miniSQLCompiler/config"
)

var (
	cfgFile string
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "minisqlc",
	Short: "miniSQL analyzer - tokens, parse trees, and semantic checks",
	Long: `minisqlc analyzes miniSQL source through three phases:

  tokenize - lexical analysis: positioned tokens or a grouped summary
  parse    - syntax analysis: recursive-descent parse tree with recovery
  analyze  - semantic analysis: symbol table, type checks, annotated tree

Input is taken from a file argument, a quoted argument, or stdin.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./minisqlc.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit the raw JSON payload")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// readSource resolves the command input: a readable file argument, the
// arguments themselves joined as source text, or stdin.
func readSource(args []string) (string, error) {
	if len(args) == 1 {
		if st, err := os.Stat(args[0]); err == nil && !st.IsDir() {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
