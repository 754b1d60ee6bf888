package main

import (
	"os"

	"github.com/shaahdmaansour/miniSQLCompiler/cmd/minisqlc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
