// repl (read eval print loop) adapts the analysis pipeline to the command
// line. One analyzer lives for the whole session, so tables created in
// earlier inputs stay visible to later statements.
package repl

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/shaahdmaansour/miniSQLCompiler/analyzer"
	"github.com/shaahdmaansour/miniSQLCompiler/compiler"
	"github.com/shaahdmaansour/miniSQLCompiler/config"
)

const (
	// prompt is the prompt.
	prompt = "sql> "
	// promptContinued is the prompt when input is pending termination by a
	// semicolon.
	promptContinued = "...> "
)

type repl struct {
	analyzer *analyzer.Analyzer
	terminal *term.Terminal
	cfg      config.Config
	// showTokens toggles the token listing printed before each result.
	showTokens bool
	// showTree toggles the parse tree rendering.
	showTree bool
}

func New(cfg config.Config) *repl {
	r := &repl{
		analyzer: analyzer.New(),
		terminal: term.NewTerminal(os.Stdin, prompt),
		cfg:      cfg,
		showTree: true,
	}
	r.loadHistory()
	return r
}

func (r *repl) Run() {
	r.writeLn("Welcome to minisqlc. Type .help for commands, .exit to exit")

	// When the terminal is in raw mode kill signals arrive through readline
	// as bytes; otherwise this channel catches them. Both paths flush the
	// history file.
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		r.exitGracefully()
	}()

	previousInput := ""
	for {
		line := r.readLine(previousInput)
		input := previousInput + line
		if len(input) == 0 {
			continue
		}
		if input[0] == '.' {
			r.runCommand(input)
			continue
		}

		if !compiler.IsTerminated(input) {
			previousInput = input + "\n"
			continue
		}
		previousInput = ""
		r.evaluate(input)
	}
}

func (r *repl) runCommand(input string) {
	switch input {
	case ".exit":
		r.exitGracefully()
	case ".help":
		r.writeLn(".exit     leave the session")
		r.writeLn(".tokens   toggle token listing")
		r.writeLn(".tree     toggle parse tree output")
		r.writeLn(".symbols  print the session symbol table")
	case ".tokens":
		r.showTokens = !r.showTokens
	case ".tree":
		r.showTree = !r.showTree
	case ".symbols":
		r.writeLn(r.analyzer.Catalog().String())
	default:
		r.writeLn("Command not supported")
	}
}

// evaluate runs the three phases over one terminated input and prints the
// requested artifacts plus every diagnostic.
func (r *repl) evaluate(input string) {
	tokens, lexErrs := compiler.Tokenize(input)
	for _, d := range lexErrs {
		r.writeError(d.String())
	}
	if r.showTokens {
		for _, t := range tokens {
			if t.KindName() == "EOF" {
				continue
			}
			r.writeLn("Token: " + t.KindName() + ", Lexeme: " + t.Lexeme)
		}
	}

	p := compiler.NewParser(tokens)
	p.SetMaxDepth(r.cfg.MaxExprDepth)
	tree, parseErrs := p.Parse()
	for _, d := range parseErrs {
		r.writeError(d.String())
	}
	if r.showTree {
		r.writeLn(strings.TrimRight(tree.String(), "\n"))
	}

	semErrs := r.analyzer.Analyze(tree)
	for _, d := range semErrs {
		r.writeError(d.String())
	}
	if len(lexErrs)+len(parseErrs)+len(semErrs) == 0 {
		r.writeLn("OK")
	}
}

func (r *repl) readLine(previousInput string) string {
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		panic(err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)
	if previousInput == "" {
		r.terminal.SetPrompt(prompt)
	} else {
		r.terminal.SetPrompt(promptContinued)
	}
	line, err := r.terminal.ReadLine()
	if err != nil {
		if err == io.EOF {
			term.Restore(int(os.Stdin.Fd()), oldState)
			r.exitGracefully()
		}
		panic("err reading line: " + err.Error())
	}
	return line
}

func (r *repl) writeLn(text string) {
	r.terminal.Write(([]byte)(text + "\n"))
}

func (r *repl) writeError(text string) {
	r.terminal.Write(r.terminal.Escape.Red)
	r.writeLn(text)
	r.terminal.Write(r.terminal.Escape.Reset)
}

func (r *repl) writeWarning(text string) {
	r.terminal.Write(r.terminal.Escape.Yellow)
	r.writeLn(text)
	r.terminal.Write(r.terminal.Escape.Reset)
}

func (r *repl) exitGracefully() {
	r.saveHistory()
	os.Exit(0)
}

func (r *repl) loadHistory() {
	p, err := r.historyPath()
	if err != nil {
		r.writeWarning("failed to get history path " + err.Error())
		return
	}
	contents, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		r.writeWarning("failed to load history " + err.Error())
		return
	}
	lines := strings.Split((string)(contents), "\n")
	slices.Reverse(lines)
	for _, line := range lines {
		if line == "" {
			continue
		}
		r.terminal.History.Add(line)
	}
}

func (r *repl) saveHistory() {
	history := []byte{}
	for i := range r.terminal.History.Len() {
		entry := r.terminal.History.At(i)
		history = append(history, ([]byte)(entry+"\n")...)
	}
	p, err := r.historyPath()
	if err != nil {
		r.writeWarning("failed to get history path for saving " + err.Error())
		return
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		r.writeWarning("failed to open history file for saving " + err.Error())
		return
	}
	defer f.Close()
	if err := f.Truncate(0); err != nil {
		r.writeWarning("failed to overwrite history " + err.Error())
		return
	}
	if _, err := f.Write(history); err != nil {
		r.writeWarning("failed to write history " + err.Error())
	}
}

func (r *repl) historyPath() (string, error) {
	if strings.ContainsRune(r.cfg.HistoryFile, os.PathSeparator) {
		return r.cfg.HistoryFile, nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return dir + string(os.PathSeparator) + r.cfg.HistoryFile, nil
}
