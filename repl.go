package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/sergev/hashlang/internal/config"
	"github.com/sergev/hashlang/lang"
	"github.com/sergev/hashlang/parser"
	"github.com/sergev/hashlang/runtime"
)

const (
	// stdinName is the file name REPL input is reported under.
	stdinName = "<stdin>"

	continuationPrompt = "...... "

	// maxExcerptWidth bounds the source line shown in interactive diagnostics.
	maxExcerptWidth = 120
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
)

func runREPL(cfg config.Config, logger *slog.Logger) error {
	if !isInteractive() {
		stdin := bufio.NewReader(os.Stdin)
		in := runtime.New(runtime.NewConsole(stdin, os.Stdout), runtime.WithLogger(logger))
		return runBufferedREPL(in, stdin, os.Stdout, os.Stderr)
	}
	in := runtime.New(runtime.NewStdConsole(), runtime.WithLogger(logger))
	return runInteractiveREPL(in, cfg, logger)
}

// evalInput runs one complete unit of REPL input and returns the text to
// print for its value, or "" when there is nothing to show.
func evalInput(in *runtime.Interpreter, src string) (string, error) {
	val, err := in.Run(stdinName, src)
	if err != nil {
		return "", err
	}
	return resultText(val), nil
}

// resultText renders a program result. A single statement shows its own
// value; several show the list of their values.
func resultText(val lang.Value) string {
	if val.Type != lang.TypeList {
		return val.String()
	}
	elems := val.List().Elements
	switch len(elems) {
	case 0:
		return ""
	case 1:
		return elems[0].String()
	default:
		return val.String()
	}
}

// runBufferedREPL evaluates input read from a pipe or file. Statements that
// continue on the following lines are collected before evaluation.
func runBufferedREPL(in *runtime.Interpreter, reader *bufio.Reader, out, errOut io.Writer) error {
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		atEOF := errors.Is(err, io.EOF)
		if err != nil && !atEOF {
			return errors.Wrap(err, "read input")
		}
		buffer.WriteString(line)

		src := buffer.String()
		if strings.TrimSpace(src) == "" {
			buffer.Reset()
			if atEOF {
				return nil
			}
			continue
		}

		text, evalErr := evalInput(in, src)
		switch {
		case evalErr != nil && parser.IsIncomplete(evalErr) && !atEOF:
			continue
		case evalErr != nil:
			fmt.Fprintln(errOut, evalErr.Error())
		case text != "":
			fmt.Fprintln(out, text)
		}
		buffer.Reset()
		if atEOF {
			return nil
		}
	}
}

func runInteractiveREPL(in *runtime.Interpreter, cfg config.Config, logger *slog.Logger) error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completer(in))
	fmt.Println(banner())

	if historyPath := cfg.HistoryPath(); historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			if _, err := state.ReadHistory(f); err != nil {
				logger.Warn("failed to read history", "path", historyPath, "error", err)
			}
			f.Close()
		}
		defer func() {
			f, err := os.Create(historyPath)
			if err != nil {
				logger.Warn("failed to save history", "path", historyPath, "error", err)
				return
			}
			defer f.Close()
			if _, err := state.WriteHistory(f); err != nil {
				logger.Warn("failed to save history", "path", historyPath, "error", err)
			}
		}()
	}

	var buffer strings.Builder

	for {
		prompt := cfg.Prompt
		if buffer.Len() > 0 {
			prompt = continuationPrompt
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return nil
			default:
				return errors.Wrap(err, "read input")
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if strings.TrimSpace(src) == "" {
			buffer.Reset()
			continue
		}

		text, evalErr := evalInput(in, src)
		if evalErr != nil && parser.IsIncomplete(evalErr) {
			continue
		}
		buffer.Reset()
		state.AppendHistory(strings.TrimSpace(src))

		if evalErr != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(truncateExcerpt(evalErr.Error(), maxExcerptWidth)))
			continue
		}
		if text != "" {
			fmt.Println(text)
		}
	}
}

// truncateExcerpt shortens the trailing source line of a diagnostic.
func truncateExcerpt(diag string, width int) string {
	idx := strings.LastIndexByte(diag, '\n')
	if idx < 0 {
		return diag
	}
	return diag[:idx+1] + ansi.Truncate(diag[idx+1:], width, "…")
}

// completer offers keywords and names bound in the global environment for
// the identifier under the cursor.
func completer(in *runtime.Interpreter) liner.Completer {
	return func(line string) []string {
		start := len(line)
		for start > 0 && isIdentChar(line[start-1]) {
			start--
		}
		prefix := line[start:]
		if prefix == "" {
			return nil
		}
		var out []string
		for _, name := range append(parser.Keywords(), in.Globals().Names()...) {
			if strings.HasPrefix(name, prefix) {
				out = append(out, line[:start]+name)
			}
		}
		return out
	}
}

func isIdentChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// banner is shown once when the interactive prompt starts.
func banner() string {
	return promptStyle.Render("hash") + " interactive prompt, press Ctrl-D to exit"
}
