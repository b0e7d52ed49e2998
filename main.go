package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/kr/pretty"
	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sergev/hashlang/internal/config"
	"github.com/sergev/hashlang/parser"
	"github.com/sergev/hashlang/runtime"
)

// Options holds the command line flags.
type Options struct {
	Debug      bool
	ConfigPath string
	AST        bool
	Tokens     bool
}

func main() {
	var opts Options

	rootCmd := &cobra.Command{
		Use:   "hashlang [flags] [file]",
		Short: "Interpreter for the hash scripting language",
		Example: `  # Start the interactive prompt
  hashlang

  # Run a script
  hashlang script.hash

  # Show the parsed program instead of running it
  hashlang --ast script.hash`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger := newLogger(os.Stderr, cfg.Debug)
			slog.SetDefault(logger)

			if len(args) == 0 {
				if opts.AST || opts.Tokens {
					return errors.New("--ast and --tokens need a script argument")
				}
				return runREPL(cfg, logger)
			}
			if opts.AST || opts.Tokens {
				return dump(os.Stdout, args[0], opts)
			}
			return runScript(args[0], logger)
		},
	}

	rootCmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Path to the settings file (default $HOME/"+config.FileName+")")
	rootCmd.Flags().BoolVar(&opts.AST, "ast", false, "Print the parsed program and exit")
	rootCmd.Flags().BoolVar(&opts.Tokens, "tokens", false, "Print the token stream and exit")

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, opts Options) (config.Config, error) {
	path, explicit := opts.ConfigPath, cmd.Flags().Changed("config")
	if !explicit {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}
	if opts.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func runScript(path string, logger *slog.Logger) error {
	in := runtime.New(runtime.NewStdConsole(), runtime.WithLogger(logger))
	if path == "-" {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return errors.Wrap(err, "read standard input")
		}
		_, err = in.Run("<stdin>", string(src))
		return err
	}
	_, err := in.RunFile(path)
	return err
}

// dump prints the tokens or the syntax tree of the script at path.
func dump(w io.Writer, path string, opts Options) error {
	src, err := runtime.NewStdConsole().ReadFile(path)
	if err != nil {
		return err
	}
	if opts.Tokens {
		tokens, err := parser.Tokenize(path, string(src))
		if err != nil {
			return err
		}
		for _, tok := range tokens {
			fmt.Fprintf(w, "%s\t%s\n", tok.Span.Start.GoString(), tok)
		}
	}
	if opts.AST {
		node, err := parser.ParseString(path, string(src))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%# v\n", pretty.Formatter(node))
	}
	return nil
}
