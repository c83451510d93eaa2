package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/pell-lang/pell/pkg/ioctx"
	"github.com/pell-lang/pell/pkg/kernel"
	"github.com/pell-lang/pell/pkg/pell"
)

// Config holds the application configuration
type Config struct {
	Debug bool
	Trace bool
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "pell [flags] [file...]",
		Short: "Pell normalization kernel",
		Long: `Pell is a small dependently typed calculus. The kernel rewrites terms
to normal form with three engines: host specials, definition unfolding,
and beta contraction.`,
		Example: `  # Run a Pell file
  pell proofs.pell

  # Start the interactive REPL
  pell

  # Show every rewrite while running
  pell --trace proofs.pell`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cfg.Debug)
			if len(args) > 0 {
				return runFiles(cmd.Context(), cfg, args)
			}
			return runREPL(cmd.Context(), cfg)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&cfg.Trace, "trace", false, "Print every rewrite to stderr")

	rootCmd.AddCommand(checkCmd(&cfg))
	rootCmd.AddCommand(watchCmd(&cfg))
	rootCmd.AddCommand(serveCmd(&cfg))

	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)
	ctx = ioctx.TraceToContext(ctx, os.Stderr)
	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion(kernel.Version),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// runFiles loads every file into one session, so later files see the
// definitions of earlier ones. Project config is taken from the first
// file's directory.
func runFiles(ctx context.Context, cfg Config, files []string) error {
	session := pell.NewSession()
	if err := session.ApplyProject(ctx, filepath.Dir(files[0])); err != nil {
		return err
	}
	if cfg.Trace {
		session.Trace = true
	}

	for _, file := range files {
		if err := session.LoadFile(ctx, file); err != nil {
			return err
		}
	}
	return nil
}
