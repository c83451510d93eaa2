package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"charm.land/lipgloss/v2"
	"github.com/kr/pretty"
	"github.com/peterh/liner"

	"github.com/pell-lang/pell/pkg/kernel"
	"github.com/pell-lang/pell/pkg/parse"
	"github.com/pell-lang/pell/pkg/pell"
	"github.com/pell-lang/pell/pkg/term"
)

const promptMain = "pell> "

// Styles for REPL output. The prompt stays unstyled so liner's cursor
// math is not thrown off by escape codes.
var (
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	welcomeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func runREPL(ctx context.Context, cfg Config) error {
	session := pell.NewSession()
	if wd, err := os.Getwd(); err == nil {
		if err := session.ApplyProject(ctx, wd); err != nil {
			return err
		}
	}
	if cfg.Trace {
		session.Trace = true
	}

	fmt.Println(welcomeStyle.Render("pell " + kernel.Version))
	fmt.Println(dimStyle.Render("Ctrl+D exits. Type :help for commands."))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyFilePath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		_ = os.MkdirAll(filepath.Dir(histPath), 0755)
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	ln.SetCompleter(func(line string) []string {
		return completions(session, line)
	})

	for {
		input, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		ln.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			quit, err := runCommand(ctx, session, input)
			if err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		if err := replEval(ctx, session, input); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
		}
	}
}

func replEval(ctx context.Context, session *pell.Session, input string) error {
	decls, err := parse.ParseInput(input)
	if err != nil {
		return err
	}

	for _, decl := range decls {
		switch d := decl.(type) {
		case *parse.EvalDecl:
			out, err := session.Normalize(ctx, d.Term)
			if err != nil {
				return err
			}
			fmt.Println(resultStyle.Render(out.String()))
		case *parse.EquivDecl:
			eq, err := session.Equivalent(ctx, d.Left, d.Right)
			if err != nil {
				return err
			}
			fmt.Println(resultStyle.Render(strconv.FormatBool(eq)))
		default:
			if err := session.Install(ctx, decl); err != nil {
				return err
			}
			if name, ok := parse.DeclName(decl); ok {
				fmt.Println(dimStyle.Render("defined " + name))
			}
		}
	}
	return nil
}

func runCommand(ctx context.Context, session *pell.Session, input string) (quit bool, err error) {
	fields := strings.Fields(input)
	cmd, args := strings.TrimPrefix(fields[0], ":"), fields[1:]

	switch cmd {
	case "help":
		printHelp()
	case "quit", "exit":
		return true, nil
	case "env":
		for _, name := range session.Names() {
			fmt.Println(dimStyle.Render(name))
		}
	case "trace":
		session.Trace = !session.Trace
		fmt.Println(dimStyle.Render("trace " + strconv.FormatBool(session.Trace)))
	case "step":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: :step <term>")
		}
		return false, stepTerm(ctx, session, strings.Join(args, " "))
	case "ast":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: :ast <term>")
		}
		t, err := parse.ParseTerm(strings.Join(args, " "))
		if err != nil {
			return false, err
		}
		fmt.Printf("%# v\n", pretty.Formatter(t))
	case "load":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: :load <file>")
		}
		return false, session.LoadFile(ctx, args[0])
	case "reset":
		session.Reset()
		fmt.Println(dimStyle.Render("session reset"))
	case "version":
		fmt.Println(kernel.Version)
	default:
		return false, fmt.Errorf("unknown command %q, type :help for a list", cmd)
	}
	return false, nil
}

// stepTerm normalizes one term with tracing forced on, regardless of the
// session's trace setting.
func stepTerm(ctx context.Context, session *pell.Session, src string) error {
	t, err := parse.ParseTerm(src)
	if err != nil {
		return err
	}

	n := kernel.Normalizer{
		Env: session.Env,
		Trace: func(phase kernel.Phase, before, after term.Term) {
			fmt.Printf("%s %s\n", dimStyle.Render("["+phase.String()+"]"), after)
		},
	}
	out, err := n.Normalize(ctx, t)
	if err != nil {
		return err
	}
	fmt.Println(resultStyle.Render(out.String()))
	return nil
}

func printHelp() {
	help := [][2]string{
		{":help", "show this help"},
		{":env", "list visible definitions"},
		{":trace", "toggle rewrite tracing"},
		{":step <term>", "normalize a term, printing every rewrite"},
		{":ast <term>", "dump the parsed shape of a term"},
		{":load <file>", "load a source file into the session"},
		{":reset", "drop every user definition"},
		{":version", "print the kernel version"},
		{":quit", "exit the repl"},
	}
	for _, h := range help {
		fmt.Printf("  %-14s %s\n", h[0], dimStyle.Render(h[1]))
	}
}

// replCommands returns the list of REPL command names.
func replCommands() []string {
	return []string{
		"help", "quit", "exit", "env", "trace", "step", "ast", "load", "reset", "version",
	}
}

func completions(session *pell.Session, line string) []string {
	if strings.HasPrefix(line, ":") && !strings.Contains(line, " ") {
		var out []string
		for _, cmd := range replCommands() {
			if strings.HasPrefix(":"+cmd, line) {
				out = append(out, ":"+cmd)
			}
		}
		return out
	}

	i := len(line)
	for i > 0 && isIdentByte(line[i-1]) {
		i--
	}
	prefix, partial := line[:i], line[i:]
	if partial == "" {
		return nil
	}

	var out []string
	for _, name := range session.Names() {
		if strings.HasPrefix(name, partial) {
			out = append(out, prefix+name)
		}
	}
	sort.Strings(out)
	return out
}

func isIdentByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '\''
}

// historyFilePath returns the path to the history file, respecting
// XDG_DATA_HOME (default ~/.local/share/pell/history).
func historyFilePath() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "/tmp/pell_history" // last resort fallback
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "pell", "history")
}
