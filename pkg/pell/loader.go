package pell

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/pell-lang/pell/pkg/parse"
	"github.com/pell-lang/pell/pkg/project"
)

// LoadFile parses path and installs every declaration into the session.
// Declaration errors carry the file position they arose at.
func (s *Session) LoadFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read source")
	}
	decls, err := parse.ParseFile(path, string(src))
	if err != nil {
		return err
	}
	for _, decl := range decls {
		if err := s.Install(ctx, decl); err != nil {
			return errors.Wrapf(err, "%s:%d", path, parse.DeclLine(decl))
		}
	}
	return nil
}

// Interpret parses interactive input and installs it. Parse errors and the
// first declaration error are returned as-is, positions included.
func (s *Session) Interpret(ctx context.Context, src string) error {
	decls, err := parse.ParseInput(src)
	if err != nil {
		return err
	}
	for _, decl := range decls {
		if err := s.Install(ctx, decl); err != nil {
			return err
		}
	}
	return nil
}

// ApplyProject discovers pell.toml at or above dir and applies it: the
// kernel requirement is checked, prelude files are loaded, and tracing is
// switched on when configured.
func (s *Session) ApplyProject(ctx context.Context, dir string) error {
	configPath, config, err := project.Find(dir)
	if err != nil {
		return errors.Wrap(err, "finding pell.toml")
	}
	if config == nil {
		return nil
	}
	if err := config.CheckKernel(); err != nil {
		return errors.Wrap(err, configPath)
	}
	if config.Trace {
		s.Trace = true
	}
	for _, path := range config.PreludePaths(configPath) {
		if err := s.LoadFile(ctx, path); err != nil {
			return errors.Wrap(err, "loading prelude")
		}
	}
	return nil
}

// RunFile evaluates a single file in a fresh session, honoring any
// pell.toml found beside it.
func RunFile(ctx context.Context, path string, trace bool) error {
	session := NewSession()
	if err := session.ApplyProject(ctx, filepath.Dir(path)); err != nil {
		return err
	}
	if trace {
		session.Trace = true
	}
	return session.LoadFile(ctx, path)
}
