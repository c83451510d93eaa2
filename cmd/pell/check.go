package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pell-lang/pell/pkg/defn"
	"github.com/pell-lang/pell/pkg/ioctx"
	"github.com/pell-lang/pell/pkg/parse"
	"github.com/pell-lang/pell/pkg/pell"
	"github.com/pell-lang/pell/pkg/term"
)

func checkCmd(cfg *Config) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "check [flags] file...",
		Short: "Normalize every definition and report failures",
		Long: `Check loads the given files and normalizes the body of every
definition. The environment is read-only during normalization, so
definitions check in parallel.`,
		Example: `  # Check a file
  pell check proofs.pell

  # Check a whole directory, eight definitions at a time
  pell check -j 8 lib/*.pell`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cfg.Debug)
			return runCheck(cmd.Context(), args, jobs)
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Number of definitions to check in parallel")

	return cmd
}

// runCheck installs every declaration, skipping eval and equiv directives,
// then normalizes each installed body.
func runCheck(ctx context.Context, files []string, jobs int) error {
	session := pell.NewSession()
	if err := session.ApplyProject(ctx, filepath.Dir(files[0])); err != nil {
		return err
	}

	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrap(err, "read source")
		}
		decls, err := parse.ParseFile(file, string(src))
		if err != nil {
			return err
		}
		for _, decl := range decls {
			switch decl.(type) {
			case *parse.EvalDecl, *parse.EquivDecl:
				continue
			}
			if err := session.Install(ctx, decl); err != nil {
				return errors.Wrapf(err, "%s:%d", file, parse.DeclLine(decl))
			}
		}
	}

	type item struct {
		name string
		body term.Term
	}
	var work []item
	for def := range session.Env.Defs() {
		body := def.Body
		if def.Kind == defn.Theorem {
			body = def.Proof
		}
		if body == nil {
			continue
		}
		work = append(work, item{name: def.Name, body: body})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, it := range work {
		g.Go(func() error {
			if _, err := session.Normalize(ctx, it.body); err != nil {
				return errors.Wrapf(err, "checking %s", it.name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(ioctx.StdoutFromContext(ctx), "checked %d definitions\n", len(work))
	return nil
}
