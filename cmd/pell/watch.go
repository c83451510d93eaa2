package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pell-lang/pell/pkg/ioctx"
)

const watchDebounce = 200 * time.Millisecond

func watchCmd(cfg *Config) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "watch [flags] file...",
		Short: "Re-check files whenever they change",
		Long: `Watch runs check over the given files, then watches their
directories and runs it again after every write.`,
		Example: `  pell watch proofs.pell lib.pell`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cfg.Debug)
			return runWatch(cmd.Context(), args, jobs)
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Number of definitions to check in parallel")

	return cmd
}

func runWatch(ctx context.Context, files []string, jobs int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := map[string]bool{}
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		watched[abs] = true
		// Watch the directory: editors replace files on save, which
		// drops a watch held on the file itself.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}

	check := func() {
		if err := runCheck(ctx, files, jobs); err != nil {
			fmt.Fprintln(ioctx.StderrFromContext(ctx), err)
		}
	}
	check()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] {
				continue
			}
			slog.Debug("source changed", "path", ev.Name, "op", ev.Op)
			pending = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case <-pending:
			pending = nil
			check()
		}
	}
}
