package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/savage13/fern/internal/spool"
	"github.com/savage13/fern/pkg/log"
)

func newWatchCmd(c *cli) *cobra.Command {
	var keep bool
	debounce := spool.DefaultDebounce
	high, low := spool.DefaultArchiveHigh, spool.DefaultArchiveLow
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Download request files as they appear in a directory",
		Long: "Watch a spool directory and download every *" + spool.Suffix + " file placed\n" +
			"in it, checkpointing progress into the file itself. Finished files move to\n" +
			spool.ArchiveDir + "/<day>/. Runs until interrupted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			out := cmd.ErrOrStderr()
			archive := spool.NewArchive(dir, c.logger)
			archive.High, archive.Low = high, low
			// seen holds the modification time each file had after we last
			// wrote it, so our own checkpoint writes do not trigger a rerun.
			seen := make(map[string]time.Time)
			handler := spool.HandlerFunc(func(ctx context.Context, path string) error {
				info, err := os.Stat(path)
				if errors.Is(err, os.ErrNotExist) {
					return nil
				}
				if err != nil {
					return err
				}
				if t, ok := seen[path]; ok && t.Equal(info.ModTime()) {
					return nil
				}

				pending, err := c.download(ctx, out, path, path)
				if err != nil || pending > 0 || keep {
					if info, serr := os.Stat(path); serr == nil {
						seen[path] = info.ModTime()
					}
					return err
				}
				delete(seen, path)
				_, err = archive.Store(ctx, path)
				return err
			})
			c.logger.Info("watching spool directory", log.String("dir", dir))
			err := spool.NewWatcher(dir, debounce, handler, c.logger).Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	fl := cmd.Flags()
	fl.DurationVar(&debounce, "debounce", debounce, "quiet time before a changed file is picked up")
	fl.BoolVar(&keep, "keep-done", false, "leave finished request files in place instead of archiving them")
	fl.Int64Var(&high, "archive-high", high, "archive size in bytes that triggers trimming of the oldest files")
	fl.Int64Var(&low, "archive-low", low, "archive size in bytes trimming stops at")
	return cmd
}
