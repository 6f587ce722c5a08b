package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savage13/fern/internal/adapters/sqlite"
)

func newHistoryCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent download attempts from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.JournalPath == "" {
				return errors.New("history needs --journal (or journal in the config file)")
			}
			j, err := sqlite.Open(c.cfg.JournalPath)
			if err != nil {
				return err
			}
			defer j.Close()

			attempts, err := j.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(attempts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no attempts recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), attemptTable(attempts))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of attempts to show")
	return cmd
}
