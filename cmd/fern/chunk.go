package main

import (
	"github.com/spf13/cobra"
)

func newChunkCmd(c *cli) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "chunk <request-file>",
		Short: "Re-split a request file to the size budget",
		Long: "Re-split the pending data center requests of a request file so no\n" +
			"request exceeds --max-chunk. Completed requests are left as they are.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.readDocument(args[0])
			if err != nil {
				return err
			}
			ch, err := c.chunker()
			if err != nil {
				return err
			}
			ch.Chunk(doc)
			if err := c.writeDocument(cmd.Context(), output, doc); err != nil {
				return err
			}
			printDocumentSummary(cmd.ErrOrStderr(), doc, c.cfg.MaxChunkBytes())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "request file to write (default: stdout)")
	return cmd
}
