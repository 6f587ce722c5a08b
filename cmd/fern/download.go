package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/savage13/fern/pkg/log"
)

func newDownloadCmd(c *cli) *cobra.Command {
	var checkpoint string
	cmd := &cobra.Command{
		Use:   "download <request-file>",
		Short: "Download every pending data center request",
		Long: "Download the pending data center requests of a request file one at a\n" +
			"time. Progress is written back after every request, so an interrupted\n" +
			"run resumes where it stopped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := checkpoint
			if path == "" {
				path = args[0]
			}
			_, err := c.download(cmd.Context(), cmd.ErrOrStderr(), args[0], path)
			return err
		},
	}
	cmd.Flags().StringVar(&checkpoint, "checkpoint", "", "file to record progress in (default: the request file itself)")
	return cmd
}

// download runs one request file through the downloader and returns the
// number of requests still pending.
func (c *cli) download(ctx context.Context, out io.Writer, input, checkpoint string) (int, error) {
	doc, err := c.readDocument(input)
	if err != nil {
		return 0, err
	}
	if doc.Pending() == 0 {
		c.logger.Info("nothing to download", log.String("file", input))
		return 0, nil
	}
	d, cleanup, err := c.downloader(ctx, checkpoint)
	if err != nil {
		return doc.Pending(), err
	}
	defer cleanup()

	report, err := d.Download(ctx, doc)
	if report != nil {
		printReport(out, report, doc.Pending())
	}
	return doc.Pending(), err
}
