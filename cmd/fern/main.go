package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/savage13/fern/internal/cliconfig"
	"github.com/savage13/fern/pkg/log"
)

const helpDescription = `
Request, chunk and download bulk seismic waveform data from FDSN data centers.

Highlights:
  - Asks the federated catalog which data centers hold the channels you want.
  - Splits large requests so no single transfer exceeds the size budget.
  - Checkpoints after every data center so interrupted downloads resume.
  - Configure via file (TOML or YAML), .env, FERN_* environment, or flags.
`

var exampleUsage = strings.TrimSpace(`
  fern events --start 2020-01-01 --end 2020-02-01 --mag 6,10
  fern request --event usgs:us7000abcd --net IU --cha BHZ --radius 0,30 --duration 1h -o event.request
  fern request --net IU --sta ANMO --cha BHZ --start 2020-01-01 --duration 1d -o anmo.request
  fern chunk anmo.request --max-chunk 50 -o anmo.request
  fern download anmo.request --save --output-url ./waveforms
  fern watch ./spool --journal ~/.fern/journal.db
  fern history --journal ~/.fern/journal.db
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the resolved configuration to subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	envPath string
	logger  log.Logger

	// eventCatalogs replaces fdsn.Catalogs when set.
	eventCatalogs map[string]string
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig(), logger: log.NewConsoleLogger(os.Stderr, false)}

	root := &cobra.Command{
		Use:           "fern",
		Short:         "Bulk seismic waveform requests with resumable downloads",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.fern/config.toml)")
	pf.StringVar(&c.envPath, "env-file", ".env", "path to a .env file with FERN_* variables")
	pf.BoolVarP(&c.cfg.Verbose, "verbose", "v", false, "debug logging")
	pf.IntVar(&c.cfg.MaxChunkMB, "max-chunk", c.cfg.MaxChunkMB, "estimated size budget per data center request, in MiB")
	pf.StringVar(&c.cfg.Overflow, "overflow", c.cfg.Overflow, "when to close a batch: before or after the line crossing the budget")
	pf.StringVar(&c.cfg.Prefix, "prefix", c.cfg.Prefix, "file name prefix for saved payloads")
	pf.StringVar(&c.cfg.OutputURL, "output-url", c.cfg.OutputURL, "directory or bucket URL (file://, mem://) for saved payloads")
	pf.BoolVar(&c.cfg.Save, "save", c.cfg.Save, "save downloaded miniseed payloads")
	pf.BoolVar(&c.cfg.Unpack, "unpack", c.cfg.Unpack, "collect downloaded payloads into an aggregate")
	pf.DurationVar(&c.cfg.HTTPTimeout, "timeout", c.cfg.HTTPTimeout, "HTTP timeout per request")
	pf.IntVar(&c.cfg.RetryAttempts, "retries", c.cfg.RetryAttempts, "extra attempts after a network error or 5xx")
	pf.DurationVar(&c.cfg.RetryBackoff, "retry-backoff", c.cfg.RetryBackoff, "initial wait between attempts")
	pf.BoolVar(&c.cfg.KeepFailed, "keep-failed", c.cfg.KeepFailed, "leave failed data centers pending for the next run")
	pf.StringVar(&c.cfg.JournalPath, "journal", c.cfg.JournalPath, "sqlite file recording download attempts")
	pf.StringVar(&c.cfg.FedCatalogURL, "fedcatalog-url", c.cfg.FedCatalogURL, "federated catalog service URL")
	pf.StringVar(&c.cfg.UserAgent, "user-agent", c.cfg.UserAgent, "HTTP User-Agent header")
	pf.StringVar(&c.cfg.EventURL, "event-url", c.cfg.EventURL, "event service URL")
	pf.StringVar(&c.cfg.StationURL, "station-url", c.cfg.StationURL, "station service URL")
	for _, name := range []string{"fedcatalog-url", "event-url", "station-url"} {
		if err := pf.MarkHidden(name); err != nil {
			c.logger.Warn("failed to hide flag", log.String("flag", name), log.Err(err))
		}
	}

	root.AddCommand(
		newRequestCmd(c),
		newChunkCmd(c),
		newDownloadCmd(c),
		newWatchCmd(c),
		newHistoryCmd(c),
		newEventsCmd(c),
		newStationsCmd(c),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		c.logger.Error("fern", log.Err(err))
		stop()
		os.Exit(1)
	}
}

// load applies config file, .env and environment values beneath the flags
// that were set explicitly, then validates the result.
func (c *cli) load(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.LoadDotEnv(c.envPath); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.logger = log.NewConsoleLogger(os.Stderr, c.cfg.Verbose)
	c.logger.Debug("configuration",
		log.Int("max_chunk_mb", c.cfg.MaxChunkMB),
		log.String("overflow", c.cfg.Overflow),
		log.String("prefix", c.cfg.Prefix),
		log.String("output_url", c.cfg.OutputURL),
		log.Bool("save", c.cfg.Save),
		log.Bool("keep_failed", c.cfg.KeepFailed),
		log.String("journal", c.cfg.JournalPath),
	)
	return nil
}
