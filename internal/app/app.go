// Package app wires the checker together and drives manual and auto mode.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/tec9x/invitium/internal/checker"
	"github.com/tec9x/invitium/internal/classify"
	"github.com/tec9x/invitium/internal/cli"
	"github.com/tec9x/invitium/internal/config"
	"github.com/tec9x/invitium/internal/httpx"
	"github.com/tec9x/invitium/internal/invite"
	"github.com/tec9x/invitium/internal/lookup"
	"github.com/tec9x/invitium/internal/notify"
	"github.com/tec9x/invitium/internal/proxy"
	"github.com/tec9x/invitium/internal/sink"
	"github.com/tec9x/invitium/internal/track"
	"github.com/tec9x/invitium/internal/update"
)

const banner = `
  _____            _ _   _
 |_   _|          (_) | (_)
   | |  _ ____   ___| |_ _ _   _ _ __ ___
   | | | '_ \ \ / / | __| | | | | '_ ' _ \
  _| |_| | | \ V / | | |_| | |_| | | | | |
 |_____|_| |_|\_/  |_|\__|_|\__,_|_|_|_|_|
`

func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args, stdout, stderr)
	if err != nil {
		if errors.Is(err, cli.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err.Error())
		return 2
	}

	color.NoColor = opts.NoColor
	printer := sink.NewPrinter(stdout, opts.NoColor)

	fmt.Fprint(stdout, banner, "\n")
	fmt.Fprintf(stdout, "invitium %s — Discord invite checker\n\n", update.Version)

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}

	logger := newRunLogger(opts.OutDir, opts.Verbose)

	if opts.Update {
		checkForUpdate(ctx, printer)
	}

	autoMode := cfg.AutoMode && !opts.Once

	if !autoMode && !opts.Yes {
		fmt.Fprintf(stdout,
			"Please put your invite CODES or LINKS into %s. "+
				"Links such as https://discord.gg/example123 or https://discord.com/invite/example123 "+
				"will be parsed automatically.\n\nPress ENTER to launch the checker.",
			opts.InvitesFile,
		)
		r := bufio.NewReader(stdin)
		if _, err := r.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
	}

	if !autoMode {
		if err := runPass(ctx, cfg, opts, printer, logger, stdout); err != nil {
			fmt.Fprintf(stderr, "pass failed: %v\n", err)
			return 1
		}
		return 0
	}

	// Auto mode: one pass per interval until interrupted. Each cycle
	// rebuilds its state from scratch; only the result files carry over.
	interval := cfg.Interval()
	for cycle := 1; ; cycle++ {
		fmt.Fprintf(stdout, "\n--- Cycle %d started at %s ---\n", cycle, time.Now().Format("2006-01-02 15:04:05"))

		if err := runPass(ctx, cfg, opts, printer, logger, stdout); err != nil {
			if ctx.Err() != nil {
				return 0
			}
			// A broken cycle does not end auto mode.
			printer.Warnf("cycle %d failed: %v", cycle, err)
			logger.WithError(err).WithField("cycle", cycle).Error("cycle failed")
		}

		printer.Infof("Next cycle in %s.", interval)
		select {
		case <-ctx.Done():
			return 0
		case <-time.After(interval):
		}
	}
}

// runPass loads fresh inputs and runs one full validation pass. Counters,
// the seen-set and the proxy pool never outlive the pass.
func runPass(
	ctx context.Context,
	cfg config.Config,
	opts cli.Options,
	printer *sink.Printer,
	logger *logrus.Logger,
	stdout io.Writer,
) error {
	var pool *proxy.Pool
	if cfg.UseProxies {
		lines, err := readLines(opts.ProxiesFile)
		if err != nil {
			// Proxying degrades to direct requests when the list is
			// missing; an empty pool already means "no proxy".
			printer.Warnf("could not read %s: %v (continuing without proxies)", opts.ProxiesFile, err)
		} else {
			var dupes int
			pool, dupes = proxy.Load(lines)
			printer.Infof("Successfully loaded %d proxies from %s!", pool.Len(), opts.ProxiesFile)
			printer.Infof("Ignoring %d duplicate proxies...", dupes)
		}
	}

	lines, err := readLines(opts.InvitesFile)
	if err != nil {
		return errors.Wrapf(err, "read %s", opts.InvitesFile)
	}
	printer.Infof("Successfully loaded %d invites from %s!", len(lines), opts.InvitesFile)

	codes := make([]string, 0, len(lines))
	for _, line := range lines {
		if code, ok := invite.Normalize(line); ok {
			codes = append(codes, code)
		}
	}
	deduped, dupes := track.DedupeCodes(codes)
	printer.Infof("Ignoring %d duplicate invites...", dupes)

	httpClient, err := httpx.NewClient(httpx.ClientConfig{
		Timeout:       lookup.Timeout,
		Pool:          pool,
		SocksProxyURL: cfg.SocksProxy,
	})
	if err != nil {
		return errors.Wrap(err, "initialize HTTP client")
	}

	var notifier notify.Notifier
	if cfg.TelegramEnabled() {
		notifier = notify.NewTelegram(&http.Client{Timeout: notify.Timeout}, notify.TelegramConfig{
			Token:    cfg.TelegramBotToken,
			ChatID:   cfg.TelegramChatID,
			ThreadID: cfg.TelegramThreadID,
			Mentions: cfg.TelegramMentions,
		})
	}

	snk := sink.New(opts.OutDir, printer, logger, notifier)
	defer snk.Close()

	pipeline := &checker.Pipeline{
		Lookup:   lookup.NewClient(httpClient, cfg.APIBaseURL, cfg.RequestsPerSecond),
		Sink:     snk,
		Seen:     track.NewGuildSet(),
		Counters: &track.Counters{},
		Thresholds: classify.Thresholds{
			MinMembers:       cfg.MinMembers,
			MaxMembers:       cfg.MaxMembers,
			MinMembersOnline: cfg.MinMembersOnline,
			MinBoosts:        cfg.MinBoosts,
			PermanentOnly:    cfg.SaveOnlyPermanentInvites,
		},
		Workers: cfg.Threads,
	}

	if err := pipeline.Run(ctx, deduped); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "dispatch")
	}

	fmt.Fprintf(stdout, "Checking Process Finished. Results:\nHits: %d, Bad: %d, Failed: %d\n",
		pipeline.Counters.Hit(), pipeline.Counters.Bad(), pipeline.Counters.Failed())
	logger.WithFields(logrus.Fields{
		"hits":   pipeline.Counters.Hit(),
		"bad":    pipeline.Counters.Bad(),
		"failed": pipeline.Counters.Failed(),
	}).Info("pass finished")

	return nil
}

func newRunLogger(dir string, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(dir, "invitium.log"),
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
	})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func checkForUpdate(ctx context.Context, printer *sink.Printer) {
	client := &http.Client{Timeout: 10 * time.Second}
	latest, newer, err := update.CheckLatest(ctx, client, update.Version)
	if err != nil {
		printer.Warnf("release check failed: %v", err)
		return
	}
	if newer {
		printer.Infof("A newer release is available: %s (running %s)", latest, update.Version)
		return
	}
	printer.Infof("Running the latest release (%s).", update.Version)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
