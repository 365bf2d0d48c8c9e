package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

var ErrHelp = errors.New("help requested")

type Options struct {
	NoColor bool
	Verbose bool
	Yes     bool
	Once    bool
	Update  bool

	ConfigFile  string
	InvitesFile string
	ProxiesFile string
	OutDir      string
}

const usageText = `
usage:
  invitium [flags]

flags:
  -h, --help            show this help message and exit
  --no-color            disable colored stdout output
  -v, --verbose         debug-level entries in the run log
  -y, --yes             skip the launch confirmation prompt
  --once                run a single pass even when auto_mode is configured
  --update              check for a newer release before running

options:
  --config PATH         configuration file (default: config.json)
  --invites PATH        invite list (default: invites.txt)
  --proxies PATH        proxy list (default: proxies.txt)
  --out DIR             directory for result files (default: .)
`

func Parse(args []string, stdout, stderr io.Writer) (Options, error) {
	var opts Options
	var help bool

	fs := flag.NewFlagSet("invitium", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.Usage = func() {
		_, _ = fmt.Fprint(stdout, usageText)
	}

	// Help
	fs.BoolVar(&help, "h", false, "show help")
	fs.BoolVar(&help, "help", false, "show help")

	// Behavior flags
	fs.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	fs.BoolVar(&opts.Verbose, "v", false, "verbose run log")
	fs.BoolVar(&opts.Verbose, "verbose", false, "verbose run log")
	fs.BoolVar(&opts.Yes, "y", false, "skip confirmation prompt")
	fs.BoolVar(&opts.Yes, "yes", false, "skip confirmation prompt")
	fs.BoolVar(&opts.Once, "once", false, "force a single pass")
	fs.BoolVar(&opts.Update, "update", false, "check for a newer release")

	// Options
	fs.StringVar(&opts.ConfigFile, "config", "config.json", "configuration file path")
	fs.StringVar(&opts.InvitesFile, "invites", "invites.txt", "invite list path")
	fs.StringVar(&opts.ProxiesFile, "proxies", "proxies.txt", "proxy list path")
	fs.StringVar(&opts.OutDir, "out", ".", "result file directory")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	if help {
		fs.Usage()
		return Options{}, ErrHelp
	}

	if rest := fs.Args(); len(rest) > 0 {
		return Options{}, fmt.Errorf("unexpected argument %q", rest[0])
	}

	return opts, nil
}
