package sink

import (
	"io"
	"log"

	"github.com/fatih/color"

	"github.com/tec9x/invitium/internal/lookup"
)

// Printer writes tagged result lines to the console.
type Printer struct {
	noColor bool
	logger  *log.Logger
}

func NewPrinter(stdout io.Writer, noColor bool) *Printer {
	return &Printer{
		noColor: noColor,
		logger:  log.New(stdout, "", 0),
	}
}

func (p *Printer) Hit(res *lookup.Result) {
	if p.noColor {
		p.logger.Printf("[%s] - Valid Invite: %s · Members: %d/%d · Boosts: %d · Guild: %s (%s)",
			"HIT", res.Code, res.MembersOnline, res.Members, res.Boosts, res.GuildName, res.GuildID)
		return
	}
	p.logger.Printf("[%s] - Valid Invite: %s · Members: %d/%d · Boosts: %d · Guild: %s (%s)",
		color.HiGreenString("HIT"),
		color.HiWhiteString(res.Code),
		res.MembersOnline, res.Members, res.Boosts,
		res.GuildName, res.GuildID,
	)
}

func (p *Printer) Bad(code, reason, detail string) {
	suffix := ""
	if detail != "" {
		suffix = " · " + detail
	}
	if p.noColor {
		p.logger.Printf("[%s] - %s: %s%s", "BAD", reason, code, suffix)
		return
	}
	p.logger.Printf("[%s] - %s: %s%s", color.HiRedString("BAD"), reason, color.HiWhiteString(code), suffix)
}

func (p *Printer) Duplicate(code, reason string) {
	if p.noColor {
		p.logger.Printf("[%s] - %s: %s", "INFO", reason, code)
		return
	}
	p.logger.Printf("[%s] - %s: %s", color.HiBlueString("INFO"), reason, code)
}

func (p *Printer) Failed(code, cause string) {
	if p.noColor {
		p.logger.Printf("[%s] - Failed Request: %s - %s", "FAILED", code, cause)
		return
	}
	p.logger.Printf("[%s] - Failed Request: %s - %s",
		color.HiYellowString("FAILED"), code, color.HiRedString(cause))
}

// Infof prints an informational line outside the per-result flow.
func (p *Printer) Infof(format string, args ...any) {
	if p.noColor {
		p.logger.Printf("[i] "+format, args...)
		return
	}
	p.logger.Printf("["+color.HiBlueString("i")+"] "+format, args...)
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	if p.noColor {
		p.logger.Printf("[!] "+format, args...)
		return
	}
	p.logger.Printf("["+color.HiRedString("!")+"] "+format, args...)
}
