// Package sink records classified outcomes: category files, console
// lines, the structured run log and the hit notification side effect.
package sink

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tec9x/invitium/internal/classify"
	"github.com/tec9x/invitium/internal/lookup"
	"github.com/tec9x/invitium/internal/notify"
)

// Category file names, one code per line, append-only.
const (
	ValidFile    = "valid.txt"
	ValidIDsFile = "valid_ids.txt"
	BadFile      = "bad.txt"
	InvalidFile  = "invalid.txt"
	FailedFile   = "failed.txt"
)

type Sink struct {
	dir      string
	printer  *Printer
	log      *logrus.Logger
	notifier notify.Notifier // nil disables notifications

	mu    sync.Mutex
	files map[string]*os.File
}

func New(dir string, printer *Printer, log *logrus.Logger, notifier notify.Notifier) *Sink {
	return &Sink{
		dir:      dir,
		printer:  printer,
		log:      log,
		notifier: notifier,
		files:    make(map[string]*os.File),
	}
}

// Record persists one classified outcome. Duplicates write no file.
func (s *Sink) Record(ctx context.Context, res *lookup.Result, out classify.Outcome) {
	switch out.Category {
	case classify.Hit:
		s.printer.Hit(res)
		s.append(ValidFile, res.Code)
		s.append(ValidIDsFile, res.GuildID)
		s.log.WithFields(logrus.Fields{
			"code":     res.Code,
			"guild_id": res.GuildID,
			"members":  res.Members,
		}).Info("hit")
		s.notifyHit(ctx, res)

	case classify.Bad:
		s.printer.Bad(res.Code, out.Reason, out.Detail)
		s.append(BadFile, res.Code)
		s.log.WithFields(logrus.Fields{"code": res.Code, "reason": out.Reason}).Info("bad")

	case classify.Invalid:
		s.printer.Bad(res.Code, out.Reason, out.Detail)
		s.append(InvalidFile, res.Code)
		s.log.WithField("code", res.Code).Info("invalid")

	case classify.Duplicate:
		s.printer.Duplicate(res.Code, out.Reason)
		s.log.WithFields(logrus.Fields{"code": res.Code, "guild_id": res.GuildID}).Debug("duplicate guild")
	}
}

// RecordFailure persists a transport failure.
func (s *Sink) RecordFailure(code, cause string) {
	s.printer.Failed(code, cause)
	s.append(FailedFile, code)
	s.log.WithFields(logrus.Fields{"code": code, "cause": cause}).Warn("lookup failed")
}

func (s *Sink) notifyHit(ctx context.Context, res *lookup.Result) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.NotifyHit(ctx, notify.Hit{
		Code:          res.Code,
		GuildID:       res.GuildID,
		GuildName:     res.GuildName,
		Members:       res.Members,
		MembersOnline: res.MembersOnline,
		Boosts:        res.Boosts,
		Permanent:     res.Permanent(),
	})
	if err != nil {
		// Best effort: log and move on, counters are untouched.
		s.printer.Warnf("notification for %s failed: %v", res.Code, err)
		s.log.WithError(err).WithField("code", res.Code).Error("notification failed")
	}
}

func (s *Sink) append(name, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[name]
	if !ok {
		var err error
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			// No recovery path exists for result files.
			s.log.WithError(err).Fatalf("open %s", name)
		}
		s.files[name] = f
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		s.log.WithError(err).Fatalf("append to %s", name)
	}
}

func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, f := range s.files {
		_ = f.Close()
		delete(s.files, name)
	}
}
