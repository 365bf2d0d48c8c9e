// Package checker fans the candidate list out over a bounded worker pool
// and feeds each outcome through counters and the result sink.
package checker

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/tec9x/invitium/internal/classify"
	"github.com/tec9x/invitium/internal/lookup"
	"github.com/tec9x/invitium/internal/sink"
	"github.com/tec9x/invitium/internal/track"
)

type Pipeline struct {
	Lookup     *lookup.Client
	Sink       *sink.Sink
	Seen       *track.GuildSet
	Counters   *track.Counters
	Thresholds classify.Thresholds
	Workers    int
}

type report struct {
	res     *lookup.Result
	outcome classify.Outcome
	failure *lookup.TransportError
}

// Run processes every candidate and returns once all workers have joined.
// Completion order across candidates is unspecified.
func (p *Pipeline) Run(ctx context.Context, codes []string) error {
	workers := min(p.Workers, len(codes))
	if workers <= 0 {
		return nil
	}

	jobs := make(chan string)
	results := make(chan report, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for code := range jobs {
				results <- p.check(ctx, code)
			}
		}()
	}

	go func() {
		defer close(results)
		wg.Wait()
	}()

	go func() {
		defer close(jobs)
		for _, code := range codes {
			select {
			case <-ctx.Done():
				return
			case jobs <- code:
			}
		}
	}()

	for r := range results {
		if r.failure != nil {
			p.Counters.AddFailed()
			p.Sink.RecordFailure(r.failure.Code, r.failure.Cause)
			continue
		}

		switch r.outcome.Category {
		case classify.Hit:
			p.Counters.AddHit()
		case classify.Bad, classify.Invalid:
			p.Counters.AddBad()
		}
		p.Sink.Record(ctx, r.res, r.outcome)
	}

	return ctx.Err()
}

// check runs the lookup+classify pipeline for one candidate. Whatever
// goes wrong stays inside this boundary as a failure report so one
// candidate's fault never aborts the pass.
func (p *Pipeline) check(ctx context.Context, code string) (rep report) {
	defer func() {
		if r := recover(); r != nil {
			rep = report{failure: &lookup.TransportError{Code: code, Cause: fmt.Sprintf("panic: %v", r)}}
		}
	}()

	res, err := p.Lookup.Lookup(ctx, code)
	if err != nil {
		var terr *lookup.TransportError
		if errors.As(err, &terr) {
			return report{failure: terr}
		}
		return report{failure: &lookup.TransportError{Code: code, Cause: err.Error()}}
	}

	return report{res: res, outcome: classify.Classify(res, p.Thresholds, p.Seen)}
}
