package planner

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Nelson200402/Educacion/internal/domain/sessions"
)

type Creator interface {
	Create(ctx context.Context, in sessions.Create) (*sessions.Session, error)
}

// Result is the outcome of one payload; Index is its position in the input.
type Result struct {
	Index   int
	Payload sessions.Create
	Session *sessions.Session
	Err     error
}

func (r Result) OK() bool { return r.Err == nil }

// CreateAll sends payloads in consecutive batches of batchSize. Requests inside a batch
// run concurrently and the next batch starts only when the current one is done.
// A failed item does not stop the others.
func CreateAll(ctx context.Context, c Creator, payloads []sessions.Create, batchSize int) []Result {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	results := make([]Result, len(payloads))
	for i, p := range payloads {
		results[i] = Result{Index: i, Payload: p}
	}

	for start := 0; start < len(payloads); start += batchSize {
		end := min(start+batchSize, len(payloads))

		if err := ctx.Err(); err != nil {
			markFrom(results, start, err)
			break
		}

		// Item failures are recorded on their Result. Only a canceled context is
		// returned to the group, and it stops the remaining batches.
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				s, err := c.Create(ctx, payloads[i])
				results[i].Session, results[i].Err = s, err
				if err != nil {
					return ctx.Err()
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			markFrom(results, end, err)
			break
		}
	}
	return results
}

func markFrom(results []Result, from int, err error) {
	for i := from; i < len(results); i++ {
		results[i].Err = err
	}
}

type Summary struct {
	Total   int
	Created int
	Failed  int
	Err     error
}

// Summarize counts results and joins item errors, labelled with date and time.
func Summarize(results []Result) Summary {
	sum := Summary{Total: len(results)}
	var errs []error
	for _, r := range results {
		if r.OK() {
			sum.Created++
			continue
		}
		sum.Failed++
		errs = append(errs, fmt.Errorf("%s %s: %w", r.Payload.Date, r.Payload.StartTime, r.Err))
	}
	sum.Err = errors.Join(errs...)
	return sum
}

// Created returns the sessions that were stored.
func Created(results []Result) []sessions.Session {
	var out []sessions.Session
	for _, r := range results {
		if r.OK() && r.Session != nil {
			out = append(out, *r.Session)
		}
	}
	return out
}
