package planner

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/eventplan/internal/archive"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
)

// BatchResult is the outcome of one request in a batch. Exactly one of
// Record and Err is set.
type BatchResult struct {
	Index  int
	Record *archive.Record
	Err    error
}

// PlanBatch plans every request, running at most limit pipelines at once
// (limit < 1 means one at a time). Each pipeline is still strictly
// sequential. Every request is validated before any pipeline starts; a
// validation failure rejects the whole batch. Results keep request order.
// A failed pipeline does not stop its siblings; cancelling ctx does.
func (s *Service) PlanBatch(ctx context.Context, requests []orchestrator.EventParams, limit int) ([]BatchResult, error) {
	var problems []string
	for i, p := range requests {
		var ve *ValidationError
		if err := Validate(p); errors.As(err, &ve) {
			for _, prob := range ve.Problems {
				problems = append(problems, fmt.Sprintf("request %d: %s", i, prob))
			}
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	if limit < 1 {
		limit = 1
	}

	results := make([]BatchResult, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, p := range requests {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = BatchResult{Index: i, Err: err}
				return err
			}
			rec, err := s.Plan(gctx, p)
			results[i] = BatchResult{Index: i, Record: rec, Err: err}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}
