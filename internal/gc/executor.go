package gc

import (
	"context"

	"github.com/rs/zerolog"
)

// ItemResult is the outcome of one delete attempt.
type ItemResult struct {
	Key string
	Err error
}

func (r ItemResult) OK() bool {
	return r.Err == nil
}

// Outcome tallies a deletion batch. FailedKeys lists every key whose delete
// returned an error, in attempt order.
type Outcome struct {
	Attempted  int
	Succeeded  int
	Failed     int
	FailedKeys []string
	Results    []ItemResult
}

func (o *Outcome) add(r ItemResult) {
	o.Attempted++
	o.Results = append(o.Results, r)
	if r.OK() {
		o.Succeeded++
		return
	}
	o.Failed++
	o.FailedKeys = append(o.FailedKeys, r.Key)
}

// Executor deletes candidates one at a time, single attempt each.
type Executor struct {
	Store  Deleter
	Logger zerolog.Logger
	// OnResult, if set, is called after every attempt.
	OnResult func(ItemResult)
}

// Run attempts every candidate. A failed delete is logged and counted and the
// batch continues. Run stops early only when ctx is done, returning the
// partial outcome together with ctx.Err().
func (e *Executor) Run(ctx context.Context, candidates []string) (Outcome, error) {
	out := Outcome{Results: make([]ItemResult, 0, len(candidates))}
	for _, key := range candidates {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		r := ItemResult{Key: key, Err: e.Store.DeleteObject(ctx, key)}
		if r.OK() {
			e.Logger.Info().Str("key", key).Msg("deleted")
		} else {
			e.Logger.Error().Err(r.Err).Str("key", key).Msg("delete failed")
		}
		out.add(r)
		if e.OnResult != nil {
			e.OnResult(r)
		}
	}
	return out, nil
}
