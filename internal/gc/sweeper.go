package gc

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"StaticSweep/internal/scan"
)

// CorpusScanner produces the referenced key set.
type CorpusScanner interface {
	Scan(ctx context.Context) (scan.Result, error)
}

// Recorder receives an audit trail of an approved deletion batch.
type Recorder interface {
	Begin(bucket string, candidates []string) error
	Record(r ItemResult) error
	Close(o Outcome) error
}

// Report describes one sweep from scan to summary.
type Report struct {
	Bucket       string
	FilesScanned int
	FilesSkipped int
	Referenced   int
	RemoteKeys   int
	Candidates   []string
	Decision     Decision
	Outcome      Outcome
	StartedAt    time.Time
	FinishedAt   time.Time
}

type Sweeper struct {
	Scanner  CorpusScanner
	Store    Store
	Gate     *Gate
	Recorder Recorder
	Logger   zerolog.Logger
	// Out receives operator progress text.
	Out io.Writer
	Now func() time.Time
}

func (s *Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run executes scan and list, reconciles, asks the gate, and deletes when
// approved. The returned error is non-nil only for failures that make the run
// unsafe or incomplete; per-object delete failures are in Report.Outcome.
func (s *Sweeper) Run(ctx context.Context) (*Report, error) {
	rep := &Report{Bucket: s.Store.Bucket(), StartedAt: s.now()}
	defer func() { rep.FinishedAt = s.now() }()

	var (
		scanned scan.Result
		remote  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.Scanner.Scan(gctx)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		scanned = res
		return nil
	})
	g.Go(func() error {
		keys, err := ListAll(gctx, s.Store)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		remote = keys
		return nil
	})
	if err := g.Wait(); err != nil {
		return rep, err
	}

	rep.FilesScanned = scanned.FilesScanned
	rep.FilesSkipped = scanned.FilesSkipped
	rep.Referenced = scanned.Keys.Len()
	rep.RemoteKeys = len(remote)
	fmt.Fprintf(s.Out, "Scanned %d files (%d skipped), %d referenced assets\n", rep.FilesScanned, rep.FilesSkipped, rep.Referenced)
	fmt.Fprintf(s.Out, "Bucket %s holds %d objects\n", rep.Bucket, rep.RemoteKeys)

	rep.Candidates = Reconcile(remote, scanned.Keys)
	fmt.Fprintf(s.Out, "%d unreferenced objects\n", len(rep.Candidates))

	decision, err := s.Gate.Approve(ctx, rep.Candidates)
	rep.Decision = decision
	if err != nil {
		return rep, err
	}
	switch decision {
	case DecisionNothingToDelete:
		fmt.Fprintln(s.Out, "Nothing to clean up.")
		return rep, nil
	case DecisionDryRun:
		fmt.Fprintln(s.Out, "Dry run, no changes made.")
		return rep, nil
	case DecisionCancelled:
		fmt.Fprintln(s.Out, "Cancelled, no changes made.")
		return rep, nil
	}

	exec := &Executor{Store: s.Store, Logger: s.Logger}
	if s.Recorder != nil {
		if err := s.Recorder.Begin(rep.Bucket, rep.Candidates); err != nil {
			return rep, fmt.Errorf("journal: %w", err)
		}
		exec.OnResult = func(r ItemResult) {
			if err := s.Recorder.Record(r); err != nil {
				s.Logger.Warn().Err(err).Str("key", r.Key).Msg("journal write failed")
			}
		}
	}

	outcome, runErr := exec.Run(ctx, rep.Candidates)
	rep.Outcome = outcome
	if s.Recorder != nil {
		if err := s.Recorder.Close(outcome); err != nil {
			s.Logger.Warn().Err(err).Msg("journal close failed")
		}
	}
	if runErr != nil {
		return rep, fmt.Errorf("delete: %w", runErr)
	}
	fmt.Fprintf(s.Out, "Done: %d deleted, %d failed\n", outcome.Succeeded, outcome.Failed)
	return rep, nil
}
