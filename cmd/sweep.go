package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"StaticSweep/internal/config"
	"StaticSweep/internal/gc"
	"StaticSweep/internal/journal"
	"StaticSweep/internal/lock"
	"StaticSweep/internal/logger"
	"StaticSweep/internal/metrics"
	"StaticSweep/internal/prompt"
	"StaticSweep/internal/report"
	"StaticSweep/internal/s3"
)

var (
	sweepRoot        string
	sweepStaticURL   string
	sweepDryRun      bool
	sweepFailOnError bool
	sweepOutput      string
)

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepRoot, "root", ".", "Source tree to scan for references")
	sweepCmd.Flags().StringVar(&sweepStaticURL, "static-url", config.DefaultStaticURL, "Public URL prefix the bucket is served under")
	sweepCmd.Flags().BoolVar(&sweepDryRun, "dry-run", false, "Show what would be deleted and exit without prompting")
	sweepCmd.Flags().BoolVar(&sweepFailOnError, "fail-on-error", false, "Exit non-zero when any object fails to delete")
	sweepCmd.Flags().StringVarP(&sweepOutput, "output", "o", "table", "Summary format: table, json, yaml")
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete bucket objects the source tree no longer references",
	Long: "Scan the source tree, list the bucket, preview the unreferenced objects and delete them " +
		"after you type 'yes'. Nothing is deleted without confirmation.",
	RunE: runSweep,
}

var sweepFlags = map[string]string{
	"scan.root":       "root",
	"site.static_url": "static-url",
}

func runSweep(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(sweepOutput)
	if err != nil {
		return err
	}
	cfg, err := loadValidConfig(cmd, sweepFlags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := s3.Open(ctx, cfg.R2)
	if err != nil {
		return err
	}

	locker := lock.NewLocal(lock.LocalOptions{Dir: lockDir(cfg), Bucket: cfg.R2.Bucket})
	if err := locker.Acquire(ctx); err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	defer func() {
		if err := locker.Release(context.Background()); err != nil {
			logger.Log.Warn().Err(err).Msg("release lock")
		}
	}()

	// Structured summaries own stdout; progress moves to stderr.
	progress := cmd.OutOrStdout()
	if format != report.FormatTable {
		progress = cmd.ErrOrStderr()
	}

	scanner := newScanner(cfg)
	sweeper := &gc.Sweeper{
		Scanner: scanner,
		Store:   store,
		Gate: &gc.Gate{
			Out:       progress,
			Confirmer: prompt.ForStdio(gc.AffirmativeToken, progress),
			PublicURL: scanner.Matcher().PublicURL,
			Limit:     gc.PreviewLimit,
			DryRun:    sweepDryRun,
		},
		Logger: logger.Log,
		Out:    progress,
	}
	var jw *journal.Writer
	if config.JournalEnabled(cfg.Journal) {
		jw = journal.NewWriter(cfg.Journal.Dir)
		sweeper.Recorder = jw
	}

	logger.Log.Debug().
		Str("bucket", cfg.R2.Bucket).
		Str("endpoint", cfg.R2.Endpoint).
		Str("driver", cfg.R2.Driver).
		Str("root", cfg.Scan.Root).
		Str("static_url", cfg.Site.StaticURL).
		Msg("starting sweep")

	rep, runErr := sweeper.Run(ctx)

	if jw != nil && jw.Path() != "" {
		logger.Log.Info().Str("path", jw.Path()).Msg("journal written")
	}
	recordMetrics(cfg, rep, runErr)
	notifySweep(ctx, cfg, rep, runErr)

	if runErr != nil {
		return runErr
	}
	if err := printSummary(cmd.OutOrStdout(), format, rep); err != nil {
		return err
	}
	if sweepFailOnError && rep.Outcome.Failed > 0 {
		return fmt.Errorf("%d of %d deletions failed", rep.Outcome.Failed, rep.Outcome.Attempted)
	}
	return nil
}

func printSummary(w io.Writer, format report.Format, rep *gc.Report) error {
	if format == report.FormatTable {
		fmt.Fprintln(w)
	}
	return report.Print(w, format, report.FromReport(rep))
}

func lockDir(cfg *config.Config) string {
	if cfg.Lock == nil {
		return ""
	}
	return cfg.Lock.Dir
}

func recordMetrics(cfg *config.Config, rep *gc.Report, runErr error) {
	if cfg.Metrics == nil || cfg.Metrics.Textfile == "" {
		return
	}
	c := metrics.New(cfg.R2.Bucket)
	c.Observe(rep, runErr)
	if err := c.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.Log.Warn().Err(err).Str("path", cfg.Metrics.Textfile).Msg("write metrics textfile")
	}
}

// notifySweep reports fatal errors and approved batches. Cancelled, dry and
// empty runs changed nothing and stay quiet.
func notifySweep(ctx context.Context, cfg *config.Config, rep *gc.Report, runErr error) {
	notif := NotifierFromConfig(cfg, func(msg string) { logger.Log.Warn().Msg(msg) })
	if notif == nil {
		return
	}
	// The run context may already be cancelled by an interrupt.
	ctx = context.WithoutCancel(ctx)
	var err error
	switch {
	case runErr != nil:
		err = notif.NotifyError(ctx, cfg.R2.Bucket, runErr)
	case rep != nil && rep.Decision == gc.DecisionApproved:
		err = notif.NotifySweep(ctx, rep)
	}
	if err != nil {
		logger.Log.Warn().Err(err).Msg("send notification")
	}
}
