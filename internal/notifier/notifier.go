package notifier

import (
	"context"

	"StaticSweep/internal/gc"
)

type Notifier interface {
	// NotifySweep reports a sweep that deleted something or found per-object failures.
	NotifySweep(ctx context.Context, rep *gc.Report) error
	// NotifyError reports a sweep aborted by a fatal error.
	NotifyError(ctx context.Context, bucket string, err error) error
}
