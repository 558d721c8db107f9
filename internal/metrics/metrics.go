// Package metrics exports the result of a sweep in the node_exporter
// textfile format so scheduled runs can be monitored.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"StaticSweep/internal/gc"
)

const namespace = "staticsweep"

type Collector struct {
	registry *prometheus.Registry

	filesScanned prometheus.Gauge
	referenced   prometheus.Gauge
	remoteKeys   prometheus.Gauge
	candidates   prometheus.Gauge
	deletions    *prometheus.GaugeVec
	lastRun      prometheus.Gauge
	duration     prometheus.Gauge
	success      prometheus.Gauge
}

func New(bucket string) *Collector {
	labels := prometheus.Labels{"bucket": bucket}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}
	c := &Collector{
		registry:     prometheus.NewRegistry(),
		filesScanned: gauge("files_scanned", "Source files scanned in the last sweep."),
		referenced:   gauge("referenced_keys", "Distinct asset keys referenced by the corpus."),
		remoteKeys:   gauge("remote_keys", "Objects listed in the bucket."),
		candidates:   gauge("candidates", "Unreferenced objects found."),
		deletions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "deletions",
			Help:        "Delete attempts in the last sweep by result.",
			ConstLabels: labels,
		}, []string{"result"}),
		lastRun:  gauge("last_run_timestamp_seconds", "Unix time the last sweep finished."),
		duration: gauge("last_run_duration_seconds", "Wall time of the last sweep."),
		success:  gauge("last_run_success", "1 if the last sweep completed without a fatal error."),
	}
	c.registry.MustRegister(
		c.filesScanned, c.referenced, c.remoteKeys, c.candidates,
		c.deletions, c.lastRun, c.duration, c.success,
	)
	return c
}

// Observe records a finished sweep. rep may be partial when runErr is set.
func (c *Collector) Observe(rep *gc.Report, runErr error) {
	if runErr == nil {
		c.success.Set(1)
	} else {
		c.success.Set(0)
	}
	if rep == nil {
		return
	}
	c.filesScanned.Set(float64(rep.FilesScanned))
	c.referenced.Set(float64(rep.Referenced))
	c.remoteKeys.Set(float64(rep.RemoteKeys))
	c.candidates.Set(float64(len(rep.Candidates)))
	c.deletions.WithLabelValues("succeeded").Set(float64(rep.Outcome.Succeeded))
	c.deletions.WithLabelValues("failed").Set(float64(rep.Outcome.Failed))
	if !rep.FinishedAt.IsZero() {
		c.lastRun.Set(float64(rep.FinishedAt.Unix()))
		c.duration.Set(rep.FinishedAt.Sub(rep.StartedAt).Seconds())
	}
}

// WriteTextfile atomically replaces path with the current values.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
