// Package doctor runs preflight checks before a sweep.
package doctor

import (
	"context"
	"fmt"
	"os"
	"time"

	"StaticSweep/internal/config"
	"StaticSweep/internal/lock"
	"StaticSweep/internal/s3"
)

type CheckResult struct {
	Name   string `json:"name" yaml:"name"`
	OK     bool   `json:"ok" yaml:"ok"`
	Detail string `json:"detail" yaml:"detail"`
}

// Results satisfies report.TableRenderer.
type Results []CheckResult

func (r Results) Headers() []string { return []string{"Check", "Status", "Detail"} }

func (r Results) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, c := range r {
		status := "ok"
		if !c.OK {
			status = "FAIL"
		}
		rows = append(rows, []string{c.Name, status, c.Detail})
	}
	return rows
}

// Failed reports whether any check failed.
func (r Results) Failed() bool {
	for _, c := range r {
		if !c.OK {
			return true
		}
	}
	return false
}

// Opener builds a store from validated settings. Tests replace it.
type Opener func(ctx context.Context, r2 *config.R2Config) (s3.Store, error)

// Run checks cfg, which must not be nil. Validation errors stop the store
// check but the local checks still run.
func Run(ctx context.Context, cfg *config.Config, open Opener) Results {
	if open == nil {
		open = s3.Open
	}
	var results Results

	validErr := config.Validate(cfg)
	if validErr != nil {
		results = append(results, CheckResult{Name: "config", OK: false, Detail: validErr.Error()})
		results = append(results, CheckResult{Name: "bucket", OK: false, Detail: "skipped: configuration invalid"})
	} else {
		results = append(results, CheckResult{Name: "config", OK: true, Detail: "configuration valid"})
		ok, detail := checkStore(ctx, cfg, open)
		results = append(results, CheckResult{Name: "bucket", OK: ok, Detail: detail})
	}

	ok, detail := checkScanRoot(cfg)
	results = append(results, CheckResult{Name: "scan root", OK: ok, Detail: detail})

	ok, detail = checkLock(ctx, cfg)
	results = append(results, CheckResult{Name: "lock dir", OK: ok, Detail: detail})

	if config.JournalEnabled(cfg.Journal) {
		ok, detail = checkWritable(cfg.Journal.Dir)
		results = append(results, CheckResult{Name: "journal dir", OK: ok, Detail: detail})
	}
	return results
}

func checkStore(ctx context.Context, cfg *config.Config, open Opener) (bool, string) {
	store, err := open(ctx, cfg.R2)
	if err != nil {
		return false, fmt.Sprintf("client init failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := store.Probe(ctx); err != nil {
		return false, fmt.Sprintf("probe failed: %v", err)
	}
	return true, fmt.Sprintf("reachable (bucket=%s, endpoint=%s)", cfg.R2.Bucket, cfg.R2.Endpoint)
}

func checkScanRoot(cfg *config.Config) (bool, string) {
	root := "."
	if cfg.Scan != nil && cfg.Scan.Root != "" {
		root = cfg.Scan.Root
	}
	info, err := os.Stat(root)
	if err != nil {
		return false, fmt.Sprintf("stat %s: %v", root, err)
	}
	if !info.IsDir() {
		return false, fmt.Sprintf("%s is not a directory", root)
	}
	if _, err := os.ReadDir(root); err != nil {
		return false, fmt.Sprintf("read %s: %v", root, err)
	}
	return true, fmt.Sprintf("readable (%s)", root)
}

func checkLock(ctx context.Context, cfg *config.Config) (bool, string) {
	dir := ""
	if cfg.Lock != nil {
		dir = cfg.Lock.Dir
	}
	l := lock.NewLocal(lock.LocalOptions{Dir: dir, Bucket: "doctor"})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := l.Acquire(ctx); err != nil {
		return false, fmt.Sprintf("acquire failed: %v", err)
	}
	if err := l.Release(ctx); err != nil {
		return false, fmt.Sprintf("release failed: %v", err)
	}
	return true, fmt.Sprintf("writable (%s)", l.Path())
}

func checkWritable(dir string) (bool, string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Sprintf("create %s: %v", dir, err)
	}
	f, err := os.CreateTemp(dir, "staticsweep-doctor-*")
	if err != nil {
		return false, fmt.Sprintf("create temp file failed in %s: %v", dir, err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString("test"); err != nil {
		_ = f.Close()
		return false, fmt.Sprintf("write temp file failed: %v", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Sprintf("close temp file failed: %v", err)
	}
	return true, fmt.Sprintf("writable (%s)", dir)
}
