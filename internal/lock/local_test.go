package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLocalLocker_AcquireRelease(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(LocalOptions{Dir: dir, Bucket: "assets"})
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := os.Stat(l.Path()); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}

	other := NewLocal(LocalOptions{Dir: dir, Bucket: "assets"})
	err := other.Acquire(ctx)
	if !errors.Is(err, ErrHeld) {
		t.Fatalf("second Acquire error = %v, want ErrHeld", err)
	}
	if !strings.Contains(err.Error(), fmt.Sprintf("pid %d", os.Getpid())) {
		t.Errorf("error does not name the holder: %v", err)
	}

	if err := l.Release(ctx); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Fatalf("lock file still present after release")
	}
	if err := other.Acquire(ctx); err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = other.Release(ctx)
}

func TestLocalLocker_StaleLockReplaced(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(LocalOptions{Dir: dir, Bucket: "assets", TTL: time.Minute})
	if err := os.WriteFile(l.Path(), []byte("1\n"), 0640); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(l.Path(), old, old); err != nil {
		t.Fatal(err)
	}
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire over stale lock: %v", err)
	}
	_ = l.Release(context.Background())
}

func TestNewLocal_SanitizesBucket(t *testing.T) {
	l := NewLocal(LocalOptions{Dir: "/tmp/x", Bucket: "../evil/bucket"})
	base := filepath.Base(l.Path())
	if strings.Contains(base, "/") || filepath.Dir(l.Path()) != "/tmp/x" {
		t.Fatalf("path escaped lock dir: %s", l.Path())
	}
	if !strings.HasPrefix(base, "staticsweep-") || !strings.HasSuffix(base, ".lock") {
		t.Fatalf("unexpected lock name %s", base)
	}
}
