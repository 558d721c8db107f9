package lock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

// DefaultTTL bounds how long an abandoned lock file blocks new sweeps.
const DefaultTTL = 6 * time.Hour

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Holder is written into the lock file so a blocked operator can see who
// owns it.
type Holder struct {
	PID     int       `json:"pid"`
	Host    string    `json:"host"`
	Started time.Time `json:"started"`
}

type LocalOptions struct {
	Dir    string
	Bucket string
	// TTL after which an existing lock is treated as abandoned. Zero means
	// DefaultTTL; negative means never.
	TTL time.Duration
}

// LocalLocker is an O_EXCL lock file at <dir>/staticsweep-<bucket>.lock.
type LocalLocker struct {
	mu   sync.Mutex
	path string
	ttl  time.Duration
	held bool
	now  func() time.Time
}

func NewLocal(opts LocalOptions) *LocalLocker {
	dir := opts.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	name := unsafeName.ReplaceAllString(opts.Bucket, "_")
	if name == "" || name == "." || name == ".." {
		name = "default"
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &LocalLocker{
		path: filepath.Join(dir, "staticsweep-"+name+".lock"),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (l *LocalLocker) Path() string { return l.path }

func (l *LocalLocker) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return fmt.Errorf("lock %s already held by this process", l.path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}

	err := l.create()
	if errors.Is(err, fs.ErrExist) {
		if err = l.breakStale(); err == nil {
			err = l.create()
		}
	}
	if err != nil {
		return err
	}
	l.held = true
	return nil
}

// create writes a new lock file, failing with fs.ErrExist if one is present.
func (l *LocalLocker) create() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0640)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return err
		}
		return fmt.Errorf("create lock file: %w", err)
	}
	host, _ := os.Hostname()
	werr := json.NewEncoder(f).Encode(Holder{PID: os.Getpid(), Host: host, Started: l.now().UTC()})
	if werr == nil {
		werr = f.Sync()
	}
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(l.path)
		return fmt.Errorf("write lock file: %w", werr)
	}
	return nil
}

// breakStale removes the existing lock file if it is older than the TTL and
// otherwise reports who holds it.
func (l *LocalLocker) breakStale() error {
	info, err := os.Stat(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat lock file: %w", err)
	}
	if l.ttl < 0 || l.now().Sub(info.ModTime()) < l.ttl {
		if h, ok := readHolder(l.path); ok {
			return fmt.Errorf("%w: %s (pid %d on %s since %s)", ErrHeld, l.path, h.PID, h.Host, h.Started.Format(time.RFC3339))
		}
		return fmt.Errorf("%w: %s", ErrHeld, l.path)
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale lock: %w", err)
	}
	return nil
}

func readHolder(path string) (Holder, bool) {
	var h Holder
	data, err := os.ReadFile(path)
	if err != nil || json.Unmarshal(data, &h) != nil || h.PID == 0 {
		return Holder{}, false
	}
	return h, true
}

func (l *LocalLocker) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return nil
	}
	l.held = false
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

var _ Locker = (*LocalLocker)(nil)
