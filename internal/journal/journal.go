// Package journal keeps a local, compressed audit trail of deletion batches.
// Each approved sweep writes one zstd-compressed JSON Lines file named after
// the start time and a BLAKE3 digest of the candidate list.
package journal

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"StaticSweep/internal/gc"
)

const FileSuffix = ".jsonl.zst"

const (
	EntryBegin   = "begin"
	EntryDelete  = "delete"
	EntrySummary = "summary"
)

// Entry is one journal line. OK is present on every delete entry, false
// included, and absent on begin and summary entries.
type Entry struct {
	Type       string    `json:"type"`
	Time       time.Time `json:"time"`
	Bucket     string    `json:"bucket,omitempty"`
	Digest     string    `json:"digest,omitempty"`
	Candidates int       `json:"candidates,omitempty"`
	Key        string    `json:"key,omitempty"`
	OK         *bool     `json:"ok,omitempty"`
	Error      string    `json:"error,omitempty"`
	Attempted  int       `json:"attempted,omitempty"`
	Succeeded  int       `json:"succeeded,omitempty"`
	Failed     int       `json:"failed,omitempty"`
}

// Digest identifies a candidate list: BLAKE3 over the keys in order, one per
// line, hex encoded.
func Digest(candidates []string) string {
	h := blake3.New()
	for _, k := range candidates {
		_, _ = io.WriteString(h, k)
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type Writer struct {
	dir  string
	now  func() time.Time
	mu   sync.Mutex
	path string
	f    *os.File
	zw   *zstd.Encoder
	enc  *json.Encoder
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Path is the file of the current or last batch.
func (w *Writer) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

func (w *Writer) Begin(bucket string, candidates []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f != nil {
		return fmt.Errorf("journal %s already open", w.path)
	}
	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return fmt.Errorf("create journal dir %s: %w", w.dir, err)
	}
	digest := Digest(candidates)
	started := w.now().UTC()
	name := started.Format("20060102T150405Z") + "-" + digest[:16] + FileSuffix
	path := filepath.Join(w.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("zstd writer: %w", err)
	}
	w.path, w.f, w.zw, w.enc = path, f, zw, json.NewEncoder(zw)

	return w.write(Entry{
		Type:       EntryBegin,
		Time:       started,
		Bucket:     bucket,
		Digest:     digest,
		Candidates: len(candidates),
	})
}

func (w *Writer) Record(r gc.ItemResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	ok := r.OK()
	e := Entry{Type: EntryDelete, Time: w.now().UTC(), Key: r.Key, OK: &ok}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	return w.write(e)
}

func (w *Writer) Close(o gc.Outcome) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	werr := w.write(Entry{
		Type:      EntrySummary,
		Time:      w.now().UTC(),
		Attempted: o.Attempted,
		Succeeded: o.Succeeded,
		Failed:    o.Failed,
	})
	zerr := w.zw.Close()
	ferr := w.f.Close()
	w.f, w.zw, w.enc = nil, nil, nil
	for _, err := range []error{werr, zerr, ferr} {
		if err != nil {
			return fmt.Errorf("close journal %s: %w", w.path, err)
		}
	}
	return nil
}

func (w *Writer) write(e Entry) error {
	if w.enc == nil {
		return fmt.Errorf("journal not open")
	}
	if err := w.enc.Encode(e); err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	return nil
}

// Read decodes every entry of a journal file.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer zr.Close()

	var entries []Entry
	sc := bufio.NewScanner(zr)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return entries, fmt.Errorf("decode journal %s: %w", path, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return entries, fmt.Errorf("read journal %s: %w", path, err)
	}
	return entries, nil
}

// List returns journal files in dir, oldest first.
func List(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+FileSuffix))
	if err != nil {
		return nil, err
	}
	return matches, nil
}

var _ gc.Recorder = (*Writer)(nil)
