package report

import (
	"strconv"
	"time"

	"StaticSweep/internal/gc"
)

// Failure is one object whose delete failed.
type Failure struct {
	Key   string `json:"key" yaml:"key"`
	Error string `json:"error" yaml:"error"`
}

// Summary is the printable form of a gc.Report.
type Summary struct {
	Bucket       string    `json:"bucket" yaml:"bucket"`
	FilesScanned int       `json:"files_scanned" yaml:"files_scanned"`
	FilesSkipped int       `json:"files_skipped" yaml:"files_skipped"`
	Referenced   int       `json:"referenced" yaml:"referenced"`
	RemoteKeys   int       `json:"remote_keys" yaml:"remote_keys"`
	Candidates   []string  `json:"candidates" yaml:"candidates"`
	Decision     string    `json:"decision" yaml:"decision"`
	Attempted    int       `json:"attempted" yaml:"attempted"`
	Deleted      int       `json:"deleted" yaml:"deleted"`
	Failed       int       `json:"failed" yaml:"failed"`
	Failures     []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
	StartedAt    time.Time `json:"started_at" yaml:"started_at"`
	DurationMs   int64     `json:"duration_ms" yaml:"duration_ms"`
}

func FromReport(rep *gc.Report) Summary {
	s := Summary{
		Bucket:       rep.Bucket,
		FilesScanned: rep.FilesScanned,
		FilesSkipped: rep.FilesSkipped,
		Referenced:   rep.Referenced,
		RemoteKeys:   rep.RemoteKeys,
		Candidates:   rep.Candidates,
		Decision:     rep.Decision.String(),
		Attempted:    rep.Outcome.Attempted,
		Deleted:      rep.Outcome.Succeeded,
		Failed:       rep.Outcome.Failed,
		StartedAt:    rep.StartedAt,
	}
	if s.Candidates == nil {
		s.Candidates = []string{}
	}
	if !rep.FinishedAt.IsZero() {
		s.DurationMs = rep.FinishedAt.Sub(rep.StartedAt).Milliseconds()
	}
	for _, r := range rep.Outcome.Results {
		if !r.OK() {
			s.Failures = append(s.Failures, Failure{Key: r.Key, Error: r.Err.Error()})
		}
	}
	return s
}

func (s Summary) Headers() []string { return []string{"Field", "Value"} }

func (s Summary) Rows() [][]string {
	rows := [][]string{
		{"Bucket", s.Bucket},
		{"Files scanned", strconv.Itoa(s.FilesScanned)},
		{"Files skipped", strconv.Itoa(s.FilesSkipped)},
		{"Referenced keys", strconv.Itoa(s.Referenced)},
		{"Remote keys", strconv.Itoa(s.RemoteKeys)},
		{"Unreferenced", strconv.Itoa(len(s.Candidates))},
		{"Decision", s.Decision},
		{"Deleted", strconv.Itoa(s.Deleted)},
		{"Failed", strconv.Itoa(s.Failed)},
	}
	for _, f := range s.Failures {
		rows = append(rows, []string{"Failed key", f.Key + ": " + f.Error})
	}
	return rows
}

// KeyList is a flat list of keys, used by the scan and list commands.
type KeyList struct {
	Title string   `json:"-" yaml:"-"`
	Keys  []string `json:"keys" yaml:"keys"`
}

func (k KeyList) Headers() []string {
	if k.Title == "" {
		return []string{"Key"}
	}
	return []string{k.Title}
}

func (k KeyList) Rows() [][]string {
	rows := make([][]string, 0, len(k.Keys))
	for _, key := range k.Keys {
		rows = append(rows, []string{key})
	}
	return rows
}
