// Package scan finds the asset keys a source tree references through the
// public static URL.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

type Options struct {
	Root string
	// BaseURL is the public prefix, e.g. https://static.example.com/.
	BaseURL string
	// Extensions without the leading dot, lowercase.
	Extensions []string
	// ExcludeDirs are directory names skipped wherever they appear.
	ExcludeDirs []string
	Logger      zerolog.Logger
}

type Result struct {
	Keys         KeySet
	FilesScanned int
	FilesSkipped int
	// References counts matches before de-duplication.
	References int
}

type Scanner struct {
	opts     Options
	matcher  *Matcher
	exts     map[string]struct{}
	excluded map[string]struct{}
	readFile func(string) ([]byte, error)
}

func New(opts Options) *Scanner {
	s := &Scanner{
		opts:     opts,
		matcher:  NewMatcher(opts.BaseURL),
		exts:     make(map[string]struct{}, len(opts.Extensions)),
		excluded: make(map[string]struct{}, len(opts.ExcludeDirs)),
		readFile: os.ReadFile,
	}
	for _, e := range opts.Extensions {
		s.exts[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	for _, d := range opts.ExcludeDirs {
		s.excluded[d] = struct{}{}
	}
	return s
}

func (s *Scanner) Matcher() *Matcher {
	return s.matcher
}

// Scan walks Root and collects referenced keys. A file that cannot be read is
// logged and skipped; only a missing or unreadable root is an error.
func (s *Scanner) Scan(ctx context.Context) (Result, error) {
	res := Result{Keys: NewKeySet()}
	root := s.opts.Root
	if root == "" {
		root = "."
	}
	info, err := os.Stat(root)
	if err != nil {
		return res, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return res, fmt.Errorf("scan root %s is not a directory", root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			s.opts.Logger.Warn().Err(walkErr).Str("path", path).Msg("cannot read path, skipping")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			res.FilesSkipped++
			return nil
		}
		if d.IsDir() {
			if path != root && s.isExcluded(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if !s.wantFile(d.Name()) {
			return nil
		}

		content, err := s.readFile(path)
		if err != nil {
			s.opts.Logger.Warn().Err(err).Str("file", path).Msg("cannot read file, skipping")
			res.FilesSkipped++
			return nil
		}
		res.FilesScanned++
		for _, key := range s.matcher.Extract(content) {
			res.References++
			res.Keys.add(key)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return res, err
		}
		return res, fmt.Errorf("scan %s: %w", root, err)
	}

	s.opts.Logger.Debug().
		Int("files", res.FilesScanned).
		Int("skipped", res.FilesSkipped).
		Int("references", res.References).
		Int("keys", res.Keys.Len()).
		Msg("corpus scanned")
	return res, nil
}

func (s *Scanner) isExcluded(name string) bool {
	_, ok := s.excluded[name]
	return ok
}

func (s *Scanner) wantFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	_, ok := s.exts[ext]
	return ok
}
