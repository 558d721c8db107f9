// Package prompt provides the interactive confirmation used before deleting.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"

	"StaticSweep/internal/gc"
)

// ErrNoAnswer is returned when input ends before the operator answers.
var ErrNoAnswer = errors.New("no answer received")

// Terminal asks on an interactive terminal. Only the exact word is accepted
// as approval; Ctrl+C or any other input declines.
type Terminal struct {
	Word   string
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

func (t *Terminal) Confirm(ctx context.Context, label string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p := promptui.Prompt{
		Label:  label,
		Stdin:  t.Stdin,
		Stdout: t.Stdout,
	}
	result, err := p.Run()
	if err != nil {
		switch {
		case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrAbort):
			return false, nil
		case errors.Is(err, promptui.ErrEOF), errors.Is(err, io.EOF):
			return false, ErrNoAnswer
		}
		return false, fmt.Errorf("prompt: %w", err)
	}
	return result == t.Word, nil
}

// Line reads a single line from R, for piped or non-TTY input. The line must
// equal the word exactly, without surrounding spaces.
type Line struct {
	Word string
	R    io.Reader
	W    io.Writer

	br *bufio.Reader
}

func (l *Line) Confirm(ctx context.Context, label string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(l.W, "%s: ", label)

	type answer struct {
		line string
		err  error
	}
	if l.br == nil {
		l.br = bufio.NewReader(l.R)
	}
	br := l.br
	ch := make(chan answer, 1)
	// On cancellation this goroutine stays blocked in the read until R
	// yields or is closed.
	go func() {
		line, err := br.ReadString('\n')
		ch <- answer{line, err}
	}()

	var a answer
	select {
	case <-ctx.Done():
		// Interrupted while waiting counts as a refusal.
		fmt.Fprintln(l.W)
		return false, nil
	case a = <-ch:
	}
	if a.err != nil && !(errors.Is(a.err, io.EOF) && a.line != "") {
		if errors.Is(a.err, io.EOF) {
			return false, ErrNoAnswer
		}
		return false, fmt.Errorf("read answer: %w", a.err)
	}
	return strings.TrimRight(a.line, "\r\n") == l.Word, nil
}

// ForStdio picks Terminal when stdin is a TTY and Line otherwise. The
// prompt is written to out.
func ForStdio(word string, out io.Writer) gc.Confirmer {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return &Terminal{Word: word, Stdin: os.Stdin, Stdout: writeCloser(out)}
	}
	return &Line{Word: word, R: os.Stdin, W: out}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeCloser adapts w for promptui without letting it close the stream.
func writeCloser(w io.Writer) io.WriteCloser {
	if w == os.Stdout || w == os.Stderr {
		return w.(io.WriteCloser)
	}
	return nopCloser{w}
}

var (
	_ gc.Confirmer = (*Terminal)(nil)
	_ gc.Confirmer = (*Line)(nil)
)
