package gc

import (
	"context"
	"fmt"
	"io"
)

const (
	// AffirmativeToken is the only answer that approves deletion.
	AffirmativeToken = "yes"
	// PreviewLimit caps how many candidates are printed before prompting.
	PreviewLimit = 10

	ConfirmPrompt = "Delete these objects? (yes/no)"
)

// Confirmer asks the operator a yes/no question and blocks until answered.
// It returns true only for an explicit approval.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

type Decision int

const (
	DecisionNothingToDelete Decision = iota
	DecisionApproved
	DecisionCancelled
	DecisionDryRun
)

func (d Decision) String() string {
	switch d {
	case DecisionNothingToDelete:
		return "nothing-to-delete"
	case DecisionApproved:
		return "approved"
	case DecisionCancelled:
		return "cancelled"
	case DecisionDryRun:
		return "dry-run"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Gate stands between reconciliation and deletion.
type Gate struct {
	Out       io.Writer
	Confirmer Confirmer
	// PublicURL renders a key for display; it must use the same base URL the
	// scanner matched on.
	PublicURL func(key string) string
	// Limit overrides PreviewLimit when positive.
	Limit  int
	DryRun bool
}

// Approve previews candidates and asks for confirmation. An empty list
// returns DecisionNothingToDelete without prompting. A confirmer error aborts
// the run.
func (g *Gate) Approve(ctx context.Context, candidates []string) (Decision, error) {
	if len(candidates) == 0 {
		return DecisionNothingToDelete, nil
	}
	g.Preview(candidates)
	if g.DryRun {
		return DecisionDryRun, nil
	}
	if g.Confirmer == nil {
		return DecisionCancelled, fmt.Errorf("no confirmation provider configured")
	}
	ok, err := g.Confirmer.Confirm(ctx, ConfirmPrompt)
	if err != nil {
		return DecisionCancelled, fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		return DecisionCancelled, nil
	}
	return DecisionApproved, nil
}

// Preview prints at most Limit candidates as public URLs plus a remainder line.
func (g *Gate) Preview(candidates []string) {
	limit := g.Limit
	if limit <= 0 {
		limit = PreviewLimit
	}
	render := g.PublicURL
	if render == nil {
		render = func(k string) string { return k }
	}
	fmt.Fprintf(g.Out, "\nObjects to delete:\n")
	for i, key := range candidates {
		if i == limit {
			break
		}
		fmt.Fprintf(g.Out, "  - %s\n", render(key))
	}
	if rest := len(candidates) - limit; rest > 0 {
		fmt.Fprintf(g.Out, "  ... and %d more\n", rest)
	}
}
