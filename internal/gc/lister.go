package gc

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrListIncomplete wraps any failure that leaves the remote inventory
	// partial. Nothing may be deleted after it.
	ErrListIncomplete = errors.New("remote listing incomplete")
	// ErrTokenLoop means the store handed back a continuation token it had
	// already issued.
	ErrTokenLoop = errors.New("continuation token repeated")
)

// ListAll follows continuation tokens until the store stops returning one.
// An empty page that still carries a token does not end the listing.
func ListAll(ctx context.Context, l Lister) ([]string, error) {
	var (
		keys  []string
		token string
		pages int
	)
	seen := make(map[string]struct{})
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrListIncomplete, err)
		}
		page, next, err := l.ListPage(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("%w after %d page(s): %w", ErrListIncomplete, pages, err)
		}
		pages++
		keys = append(keys, page...)
		if next == "" {
			return keys, nil
		}
		if _, dup := seen[next]; dup {
			return nil, fmt.Errorf("%w: %w %q on page %d", ErrListIncomplete, ErrTokenLoop, next, pages)
		}
		seen[next] = struct{}{}
		token = next
	}
}
