package gc

import (
	"context"

	"github.com/stretchr/testify/mock"
)

var _ Store = (*MockStore)(nil)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListPage(ctx context.Context, token string) ([]string, string, error) {
	args := m.Called(ctx, token)
	keys, _ := args.Get(0).([]string)
	return keys, args.String(1), args.Error(2)
}

func (m *MockStore) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStore) Bucket() string {
	return "assets"
}

// pagedStore serves fixed pages chained by tokens "p1", "p2", ...
type pagedStore struct {
	pages   [][]string
	calls   []string
	deleted []string
	failing map[string]error
}

func (p *pagedStore) ListPage(_ context.Context, token string) ([]string, string, error) {
	p.calls = append(p.calls, token)
	idx := 0
	if token != "" {
		for i := range p.pages {
			if token == pageToken(i) {
				idx = i
			}
		}
	}
	next := ""
	if idx+1 < len(p.pages) {
		next = pageToken(idx + 1)
	}
	return p.pages[idx], next, nil
}

func (p *pagedStore) DeleteObject(_ context.Context, key string) error {
	if err, ok := p.failing[key]; ok {
		return err
	}
	p.deleted = append(p.deleted, key)
	return nil
}

func (p *pagedStore) Bucket() string {
	return "assets"
}

func pageToken(i int) string {
	return "p" + string(rune('0'+i))
}
