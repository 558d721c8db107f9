package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StaticSweep/internal/scan"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		remote     []string
		referenced []string
		want       []string
	}{
		{"subset yields nothing", []string{"a", "b"}, []string{"a", "b", "c"}, []string{}},
		{"empty referenced yields remote", []string{"b", "a", "c"}, nil, []string{"b", "a", "c"}},
		{"empty remote", nil, []string{"a"}, []string{}},
		{"keeps remote order", []string{"z", "a", "m", "b"}, []string{"a"}, []string{"z", "m", "b"}},
		{"exact string match only", []string{"A.png", "a.png", "dir/", "dir", "x%20y", "x y"}, []string{"a.png", "dir", "x y"}, []string{"A.png", "dir/", "x%20y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.remote, scan.NewKeySet(tt.referenced...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	remote := []string{"k1", "k2", "k3", "k4", "k5"}
	ref := scan.NewKeySet("k2", "k4")
	first := Reconcile(remote, ref)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Reconcile(remote, ref))
	}
}
