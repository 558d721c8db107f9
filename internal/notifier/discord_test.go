package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StaticSweep/internal/config"
	"StaticSweep/internal/gc"
)

func TestNewDiscordNotifier_Disabled(t *testing.T) {
	_, err := NewDiscordNotifier(nil)
	assert.Error(t, err)
	_, err = NewDiscordNotifier(&config.DiscordConfig{Enabled: true})
	assert.Error(t, err)
}

func TestNotifySweep_PostsEmbedWithFailures(t *testing.T) {
	var got message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n, err := NewDiscordNotifier(&config.DiscordConfig{
		Enabled:    true,
		WebhookURL: srv.URL,
		Mentions:   &config.DiscordMentions{OnFailure: "@ops"},
	})
	require.NoError(t, err)

	rep := &gc.Report{
		Bucket:     "assets",
		RemoteKeys: 5,
		Outcome:    gc.Outcome{Attempted: 2, Succeeded: 1, Failed: 1, FailedKeys: []string{"2025/x.webp"}},
	}
	require.NoError(t, n.NotifySweep(context.Background(), rep))

	assert.Equal(t, "@ops", got.Content)
	require.Len(t, got.Embeds, 1)
	assert.Contains(t, got.Embeds[0].Title, "failures")
	assert.Contains(t, got.Embeds[0].Description, "2025/x.webp")
}

func TestNotifyError_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unknown webhook", http.StatusNotFound)
	}))
	defer srv.Close()

	n, err := NewDiscordNotifier(&config.DiscordConfig{
		Enabled:    true,
		WebhookURL: srv.URL,
		Retry:      &config.DiscordRetry{Attempts: 3, BackoffMs: 1},
	})
	require.NoError(t, err)

	err = n.NotifyError(context.Background(), "assets", errors.New("list failed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFailedKeysText_Truncates(t *testing.T) {
	keys := make([]string, maxFailedKeysListed+3)
	for i := range keys {
		keys[i] = "k"
	}
	assert.Contains(t, failedKeysText(keys), "... and 3 more")
	assert.NotContains(t, failedKeysText(keys[:2]), "more")
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 2*time.Second, retryAfter("2"))
	assert.Zero(t, retryAfter(""))
	assert.Zero(t, retryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestNotifyError_RetriesThenFails(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n, err := NewDiscordNotifier(&config.DiscordConfig{
		Enabled:    true,
		WebhookURL: srv.URL,
		Retry:      &config.DiscordRetry{Attempts: 3, BackoffMs: 1},
	})
	require.NoError(t, err)

	err = n.NotifyError(context.Background(), "assets", errors.New("list failed"))
	assert.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
