package notifier

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"StaticSweep/internal/config"
	"StaticSweep/internal/gc"
)

const (
	colorOK      = 0x2ecc71
	colorPartial = 0xf1c40f
	colorFailed  = 0xe74c3c

	// maxFailedKeysListed keeps the embed description well under Discord's limit.
	maxFailedKeysListed = 10
	defaultTimeout      = 10 * time.Second
)

// DiscordNotifier posts sweep results to a Discord webhook as one embed.
type DiscordNotifier struct {
	hook      *webhook
	onFailure string
	host      string
	now       func() time.Time
}

type embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
	Fields      []field `json:"fields,omitempty"`
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds"`
}

func NewDiscordNotifier(cfg *config.DiscordConfig) (*DiscordNotifier, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("discord notifier disabled")
	}
	if strings.TrimSpace(cfg.WebhookURL) == "" {
		return nil, fmt.Errorf("discord notifier: missing webhook_url")
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	hook := &webhook{url: cfg.WebhookURL, http: &http.Client{Timeout: timeout}, attempts: 1}
	if cfg.Retry != nil && cfg.Retry.Attempts > 1 {
		hook.attempts = cfg.Retry.Attempts
		hook.backoff = time.Duration(cfg.Retry.BackoffMs) * time.Millisecond
	}
	n := &DiscordNotifier{hook: hook, host: hostname(), now: time.Now}
	if cfg.Mentions != nil {
		n.onFailure = cfg.Mentions.OnFailure
	}
	return n, nil
}

func hostname() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "unknown"
}

func (d *DiscordNotifier) newEmbed(title string, color int, bucket string) embed {
	return embed{
		Title:     title,
		Color:     color,
		Timestamp: d.now().UTC().Format(time.RFC3339),
		Fields: []field{
			{Name: "Host", Value: d.host, Inline: true},
			{Name: "Bucket", Value: bucket, Inline: true},
		},
	}
}

func (e *embed) add(name string, n int) {
	e.Fields = append(e.Fields, field{Name: name, Value: strconv.Itoa(n), Inline: true})
}

func (d *DiscordNotifier) NotifySweep(ctx context.Context, rep *gc.Report) error {
	failed := rep.Outcome.Failed > 0
	e := d.newEmbed("Static sweep completed", colorOK, rep.Bucket)
	if failed {
		e = d.newEmbed("Static sweep completed with failures", colorPartial, rep.Bucket)
	}
	e.add("Remote", rep.RemoteKeys)
	e.add("Referenced", rep.Referenced)
	e.add("Deleted", rep.Outcome.Succeeded)
	e.add("Failed", rep.Outcome.Failed)

	msg := message{}
	if failed {
		e.Description = failedKeysText(rep.Outcome.FailedKeys)
		msg.Content = d.onFailure
	}
	msg.Embeds = []embed{e}
	return d.hook.post(ctx, msg)
}

func (d *DiscordNotifier) NotifyError(ctx context.Context, bucket string, err error) error {
	e := d.newEmbed("Static sweep failed", colorFailed, bucket)
	e.Description = err.Error()
	return d.hook.post(ctx, message{Content: d.onFailure, Embeds: []embed{e}})
}

func failedKeysText(keys []string) string {
	var b strings.Builder
	b.WriteString("Failed keys:\n")
	shown := keys
	if len(shown) > maxFailedKeysListed {
		shown = shown[:maxFailedKeysListed]
	}
	b.WriteString(strings.Join(shown, "\n"))
	if rest := len(keys) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\n... and %d more", rest)
	}
	return b.String()
}

var _ Notifier = (*DiscordNotifier)(nil)
