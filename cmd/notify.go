package cmd

import (
	"StaticSweep/internal/config"
	"StaticSweep/internal/notifier"
)

// NotifierFromConfig returns the Discord notifier for a sweep, or nil when
// notifications are off. A Discord section that is enabled but unusable is
// reported through warn and treated as off.
func NotifierFromConfig(cfg *config.Config, warn func(string)) notifier.Notifier {
	if cfg == nil || !config.NotificationsEnabled(cfg.Notifications) {
		return nil
	}
	if cfg.Notifications.Discord == nil || !cfg.Notifications.Discord.Enabled {
		return nil
	}
	n, err := notifier.NewDiscordNotifier(cfg.Notifications.Discord)
	if err != nil {
		if warn != nil {
			warn("discord notification: " + err.Error())
		}
		return nil
	}
	return n
}
