package config

import "sync"

// RuntimeSettings is the snapshot of admin-editable configuration:
// messaging credentials and the image-host key.
type RuntimeSettings struct {
	BotToken     string
	ChatID       string
	ImageHostKey string
}

// Settings is a thread-safe holder for RuntimeSettings. Collaborators
// receive a *Settings and call Snapshot per operation, so an admin
// update takes effect on the next outbound call. Updates are in-memory
// only and do not survive a restart.
type Settings struct {
	mu  sync.RWMutex
	cur RuntimeSettings
}

// NewSettings seeds the holder from the startup configuration.
func NewSettings(cfg Config) *Settings {
	return &Settings{cur: RuntimeSettings{
		BotToken:     cfg.BotToken,
		ChatID:       cfg.ChatID,
		ImageHostKey: cfg.ImageHostKey,
	}}
}

// Snapshot returns a copy of the current settings.
func (s *Settings) Snapshot() RuntimeSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Update overwrites the non-empty fields and leaves the rest untouched,
// matching the partial-update semantics of the settings endpoint.
func (s *Settings) Update(botToken, chatID, imageHostKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if botToken != "" {
		s.cur.BotToken = botToken
	}
	if chatID != "" {
		s.cur.ChatID = chatID
	}
	if imageHostKey != "" {
		s.cur.ImageHostKey = imageHostKey
	}
}
