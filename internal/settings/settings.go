// Package settings stores display preferences locally.
package settings

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/emoiq/internal/store"
	"github.com/abhisek/emoiq/internal/validate"
)

// Theme selects the color scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Settings are the user's display preferences.
type Settings struct {
	Theme        Theme `json:"theme" validate:"required,oneof=light dark system"`
	HighContrast bool  `json:"highContrast"`
	ReduceMotion bool  `json:"reduceMotion"`
}

// Default returns the settings used before anything is saved.
func Default() Settings {
	return Settings{Theme: ThemeDark}
}

// Manager owns the current settings.
type Manager struct {
	mu  sync.Mutex
	cur Settings
	kv  store.KV
	log logrus.FieldLogger
}

func NewManager(kv store.KV, log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{cur: Default(), kv: kv, log: log.WithField("component", "settings")}
}

// Hydrate loads saved settings. Missing, unreadable or invalid settings
// fall back to Default.
func (m *Manager) Hydrate(ctx context.Context) Settings {
	s := Default()
	if store.ReadJSON(ctx, m.kv, store.KeySettings, &s) {
		if err := validate.Struct(s); err != nil {
			m.log.WithError(err).Warn("discarding saved settings")
			s = Default()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = s
	return s
}

// Get returns the current settings.
func (m *Manager) Get() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

// Update applies fn to a copy of the settings and saves the result if it
// validates.
func (m *Manager) Update(ctx context.Context, fn func(*Settings)) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.cur
	fn(&next)
	if err := validate.Struct(next); err != nil {
		return m.cur, err
	}
	m.cur = next
	store.WriteJSON(ctx, m.kv, m.log, store.KeySettings, next)
	return next, nil
}
