// Package entitlements tracks purchased products. State is local-first:
// grants land in local storage immediately and are mirrored to the remote
// store when a user is signed in.
package entitlements

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/emoiq/internal/auth"
	"github.com/abhisek/emoiq/internal/remote"
	"github.com/abhisek/emoiq/internal/store"
)

// Product ids.
const (
	RemoveAds = "remove_ads"
	ProAccess = "pro_access"
)

// ErrUnknownProduct is returned by Grant for ids other than the known
// products.
var ErrUnknownProduct = errors.New("unknown product")

// State is the entitlement flags. Pending is set while a remote upsert is
// in flight and is never persisted.
type State struct {
	RemoveAds bool `json:"removeAds"`
	ProAccess bool `json:"proAccess"`
	Pending   bool `json:"-"`
}

// Products lists the granted product ids.
func (s State) Products() []string {
	var out []string
	if s.RemoveAds {
		out = append(out, RemoveAds)
	}
	if s.ProAccess {
		out = append(out, ProAccess)
	}
	return out
}

// Manager owns the entitlement state.
type Manager struct {
	mu     sync.Mutex
	state  State
	kv     store.KV
	remote remote.Store
	auth   auth.Provider
	log    logrus.FieldLogger
}

// NewManager creates a Manager. rs and provider may be nil, in which case
// grants stay local.
func NewManager(kv store.KV, rs remote.Store, provider auth.Provider, log logrus.FieldLogger) *Manager {
	if rs == nil {
		rs = remote.Unconfigured{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{kv: kv, remote: rs, auth: provider, log: log.WithField("component", "entitlements")}
}

// Hydrate loads the persisted state. Missing or unreadable state leaves
// every flag off.
func (m *Manager) Hydrate(ctx context.Context) State {
	var s State
	if !store.ReadJSON(ctx, m.kv, store.KeyEntitlements, &s) {
		s = State{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Pending = m.state.Pending
	m.state = s
	return s
}

// State returns the current flags.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Grant enables productID locally and, for a signed-in user with a remote
// store, upserts it remotely. Remote failures are logged; the local grant
// stands.
func (m *Manager) Grant(ctx context.Context, productID string) (State, error) {
	m.mu.Lock()
	switch productID {
	case RemoveAds:
		m.state.RemoveAds = true
	case ProAccess:
		m.state.ProAccess = true
	default:
		m.mu.Unlock()
		return m.State(), fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	persisted := m.state
	persisted.Pending = false
	store.WriteJSON(ctx, m.kv, m.log, store.KeyEntitlements, persisted)

	userID := m.userID(ctx)
	if userID == "" || !remote.Configured(m.remote) {
		s := m.state
		m.mu.Unlock()
		return s, nil
	}
	m.state.Pending = true
	m.mu.Unlock()

	err := m.remote.UpsertEntitlement(ctx, remote.Entitlement{UserID: userID, ProductID: productID, Status: "active"})
	if err != nil {
		m.log.WithError(err).WithField("user", userID).WithField("product", productID).Warn("remote entitlement upsert failed")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Pending = false
	return m.state, nil
}

func (m *Manager) userID(ctx context.Context) string {
	if m.auth == nil {
		return ""
	}
	s, err := m.auth.Session(ctx)
	if err != nil || s == nil {
		return ""
	}
	return s.UserID
}
