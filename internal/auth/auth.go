// Package auth tracks the signed-in session and notifies subscribers when it
// changes.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/emoiq/internal/store"
	"github.com/abhisek/emoiq/internal/validate"
)

// KeySession is the local storage key of the persisted session.
const KeySession = "emoiq_session"

// ErrInvalidUser is returned when signing in without a user id.
var ErrInvalidUser = errors.New("user id required")

// Session is an authenticated user.
type Session struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email,omitempty"`
	SignedIn time.Time `json:"signed_in"`
}

// Event names an auth state transition.
type Event string

const (
	SignedIn  Event = "signed_in"
	SignedOut Event = "signed_out"
)

// Change is delivered to subscribers. Session is nil after sign-out.
type Change struct {
	Event   Event
	Session *Session
}

// Provider reports the current session, or nil when signed out.
type Provider interface {
	Session(ctx context.Context) (*Session, error)
}

// Hub holds the current session and fans out changes. Subscribers are
// called synchronously, in subscription order, without the lock held.
type Hub struct {
	mu      sync.Mutex
	current *Session
	subs    map[int]func(Change)
	order   []int
	next    int

	kv  store.KV
	log logrus.FieldLogger
}

var _ Provider = (*Hub)(nil)

// NewHub creates a hub. When kv is non-nil the session is restored from and
// persisted to it.
func NewHub(ctx context.Context, kv store.KV, log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Hub{subs: map[int]func(Change){}, kv: kv, log: log}
	if kv != nil {
		var s Session
		if store.ReadJSON(ctx, kv, KeySession, &s) && s.UserID != "" {
			h.current = &s
		}
	}
	return h
}

// Session returns a copy of the current session.
func (h *Hub) Session(context.Context) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return nil, nil
	}
	s := *h.current
	return &s, nil
}

// UserID returns the signed-in user id, or "".
func (h *Hub) UserID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return ""
	}
	return h.current.UserID
}

// SignIn replaces the session and notifies subscribers.
func (h *Hub) SignIn(ctx context.Context, userID, email string) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUser
	}
	s := &Session{UserID: userID, Email: strings.TrimSpace(email), SignedIn: time.Now().UTC()}

	h.mu.Lock()
	h.current = s
	h.mu.Unlock()

	if h.kv != nil {
		store.WriteJSON(ctx, h.kv, h.log, KeySession, s)
	}
	h.log.WithField("user", userID).Info("signed in")

	cp := *s
	h.publish(Change{Event: SignedIn, Session: &cp})
	return &cp, nil
}

type emailSignIn struct {
	Email string `json:"email" validate:"required,email"`
}

// UserIDForEmail derives a stable user id from an email address, so the
// same address maps to the same remote rows on every device.
func UserIDForEmail(email string) string {
	norm := strings.ToLower(strings.TrimSpace(email))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+norm)).String()
}

// SignInEmail validates email and signs in as UserIDForEmail(email).
func (h *Hub) SignInEmail(ctx context.Context, email string) (*Session, error) {
	in := emailSignIn{Email: strings.TrimSpace(email)}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	return h.SignIn(ctx, UserIDForEmail(in.Email), in.Email)
}

// SignOut clears the session and notifies subscribers. Signing out while
// signed out is a no-op.
func (h *Hub) SignOut(ctx context.Context) {
	h.mu.Lock()
	was := h.current
	h.current = nil
	h.mu.Unlock()

	if was == nil {
		return
	}
	if h.kv != nil {
		if err := h.kv.Delete(ctx, KeySession); err != nil {
			h.log.WithError(err).Warn("clear session")
		}
	}
	h.log.WithField("user", was.UserID).Info("signed out")
	h.publish(Change{Event: SignedOut})
}

// Subscribe registers fn for future changes. The returned func removes it
// and is safe to call more than once.
func (h *Hub) Subscribe(fn func(Change)) (unsubscribe func()) {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.order = append(h.order, id)
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			for i, v := range h.order {
				if v == id {
					h.order = append(h.order[:i], h.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) publish(c Change) {
	h.mu.Lock()
	fns := make([]func(Change), 0, len(h.order))
	for _, id := range h.order {
		fns = append(fns, h.subs[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
