// Package game holds the attempt state machines for both puzzle variants.
// Each game is safe for concurrent use. Remote calls run without the lock
// held, and a response is applied only if no newer request was started.
package game

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/emoiq/internal/puzzle"
)

// Phase is the state of an attempt flow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseReady      Phase = "ready"
	PhaseInProgress Phase = "in_progress"
	PhaseSubmitted  Phase = "submitted"
	PhaseWon        Phase = "won"
	PhaseLost       Phase = "lost"
)

// Option configures a game.
type Option func(*machine)

// WithClock overrides the clock used to resolve today's date key.
func WithClock(now func() time.Time) Option {
	return func(m *machine) { m.now = now }
}

// WithLogger sets the game's logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *machine) { m.log = log }
}

// machine is the state shared by both variants. Fields are guarded by mu.
type machine struct {
	mu sync.Mutex

	phase    Phase
	dateKey  string
	selected string
	loading  bool
	err      string

	// seq identifies the latest request; older responses are dropped.
	seq uint64

	now func() time.Time
	log logrus.FieldLogger
}

// init sets up m in place; the embedding game must not be copied after.
func (m *machine) init(variant string, opts []Option) {
	m.phase = PhaseIdle
	m.now = time.Now
	m.log = logrus.StandardLogger()
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.WithField("variant", variant)
}

func (m *machine) today() string {
	return puzzle.DateKey(m.now())
}

// begin starts a request. Callers hold mu.
func (m *machine) begin() uint64 {
	m.seq++
	m.loading = true
	return m.seq
}

// beginLoad starts a load for dateKey and enters the loading phase.
// Callers hold mu.
func (m *machine) beginLoad(dateKey string) uint64 {
	req := m.begin()
	m.phase = PhaseLoading
	m.dateKey = dateKey
	m.err = ""
	return req
}

// settle ends request req. It reports false, leaving state untouched, when
// a newer request has started. Callers hold mu.
func (m *machine) settle(req uint64) bool {
	if req != m.seq {
		m.log.WithField("request", req).Debug("dropping stale response")
		return false
	}
	m.loading = false
	return true
}

// base is the presentation view shared by both variants.
type base struct {
	Phase        Phase
	DateKey      string
	SelectedDate string
	Loading      bool
	Err          string
}

func (m *machine) view() base {
	return base{
		Phase:        m.phase,
		DateKey:      m.dateKey,
		SelectedDate: m.selected,
		Loading:      m.loading,
		Err:          m.err,
	}
}
