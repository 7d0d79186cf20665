package progress

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/emoiq/internal/store"
)

// Ledger is the write-through cache over the stored progress document.
// Reads are served from memory; every Put rewrites the whole document.
type Ledger struct {
	mu          sync.RWMutex
	kv          store.KV
	log         logrus.FieldLogger
	maxAttempts int
	records     Map
	loaded      bool
}

// NewLedger creates a ledger over kv. Call Load before reading.
func NewLedger(kv store.KV, log logrus.FieldLogger, maxAttempts int) *Ledger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Ledger{
		kv:          kv,
		log:         log,
		maxAttempts: maxAttempts,
		records:     Map{},
	}
}

// Load reads and decodes the stored document. Missing or unreadable data
// loads as empty progress.
func (l *Ledger) Load(ctx context.Context) Map {
	records := Map{}
	raw, ok, err := l.kv.Get(ctx, store.KeyProgress)
	switch {
	case err != nil:
		l.log.WithError(err).Warn("read progress")
	case ok:
		decoded, err := Decode([]byte(raw), l.maxAttempts)
		if err != nil {
			l.log.WithError(err).Warn("decode progress")
		} else {
			records = decoded
		}
	}

	l.mu.Lock()
	l.records = records
	l.loaded = true
	l.mu.Unlock()

	l.log.WithField("days", len(records)).Debug("progress loaded")
	return records.Clone()
}

// Loaded reports whether Load has completed.
func (l *Ledger) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Get returns a copy of the record for date.
func (l *Ledger) Get(date string) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.records[date]
	if !ok {
		return Record{Status: NotStarted}, false
	}
	return rec.Clone(), true
}

// All returns a copy of every record.
func (l *Ledger) All() Map {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records.Clone()
}

// Put replaces the record for date and writes the document through.
// Storage failures are logged, never returned.
func (l *Ledger) Put(ctx context.Context, date string, rec Record) {
	l.mu.Lock()
	l.records[date] = rec.Clone()
	snapshot := l.records.Clone()
	l.mu.Unlock()

	store.WriteJSON(ctx, l.kv, l.log, store.KeyProgress, snapshot)
}
