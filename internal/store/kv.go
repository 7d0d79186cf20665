package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/sirupsen/logrus"
)

// Keys of the persisted JSON documents.
const (
	KeySettings     = "emoiq_settings"
	KeyProgress     = "emoiq_progress"
	KeyEntitlements = "emoiq_entitlements"
)

// KV is a string key-value store.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// KV returns the store's key-value table.
func (s *Store) KV() KV {
	return &sqliteKV{drv: s.drv}
}

// Logger returns the store's logger.
func (s *Store) Logger() logrus.FieldLogger {
	return s.log
}

type sqliteKV struct {
	drv *entsql.Driver
}

func (k *sqliteKV) Get(ctx context.Context, key string) (string, bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("key", key)).
		Query()

	rows := &entsql.Rows{}
	if err := k.drv.Query(ctx, query, args, rows); err != nil {
		return "", false, fmt.Errorf("query %s: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return "", false, fmt.Errorf("scan %s: %w", key, err)
	}
	return value, true, nil
}

func (k *sqliteKV) Put(ctx context.Context, key, value string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := k.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (k *sqliteKV) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(kvTable).
		Where(entsql.EQ("key", key)).
		Query()

	if err := k.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// MemoryKV is an in-process KV, used when no database is available and in
// tests.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string

	// Err, when set, is returned by every operation.
	Err error
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.data, key)
	return nil
}

// ReadJSON decodes the document stored under key into v. It returns false
// when the key is missing, unreadable or not valid JSON; it never fails.
func ReadJSON(ctx context.Context, kv KV, key string, v any) bool {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

// WriteJSON encodes v and stores it under key. Failures are logged and
// otherwise ignored.
func WriteJSON(ctx context.Context, kv KV, log logrus.FieldLogger, key string, v any) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("encode local document")
		return
	}
	if err := kv.Put(ctx, key, string(b)); err != nil {
		log.WithError(err).WithField("key", key).Warn("write local document")
	}
}
