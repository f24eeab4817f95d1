// Package store persists master data and quote snapshots in SQLite.
package store

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/roomquote/internal/pricing"
)

// DefaultHistoryLimit is how many quote snapshots are kept.
const DefaultHistoryLimit = 500

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInvalid is returned when a value is rejected before it is written.
var ErrInvalid = errors.New("invalid value")

// Store is the SQLite-backed repository. It satisfies pricing.DataSource.
type Store struct {
	db           *sqlx.DB
	log          *slog.Logger
	historyLimit int
	now          func() time.Time
}

var _ pricing.DataSource = (*Store)(nil)

// New returns a Store over db keeping at most historyLimit quote snapshots.
func New(db *sqlx.DB, log *slog.Logger, historyLimit int) *Store {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		db:           db,
		log:          log.With(slog.String("component", "store")),
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// DB exposes the underlying handle for migrations and seeding.
func (s *Store) DB() *sqlx.DB {
	return s.db
}
