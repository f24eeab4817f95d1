package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/roomquote/internal/pricing"
)

const roomColumns = `id, name, unit, morning_cost, afternoon_cost, evening_cost, base_cost, capacity, area_m2`

// ListRooms returns every room ordered by unit and name.
func (s *Store) ListRooms(ctx context.Context) ([]pricing.Room, error) {
	op := "store.ListRooms"
	rooms := make([]pricing.Room, 0)
	if err := s.db.SelectContext(ctx, &rooms, `SELECT `+roomColumns+` FROM rooms ORDER BY unit, name`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rooms, nil
}

// Room returns the room with id or ErrNotFound.
func (s *Store) Room(ctx context.Context, id string) (pricing.Room, error) {
	op := "store.Room"
	var room pricing.Room
	err := s.db.GetContext(ctx, &room, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Room{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return pricing.Room{}, fmt.Errorf("%s: %w", op, err)
	}
	return room, nil
}

// FindRoom implements pricing.DataSource.
func (s *Store) FindRoom(ctx context.Context, id string) (*pricing.Room, error) {
	room, err := s.Room(ctx, id)
	if errors.Is(err, ErrNotFound) {
		s.log.Debug("room not found", "room_id", id)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// UpsertRoom inserts room or replaces the one with the same id. Per-shift
// costs are stored exactly as given. An empty id gets a new UUID.
func (s *Store) UpsertRoom(ctx context.Context, room pricing.Room) (pricing.Room, bool, error) {
	op := "store.UpsertRoom"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return pricing.Room{}, false, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	saved, created, err := upsertRoom(ctx, tx, room)
	if err != nil {
		return pricing.Room{}, false, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return pricing.Room{}, false, fmt.Errorf("%s: commit: %w", op, err)
	}
	return saved, created, nil
}

// ImportStats counts the rooms written by ImportRooms.
type ImportStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ImportRooms upserts every room in one transaction. Either all rooms are
// written or none are.
func (s *Store) ImportRooms(ctx context.Context, rooms []pricing.Room) (ImportStats, error) {
	op := "store.ImportRooms"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ImportStats{}, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	var stats ImportStats
	for i, room := range rooms {
		_, created, err := upsertRoom(ctx, tx, room)
		if err != nil {
			return ImportStats{}, fmt.Errorf("%s: room %d (%s): %w", op, i+1, room.Name, err)
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("%s: commit: %w", op, err)
	}
	return stats, nil
}

func upsertRoom(ctx context.Context, tx *sqlx.Tx, room pricing.Room) (pricing.Room, bool, error) {
	room.ID = strings.TrimSpace(room.ID)
	room.Name = strings.TrimSpace(room.Name)
	room.Unit = strings.TrimSpace(room.Unit)
	if room.Name == "" {
		return pricing.Room{}, false, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if anyNegative(room.MorningCost, room.AfternoonCost, room.EveningCost, room.BaseCost, room.AreaM2) || room.Capacity < 0 {
		return pricing.Room{}, false, fmt.Errorf("%w: costs must not be negative", ErrInvalid)
	}
	if room.ID == "" {
		room.ID = uuid.NewString()
	}

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = ?)`, room.ID); err != nil {
		return pricing.Room{}, false, fmt.Errorf("check existence: %w", err)
	}

	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO rooms (`+roomColumns+`)
		VALUES (:id, :name, :unit, :morning_cost, :afternoon_cost, :evening_cost, :base_cost, :capacity, :area_m2)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			unit = excluded.unit,
			morning_cost = excluded.morning_cost,
			afternoon_cost = excluded.afternoon_cost,
			evening_cost = excluded.evening_cost,
			base_cost = excluded.base_cost,
			capacity = excluded.capacity,
			area_m2 = excluded.area_m2,
			updated_at = CURRENT_TIMESTAMP
	`, room)
	if err != nil {
		return pricing.Room{}, false, err
	}
	return room, !exists, nil
}

func anyNegative(values ...float64) bool {
	for _, v := range values {
		if v < 0 {
			return true
		}
	}
	return false
}
