package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/roomquote/internal/analytics"
	"github.com/Simplici0/roomquote/internal/pricing"
)

// NewQuote is a calculated quote the user chose to keep.
type NewQuote struct {
	Title string
	Unit  string
	Quote pricing.Quote
}

// QuoteRecord is a stored snapshot. Reading it back never recalculates.
type QuoteRecord struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Title     string        `json:"title"`
	Unit      string        `json:"unit"`
	Converted bool          `json:"converted"`
	Quote     pricing.Quote `json:"quote"`
}

// Historical returns the record in the shape analytics aggregates.
func (r QuoteRecord) Historical() analytics.HistoricalRecord {
	return analytics.HistoricalRecord{
		ID:        r.ID,
		Title:     r.Title,
		Unit:      r.Unit,
		CreatedAt: r.CreatedAt,
		Converted: r.Converted,
		Result:    r.Quote.Result,
	}
}

// QuoteListItem is one line of the saved quotes list.
type QuoteListItem struct {
	ID         string            `json:"id" db:"id"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	Title      string            `json:"title" db:"title"`
	Unit       string            `json:"unit" db:"unit"`
	RoomID     string            `json:"room_id" db:"room_id"`
	RiskLevel  pricing.RiskLevel `json:"risk_level" db:"risk_level"`
	FinalPrice float64           `json:"final_price" db:"final_price"`
	Converted  bool              `json:"converted" db:"converted"`
}

type quoteRow struct {
	QuoteListItem
	RequestJSON string `db:"request_json"`
	ResultJSON  string `db:"result_json"`
	RiskJSON    string `db:"risk_json"`
	RoomJSON    string `db:"room_json"`
}

func (row quoteRow) record() (QuoteRecord, error) {
	rec := QuoteRecord{
		ID:        row.ID,
		CreatedAt: row.CreatedAt.UTC(),
		Title:     row.Title,
		Unit:      row.Unit,
		Converted: row.Converted,
	}
	if err := json.Unmarshal([]byte(row.RequestJSON), &rec.Quote.Request); err != nil {
		return QuoteRecord{}, fmt.Errorf("decode request: %w", err)
	}
	if err := json.Unmarshal([]byte(row.ResultJSON), &rec.Quote.Result); err != nil {
		return QuoteRecord{}, fmt.Errorf("decode result: %w", err)
	}
	if err := json.Unmarshal([]byte(row.RiskJSON), &rec.Quote.Risk); err != nil {
		return QuoteRecord{}, fmt.Errorf("decode risk: %w", err)
	}
	// Snapshots priced without a known room keep an empty column.
	if row.RoomJSON != "" {
		var room pricing.Room
		if err := json.Unmarshal([]byte(row.RoomJSON), &room); err != nil {
			return QuoteRecord{}, fmt.Errorf("decode room: %w", err)
		}
		rec.Quote.Room = &room
	}
	return rec, nil
}

// SaveQuote stores nq and drops the oldest snapshots beyond the history
// limit in the same transaction.
func (s *Store) SaveQuote(ctx context.Context, nq NewQuote) (QuoteRecord, error) {
	op := "store.SaveQuote"

	rec := QuoteRecord{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Title:     strings.TrimSpace(nq.Title),
		Unit:      strings.TrimSpace(nq.Unit),
		Quote:     nq.Quote,
	}
	var roomID, roomJSON string
	if room := nq.Quote.Room; room != nil {
		roomID = room.ID
		if rec.Unit == "" {
			rec.Unit = room.Unit
		}
		raw, err := json.Marshal(room)
		if err != nil {
			return QuoteRecord{}, fmt.Errorf("%s: encode room: %w", op, err)
		}
		roomJSON = string(raw)
	}

	requestJSON, err := json.Marshal(rec.Quote.Request)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("%s: encode request: %w", op, err)
	}
	resultJSON, err := json.Marshal(rec.Quote.Result)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("%s: encode result: %w", op, err)
	}
	riskJSON, err := json.Marshal(rec.Quote.Risk)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("%s: encode risk: %w", op, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO quotes (
			id, created_at, title, unit, room_id, converted,
			risk_level, final_price, request_json, result_json, risk_json, room_json
		) VALUES (?, ?, ?, ?, ?, FALSE, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.CreatedAt, rec.Title, rec.Unit, roomID,
		string(rec.Quote.Risk.Level), rec.Quote.Result.FinalPrice,
		string(requestJSON), string(resultJSON), string(riskJSON), roomJSON)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("%s: insert: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM quotes
		WHERE id NOT IN (
			SELECT id FROM quotes ORDER BY created_at DESC, rowid DESC LIMIT ?
		)
	`, s.historyLimit)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("%s: trim history: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return QuoteRecord{}, fmt.Errorf("%s: commit: %w", op, err)
	}

	if trimmed, err := res.RowsAffected(); err == nil && trimmed > 0 {
		s.log.Debug("trimmed quote history", "removed", trimmed, "limit", s.historyLimit)
	}
	return rec, nil
}

// ListQuotes returns saved quotes newest first. A non-empty query filters
// on title and unit.
func (s *Store) ListQuotes(ctx context.Context, query string) ([]QuoteListItem, error) {
	op := "store.ListQuotes"
	query = strings.TrimSpace(query)
	search := "%" + query + "%"

	quotes := make([]QuoteListItem, 0)
	err := s.db.SelectContext(ctx, &quotes, `
		SELECT id, created_at, title, unit, room_id, risk_level, final_price, converted
		FROM quotes
		WHERE (? = '' OR title LIKE ? OR unit LIKE ?)
		ORDER BY created_at DESC, rowid DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range quotes {
		quotes[i].CreatedAt = quotes[i].CreatedAt.UTC()
	}
	return quotes, nil
}

// GetQuote returns the snapshot stored under id or ErrNotFound.
func (s *Store) GetQuote(ctx context.Context, id string) (QuoteRecord, error) {
	op := "store.GetQuote"
	var row quoteRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, created_at, title, unit, room_id, risk_level, final_price, converted,
		       request_json, result_json, risk_json, room_json
		FROM quotes
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return QuoteRecord{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := row.record()
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// SetConverted marks whether the quote with id became a sale.
func (s *Store) SetConverted(ctx context.Context, id string, converted bool) error {
	op := "store.SetConverted"
	res, err := s.db.ExecContext(ctx, `UPDATE quotes SET converted = ? WHERE id = ?`, converted, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// History returns the snapshots created after since, oldest first.
func (s *Store) History(ctx context.Context, since time.Time) ([]analytics.HistoricalRecord, error) {
	op := "store.History"
	var rows []quoteRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, created_at, title, unit, room_id, risk_level, final_price, converted,
		       request_json, result_json, risk_json, room_json
		FROM quotes
		WHERE created_at > ?
		ORDER BY created_at, rowid
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records := make([]analytics.HistoricalRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			s.log.Warn("skipping unreadable quote snapshot", "quote_id", row.ID, "error", err)
			continue
		}
		records = append(records, rec.Historical())
	}
	return records, nil
}
