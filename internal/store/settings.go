package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/roomquote/internal/pricing"
)

// Settings are the global pricing knobs kept in the singleton settings row.
type Settings struct {
	Multipliers pricing.ShiftMultipliers `json:"shift_multipliers"`
	Commission  pricing.CommissionConfig `json:"commission"`
}

// DefaultSettings is what a fresh database starts with.
func DefaultSettings() Settings {
	return Settings{Multipliers: pricing.DefaultShiftMultipliers}
}

type settingsRow struct {
	Morning        float64 `db:"morning_multiplier"`
	Afternoon      float64 `db:"afternoon_multiplier"`
	Evening        float64 `db:"evening_multiplier"`
	Enabled        bool    `db:"commission_enabled"`
	SellerRate     float64 `db:"seller_rate"`
	ManagementRate float64 `db:"management_rate"`
}

func (r settingsRow) settings() Settings {
	return Settings{
		Multipliers: pricing.ShiftMultipliers{Morning: r.Morning, Afternoon: r.Afternoon, Evening: r.Evening},
		Commission: pricing.CommissionConfig{
			Enabled:        r.Enabled,
			SellerRate:     r.SellerRate,
			ManagementRate: r.ManagementRate,
		},
	}
}

// EnsureSettings creates the settings row with defaults when it is missing.
func (s *Store) EnsureSettings(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO settings (id) VALUES (1) ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("store.EnsureSettings: %w", err)
	}
	return nil
}

// Settings returns the stored settings, or the defaults when none were saved.
func (s *Store) Settings(ctx context.Context) (Settings, error) {
	op := "store.Settings"
	var row settingsRow
	err := s.db.GetContext(ctx, &row, `
		SELECT morning_multiplier, afternoon_multiplier, evening_multiplier,
		       commission_enabled, seller_rate, management_rate
		FROM settings
		WHERE id = 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", op, err)
	}
	return row.settings(), nil
}

// UpdateSettings stores st in the singleton row.
func (s *Store) UpdateSettings(ctx context.Context, st Settings) error {
	op := "store.UpdateSettings"
	m, c := st.Multipliers, st.Commission
	if m.Morning < 0 || m.Afternoon < 0 || m.Evening < 0 {
		return fmt.Errorf("%s: %w: shift multipliers must not be negative", op, ErrInvalid)
	}
	if c.SellerRate < 0 || c.SellerRate > 1 || c.ManagementRate < 0 || c.ManagementRate > 1 {
		return fmt.Errorf("%s: %w: commission rates must be between 0 and 1", op, ErrInvalid)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (
			id, morning_multiplier, afternoon_multiplier, evening_multiplier,
			commission_enabled, seller_rate, management_rate
		) VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			morning_multiplier = excluded.morning_multiplier,
			afternoon_multiplier = excluded.afternoon_multiplier,
			evening_multiplier = excluded.evening_multiplier,
			commission_enabled = excluded.commission_enabled,
			seller_rate = excluded.seller_rate,
			management_rate = excluded.management_rate,
			updated_at = CURRENT_TIMESTAMP
	`, m.Morning, m.Afternoon, m.Evening, c.Enabled, c.SellerRate, c.ManagementRate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ShiftMultipliers implements pricing.DataSource.
func (s *Store) ShiftMultipliers(ctx context.Context) (pricing.ShiftMultipliers, error) {
	st, err := s.Settings(ctx)
	if err != nil {
		return pricing.ShiftMultipliers{}, err
	}
	return st.Multipliers, nil
}

// CommissionRates implements pricing.DataSource.
func (s *Store) CommissionRates(ctx context.Context) (pricing.CommissionConfig, error) {
	st, err := s.Settings(ctx)
	if err != nil {
		return pricing.CommissionConfig{}, err
	}
	return st.Commission, nil
}
