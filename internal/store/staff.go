package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/roomquote/internal/pricing"
)

const (
	employeeColumns = `id, name, rate_normal, rate_ot50, rate_ot100, transit_daily, ride_daily, meal_daily, active`
	extraColumns    = `id, name, cost_per_hour, active`
)

// ListEmployees returns every employee, active or not.
func (s *Store) ListEmployees(ctx context.Context) ([]pricing.Employee, error) {
	op := "store.ListEmployees"
	employees := make([]pricing.Employee, 0)
	if err := s.db.SelectContext(ctx, &employees, `SELECT `+employeeColumns+` FROM employees ORDER BY name`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return employees, nil
}

// ActiveEmployees implements pricing.DataSource.
func (s *Store) ActiveEmployees(ctx context.Context) ([]pricing.Employee, error) {
	op := "store.ActiveEmployees"
	employees := make([]pricing.Employee, 0)
	if err := s.db.SelectContext(ctx, &employees, `SELECT `+employeeColumns+` FROM employees WHERE active = TRUE ORDER BY name`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return employees, nil
}

// UpsertEmployee inserts e or replaces the employee with the same id.
func (s *Store) UpsertEmployee(ctx context.Context, e pricing.Employee) (pricing.Employee, error) {
	op := "store.UpsertEmployee"
	e.ID = strings.TrimSpace(e.ID)
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return pricing.Employee{}, fmt.Errorf("%s: %w: name is required", op, ErrInvalid)
	}
	if anyNegative(e.RateNormal, e.RateOT50, e.RateOT100, e.TransitDaily, e.RideDaily, e.MealDaily) {
		return pricing.Employee{}, fmt.Errorf("%s: %w: rates must not be negative", op, ErrInvalid)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES (:id, :name, :rate_normal, :rate_ot50, :rate_ot100, :transit_daily, :ride_daily, :meal_daily, :active)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			rate_normal = excluded.rate_normal,
			rate_ot50 = excluded.rate_ot50,
			rate_ot100 = excluded.rate_ot100,
			transit_daily = excluded.transit_daily,
			ride_daily = excluded.ride_daily,
			meal_daily = excluded.meal_daily,
			active = excluded.active,
			updated_at = CURRENT_TIMESTAMP
	`, e)
	if err != nil {
		return pricing.Employee{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// ListExtras returns every extra, active or not.
func (s *Store) ListExtras(ctx context.Context) ([]pricing.Extra, error) {
	op := "store.ListExtras"
	extras := make([]pricing.Extra, 0)
	if err := s.db.SelectContext(ctx, &extras, `SELECT `+extraColumns+` FROM extras ORDER BY name`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return extras, nil
}

// Extras implements pricing.DataSource; only active extras can be selected.
func (s *Store) Extras(ctx context.Context) ([]pricing.Extra, error) {
	op := "store.Extras"
	extras := make([]pricing.Extra, 0)
	if err := s.db.SelectContext(ctx, &extras, `SELECT `+extraColumns+` FROM extras WHERE active = TRUE ORDER BY name`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return extras, nil
}

// UpsertExtra inserts x or replaces the extra with the same id.
func (s *Store) UpsertExtra(ctx context.Context, x pricing.Extra) (pricing.Extra, error) {
	op := "store.UpsertExtra"
	x.ID = strings.TrimSpace(x.ID)
	x.Name = strings.TrimSpace(x.Name)
	if x.Name == "" {
		return pricing.Extra{}, fmt.Errorf("%s: %w: name is required", op, ErrInvalid)
	}
	if x.CostPerHour < 0 {
		return pricing.Extra{}, fmt.Errorf("%s: %w: cost per hour must not be negative", op, ErrInvalid)
	}
	if x.ID == "" {
		x.ID = uuid.NewString()
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO extras (`+extraColumns+`)
		VALUES (:id, :name, :cost_per_hour, :active)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			cost_per_hour = excluded.cost_per_hour,
			active = excluded.active,
			updated_at = CURRENT_TIMESTAMP
	`, x)
	if err != nil {
		return pricing.Extra{}, fmt.Errorf("%s: %w", op, err)
	}
	return x, nil
}
