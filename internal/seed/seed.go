// Package seed fills a fresh database with settings and an optional
// catalog of rooms, employees and extras read from YAML.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/roomquote/internal/pricing"
)

// Catalog is the YAML seed file.
type Catalog struct {
	// Overwrite updates existing rows whose values differ from the file.
	Overwrite bool            `yaml:"overwrite"`
	Settings  *SettingsEntry  `yaml:"settings"`
	Rooms     []RoomEntry     `yaml:"rooms"`
	Employees []EmployeeEntry `yaml:"employees"`
	Extras    []ExtraEntry    `yaml:"extras"`
}

// SettingsEntry seeds the settings row when it does not exist yet.
type SettingsEntry struct {
	Morning        float64 `yaml:"morning_multiplier"`
	Afternoon      float64 `yaml:"afternoon_multiplier"`
	Evening        float64 `yaml:"evening_multiplier"`
	Commission     bool    `yaml:"commission_enabled"`
	SellerRate     float64 `yaml:"seller_rate"`
	ManagementRate float64 `yaml:"management_rate"`
}

type RoomEntry struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Unit      string  `yaml:"unit"`
	Morning   float64 `yaml:"morning"`
	Afternoon float64 `yaml:"afternoon"`
	Evening   float64 `yaml:"evening"`
	Base      float64 `yaml:"base"`
	Capacity  int     `yaml:"capacity"`
	Area      float64 `yaml:"area_m2"`
}

func (e RoomEntry) room() pricing.Room {
	return pricing.Room{
		ID:            e.ID,
		Name:          e.Name,
		Unit:          e.Unit,
		MorningCost:   e.Morning,
		AfternoonCost: e.Afternoon,
		EveningCost:   e.Evening,
		BaseCost:      e.Base,
		Capacity:      e.Capacity,
		AreaM2:        e.Area,
	}
}

type EmployeeEntry struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	RateNorm  float64 `yaml:"rate_normal"`
	RateOT50  float64 `yaml:"rate_ot50"`
	RateOT100 float64 `yaml:"rate_ot100"`
	Transit   float64 `yaml:"transit_daily"`
	Ride      float64 `yaml:"ride_daily"`
	Meal      float64 `yaml:"meal_daily"`
	Inactive  bool    `yaml:"inactive"`
}

func (e EmployeeEntry) employee() pricing.Employee {
	return pricing.Employee{
		ID:           e.ID,
		Name:         e.Name,
		RateNormal:   e.RateNorm,
		RateOT50:     e.RateOT50,
		RateOT100:    e.RateOT100,
		TransitDaily: e.Transit,
		RideDaily:    e.Ride,
		MealDaily:    e.Meal,
		Active:       !e.Inactive,
	}
}

type ExtraEntry struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	CostPerHour float64 `yaml:"cost_per_hour"`
	Inactive    bool    `yaml:"inactive"`
}

func (e ExtraEntry) extra() pricing.Extra {
	return pricing.Extra{ID: e.ID, Name: e.Name, CostPerHour: e.CostPerHour, Active: !e.Inactive}
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// LoadCatalog reads a catalog from path. An empty path yields an empty
// catalog.
func LoadCatalog(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Catalog{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// ParseCatalog decodes a YAML catalog and checks every entry has an id and
// a name.
func ParseCatalog(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, fmt.Errorf("decode seed file: %w", err)
	}

	for i, e := range c.Rooms {
		if err := requireIdentity("rooms", i, e.ID, e.Name); err != nil {
			return Catalog{}, err
		}
	}
	for i, e := range c.Employees {
		if err := requireIdentity("employees", i, e.ID, e.Name); err != nil {
			return Catalog{}, err
		}
	}
	for i, e := range c.Extras {
		if err := requireIdentity("extras", i, e.ID, e.Name); err != nil {
			return Catalog{}, err
		}
	}
	return c, nil
}

func requireIdentity(section string, i int, id, name string) error {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("seed %s[%d]: id and name are required", section, i)
	}
	return nil
}

// Run executes the seed in an idempotent way inside one transaction.
func Run(ctx context.Context, db *sqlx.DB, c Catalog) (Stats, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stats := Stats{}

	if err := ensureSettings(ctx, tx, c.Settings, &stats); err != nil {
		return Stats{}, err
	}
	for _, e := range c.Rooms {
		if err := ensureRoom(ctx, tx, e.room(), c.Overwrite, &stats); err != nil {
			return Stats{}, err
		}
	}
	for _, e := range c.Employees {
		if err := ensureEmployee(ctx, tx, e.employee(), c.Overwrite, &stats); err != nil {
			return Stats{}, err
		}
	}
	for _, e := range c.Extras {
		if err := ensureExtra(ctx, tx, e.extra(), c.Overwrite, &stats); err != nil {
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureSettings(ctx context.Context, tx *sqlx.Tx, s *SettingsEntry, stats *Stats) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM settings WHERE id = 1)`); err != nil {
		return fmt.Errorf("check settings existence: %w", err)
	}
	if exists {
		return nil
	}

	m := pricing.DefaultShiftMultipliers
	var seller, management float64
	var enabled bool
	if s != nil {
		m = pricing.ShiftMultipliers{Morning: s.Morning, Afternoon: s.Afternoon, Evening: s.Evening}
		enabled, seller, management = s.Commission, s.SellerRate, s.ManagementRate
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (
			id,
			morning_multiplier,
			afternoon_multiplier,
			evening_multiplier,
			commission_enabled,
			seller_rate,
			management_rate
		)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`, m.Morning, m.Afternoon, m.Evening, enabled, seller, management); err != nil {
		return fmt.Errorf("insert settings singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureRoom(ctx context.Context, tx *sqlx.Tx, room pricing.Room, overwrite bool, stats *Stats) error {
	var existing pricing.Room
	err := tx.GetContext(ctx, &existing, `
		SELECT id, name, unit, morning_cost, afternoon_cost, evening_cost, base_cost, capacity, area_m2
		FROM rooms
		WHERE id = ?
	`, room.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO rooms (id, name, unit, morning_cost, afternoon_cost, evening_cost, base_cost, capacity, area_m2)
			VALUES (:id, :name, :unit, :morning_cost, :afternoon_cost, :evening_cost, :base_cost, :capacity, :area_m2)
		`, room); err != nil {
			return fmt.Errorf("insert room %s: %w", room.ID, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check room %s existence: %w", room.ID, err)
	}

	if !overwrite || existing == room {
		return nil
	}
	if _, err := tx.NamedExecContext(ctx, `
		UPDATE rooms SET
			name = :name, unit = :unit,
			morning_cost = :morning_cost, afternoon_cost = :afternoon_cost, evening_cost = :evening_cost,
			base_cost = :base_cost, capacity = :capacity, area_m2 = :area_m2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
	`, room); err != nil {
		return fmt.Errorf("update room %s: %w", room.ID, err)
	}
	stats.Updates++
	return nil
}

func ensureEmployee(ctx context.Context, tx *sqlx.Tx, e pricing.Employee, overwrite bool, stats *Stats) error {
	var existing pricing.Employee
	err := tx.GetContext(ctx, &existing, `
		SELECT id, name, rate_normal, rate_ot50, rate_ot100, transit_daily, ride_daily, meal_daily, active
		FROM employees
		WHERE id = ?
	`, e.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO employees (id, name, rate_normal, rate_ot50, rate_ot100, transit_daily, ride_daily, meal_daily, active)
			VALUES (:id, :name, :rate_normal, :rate_ot50, :rate_ot100, :transit_daily, :ride_daily, :meal_daily, :active)
		`, e); err != nil {
			return fmt.Errorf("insert employee %s: %w", e.ID, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check employee %s existence: %w", e.ID, err)
	}

	if !overwrite || existing == e {
		return nil
	}
	if _, err := tx.NamedExecContext(ctx, `
		UPDATE employees SET
			name = :name,
			rate_normal = :rate_normal, rate_ot50 = :rate_ot50, rate_ot100 = :rate_ot100,
			transit_daily = :transit_daily, ride_daily = :ride_daily, meal_daily = :meal_daily,
			active = :active,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
	`, e); err != nil {
		return fmt.Errorf("update employee %s: %w", e.ID, err)
	}
	stats.Updates++
	return nil
}

func ensureExtra(ctx context.Context, tx *sqlx.Tx, x pricing.Extra, overwrite bool, stats *Stats) error {
	var existing pricing.Extra
	err := tx.GetContext(ctx, &existing, `SELECT id, name, cost_per_hour, active FROM extras WHERE id = ?`, x.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO extras (id, name, cost_per_hour, active)
			VALUES (:id, :name, :cost_per_hour, :active)
		`, x); err != nil {
			return fmt.Errorf("insert extra %s: %w", x.ID, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check extra %s existence: %w", x.ID, err)
	}

	if !overwrite || existing == x {
		return nil
	}
	if _, err := tx.NamedExecContext(ctx, `
		UPDATE extras SET name = :name, cost_per_hour = :cost_per_hour, active = :active, updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
	`, x); err != nil {
		return fmt.Errorf("update extra %s: %w", x.ID, err)
	}
	stats.Updates++
	return nil
}
