package pricing

import (
	"math"
	"sort"
	"strings"
)

// DurationUnit is the unit a contract duration is expressed in.
type DurationUnit string

const (
	UnitDays   DurationUnit = "days"
	UnitMonths DurationUnit = "months"
)

// DaysPerMonth is the fixed month length used to convert months into days.
const DaysPerMonth = 30

const (
	defaultDuration    = 1
	defaultHoursPerDay = 8.0
	defaultWeekday     = 1 // Monday
)

// Request is the raw, caller-supplied input. Nil pointers and zero values mean
// "not provided" and are replaced by defaults in Normalize.
type Request struct {
	RoomID       string   `json:"room_id"`
	Duration     int      `json:"duration"`
	DurationUnit string   `json:"duration_unit"`
	Weekdays     []int    `json:"weekdays"`
	HoursPerDay  *float64 `json:"hours_per_day"`
	Margin       *float64 `json:"margin"`
	Discount     *float64 `json:"discount"`
	Shift        string   `json:"shift"`
	ExtraIDs     []string `json:"extra_ids"`
	Incomplete   bool     `json:"incomplete"`
}

// Parameters is a fully populated, sanitized calculation input. Every formula
// in this package assumes its fields are finite and within range.
type Parameters struct {
	Room         Room
	HasRoom      bool
	Duration     int
	DurationUnit DurationUnit
	Weekdays     []int
	HoursPerDay  float64
	Margin       float64
	Discount     float64
	Shift        Shift
	ExtraIDs     []string
	Extras       []Extra
	Employees    []Employee
	Multipliers  ShiftMultipliers
	Commission   CommissionConfig
	Incomplete   bool
}

// DurationDays converts the contract duration into days.
func (p Parameters) DurationDays() float64 {
	if p.DurationUnit == UnitDays {
		return float64(p.Duration)
	}
	return float64(p.Duration * DaysPerMonth)
}

// MasterData carries the records a calculation reads besides the request.
type MasterData struct {
	Room        *Room
	Employees   []Employee
	Extras      []Extra
	Multipliers ShiftMultipliers
	Commission  CommissionConfig
}

// Normalize applies defaults and sanitizes every numeric field so that the
// calculation stages never need defensive checks.
func Normalize(req Request, data MasterData) Parameters {
	p := Parameters{
		Duration:     req.Duration,
		DurationUnit: ParseDurationUnit(req.DurationUnit),
		Weekdays:     normalizeWeekdays(req.Weekdays),
		HoursPerDay:  defaultHoursPerDay,
		Shift:        ParseShift(req.Shift),
		ExtraIDs:     uniqueStrings(req.ExtraIDs),
		Multipliers:  data.Multipliers.withDefaults(),
		Commission:   data.Commission.sanitized(),
		Incomplete:   req.Incomplete,
	}
	if p.Duration <= 0 {
		p.Duration = defaultDuration
	}
	if req.HoursPerDay != nil {
		p.HoursPerDay = nonNegative(*req.HoursPerDay)
	}
	if req.Margin != nil {
		p.Margin = fraction(*req.Margin)
	}
	if req.Discount != nil {
		p.Discount = fraction(*req.Discount)
	}

	if data.Room != nil {
		p.Room = data.Room.sanitized()
		p.HasRoom = true
	}

	p.Employees = make([]Employee, 0, len(data.Employees))
	for _, e := range data.Employees {
		if !e.Active {
			continue
		}
		p.Employees = append(p.Employees, e.sanitized())
	}

	p.Extras = make([]Extra, 0, len(data.Extras))
	for _, x := range data.Extras {
		p.Extras = append(p.Extras, x.sanitized())
	}

	return p
}

// ParseDurationUnit maps "day", "dias" and similar to UnitDays; anything else is
// UnitMonths.
func ParseDurationUnit(s string) DurationUnit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "days", "dia", "dias":
		return UnitDays
	default:
		return UnitMonths
	}
}

func normalizeWeekdays(days []int) []int {
	seen := make(map[int]bool, 7)
	out := make([]int, 0, 7)
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) == 0 {
		return []int{defaultWeekday}
	}
	sort.Ints(out)
	return out
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// nonNegative maps NaN, infinities and negatives to 0.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// fraction clamps v into [0, 1].
func fraction(v float64) float64 {
	v = nonNegative(v)
	if v > 1 {
		return 1
	}
	return v
}
