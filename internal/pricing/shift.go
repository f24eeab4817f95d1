package pricing

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Shift is the period of the day a room is booked for.
type Shift int

const (
	Morning Shift = iota
	Afternoon
	Evening
	FullDay
)

func (s Shift) String() string {
	switch s {
	case Afternoon:
		return "afternoon"
	case Evening:
		return "evening"
	case FullDay:
		return "full-day"
	default:
		return "morning"
	}
}

// MarshalText encodes the shift by name.
func (s Shift) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts any label ParseShift understands.
func (s *Shift) UnmarshalText(b []byte) error {
	*s = ParseShift(string(b))
	return nil
}

// ParseShift maps a free-form label to a Shift. Case and diacritics are
// ignored; unknown or empty labels resolve to Morning.
func ParseShift(label string) Shift {
	switch foldLabel(label) {
	case "afternoon", "tarde", "vespertino":
		return Afternoon
	case "evening", "night", "noite", "noturno":
		return Evening
	case "full-day", "fullday", "full day", "full_day", "integral", "diaria":
		return FullDay
	default:
		return Morning
	}
}

// FoldLabel lower-cases s and strips combining marks ("Manhã" -> "manha").
func FoldLabel(s string) string {
	return foldLabel(s)
}

func foldLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ShiftMultipliers scale a room's base cost when it has no cost for a shift.
type ShiftMultipliers struct {
	Morning   float64 `json:"morning"`
	Afternoon float64 `json:"afternoon"`
	Evening   float64 `json:"evening"`
}

// DefaultShiftMultipliers are applied when none are configured.
var DefaultShiftMultipliers = ShiftMultipliers{Morning: 1.00, Afternoon: 1.15, Evening: 1.40}

func (m ShiftMultipliers) withDefaults() ShiftMultipliers {
	if !positive(m.Morning) {
		m.Morning = DefaultShiftMultipliers.Morning
	}
	if !positive(m.Afternoon) {
		m.Afternoon = DefaultShiftMultipliers.Afternoon
	}
	if !positive(m.Evening) {
		m.Evening = DefaultShiftMultipliers.Evening
	}
	return m
}

func (m ShiftMultipliers) of(s Shift) float64 {
	switch s {
	case Afternoon:
		return m.Afternoon
	case Evening:
		return m.Evening
	case Morning, FullDay:
		return m.Morning
	default:
		return 1
	}
}

// ResolveHourlyRate returns the hourly cost of room for shift. A per-shift
// cost imported for the room always wins over base cost times multiplier.
func ResolveHourlyRate(room Room, s Shift, m ShiftMultipliers) float64 {
	var perShift float64
	switch s {
	case Morning, FullDay:
		perShift = room.MorningCost
	case Afternoon:
		perShift = room.AfternoonCost
	case Evening:
		perShift = room.EveningCost
	}
	if positive(perShift) {
		return perShift
	}
	return nonNegative(room.BaseCost) * m.withDefaults().of(s)
}

func positive(v float64) bool {
	return nonNegative(v) > 0
}
