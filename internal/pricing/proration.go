package pricing

import "math"

// DayCounts holds fractional working days per pay category.
type DayCounts struct {
	Normal   float64
	Saturday float64
	Sunday   float64
}

// Total is the number of worked days across categories.
func (d DayCounts) Total() float64 {
	return d.Normal + d.Saturday + d.Sunday
}

// Prorate spreads durationDays over the selected weekdays (0 = Sunday,
// 6 = Saturday). Whole weeks count once per weekday; the leftover days of a
// partial week are split evenly, so every selected weekday receives the same
// remainder/7 fraction regardless of which calendar days they would fall on.
func Prorate(durationDays float64, weekdays []int) DayCounts {
	durationDays = nonNegative(durationDays)
	fullWeeks := math.Floor(durationDays / 7)
	share := fullWeeks
	if remainder := math.Mod(durationDays, 7); remainder > 0 {
		share += remainder / 7
	}

	var d DayCounts
	for _, wd := range weekdays {
		switch wd {
		case 6:
			d.Saturday += share
		case 0:
			d.Sunday += share
		default:
			d.Normal += share
		}
	}
	return d
}
