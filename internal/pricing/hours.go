package pricing

// Hours splits contracted hours into pay tiers: weekdays are normal time,
// Saturdays overtime at 50 % and Sundays overtime at 100 %.
type Hours struct {
	Normal float64
	OT50   float64
	OT100  float64
}

// Total returns the sum of all tiers.
func (h Hours) Total() float64 {
	return h.Normal + h.OT50 + h.OT100
}

// DecomposeHours multiplies each day category by hoursPerDay. Fractional
// results are kept as is.
func DecomposeHours(days DayCounts, hoursPerDay float64) Hours {
	return Hours{
		Normal: days.Normal * hoursPerDay,
		OT50:   days.Saturday * hoursPerDay,
		OT100:  days.Sunday * hoursPerDay,
	}
}
