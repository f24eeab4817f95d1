package pricing

// ExtrasCost prices the selected extras for totalHours. Ids that match no
// extra are skipped and each id is counted once.
func ExtrasCost(extras []Extra, selected []string, totalHours float64) float64 {
	if len(selected) == 0 || len(extras) == 0 {
		return 0
	}
	byID := make(map[string]Extra, len(extras))
	for _, x := range extras {
		byID[x.ID] = x
	}

	var cost float64
	for _, id := range uniqueStrings(selected) {
		x, ok := byID[id]
		if !ok {
			continue
		}
		cost += nonNegative(x.CostPerHour) * totalHours
	}
	return cost
}
