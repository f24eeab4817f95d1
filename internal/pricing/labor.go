package pricing

// EmployeeCost is the itemized cost of one employee in a quote.
type EmployeeCost struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Normal     float64 `json:"normal"`
	OT50       float64 `json:"ot50"`
	OT100      float64 `json:"ot100"`
	Transit    float64 `json:"transit"`
	Ride       float64 `json:"ride"`
	Meal       float64 `json:"meal"`
	Total      float64 `json:"total"`
}

// Labor is the staff cost of a quote.
type Labor struct {
	Normal    float64
	OT50      float64
	OT100     float64
	Transit   float64
	Ride      float64
	Meal      float64
	Breakdown []EmployeeCost
}

// Wages is the hourly labor cost (normal plus both overtime tiers).
func (l Labor) Wages() float64 {
	return l.Normal + l.OT50 + l.OT100
}

// Variable is every staff-related cost: wages plus daily allowances.
func (l Labor) Variable() float64 {
	return l.Wages() + l.Transit + l.Ride + l.Meal
}

// AggregateLabor prices every employee against the decomposed hours. Hourly
// rates apply to their tier; transit, ride and meal allowances are daily and
// apply to totalDays. Callers pass only active employees.
func AggregateLabor(employees []Employee, hours Hours, totalDays float64) Labor {
	l := Labor{Breakdown: make([]EmployeeCost, 0, len(employees))}
	for _, e := range employees {
		e = e.sanitized()
		c := EmployeeCost{
			EmployeeID: e.ID,
			Name:       e.Name,
			Normal:     hours.Normal * e.RateNormal,
			OT50:       hours.OT50 * e.RateOT50,
			OT100:      hours.OT100 * e.RateOT100,
			Transit:    totalDays * e.TransitDaily,
			Ride:       totalDays * e.RideDaily,
			Meal:       totalDays * e.MealDaily,
		}
		c.Total = c.Normal + c.OT50 + c.OT100 + c.Transit + c.Ride + c.Meal

		l.Normal += c.Normal
		l.OT50 += c.OT50
		l.OT100 += c.OT100
		l.Transit += c.Transit
		l.Ride += c.Ride
		l.Meal += c.Meal
		l.Breakdown = append(l.Breakdown, c)
	}
	return l
}
