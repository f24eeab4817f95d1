package pricing

// Room is a rentable space with its hourly costs.
type Room struct {
	ID            string  `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Unit          string  `json:"unit" db:"unit"`
	MorningCost   float64 `json:"morning_cost" db:"morning_cost"`
	AfternoonCost float64 `json:"afternoon_cost" db:"afternoon_cost"`
	EveningCost   float64 `json:"evening_cost" db:"evening_cost"`
	BaseCost      float64 `json:"base_cost" db:"base_cost"`
	Capacity      int     `json:"capacity" db:"capacity"`
	AreaM2        float64 `json:"area_m2" db:"area_m2"`
}

func (r Room) sanitized() Room {
	r.MorningCost = nonNegative(r.MorningCost)
	r.AfternoonCost = nonNegative(r.AfternoonCost)
	r.EveningCost = nonNegative(r.EveningCost)
	r.BaseCost = nonNegative(r.BaseCost)
	return r
}

// Employee is a staff member whose time is billed into a quote.
type Employee struct {
	ID           string  `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	RateNormal   float64 `json:"rate_normal" db:"rate_normal"`
	RateOT50     float64 `json:"rate_ot50" db:"rate_ot50"`
	RateOT100    float64 `json:"rate_ot100" db:"rate_ot100"`
	TransitDaily float64 `json:"transit_daily" db:"transit_daily"`
	RideDaily    float64 `json:"ride_daily" db:"ride_daily"`
	MealDaily    float64 `json:"meal_daily" db:"meal_daily"`
	Active       bool    `json:"active" db:"active"`
}

func (e Employee) sanitized() Employee {
	e.RateNormal = nonNegative(e.RateNormal)
	e.RateOT50 = nonNegative(e.RateOT50)
	e.RateOT100 = nonNegative(e.RateOT100)
	e.TransitDaily = nonNegative(e.TransitDaily)
	e.RideDaily = nonNegative(e.RideDaily)
	e.MealDaily = nonNegative(e.MealDaily)
	return e
}

// Extra is an optional service billed per contracted hour.
type Extra struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	CostPerHour float64 `json:"cost_per_hour" db:"cost_per_hour"`
	Active      bool    `json:"active" db:"active"`
}

func (x Extra) sanitized() Extra {
	x.CostPerHour = nonNegative(x.CostPerHour)
	return x
}

// CommissionConfig controls the seller and management cut of a quote.
type CommissionConfig struct {
	Enabled        bool    `json:"enabled"`
	SellerRate     float64 `json:"seller_rate"`
	ManagementRate float64 `json:"management_rate"`
}

func (c CommissionConfig) sanitized() CommissionConfig {
	c.SellerRate = fraction(c.SellerRate)
	c.ManagementRate = fraction(c.ManagementRate)
	return c
}
