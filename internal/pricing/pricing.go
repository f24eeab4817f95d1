// Package pricing turns a room rental request into an itemized cost and
// price breakdown.
package pricing

// Result contains every intermediate and line-item value of a calculation.
// It is built once per call and never modified afterwards.
type Result struct {
	DurationDays float64 `json:"duration_days"`
	NormalDays   float64 `json:"normal_days"`
	SaturdayDays float64 `json:"saturday_days"`
	SundayDays   float64 `json:"sunday_days"`
	TotalDays    float64 `json:"total_days"`

	NormalHours float64 `json:"normal_hours"`
	OT50Hours   float64 `json:"ot50_hours"`
	OT100Hours  float64 `json:"ot100_hours"`
	TotalHours  float64 `json:"total_hours"`

	Shift          string  `json:"shift"`
	RoomHourlyCost float64 `json:"room_hourly_cost"`
	BaseCost       float64 `json:"base_cost"`

	LaborNormal  float64 `json:"labor_normal"`
	LaborOT50    float64 `json:"labor_ot50"`
	LaborOT100   float64 `json:"labor_ot100"`
	LaborTotal   float64 `json:"labor_total"`
	TransitTotal float64 `json:"transit_total"`
	RideTotal    float64 `json:"ride_total"`
	MealTotal    float64 `json:"meal_total"`
	ExtrasCost   float64 `json:"extras_cost"`

	Subtotal           float64        `json:"subtotal"`
	MarginRate         float64        `json:"margin_rate"`
	MarginAmount       float64        `json:"margin_amount"`
	SubtotalWithMargin float64        `json:"subtotal_with_margin"`
	ManualDiscount     float64        `json:"manual_discount"`
	VolumeDiscount     float64        `json:"volume_discount"`
	EffectiveDiscount  float64        `json:"effective_discount"`
	DiscountSource     DiscountSource `json:"discount_source"`
	DiscountAmount     float64        `json:"discount_amount"`
	FinalPrice         float64        `json:"final_price"`
	PricePerHour       float64        `json:"price_per_hour"`

	EmployeeCount     int            `json:"employee_count"`
	EmployeeBreakdown []EmployeeCost `json:"employee_breakdown"`

	CommissionEnabled    bool    `json:"commission_enabled"`
	SellerCommission     float64 `json:"seller_commission"`
	ManagementCommission float64 `json:"management_commission"`
	TotalCommission      float64 `json:"total_commission"`
	RealNetProfit        float64 `json:"real_net_profit"`
	LossFlag             bool    `json:"loss_flag"`
}

// VariableCost is the staff-related share of the subtotal.
func (r Result) VariableCost() float64 {
	return r.LaborTotal + r.TransitTotal + r.RideTotal + r.MealTotal
}

// Breakdown returns a copy of the per-employee costs.
func (r Result) Breakdown() []EmployeeCost {
	out := make([]EmployeeCost, len(r.EmployeeBreakdown))
	copy(out, r.EmployeeBreakdown)
	return out
}

// Calculate runs every pricing stage over normalized parameters.
func Calculate(p Parameters) Result {
	durationDays := p.DurationDays()
	days := Prorate(durationDays, p.Weekdays)
	totalDays := days.Total()
	hours := DecomposeHours(days, p.HoursPerDay)
	totalHours := hours.Total()

	roomRate := ResolveHourlyRate(p.Room, p.Shift, p.Multipliers)
	baseCost := roomRate * totalHours
	labor := AggregateLabor(p.Employees, hours, totalDays)
	extras := ExtrasCost(p.Extras, p.ExtraIDs, totalHours)

	subtotal := baseCost + labor.Wages() + labor.Transit + labor.Ride + labor.Meal + extras
	adj := Adjust(subtotal, p.Margin, p.Discount, durationDays, totalHours)
	comm := ComputeCommission(adj.FinalPrice, subtotal, p.Commission)

	return Result{
		DurationDays: durationDays,
		NormalDays:   days.Normal,
		SaturdayDays: days.Saturday,
		SundayDays:   days.Sunday,
		TotalDays:    totalDays,

		NormalHours: hours.Normal,
		OT50Hours:   hours.OT50,
		OT100Hours:  hours.OT100,
		TotalHours:  totalHours,

		Shift:          p.Shift.String(),
		RoomHourlyCost: roomRate,
		BaseCost:       baseCost,

		LaborNormal:  labor.Normal,
		LaborOT50:    labor.OT50,
		LaborOT100:   labor.OT100,
		LaborTotal:   labor.Wages(),
		TransitTotal: labor.Transit,
		RideTotal:    labor.Ride,
		MealTotal:    labor.Meal,
		ExtrasCost:   extras,

		Subtotal:           adj.Subtotal,
		MarginRate:         adj.MarginRate,
		MarginAmount:       adj.MarginAmount,
		SubtotalWithMargin: adj.SubtotalWithMargin,
		ManualDiscount:     adj.ManualDiscount,
		VolumeDiscount:     adj.VolumeDiscount,
		EffectiveDiscount:  adj.EffectiveDiscount,
		DiscountSource:     adj.DiscountSource,
		DiscountAmount:     adj.DiscountAmount,
		FinalPrice:         adj.FinalPrice,
		PricePerHour:       adj.PricePerHour,

		EmployeeCount:     len(labor.Breakdown),
		EmployeeBreakdown: labor.Breakdown,

		CommissionEnabled:    comm.Enabled,
		SellerCommission:     comm.Seller,
		ManagementCommission: comm.Management,
		TotalCommission:      comm.Total,
		RealNetProfit:        comm.RealNetProfit,
		LossFlag:             comm.Loss,
	}
}
