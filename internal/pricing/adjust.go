package pricing

// DiscountSource tells which rule produced the applied discount.
type DiscountSource string

const (
	DiscountNone   DiscountSource = "none"
	DiscountManual DiscountSource = "manual"
	DiscountVolume DiscountSource = "volume"
)

// Volume discount tiers by contract length in days.
const (
	volumeTierLongDays  = 7
	volumeTierLongRate  = 0.10
	volumeTierShortDays = 3
	volumeTierShortRate = 0.05
)

// VolumeDiscount returns the automatic discount for a contract of
// durationDays: 10 % above a week, 5 % above three days, none otherwise.
func VolumeDiscount(durationDays float64) float64 {
	switch {
	case durationDays > volumeTierLongDays:
		return volumeTierLongRate
	case durationDays > volumeTierShortDays:
		return volumeTierShortRate
	default:
		return 0
	}
}

// Adjustment is the path from cost subtotal to final price.
type Adjustment struct {
	Subtotal           float64
	MarginRate         float64
	MarginAmount       float64
	SubtotalWithMargin float64
	ManualDiscount     float64
	VolumeDiscount     float64
	EffectiveDiscount  float64
	DiscountSource     DiscountSource
	DiscountAmount     float64
	FinalPrice         float64
	PricePerHour       float64
}

// Adjust applies margin and the larger of the manual and volume discounts to
// subtotal. The two discounts never stack.
func Adjust(subtotal, margin, manualDiscount, durationDays, totalHours float64) Adjustment {
	a := Adjustment{
		Subtotal:       subtotal,
		MarginRate:     fraction(margin),
		ManualDiscount: fraction(manualDiscount),
		VolumeDiscount: VolumeDiscount(durationDays),
		DiscountSource: DiscountNone,
	}
	a.MarginAmount = subtotal * a.MarginRate
	a.SubtotalWithMargin = subtotal + a.MarginAmount

	switch {
	case a.ManualDiscount > 0 && a.ManualDiscount >= a.VolumeDiscount:
		a.EffectiveDiscount = a.ManualDiscount
		a.DiscountSource = DiscountManual
	case a.VolumeDiscount > 0:
		a.EffectiveDiscount = a.VolumeDiscount
		a.DiscountSource = DiscountVolume
	}

	a.DiscountAmount = a.SubtotalWithMargin * a.EffectiveDiscount
	a.FinalPrice = a.SubtotalWithMargin - a.DiscountAmount
	if totalHours > 0 {
		a.PricePerHour = a.FinalPrice / totalHours
	}
	return a
}
