package pricing

// RiskLevel grades how exposed a quote is to staff costs.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

const (
	riskHighAbove     = 60.0
	riskMediumAtLeast = 40.0
)

// Risk is derived from a Result on demand.
type Risk struct {
	Level             RiskLevel `json:"level"`
	VariableCostRatio float64   `json:"variable_cost_ratio"`
	Forced            bool      `json:"forced"`
}

// ClassifyRisk grades r by its variable cost as a percentage of final price.
// Incomplete input is always HIGH.
func ClassifyRisk(r Result, incomplete bool) Risk {
	var ratio float64
	if r.FinalPrice > 0 {
		ratio = r.VariableCost() / r.FinalPrice * 100
	}

	risk := Risk{VariableCostRatio: ratio}
	switch {
	case incomplete:
		risk.Level = RiskHigh
		risk.Forced = true
	case ratio > riskHighAbove:
		risk.Level = RiskHigh
	case ratio >= riskMediumAtLeast:
		risk.Level = RiskMedium
	default:
		risk.Level = RiskLow
	}
	return risk
}
