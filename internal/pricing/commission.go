package pricing

// Commission is the sales cut of a quote and what remains after it.
type Commission struct {
	Enabled       bool
	Seller        float64
	Management    float64
	Total         float64
	RealNetProfit float64
	Loss          bool
}

// ComputeCommission derives commissions from finalPrice and the net profit
// left after subtracting the cost subtotal. A loss is reported, not rejected.
func ComputeCommission(finalPrice, subtotal float64, cfg CommissionConfig) Commission {
	c := Commission{Enabled: cfg.Enabled}
	if cfg.Enabled {
		cfg = cfg.sanitized()
		c.Seller = finalPrice * cfg.SellerRate
		c.Management = finalPrice * cfg.ManagementRate
		c.Total = c.Seller + c.Management
	}
	c.RealNetProfit = finalPrice - subtotal - c.Total
	c.Loss = c.RealNetProfit < 0
	return c
}
