// Package analytics rolls persisted quotes up into dashboard indicators.
package analytics

import (
	"sort"
	"time"

	"github.com/Simplici0/roomquote/internal/pricing"
)

const (
	windowMonths = 12
	seriesMonths = 6

	// estimatedFixedShare is the part of a subtotal treated as fixed cost
	// when a snapshot carries no room cost.
	estimatedFixedShare = 0.30

	// UnknownUnit groups records saved without a unit.
	UnknownUnit = "sem unidade"
)

// HistoricalRecord is a frozen past calculation.
type HistoricalRecord struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Unit      string         `json:"unit"`
	CreatedAt time.Time      `json:"created_at"`
	Converted bool           `json:"converted"`
	Result    pricing.Result `json:"result"`
}

// UnitSummary is the contribution of one business unit.
type UnitSummary struct {
	Unit                      string  `json:"unit"`
	Quotes                    int     `json:"quotes"`
	Revenue                   float64 `json:"revenue"`
	FixedCost                 float64 `json:"fixed_cost"`
	VariableCost              float64 `json:"variable_cost"`
	ContributionMargin        float64 `json:"contribution_margin"`
	ContributionMarginPercent float64 `json:"contribution_margin_percent"`
}

// MonthPoint is one month of the revenue series.
type MonthPoint struct {
	Month            string  `json:"month"`
	Revenue          float64 `json:"revenue"`
	Cost             float64 `json:"cost"`
	NetMarginPercent float64 `json:"net_margin_percent"`
}

// Dashboard is the aggregate over the trailing twelve months.
type Dashboard struct {
	Quotes           int           `json:"quotes"`
	Converted        int           `json:"converted"`
	PipelineRevenue  float64       `json:"pipeline_revenue"`
	ConfirmedRevenue float64       `json:"confirmed_revenue"`
	ConversionRate   float64       `json:"conversion_rate"`
	AverageNetMargin float64       `json:"average_net_margin"`
	AverageTicket    float64       `json:"average_ticket"`
	Units            []UnitSummary `json:"units"`
	Series           []MonthPoint  `json:"series"`
}

// WindowStart is the earliest creation time Aggregate considers for now.
func WindowStart(now time.Time) time.Time {
	return now.AddDate(0, -windowMonths, 0)
}

// Aggregate computes the dashboard for records relative to now. Records older
// than twelve months are ignored. Every ratio is zero when its divisor is.
func Aggregate(records []HistoricalRecord, now time.Time) Dashboard {
	series, monthIndex := emptySeries(now)
	d := Dashboard{Units: []UnitSummary{}, Series: series}

	start := WindowStart(now)
	units := make(map[string]*UnitSummary)
	netSums := make([]float64, len(d.Series))
	var (
		marginSum   float64
		marginCount int
	)

	for _, rec := range records {
		if !rec.CreatedAt.After(start) {
			continue
		}
		r := rec.Result

		d.Quotes++
		d.PipelineRevenue += r.FinalPrice
		if rec.Converted {
			d.Converted++
			d.ConfirmedRevenue += r.FinalPrice
		}
		if r.FinalPrice > 0 {
			marginSum += r.RealNetProfit / r.FinalPrice * 100
			marginCount++
		}

		name := rec.Unit
		if name == "" {
			name = UnknownUnit
		}
		u, ok := units[name]
		if !ok {
			u = &UnitSummary{Unit: name}
			units[name] = u
		}
		fixed := FixedCost(r)
		u.Quotes++
		u.Revenue += r.FinalPrice
		u.FixedCost += fixed
		u.VariableCost += r.Subtotal - fixed

		if i, ok := monthIndex[monthKey(rec.CreatedAt.In(now.Location()))]; ok {
			d.Series[i].Revenue += r.FinalPrice
			d.Series[i].Cost += r.Subtotal
			netSums[i] += r.RealNetProfit
		}
	}

	if d.Quotes > 0 {
		d.AverageTicket = d.PipelineRevenue / float64(d.Quotes)
		d.ConversionRate = float64(d.Converted) / float64(d.Quotes) * 100
	}
	if marginCount > 0 {
		d.AverageNetMargin = marginSum / float64(marginCount)
	}

	for i := range d.Series {
		if d.Series[i].Revenue > 0 {
			d.Series[i].NetMarginPercent = netSums[i] / d.Series[i].Revenue * 100
		}
	}

	for _, u := range units {
		u.ContributionMargin = u.Revenue - u.VariableCost
		if u.Revenue > 0 {
			u.ContributionMarginPercent = u.ContributionMargin / u.Revenue * 100
		}
		d.Units = append(d.Units, *u)
	}
	sort.Slice(d.Units, func(i, j int) bool {
		if d.Units[i].Revenue != d.Units[j].Revenue {
			return d.Units[i].Revenue > d.Units[j].Revenue
		}
		return d.Units[i].Unit < d.Units[j].Unit
	})

	return d
}

// FixedCost is the room cost stored in r, or an estimate of 30 % of the
// subtotal when none was stored. It never exceeds the subtotal.
func FixedCost(r pricing.Result) float64 {
	subtotal := r.Subtotal
	if subtotal <= 0 {
		return 0
	}
	fixed := r.BaseCost
	if fixed <= 0 {
		fixed = subtotal * estimatedFixedShare
	}
	if fixed > subtotal {
		fixed = subtotal
	}
	return fixed
}

func emptySeries(now time.Time) ([]MonthPoint, map[string]int) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	series := make([]MonthPoint, seriesMonths)
	index := make(map[string]int, seriesMonths)
	for i := 0; i < seriesMonths; i++ {
		key := monthKey(first.AddDate(0, i-seriesMonths+1, 0))
		series[i] = MonthPoint{Month: key}
		index[key] = i
	}
	return series, index
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
