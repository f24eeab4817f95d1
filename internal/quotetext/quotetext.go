// Package quotetext renders saved quotes as plain text for copy and paste
// into chats and e-mails.
package quotetext

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/roomquote/internal/pricing"
)

// Currency is printed in front of every amount.
const Currency = "R$"

// Document is what Render needs from a saved quote.
type Document struct {
	Title     string
	Unit      string
	CreatedAt time.Time
	Quote     pricing.Quote
}

// Render writes d as plain text to w.
func Render(w io.Writer, d Document) error {
	var b strings.Builder
	r := d.Quote.Result
	req := d.Quote.Request

	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = "Orçamento"
	}
	fmt.Fprintf(&b, "%s\n", title)
	if !d.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Data: %s\n", d.CreatedAt.Format("02/01/2006"))
	}
	if d.Unit != "" {
		fmt.Fprintf(&b, "Unidade: %s\n", d.Unit)
	}
	if room := d.Quote.Room; room != nil {
		fmt.Fprintf(&b, "Sala: %s\n", room.Name)
	}
	b.WriteString("\n")

	b.WriteString("Período:\n")
	fmt.Fprintf(&b, "- Duração: %s\n", period(req))
	fmt.Fprintf(&b, "- Dias cobrados: %s\n", Number(r.TotalDays))
	fmt.Fprintf(&b, "- Turno: %s\n", shiftLabel(r.Shift))
	fmt.Fprintf(&b, "- Horas: %s (normais %s, extras 50%% %s, extras 100%% %s)\n",
		Number(r.TotalHours), Number(r.NormalHours), Number(r.OT50Hours), Number(r.OT100Hours))
	b.WriteString("\n")

	b.WriteString("Custos:\n")
	for _, line := range []struct {
		label string
		value float64
	}{
		{"Sala", r.BaseCost},
		{"Mão de obra", r.LaborTotal},
		{"Transporte", r.TransitTotal},
		{"Carona", r.RideTotal},
		{"Alimentação", r.MealTotal},
		{"Extras", r.ExtrasCost},
	} {
		if line.value == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", line.label, Money(line.value))
	}
	fmt.Fprintf(&b, "- Subtotal: %s\n", Money(r.Subtotal))
	b.WriteString("\n")

	b.WriteString("Premissas:\n")
	fmt.Fprintf(&b, "- Margem: %s%%\n", Number(r.MarginRate*100))
	switch r.DiscountSource {
	case pricing.DiscountManual:
		fmt.Fprintf(&b, "- Desconto manual: %s%% (%s)\n", Number(r.EffectiveDiscount*100), Money(r.DiscountAmount))
	case pricing.DiscountVolume:
		fmt.Fprintf(&b, "- Desconto por volume: %s%% (%s)\n", Number(r.EffectiveDiscount*100), Money(r.DiscountAmount))
	default:
		b.WriteString("- Sem desconto\n")
	}
	if r.CommissionEnabled {
		fmt.Fprintf(&b, "- Comissões: %s\n", Money(r.TotalCommission))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Total: %s\n", Money(r.FinalPrice))
	fmt.Fprintf(&b, "Preço por hora: %s\n", Money(r.PricePerHour))
	risk := d.Quote.Risk
	fmt.Fprintf(&b, "Risco: %s (custo variável %s%%)\n", risk.Level, Number(risk.VariableCostRatio))
	if r.LossFlag {
		b.WriteString("Atenção: o lucro líquido após comissões é negativo.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Money formats v in Brazilian notation rounded to cents: "R$ 1.234,56".
func Money(v float64) string {
	return Currency + " " + Number(v)
}

// Number formats v with two decimals in Brazilian notation.
func Number(v float64) string {
	rounded := decimal.NewFromFloat(v).Round(2).InexactFloat64()
	return humanize.FormatFloat("#.###,##", rounded)
}

func period(req pricing.Request) string {
	n := req.Duration
	if n <= 0 {
		n = 1
	}
	switch pricing.ParseDurationUnit(req.DurationUnit) {
	case pricing.UnitDays:
		if n == 1 {
			return "1 dia"
		}
		return fmt.Sprintf("%d dias", n)
	default:
		if n == 1 {
			return "1 mês"
		}
		return fmt.Sprintf("%d meses", n)
	}
}

func shiftLabel(s string) string {
	switch pricing.ParseShift(s) {
	case pricing.Afternoon:
		return "Tarde"
	case pricing.Evening:
		return "Noite"
	case pricing.FullDay:
		return "Integral"
	default:
		return "Manhã"
	}
}
