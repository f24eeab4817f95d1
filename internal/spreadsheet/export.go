package spreadsheet

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/roomquote/internal/pricing"
)

const (
	summarySheet = "Resumo"
	staffSheet   = "Equipe"
)

// QuoteExport is the data written to a quote workbook.
type QuoteExport struct {
	ID        string
	Title     string
	Unit      string
	CreatedAt time.Time
	Quote     pricing.Quote
}

type summaryLine struct {
	label string
	value float64
	money bool
}

// QuoteWorkbook renders q as an xlsx file with a summary sheet and a staff
// breakdown sheet. Money values are rounded to cents.
func QuoteWorkbook(q QuoteExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(staffSheet); err != nil {
		return nil, fmt.Errorf("create staff sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	if err := writeSummary(f, styles, q); err != nil {
		return nil, err
	}
	if err := writeStaff(f, styles, q.Quote.Result.Breakdown()); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type workbookStyles struct {
	title  int
	header int
	label  int
	money  int
	number int
	total  int
}

func newStyles(f *excelize.File) (workbookStyles, error) {
	var (
		s   workbookStyles
		err error
	)
	moneyFmt := "#,##0.00"

	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}
	if s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}}); err != nil {
		return s, fmt.Errorf("create label style: %w", err)
	}
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt}); err != nil {
		return s, fmt.Errorf("create money style: %w", err)
	}
	if s.number, err = f.NewStyle(&excelize.Style{NumFmt: 2}); err != nil {
		return s, fmt.Errorf("create number style: %w", err)
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &moneyFmt,
	}); err != nil {
		return s, fmt.Errorf("create total style: %w", err)
	}
	return s, nil
}

func writeSummary(f *excelize.File, st workbookStyles, q QuoteExport) error {
	r := q.Quote.Result
	sheet := summarySheet

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 18); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}

	title := q.Title
	if title == "" {
		title = "Orçamento"
	}
	header := [][2]any{
		{title, nil},
		{"Unidade", q.Unit},
		{"Data", q.CreatedAt.Format("02/01/2006 15:04")},
		{"Turno", r.Shift},
		{"Risco", string(q.Quote.Risk.Level)},
	}
	if q.Quote.Room != nil {
		header = append(header, [2]any{"Sala", q.Quote.Room.Name})
	}
	row := 1
	for _, h := range header {
		if err := setRow(f, sheet, row, h[0], h[1]); err != nil {
			return err
		}
		row++
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", st.title); err != nil {
		return fmt.Errorf("style title: %w", err)
	}

	row++
	if err := setRow(f, sheet, row, "Item", "Valor"); err != nil {
		return err
	}
	if err := styleRow(f, sheet, row, st.header); err != nil {
		return err
	}
	row++

	lines := []summaryLine{
		{label: "Dias", value: r.TotalDays},
		{label: "Horas normais", value: r.NormalHours},
		{label: "Horas extras 50%", value: r.OT50Hours},
		{label: "Horas extras 100%", value: r.OT100Hours},
		{label: "Custo hora da sala", value: r.RoomHourlyCost, money: true},
		{label: "Custo da sala", value: r.BaseCost, money: true},
		{label: "Mão de obra", value: r.LaborTotal, money: true},
		{label: "Transporte", value: r.TransitTotal, money: true},
		{label: "Carona", value: r.RideTotal, money: true},
		{label: "Alimentação", value: r.MealTotal, money: true},
		{label: "Extras", value: r.ExtrasCost, money: true},
		{label: "Subtotal", value: r.Subtotal, money: true},
		{label: "Margem", value: r.MarginAmount, money: true},
		{label: "Desconto", value: r.DiscountAmount, money: true},
	}
	if r.CommissionEnabled {
		lines = append(lines,
			summaryLine{label: "Comissão vendedor", value: r.SellerCommission, money: true},
			summaryLine{label: "Comissão gestão", value: r.ManagementCommission, money: true},
		)
	}
	lines = append(lines,
		summaryLine{label: "Lucro líquido real", value: r.RealNetProfit, money: true},
		summaryLine{label: "Preço por hora", value: r.PricePerHour, money: true},
	)

	for _, line := range lines {
		value := line.value
		style := st.number
		if line.money {
			value = roundCents(value)
			style = st.money
		}
		if err := setRow(f, sheet, row, line.label, value); err != nil {
			return err
		}
		if err := setCellStyle(f, sheet, 2, row, style); err != nil {
			return err
		}
		row++
	}

	if err := setRow(f, sheet, row, "Preço final", roundCents(r.FinalPrice)); err != nil {
		return err
	}
	return styleRow(f, sheet, row, st.total)
}

func writeStaff(f *excelize.File, st workbookStyles, breakdown []pricing.EmployeeCost) error {
	sheet := staffSheet
	headers := []any{"Nome", "Normal", "Extra 50%", "Extra 100%", "Transporte", "Carona", "Alimentação", "Total"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("write staff header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", st.header); err != nil {
		return fmt.Errorf("style staff header: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "H", 14); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}

	for i, e := range breakdown {
		row := i + 2
		values := []any{
			e.Name,
			roundCents(e.Normal),
			roundCents(e.OT50),
			roundCents(e.OT100),
			roundCents(e.Transit),
			roundCents(e.Ride),
			roundCents(e.Meal),
			roundCents(e.Total),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write staff row %d: %w", row, err)
		}
		from, _ := excelize.CoordinatesToCellName(2, row)
		to, _ := excelize.CoordinatesToCellName(len(values), row)
		if err := f.SetCellStyle(sheet, from, to, st.money); err != nil {
			return fmt.Errorf("style staff row %d: %w", row, err)
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, label, value any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := []any{label}
	if value != nil {
		values = append(values, value)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, style int) error {
	from, _ := excelize.CoordinatesToCellName(1, row)
	to, _ := excelize.CoordinatesToCellName(2, row)
	if err := f.SetCellStyle(sheet, from, to, style); err != nil {
		return fmt.Errorf("style row %d: %w", row, err)
	}
	return nil
}

func setCellStyle(f *excelize.File, sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
		return fmt.Errorf("style cell %s: %w", cell, err)
	}
	return nil
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
