package spreadsheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/roomquote/internal/pricing"
)

func TestParseRoomsCSV(t *testing.T) {
	input := strings.Join([]string{
		"ID,Nome,Unidade,Manhã,Tarde,Noite,Custo Base,Capacidade,Área",
		"sala-a,Sala A,Centro,100.5,120,150,80,20,45.5",
		"sala-b,Sala B,Paulista,,,,90,10,",
	}, "\n")

	got, err := ParseRooms("salas.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRooms() error = %v", err)
	}
	if got.TotalRows != 2 || len(got.Rooms) != 2 || len(got.Errors) != 0 {
		t.Fatalf("unexpected import result: %+v", got)
	}

	a := got.Rooms[0]
	if a.ID != "sala-a" || a.Name != "Sala A" || a.Unit != "Centro" {
		t.Fatalf("unexpected identity fields: %+v", a)
	}
	if a.MorningCost != 100.5 || a.AfternoonCost != 120 || a.EveningCost != 150 || a.BaseCost != 80 {
		t.Fatalf("unexpected costs: %+v", a)
	}
	if a.Capacity != 20 || a.AreaM2 != 45.5 {
		t.Fatalf("unexpected capacity/area: %+v", a)
	}

	b := got.Rooms[1]
	if b.MorningCost != 0 || b.BaseCost != 90 {
		t.Fatalf("empty shift costs should stay zero: %+v", b)
	}
}

func TestParseRoomsSemicolonCSVWithCommaDecimals(t *testing.T) {
	input := "nome;manha;base\nSala C;1.234,50;99,9\n"

	got, err := ParseRooms("SALAS.CSV", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRooms() error = %v", err)
	}
	if len(got.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %+v", got)
	}
	if got.Rooms[0].MorningCost != 1234.5 || got.Rooms[0].BaseCost != 99.9 {
		t.Fatalf("unexpected costs: %+v", got.Rooms[0])
	}
}

func TestParseRoomsCollectsRowErrors(t *testing.T) {
	input := strings.Join([]string{
		"name,morning,capacity",
		"Sala A,abc,10",
		",10,5",
		"Sala C,-5,2.5",
		",,",
		"Sala D,50,4",
	}, "\n")

	got, err := ParseRooms("rooms.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRooms() error = %v", err)
	}
	if got.TotalRows != 4 {
		t.Fatalf("blank rows should not count, got %d rows", got.TotalRows)
	}
	if len(got.Rooms) != 1 || got.Rooms[0].Name != "Sala D" {
		t.Fatalf("expected only Sala D to be valid, got %+v", got.Rooms)
	}

	want := []ValidationError{
		{Row: 2, Field: "morning"},
		{Row: 3, Field: "name"},
		{Row: 4, Field: "morning"},
		{Row: 4, Field: "capacity"},
	}
	if len(got.Errors) != len(want) {
		t.Fatalf("expected %d errors, got %+v", len(want), got.Errors)
	}
	for i, w := range want {
		if got.Errors[i].Row != w.Row || got.Errors[i].Field != w.Field {
			t.Errorf("error %d: expected row %d field %s, got %+v", i, w.Row, w.Field, got.Errors[i])
		}
	}
}

func TestParseRoomsRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		input string
	}{
		{name: "unsupported extension", file: "rooms.txt", input: "name\nSala"},
		{name: "header only", file: "rooms.csv", input: "name,morning\n"},
		{name: "missing name column", file: "rooms.csv", input: "unit,morning\nCentro,10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRooms(tt.file, strings.NewReader(tt.input)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := ParseRooms("rooms.pdf", strings.NewReader("")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseRoomsExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Nome", "Unidade", "Manha", "Base"},
		{"Sala X", "Centro", 75.25, 60},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	f.Close()

	got, err := ParseRooms("salas.xlsx", bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ParseRooms() error = %v", err)
	}
	if len(got.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %+v", got)
	}
	room := got.Rooms[0]
	if room.Name != "Sala X" || room.Unit != "Centro" || room.MorningCost != 75.25 || room.BaseCost != 60 {
		t.Fatalf("unexpected room: %+v", room)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "10", want: 10},
		{in: "10.5", want: 10.5},
		{in: "10,5", want: 10.5},
		{in: "1.234,56", want: 1234.56},
		{in: "R$ 99,90", want: 99.9},
		{in: "-1", wantErr: true},
		{in: "dez", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAmount(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("parseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuoteWorkbook(t *testing.T) {
	result := pricing.Result{
		TotalDays:         4,
		NormalHours:       32,
		Shift:             "morning",
		BaseCost:          1600,
		LaborTotal:        640.333,
		Subtotal:          2240.333,
		MarginAmount:      672.1,
		FinalPrice:        2912.43333,
		EmployeeCount:     1,
		EmployeeBreakdown: []pricing.EmployeeCost{{EmployeeID: "e1", Name: "Ana", Normal: 640.333, Total: 640.333}},
	}
	data, err := QuoteWorkbook(QuoteExport{
		ID:        "q1",
		Title:     "Workshop",
		Unit:      "Centro",
		CreatedAt: time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC),
		Quote: pricing.Quote{
			Room:   &pricing.Room{ID: "r1", Name: "Sala A"},
			Result: result,
			Risk:   pricing.Risk{Level: pricing.RiskMedium},
		},
	})
	if err != nil {
		t.Fatalf("QuoteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != summarySheet || sheets[1] != staffSheet {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	title, _ := f.GetCellValue(summarySheet, "A1")
	if title != "Workshop" {
		t.Errorf("expected title Workshop, got %q", title)
	}

	rows, err := f.GetRows(summarySheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	values := map[string]string{}
	for _, row := range rows {
		if len(row) >= 2 {
			values[row[0]] = row[1]
		}
	}
	if values["Preço final"] != "2912.43" {
		t.Errorf("expected final price rounded to cents, got %q", values["Preço final"])
	}
	if values["Sala"] != "Sala A" || values["Risco"] != "MEDIUM" {
		t.Errorf("unexpected header values: %v", values)
	}
	if _, ok := values["Comissão vendedor"]; ok {
		t.Errorf("commission lines should be omitted when disabled")
	}

	name, _ := f.GetCellValue(staffSheet, "A2")
	total, _ := f.GetCellValue(staffSheet, "H2", excelize.Options{RawCellValue: true})
	if name != "Ana" || total != "640.33" {
		t.Errorf("unexpected staff row: name=%q total=%q", name, total)
	}
}
