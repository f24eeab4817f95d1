// Package spreadsheet reads room catalogs from and writes quotes to
// spreadsheet files.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/roomquote/internal/pricing"
)

// ErrUnsupportedFormat is returned for files that are neither .csv nor .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format: must be .csv or .xlsx")

// ValidationError is a problem with one cell of an imported row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
}

// RoomImport is the outcome of parsing a room catalog file.
type RoomImport struct {
	TotalRows int               `json:"total_rows"`
	Rooms     []pricing.Room    `json:"rooms"`
	Errors    []ValidationError `json:"errors"`
}

const (
	colID        = "id"
	colName      = "name"
	colUnit      = "unit"
	colMorning   = "morning"
	colAfternoon = "afternoon"
	colEvening   = "evening"
	colBase      = "base"
	colCapacity  = "capacity"
	colArea      = "area"
)

// headerAliases maps folded header labels to column keys.
var headerAliases = map[string]string{
	"id":          colID,
	"codigo":      colID,
	"name":        colName,
	"nome":        colName,
	"sala":        colName,
	"unit":        colUnit,
	"unidade":     colUnit,
	"morning":     colMorning,
	"manha":       colMorning,
	"custo manha": colMorning,
	"afternoon":   colAfternoon,
	"tarde":       colAfternoon,
	"custo tarde": colAfternoon,
	"evening":     colEvening,
	"noite":       colEvening,
	"custo noite": colEvening,
	"base":        colBase,
	"base cost":   colBase,
	"base_cost":   colBase,
	"custo base":  colBase,
	"capacity":    colCapacity,
	"capacidade":  colCapacity,
	"area":        colArea,
	"area_m2":     colArea,
	"area m2":     colArea,
	"metragem":    colArea,
}

// ParseRooms reads a room catalog from r. The format is chosen from the
// extension of name. Row problems are collected in the result; only
// unreadable files return an error.
func ParseRooms(name string, r io.Reader) (RoomImport, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx":
		rows, err = readExcel(r)
	default:
		return RoomImport{}, ErrUnsupportedFormat
	}
	if err != nil {
		return RoomImport{}, err
	}
	if len(rows) < 2 {
		return RoomImport{}, fmt.Errorf("file must contain a header row and at least one data row")
	}

	columns := mapHeaders(rows[0])
	if !hasColumn(columns, colName) {
		return RoomImport{}, fmt.Errorf("missing required column %q", colName)
	}

	result := RoomImport{Rooms: make([]pricing.Room, 0, len(rows)-1), Errors: []ValidationError{}}
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		result.TotalRows++
		room, rowErrs := parseRoomRow(i+2, columns, row)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}
		result.Rooms = append(result.Rooms, room)
	}
	return result, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectSeparator(data)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

// detectSeparator picks ';' when the header row uses it, as spreadsheet
// tools do in locales with comma decimals.
func detectSeparator(data []byte) rune {
	header, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

func readExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return rows, nil
}

func mapHeaders(headers []string) []string {
	columns := make([]string, len(headers))
	for i, h := range headers {
		label := strings.TrimSuffix(pricing.FoldLabel(h), "*")
		columns[i] = headerAliases[strings.TrimSpace(label)]
	}
	return columns
}

func hasColumn(columns []string, key string) bool {
	for _, c := range columns {
		if c == key {
			return true
		}
	}
	return false
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseRoomRow(rowNum int, columns []string, row []string) (pricing.Room, []ValidationError) {
	var (
		room pricing.Room
		errs []ValidationError
	)
	for i, key := range columns {
		if key == "" || i >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[i])

		switch key {
		case colID:
			room.ID = value
		case colName:
			room.Name = value
		case colUnit:
			room.Unit = value
		case colCapacity:
			n, err := parseCount(value)
			if err != nil {
				errs = append(errs, ValidationError{Row: rowNum, Field: key, Message: err.Error()})
			}
			room.Capacity = n
		default:
			v, err := parseAmount(value)
			if err != nil {
				errs = append(errs, ValidationError{Row: rowNum, Field: key, Message: err.Error()})
				continue
			}
			switch key {
			case colMorning:
				room.MorningCost = v
			case colAfternoon:
				room.AfternoonCost = v
			case colEvening:
				room.EveningCost = v
			case colBase:
				room.BaseCost = v
			case colArea:
				room.AreaM2 = v
			}
		}
	}

	if room.Name == "" {
		errs = append(errs, ValidationError{Row: rowNum, Field: colName, Message: "name is required"})
	}
	return room, errs
}

// parseAmount accepts "1234.5", "1234,5" and "1.234,50". Empty means zero.
func parseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("must be greater than or equal to 0")
	}
	return v, nil
}

func parseCount(raw string) (int, error) {
	v, err := parseAmount(raw)
	if err != nil {
		return 0, err
	}
	if v != float64(int(v)) {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	return int(v), nil
}
