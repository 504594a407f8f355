package tariff

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/encoding"
)

// Column names accepted for each field, English first.
var columns = map[string][]string{
	"vehicle_type":   {"vehicle_type", "tipo_vehiculo"},
	"age_min":        {"age_min", "antiguedad_min"},
	"age_max":        {"age_max", "antiguedad_max"},
	"inspection_fee": {"inspection_fee", "valor_rtm"},
	"third_party":    {"third_party", "valor_terceros"},
}

type colIndex map[string]int

// Parse reads a semicolon separated tariff sheet for year. Every bad line is reported,
// not just the first one.
func Parse(r io.Reader, year int) ([]*Tariff, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperr.Validation("unreadable tariff file: %v", err)
	}

	cols, headerIdx, ok := detectHeader(rows)
	if !ok {
		return nil, apperr.Validation("tariff file has no header with vehicle_type;age_min;age_max;inspection_fee;third_party")
	}

	validFrom := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	validTo := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	var (
		out     []*Tariff
		details []string
	)

	for i, row := range rows[headerIdx+1:] {
		line := headerIdx + i + 2 // 1-based, skipping header

		if blank(row) {
			continue
		}

		t, problems := parseRow(cols, row)
		for _, p := range problems {
			details = append(details, fmt.Sprintf("line %d: %s", line, p))
		}

		if len(problems) > 0 {
			continue
		}

		t.Year = year
		t.ValidFrom = validFrom
		t.ValidTo = validTo
		out = append(out, t)
	}

	details = append(details, overlaps(out)...)

	if len(details) > 0 {
		return nil, apperr.Validation("tariff file has %d problem(s)", len(details)).WithDetails(details...)
	}

	if len(out) == 0 {
		return nil, apperr.Validation("tariff file has no rows")
	}

	return out, nil
}

// detectHeader finds the first row naming every required column.
func detectHeader(rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		names := make(map[string]int)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
			if name != "" {
				names[name] = i
			}
		}

		cols := make(colIndex)

		for field, aliases := range columns {
			for _, alias := range aliases {
				if idx, ok := names[alias]; ok {
					cols[field] = idx
					break
				}
			}
		}

		if len(cols) == len(columns) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func parseRow(cols colIndex, row []string) (*Tariff, []string) {
	var (
		t        Tariff
		problems []string
	)

	raw := cellValue(row, cols["vehicle_type"])

	vt, ok := ParseVehicleType(raw)
	if !ok {
		problems = append(problems, fmt.Sprintf("unknown vehicle type %q", raw))
	}

	t.VehicleType = vt

	ageMin, err := strconv.Atoi(cellValue(row, cols["age_min"]))
	if err != nil || ageMin < 0 {
		problems = append(problems, fmt.Sprintf("invalid age_min %q", cellValue(row, cols["age_min"])))
	}

	t.AgeMin = ageMin

	if s := cellValue(row, cols["age_max"]); s != "" {
		ageMax, err := strconv.Atoi(s)

		switch {
		case err != nil:
			problems = append(problems, fmt.Sprintf("invalid age_max %q", s))
		case ageMax < ageMin:
			problems = append(problems, fmt.Sprintf("age_max %d is below age_min %d", ageMax, ageMin))
		default:
			t.AgeMax = &ageMax
		}
	}

	fee, err := ParseAmount(cellValue(row, cols["inspection_fee"]))
	if err != nil || !fee.IsPositive() {
		problems = append(problems, fmt.Sprintf("invalid inspection_fee %q", cellValue(row, cols["inspection_fee"])))
	}

	third, err := ParseAmount(cellValue(row, cols["third_party"]))
	if err != nil || third.IsNegative() {
		problems = append(problems, fmt.Sprintf("invalid third_party %q", cellValue(row, cols["third_party"])))
	}

	t.InspectionFee = fee
	t.ThirdParty = third
	t.Total = fee.Add(third)

	return &t, problems
}

// overlaps reports bands of the same vehicle type that share an age.
func overlaps(tariffs []*Tariff) []string {
	var out []string

	for i, a := range tariffs {
		for _, b := range tariffs[i+1:] {
			if a.VehicleType != b.VehicleType {
				continue
			}

			if b.Contains(a.AgeMin) || a.Contains(b.AgeMin) {
				out = append(out, fmt.Sprintf("%s: age bands starting at %d and %d overlap", a.VehicleType, a.AgeMin, b.AgeMin))
			}
		}
	}

	return out
}

// ParseAmount reads a peso amount written the Colombian way: "." groups thousands
// and "," separates decimals, so "248.710" and "248710,00" are the same value.
// A "$" prefix and spaces are ignored.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, " ", "")

	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if thousandsGrouped(s) {
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}

	return d, nil
}

// thousandsGrouped reports whether every "." in s is followed by exactly three digits.
func thousandsGrouped(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return false
	}

	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}

	return true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
