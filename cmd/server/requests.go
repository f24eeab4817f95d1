package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/roomquote/internal/pricing"
)

// quoteInput is the body of calculate and save requests.
type quoteInput struct {
	Title   string          `json:"title"`
	Unit    string          `json:"unit"`
	Request pricing.Request `json:"request"`
}

// parseQuoteInput reads a quote request from a JSON body or, for HTML form
// posts, from form values where margin and discount are percentages.
func parseQuoteInput(w http.ResponseWriter, r *http.Request) (quoteInput, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return quoteInput{}, fmt.Errorf("formulário inválido")
		}
		req, err := parseQuoteFormValues(r)
		if err != nil {
			return quoteInput{}, err
		}
		return quoteInput{
			Title:   strings.TrimSpace(r.FormValue("title")),
			Unit:    strings.TrimSpace(r.FormValue("unit")),
			Request: req,
		}, nil
	}

	var in quoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		return quoteInput{}, err
	}
	if err := validateRequest(in.Request); err != nil {
		return quoteInput{}, err
	}
	return in, nil
}

func parseQuoteFormValues(r *http.Request) (pricing.Request, error) {
	req := pricing.Request{
		RoomID:       strings.TrimSpace(r.FormValue("room_id")),
		DurationUnit: strings.TrimSpace(r.FormValue("duration_unit")),
		Shift:        strings.TrimSpace(r.FormValue("shift")),
		Incomplete:   r.FormValue("incomplete") == "1" || r.FormValue("incomplete") == "true",
	}

	if raw := strings.TrimSpace(r.FormValue("duration")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return req, fmt.Errorf("duration deve ser um inteiro maior que 0")
		}
		req.Duration = n
	}

	for _, raw := range r.Form["weekdays"] {
		d, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || d < 0 || d > 6 {
			return req, fmt.Errorf("weekdays deve conter valores entre 0 e 6")
		}
		req.Weekdays = append(req.Weekdays, d)
	}

	if raw := strings.TrimSpace(r.FormValue("hours_per_day")); raw != "" {
		v, err := parseNonNegativeFloat(raw, "hours_per_day")
		if err != nil {
			return req, err
		}
		req.HoursPerDay = &v
	}
	if raw := strings.TrimSpace(r.FormValue("margin")); raw != "" {
		v, err := parsePercent(raw, "margin")
		if err != nil {
			return req, err
		}
		v /= 100
		req.Margin = &v
	}
	if raw := strings.TrimSpace(r.FormValue("discount")); raw != "" {
		v, err := parsePercent(raw, "discount")
		if err != nil {
			return req, err
		}
		v /= 100
		req.Discount = &v
	}

	for _, id := range r.Form["extra_ids"] {
		if id = strings.TrimSpace(id); id != "" {
			req.ExtraIDs = append(req.ExtraIDs, id)
		}
	}

	return req, nil
}

// validateRequest rejects values no sanitizing default could make sense of.
func validateRequest(req pricing.Request) error {
	if req.Duration < 0 {
		return fmt.Errorf("duration deve ser maior ou igual a 0")
	}
	for _, d := range req.Weekdays {
		if d < 0 || d > 6 {
			return fmt.Errorf("weekdays deve conter valores entre 0 e 6")
		}
	}
	if req.HoursPerDay != nil && *req.HoursPerDay < 0 {
		return fmt.Errorf("hours_per_day deve ser maior ou igual a 0")
	}
	if req.Margin != nil && (*req.Margin < 0 || *req.Margin > 1) {
		return fmt.Errorf("margin deve estar entre 0 e 1")
	}
	if req.Discount != nil && (*req.Discount < 0 || *req.Discount > 1) {
		return fmt.Errorf("discount deve estar entre 0 e 1")
	}
	return nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("%s deve ser numérico", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s deve ser maior ou igual a 0", field)
	}
	return value, nil
}

func parsePercent(raw, field string) (float64, error) {
	value, err := parseNonNegativeFloat(raw, field)
	if err != nil {
		return 0, err
	}
	if value > 100 {
		return 0, fmt.Errorf("%s deve estar entre 0 e 100", field)
	}
	return value, nil
}
