package main

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/roomquote/internal/analytics"
	"github.com/Simplici0/roomquote/internal/quotetext"
	"github.com/Simplici0/roomquote/internal/spreadsheet"
	"github.com/Simplici0/roomquote/internal/store"
)

func (s *server) handleQuoteCalculate(w http.ResponseWriter, r *http.Request) {
	in, err := parseQuoteInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := s.engine.Quote(r.Context(), in.Request)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.metrics.ObserveQuote(q)

	writeJSON(w, http.StatusOK, q)
}

func (s *server) handleQuoteSave(w http.ResponseWriter, r *http.Request) {
	in, err := parseQuoteInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := s.engine.Quote(r.Context(), in.Request)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.metrics.ObserveQuote(q)

	rec, err := s.store.SaveQuote(r.Context(), store.NewQuote{Title: in.Title, Unit: in.Unit, Quote: q})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.metrics.QuoteSaved()
	s.log.Info("quote saved", "quote_id", rec.ID, "final_price", rec.Quote.Result.FinalPrice, "risk", rec.Quote.Risk.Level)

	writeJSON(w, http.StatusCreated, rec)
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.store.ListQuotes(r.Context(), query)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":  query,
		"quotes": quotes,
	})
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = quotetext.Render(&buf, quotetext.Document{
		Title:     rec.Title,
		Unit:      rec.Unit,
		CreatedAt: rec.CreatedAt,
		Quote:     rec.Quote,
	})
	if err != nil {
		s.writeStoreError(w, r, fmt.Errorf("render quote text: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleQuoteWorkbook(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	data, err := spreadsheet.QuoteWorkbook(spreadsheet.QuoteExport{
		ID:        rec.ID,
		Title:     rec.Title,
		Unit:      rec.Unit,
		CreatedAt: rec.CreatedAt,
		Quote:     rec.Quote,
	})
	if err != nil {
		s.writeStoreError(w, r, fmt.Errorf("build quote workbook: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="orcamento-%s.xlsx"`, rec.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *server) handleQuoteConverted(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Converted *bool `json:"converted"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Converted == nil {
		writeError(w, http.StatusBadRequest, "converted é obrigatório")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.SetConverted(r.Context(), id, *body.Converted); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "converted": *body.Converted})
}

func (s *server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	records, err := s.store.History(r.Context(), analytics.WindowStart(now))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Aggregate(records, now))
}
