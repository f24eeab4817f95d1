package main

import (
	"net/http"

	"github.com/Simplici0/roomquote/internal/pricing"
	"github.com/Simplici0/roomquote/internal/spreadsheet"
	"github.com/Simplici0/roomquote/internal/store"
)

const maxImportBytes = 10 << 20

func (s *server) handleRoomsList(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.store.ListRooms(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *server) handleRoomUpsert(w http.ResponseWriter, r *http.Request) {
	var room pricing.Room
	if err := decodeJSON(w, r, &room); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, created, err := s.store.UpsertRoom(r.Context(), room)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

type roomImportResponse struct {
	TotalRows int                           `json:"total_rows"`
	Created   int                           `json:"created"`
	Updated   int                           `json:"updated"`
	Errors    []spreadsheet.ValidationError `json:"errors"`
}

func (s *server) handleRoomsImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeError(w, http.StatusBadRequest, "arquivo inválido ou muito grande")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file é obrigatório")
		return
	}
	defer file.Close()

	parsed, err := spreadsheet.ParseRooms(header.Filename, file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := s.store.ImportRooms(r.Context(), parsed.Rooms)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	resp := roomImportResponse{
		TotalRows: parsed.TotalRows,
		Created:   stats.Created,
		Updated:   stats.Updated,
		Errors:    parsed.Errors,
	}
	s.metrics.ImportedRows(len(parsed.Rooms), parsed.TotalRows-len(parsed.Rooms))
	s.log.Info("rooms imported", "file", header.Filename, "created", resp.Created, "updated", resp.Updated, "invalid_cells", len(resp.Errors))

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleEmployeesList(w http.ResponseWriter, r *http.Request) {
	employees, err := s.store.ListEmployees(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

// employeeInput is an employee body. Active defaults to true when omitted.
type employeeInput struct {
	pricing.Employee
	Active *bool `json:"active"`
}

func (in employeeInput) employee() pricing.Employee {
	e := in.Employee
	e.Active = in.Active == nil || *in.Active
	return e
}

// extraInput is an extra body. Active defaults to true when omitted.
type extraInput struct {
	pricing.Extra
	Active *bool `json:"active"`
}

func (in extraInput) extra() pricing.Extra {
	x := in.Extra
	x.Active = in.Active == nil || *in.Active
	return x
}

func (s *server) handleEmployeeUpsert(w http.ResponseWriter, r *http.Request) {
	var in employeeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saved, err := s.store.UpsertEmployee(r.Context(), in.employee())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *server) handleExtrasList(w http.ResponseWriter, r *http.Request) {
	extras, err := s.store.ListExtras(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, extras)
}

func (s *server) handleExtraUpsert(w http.ResponseWriter, r *http.Request) {
	var in extraInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saved, err := s.store.UpsertExtra(r.Context(), in.extra())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Settings(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var st store.Settings
	if err := decodeJSON(w, r, &st); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.UpdateSettings(r.Context(), st); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
