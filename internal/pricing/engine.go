package pricing

import (
	"context"
	"fmt"
	"strings"
)

// DataSource supplies the master data a quote is priced against.
type DataSource interface {
	// FindRoom returns nil without error when no room has the given id.
	FindRoom(ctx context.Context, id string) (*Room, error)
	ActiveEmployees(ctx context.Context) ([]Employee, error)
	Extras(ctx context.Context) ([]Extra, error)
	ShiftMultipliers(ctx context.Context) (ShiftMultipliers, error)
	CommissionRates(ctx context.Context) (CommissionConfig, error)
}

// Quote is a calculation together with what it was computed from.
type Quote struct {
	Request Request `json:"request"`
	Room    *Room   `json:"room,omitempty"`
	Result  Result  `json:"result"`
	Risk    Risk    `json:"risk"`
}

// Engine prices requests using master data from a DataSource.
type Engine struct {
	data DataSource
}

// NewEngine returns an Engine reading from data.
func NewEngine(data DataSource) *Engine {
	return &Engine{data: data}
}

// Quote loads the master data for req, calculates it and grades its risk.
// A request whose room cannot be found is priced with a zero-cost room and
// graded as incomplete.
func (e *Engine) Quote(ctx context.Context, req Request) (Quote, error) {
	data, err := e.load(ctx, req)
	if err != nil {
		return Quote{}, err
	}

	params := Normalize(req, data)
	if !params.HasRoom {
		params.Incomplete = true
	}

	result := Calculate(params)
	q := Quote{
		Request: req,
		Result:  result,
		Risk:    ClassifyRisk(result, params.Incomplete),
	}
	if params.HasRoom {
		room := params.Room
		q.Room = &room
	}
	return q, nil
}

func (e *Engine) load(ctx context.Context, req Request) (MasterData, error) {
	var (
		data MasterData
		err  error
	)
	if id := strings.TrimSpace(req.RoomID); id != "" {
		if data.Room, err = e.data.FindRoom(ctx, id); err != nil {
			return MasterData{}, fmt.Errorf("load room: %w", err)
		}
	}
	if data.Employees, err = e.data.ActiveEmployees(ctx); err != nil {
		return MasterData{}, fmt.Errorf("load employees: %w", err)
	}
	if len(req.ExtraIDs) > 0 {
		if data.Extras, err = e.data.Extras(ctx); err != nil {
			return MasterData{}, fmt.Errorf("load extras: %w", err)
		}
	}
	if data.Multipliers, err = e.data.ShiftMultipliers(ctx); err != nil {
		return MasterData{}, fmt.Errorf("load shift multipliers: %w", err)
	}
	if data.Commission, err = e.data.CommissionRates(ctx); err != nil {
		return MasterData{}, fmt.Errorf("load commission rates: %w", err)
	}
	return data, nil
}
