package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Simplici0/roomquote/internal/db"
	"github.com/Simplici0/roomquote/internal/migrations"
	"github.com/Simplici0/roomquote/internal/pricing"
)

func newTestStore(t *testing.T, historyLimit int) *Store {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := migrations.Up(ctx, conn.DB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	s := New(conn, slog.New(slog.NewTextHandler(io.Discard, nil)), historyLimit)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return s
}

func sampleQuote(room *pricing.Room, finalPrice float64, level pricing.RiskLevel) pricing.Quote {
	hours := 8.0
	return pricing.Quote{
		Request: pricing.Request{Duration: 2, DurationUnit: "days", Weekdays: []int{1}, HoursPerDay: &hours},
		Room:    room,
		Result:  pricing.Result{FinalPrice: finalPrice, Subtotal: finalPrice * 0.7, BaseCost: finalPrice * 0.2},
		Risk:    pricing.Risk{Level: level, VariableCostRatio: 30},
	}
}

func TestUpsertRoomCreatesThenUpdates(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	room, created, err := s.UpsertRoom(ctx, pricing.Room{ID: "sala-1", Name: "Sala 1", Unit: "Centro", MorningCost: 100})
	if err != nil {
		t.Fatalf("upsert room: %v", err)
	}
	if !created || room.ID != "sala-1" {
		t.Fatalf("expected new room sala-1, got created=%v room=%+v", created, room)
	}

	_, created, err = s.UpsertRoom(ctx, pricing.Room{ID: "sala-1", Name: "Sala 1", Unit: "Centro", MorningCost: 120})
	if err != nil {
		t.Fatalf("update room: %v", err)
	}
	if created {
		t.Fatalf("second upsert should update, not create")
	}

	got, err := s.Room(ctx, "sala-1")
	if err != nil {
		t.Fatalf("load room: %v", err)
	}
	if got.MorningCost != 120 {
		t.Fatalf("expected morning cost 120, got %v", got.MorningCost)
	}

	rooms, err := s.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(rooms))
	}
}

func TestUpsertRoomGeneratesID(t *testing.T) {
	s := newTestStore(t, 0)

	room, created, err := s.UpsertRoom(context.Background(), pricing.Room{Name: "Auditório"})
	if err != nil {
		t.Fatalf("upsert room: %v", err)
	}
	if !created || room.ID == "" {
		t.Fatalf("expected generated id, got %+v", room)
	}
}

func TestUpsertRoomRejectsInvalidValues(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	cases := []pricing.Room{
		{ID: "a", Name: "  "},
		{ID: "b", Name: "Sala", MorningCost: -1},
		{ID: "c", Name: "Sala", Capacity: -3},
	}
	for _, room := range cases {
		if _, _, err := s.UpsertRoom(ctx, room); !errors.Is(err, ErrInvalid) {
			t.Fatalf("room %q: expected ErrInvalid, got %v", room.ID, err)
		}
	}
}

func TestImportRoomsCountsCreatedAndUpdated(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	if _, _, err := s.UpsertRoom(ctx, pricing.Room{ID: "a", Name: "A", MorningCost: 10}); err != nil {
		t.Fatalf("seed room: %v", err)
	}

	stats, err := s.ImportRooms(ctx, []pricing.Room{
		{ID: "a", Name: "A", MorningCost: 15},
		{ID: "b", Name: "B", BaseCost: 40},
	})
	if err != nil {
		t.Fatalf("import rooms: %v", err)
	}
	if stats.Created != 1 || stats.Updated != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	a, err := s.Room(ctx, "a")
	if err != nil {
		t.Fatalf("load room: %v", err)
	}
	if a.MorningCost != 15 {
		t.Fatalf("expected updated morning cost 15, got %v", a.MorningCost)
	}
}

func TestImportRoomsRollsBackOnInvalidRoom(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	_, err := s.ImportRooms(ctx, []pricing.Room{
		{ID: "ok", Name: "Ok", MorningCost: 10},
		{ID: "bad", Name: "", MorningCost: 10},
	})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	rooms, err := s.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("expected no rooms after a failed import, got %+v", rooms)
	}
}

func TestFindRoomMissingReturnsNil(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	room, err := s.FindRoom(ctx, "nope")
	if err != nil {
		t.Fatalf("find room: %v", err)
	}
	if room != nil {
		t.Fatalf("expected nil room, got %+v", room)
	}

	if _, err := s.Room(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActiveEmployeesSkipsInactive(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	if _, err := s.UpsertEmployee(ctx, pricing.Employee{ID: "e1", Name: "Ana", RateNormal: 20, Active: true}); err != nil {
		t.Fatalf("upsert employee: %v", err)
	}
	if _, err := s.UpsertEmployee(ctx, pricing.Employee{ID: "e2", Name: "Bruno", RateNormal: 25, Active: false}); err != nil {
		t.Fatalf("upsert employee: %v", err)
	}

	all, err := s.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("list employees: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(all))
	}

	active, err := s.ActiveEmployees(ctx)
	if err != nil {
		t.Fatalf("active employees: %v", err)
	}
	if len(active) != 1 || active[0].ID != "e1" || !active[0].Active {
		t.Fatalf("unexpected active employees: %+v", active)
	}
}

func TestExtrasOnlyReturnsActive(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	for _, x := range []pricing.Extra{
		{ID: "proj", Name: "Projetor", CostPerHour: 10, Active: true},
		{ID: "cafe", Name: "Café", CostPerHour: 5, Active: false},
	} {
		if _, err := s.UpsertExtra(ctx, x); err != nil {
			t.Fatalf("upsert extra %s: %v", x.ID, err)
		}
	}

	extras, err := s.Extras(ctx)
	if err != nil {
		t.Fatalf("extras: %v", err)
	}
	if len(extras) != 1 || extras[0].ID != "proj" {
		t.Fatalf("unexpected extras: %+v", extras)
	}

	if _, err := s.UpsertExtra(ctx, pricing.Extra{Name: "Som", CostPerHour: -2}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	st, err := s.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if st.Multipliers != pricing.DefaultShiftMultipliers {
		t.Fatalf("expected default multipliers, got %+v", st.Multipliers)
	}

	if err := s.EnsureSettings(ctx); err != nil {
		t.Fatalf("ensure settings: %v", err)
	}
	if err := s.EnsureSettings(ctx); err != nil {
		t.Fatalf("ensure settings twice: %v", err)
	}

	want := Settings{
		Multipliers: pricing.ShiftMultipliers{Morning: 1, Afternoon: 1.2, Evening: 1.5},
		Commission:  pricing.CommissionConfig{Enabled: true, SellerRate: 0.05, ManagementRate: 0.02},
	}
	if err := s.UpdateSettings(ctx, want); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	m, err := s.ShiftMultipliers(ctx)
	if err != nil {
		t.Fatalf("shift multipliers: %v", err)
	}
	if m != want.Multipliers {
		t.Fatalf("expected %+v, got %+v", want.Multipliers, m)
	}

	c, err := s.CommissionRates(ctx)
	if err != nil {
		t.Fatalf("commission rates: %v", err)
	}
	if c != want.Commission {
		t.Fatalf("expected %+v, got %+v", want.Commission, c)
	}

	bad := want
	bad.Commission.SellerRate = 5
	if err := s.UpdateSettings(ctx, bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveQuoteTrimsHistoryToLimit(t *testing.T) {
	s := newTestStore(t, 3)
	ctx := context.Background()

	titles := []string{"q1", "q2", "q3", "q4", "q5"}
	for i, title := range titles {
		if _, err := s.SaveQuote(ctx, NewQuote{Title: title, Quote: sampleQuote(nil, float64(100*(i+1)), pricing.RiskLow)}); err != nil {
			t.Fatalf("save %s: %v", title, err)
		}
	}

	quotes, err := s.ListQuotes(ctx, "")
	if err != nil {
		t.Fatalf("list quotes: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 quotes after trimming, got %d", len(quotes))
	}
	if quotes[0].Title != "q5" || quotes[1].Title != "q4" || quotes[2].Title != "q3" {
		t.Fatalf("quotes are not the newest first: %+v", quotes)
	}
	if quotes[0].FinalPrice != 500 {
		t.Fatalf("expected final price 500, got %v", quotes[0].FinalPrice)
	}
}

func TestListQuotesFiltersByTitleAndUnit(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	room := &pricing.Room{ID: "r1", Name: "Sala", Unit: "Paulista"}
	saves := []NewQuote{
		{Title: "Workshop Acme", Quote: sampleQuote(room, 100, pricing.RiskLow)},
		{Title: "Treinamento", Unit: "Centro", Quote: sampleQuote(nil, 200, pricing.RiskMedium)},
		{Title: "Evento paulista", Unit: "Centro", Quote: sampleQuote(nil, 300, pricing.RiskHigh)},
	}
	for _, nq := range saves {
		if _, err := s.SaveQuote(ctx, nq); err != nil {
			t.Fatalf("save %s: %v", nq.Title, err)
		}
	}

	byTitle, err := s.ListQuotes(ctx, "acme")
	if err != nil {
		t.Fatalf("list by title: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].Title != "Workshop Acme" {
		t.Fatalf("unexpected title filter result: %+v", byTitle)
	}
	if byTitle[0].Unit != "Paulista" || byTitle[0].RoomID != "r1" {
		t.Fatalf("unit should default to the room unit: %+v", byTitle[0])
	}

	byUnit, err := s.ListQuotes(ctx, "Paulista")
	if err != nil {
		t.Fatalf("list by unit: %v", err)
	}
	if len(byUnit) != 2 {
		t.Fatalf("expected 2 quotes matching title or unit, got %+v", byUnit)
	}
}

func TestGetQuoteReturnsStoredSnapshot(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	room := &pricing.Room{ID: "r1", Name: "Sala", Unit: "Centro", MorningCost: 80}
	saved, err := s.SaveQuote(ctx, NewQuote{Title: "Snapshot", Quote: sampleQuote(room, 1234.5, pricing.RiskMedium)})
	if err != nil {
		t.Fatalf("save quote: %v", err)
	}

	if _, _, err := s.UpsertRoom(ctx, pricing.Room{ID: "r1", Name: "Sala", Unit: "Centro", MorningCost: 999}); err != nil {
		t.Fatalf("update room: %v", err)
	}

	got, err := s.GetQuote(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get quote: %v", err)
	}
	if got.Quote.Result.FinalPrice != 1234.5 {
		t.Fatalf("expected stored final price, got %v", got.Quote.Result.FinalPrice)
	}
	if got.Quote.Risk.Level != pricing.RiskMedium {
		t.Fatalf("expected stored risk level, got %v", got.Quote.Risk.Level)
	}
	if got.Quote.Request.HoursPerDay == nil || *got.Quote.Request.HoursPerDay != 8 {
		t.Fatalf("request was not restored: %+v", got.Quote.Request)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Fatalf("expected created_at %v, got %v", saved.CreatedAt, got.CreatedAt)
	}
	if got.Quote.Room == nil {
		t.Fatalf("expected the priced room to be stored with the quote")
	}
	if got.Quote.Room.Name != "Sala" || got.Quote.Room.MorningCost != 80 {
		t.Fatalf("expected room as priced, got %+v", got.Quote.Room)
	}

	if _, err := s.GetQuote(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetConverted(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	saved, err := s.SaveQuote(ctx, NewQuote{Title: "Venda", Quote: sampleQuote(nil, 100, pricing.RiskLow)})
	if err != nil {
		t.Fatalf("save quote: %v", err)
	}

	if err := s.SetConverted(ctx, saved.ID, true); err != nil {
		t.Fatalf("set converted: %v", err)
	}
	got, err := s.GetQuote(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get quote: %v", err)
	}
	if !got.Converted {
		t.Fatalf("expected quote to be converted")
	}
	if got.Quote.Room != nil {
		t.Fatalf("quote priced without a room should read back without one, got %+v", got.Quote.Room)
	}

	if err := s.SetConverted(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryReturnsRecordsAfterSince(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	var saved []QuoteRecord
	for _, title := range []string{"old", "mid", "new"} {
		rec, err := s.SaveQuote(ctx, NewQuote{Title: title, Unit: "Centro", Quote: sampleQuote(nil, 100, pricing.RiskLow)})
		if err != nil {
			t.Fatalf("save %s: %v", title, err)
		}
		saved = append(saved, rec)
	}

	records, err := s.History(ctx, saved[0].CreatedAt)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records after the first, got %d", len(records))
	}
	if records[0].Title != "mid" || records[1].Title != "new" {
		t.Fatalf("expected oldest first, got %+v", records)
	}
	if records[1].Result.FinalPrice != 100 || records[1].Unit != "Centro" {
		t.Fatalf("unexpected record: %+v", records[1])
	}
}

func TestEngineQuotesAgainstStoredMasterData(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	if _, _, err := s.UpsertRoom(ctx, pricing.Room{ID: "r1", Name: "Sala", Unit: "Centro", MorningCost: 50}); err != nil {
		t.Fatalf("upsert room: %v", err)
	}
	if _, err := s.UpsertEmployee(ctx, pricing.Employee{ID: "e1", Name: "Ana", RateNormal: 10, Active: true}); err != nil {
		t.Fatalf("upsert employee: %v", err)
	}
	if err := s.EnsureSettings(ctx); err != nil {
		t.Fatalf("ensure settings: %v", err)
	}

	hours := 8.0
	q, err := pricing.NewEngine(s).Quote(ctx, pricing.Request{
		RoomID:       "r1",
		Duration:     1,
		DurationUnit: "days",
		Weekdays:     []int{1},
		HoursPerDay:  &hours,
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Room == nil || q.Room.ID != "r1" {
		t.Fatalf("expected room r1, got %+v", q.Room)
	}
	if q.Result.RoomHourlyCost != 50 {
		t.Fatalf("expected room hourly cost 50, got %v", q.Result.RoomHourlyCost)
	}
	if q.Result.EmployeeCount != 1 {
		t.Fatalf("expected 1 employee, got %d", q.Result.EmployeeCount)
	}
	if q.Risk.Forced {
		t.Fatalf("complete request should not force risk")
	}
}
