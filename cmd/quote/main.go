// Command quote prices a room rental from the command line against the same
// database the server uses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/Simplici0/roomquote/internal/config"
	"github.com/Simplici0/roomquote/internal/db"
	"github.com/Simplici0/roomquote/internal/logging"
	"github.com/Simplici0/roomquote/internal/migrations"
	"github.com/Simplici0/roomquote/internal/pricing"
	"github.com/Simplici0/roomquote/internal/quotetext"
	"github.com/Simplici0/roomquote/internal/store"
)

type options struct {
	dbPath     string
	title      string
	save       bool
	incomplete bool
	req        pricing.Request
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(cfg.Env, cfg.LogLevel)

	opts, err := parseFlags(os.Args[1:], cfg.DBPath, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, cfg.HistoryLimit, opts, os.Stdout); err != nil {
		logging.Fatal(log, "quote failed", "error", err)
	}
}

func parseFlags(args []string, defaultDB string, output io.Writer) (options, error) {
	var (
		opts     options
		weekdays string
		extras   string
		hours    float64
		margin   float64
		discount float64
	)

	fs := flag.NewFlagSet("quote", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.dbPath, "db", defaultDB, "path to the SQLite database")
	fs.StringVar(&opts.req.RoomID, "room", "", "room id")
	fs.IntVar(&opts.req.Duration, "duration", 0, "contract length")
	fs.StringVar(&opts.req.DurationUnit, "unit", string(pricing.UnitMonths), "duration unit: days or months")
	fs.StringVar(&weekdays, "weekdays", "", "comma separated weekdays, 0 = Sunday")
	fs.Float64Var(&hours, "hours", -1, "hours per day")
	fs.Float64Var(&margin, "margin", -1, "margin percentage")
	fs.Float64Var(&discount, "discount", -1, "manual discount percentage")
	fs.StringVar(&opts.req.Shift, "shift", "", "morning, afternoon, evening or full-day")
	fs.StringVar(&extras, "extras", "", "comma separated extra ids")
	fs.BoolVar(&opts.incomplete, "incomplete", false, "mark the request as missing information")
	fs.StringVar(&opts.title, "title", "", "quote title")
	fs.BoolVar(&opts.save, "save", false, "store the quote in the history")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.req.Duration < 0 {
		return options{}, fmt.Errorf("duration must not be negative")
	}
	days, err := parseWeekdays(weekdays)
	if err != nil {
		return options{}, err
	}
	opts.req.Weekdays = days
	opts.req.ExtraIDs = splitList(extras)
	opts.req.Incomplete = opts.incomplete

	if hours >= 0 {
		opts.req.HoursPerDay = &hours
	}
	if margin >= 0 {
		if margin > 100 {
			return options{}, fmt.Errorf("margin must be between 0 and 100")
		}
		m := margin / 100
		opts.req.Margin = &m
	}
	if discount >= 0 {
		if discount > 100 {
			return options{}, fmt.Errorf("discount must be between 0 and 100")
		}
		d := discount / 100
		opts.req.Discount = &d
	}
	return opts, nil
}

func parseWeekdays(raw string) ([]int, error) {
	var days []int
	for _, part := range splitList(raw) {
		d, err := strconv.Atoi(part)
		if err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("invalid weekday %q: must be 0-6", part)
		}
		days = append(days, d)
	}
	return days, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func run(ctx context.Context, log *slog.Logger, historyLimit int, opts options, out io.Writer) error {
	conn, err := db.Open(ctx, opts.dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := migrations.Up(ctx, conn.DB); err != nil {
		return err
	}

	st := store.New(conn, log, historyLimit)
	q, err := pricing.NewEngine(st).Quote(ctx, opts.req)
	if err != nil {
		return err
	}

	doc := quotetext.Document{Title: opts.title, Quote: q}
	if q.Room != nil {
		doc.Unit = q.Room.Unit
	}
	if opts.save {
		rec, err := st.SaveQuote(ctx, store.NewQuote{Title: opts.title, Quote: q})
		if err != nil {
			return err
		}
		doc.Unit = rec.Unit
		doc.CreatedAt = rec.CreatedAt
		log.Info("quote saved", "id", rec.ID)
	}

	if err := quotetext.Render(out, doc); err != nil {
		return err
	}
	_, err = riskColor(q.Risk.Level).Fprintf(out, "\n%s\n", riskBanner(q.Risk))
	return err
}

func riskColor(level pricing.RiskLevel) *color.Color {
	switch level {
	case pricing.RiskLow:
		return color.New(color.FgGreen, color.Bold)
	case pricing.RiskMedium:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func riskBanner(r pricing.Risk) string {
	if r.Forced {
		return fmt.Sprintf("RISCO %s (dados incompletos)", r.Level)
	}
	return fmt.Sprintf("RISCO %s", r.Level)
}
