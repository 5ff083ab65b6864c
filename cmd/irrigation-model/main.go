package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/blck04/irrigation-model/internal/api"
	"github.com/blck04/irrigation-model/internal/chart"
	"github.com/blck04/irrigation-model/internal/export"
	"github.com/blck04/irrigation-model/internal/ingest"
	"github.com/blck04/irrigation-model/internal/metrics"
	"github.com/blck04/irrigation-model/internal/models"
	"github.com/blck04/irrigation-model/internal/sim"
	"github.com/blck04/irrigation-model/internal/store"
)

type cli struct {
	Simulate simulateCmd `cmd:"" help:"Run a season water-balance simulation from CSV inputs."`
	Fetch    fetchCmd    `cmd:"" help:"Download daily climate data from NASA POWER into a CSV."`
	Serve    serveCmd    `cmd:"" help:"Serve the simulation API over HTTP."`
}

// defaultSoil is assumed when no soil file is supplied.
var defaultSoil = models.SoilProfile{
	FieldCapacity:       150,
	WiltingPoint:        75,
	IrrigationThreshold: 75,
}

type simulateCmd struct {
	Climate string `arg:"" help:"Climate CSV with date, T2M_MAX, T2M_MIN, ALLSKY_SFC_SW_DWN, PRECTOT columns." type:"existingfile"`
	Soil    string `help:"Soil CSV with field capacity, wilting point and optional irrigation threshold; a default profile is assumed when omitted." type:"existingfile"`
	Kc      string `help:"Optional Kc curve CSV; the built-in maize curve is used when omitted." type:"existingfile"`

	Year       int `required:"" help:"Planting year of the season to simulate."`
	StartMonth int `default:"10" help:"First month of the growing season."`
	EndMonth   int `default:"3" help:"Last month of the growing season."`

	InitialMoisture *float64 `help:"Starting soil moisture in mm/m; defaults to 70% of field capacity."`

	Out    string `help:"Write per-day results CSV to this path."`
	Report string `help:"Write a summary report to this path."`
	Chart  string `help:"Write a soil moisture chart PNG to this path."`
	DB     string `env:"IRRIGATION_DB" help:"Archive the run in this SQLite database."`
}

func (c *simulateCmd) Run() error {
	records, err := ingest.LoadClimateCSV(c.Climate)
	if err != nil {
		return fmt.Errorf("load climate: %w", err)
	}
	soil := defaultSoil
	if c.Soil != "" {
		soil, err = ingest.LoadSoilCSV(c.Soil)
		if err != nil {
			return fmt.Errorf("load soil: %w", err)
		}
	}

	curve := sim.DefaultKcCurve()
	if c.Kc != "" {
		points, err := ingest.LoadKcCSV(c.Kc)
		if err != nil {
			return fmt.Errorf("load kc curve: %w", err)
		}
		curve = sim.KcCurveFromSamples(points)
	}

	for _, w := range ingest.ValidateRecords(records) {
		log.Printf("simulate: %s", w)
	}

	window := sim.NewSeasonWindow(c.Year, time.Month(c.StartMonth), time.Month(c.EndMonth))
	season, err := window.Filter(records)
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	simulator := sim.NewSimulator(soil, curve)
	simulator.InitialMoisture = c.InitialMoisture

	started := time.Now()
	result := simulator.Run(season)
	metrics.SimulationDuration.Observe(time.Since(started).Seconds())
	metrics.SimulationsTotal.WithLabelValues("ok").Inc()

	for _, a := range result.Advisories {
		log.Printf("simulate: %s", a)
	}

	summary := sim.Analyze(result, soil)

	log.Printf("simulate: %d days, irrigation %.1f mm over %d events, rainfall %.1f mm, ETc %.1f mm",
		len(result.Days), summary.TotalIrrigation, summary.IrrigationEvents,
		summary.TotalRainfall, summary.TotalETc)
	log.Printf("simulate: %d stress days (%d severe), yield potential %s",
		summary.StressDays, summary.SevereStressDays, summary.YieldPotential)

	if c.Out != "" {
		if err := export.WriteResultsCSVFile(c.Out, result); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		log.Printf("simulate: wrote %s", c.Out)
	}
	if c.Report != "" {
		if err := export.WriteSummaryReportFile(c.Report, window, soil, summary, result.Advisories); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Printf("simulate: wrote %s", c.Report)
	}
	if c.Chart != "" {
		if err := chart.RenderFile(c.Chart, result, soil); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		log.Printf("simulate: wrote %s", c.Chart)
	}

	if c.DB != "" {
		st, err := store.Open(c.DB)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		run := models.SeasonRun{
			Year:       c.Year,
			StartMonth: c.StartMonth,
			EndMonth:   c.EndMonth,
			Soil:       soil,
			Summary:    summary,
			Advisories: store.JoinAdvisories(result.Advisories),
		}
		id, err := st.InsertRun(run, result.Days)
		if err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		log.Printf("simulate: archived as run %d", id)
	}

	return nil
}

type fetchCmd struct {
	Lat  float64 `required:"" help:"Latitude of the site."`
	Lon  float64 `required:"" help:"Longitude of the site."`
	From string  `required:"" help:"First date to fetch (2006-01-02)."`
	To   string  `required:"" help:"Last date to fetch (2006-01-02)."`
	Out  string  `default:"climate.csv" help:"Path of the climate CSV to write."`
}

func (c *fetchCmd) Run() error {
	from, err := time.Parse("2006-01-02", c.From)
	if err != nil {
		return fmt.Errorf("parse --from: %w", err)
	}
	to, err := time.Parse("2006-01-02", c.To)
	if err != nil {
		return fmt.Errorf("parse --to: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("--to %s precedes --from %s", c.To, c.From)
	}

	client := ingest.NewPowerClient()
	records, err := client.FetchDaily(c.Lat, c.Lon, from, to)
	if err != nil {
		return fmt.Errorf("fetch climate: %w", err)
	}
	log.Printf("fetch: %d days for (%.3f, %.3f)", len(records), c.Lat, c.Lon)

	for _, w := range ingest.ValidateRecords(records) {
		log.Printf("fetch: %s", w)
	}

	if err := export.WriteClimateCSVFile(c.Out, records); err != nil {
		return fmt.Errorf("write climate: %w", err)
	}
	log.Printf("fetch: wrote %s", c.Out)
	return nil
}

type serveCmd struct {
	Listen string `default:":8080" env:"IRRIGATION_LISTEN" help:"Address to serve HTTP on."`
	DB     string `default:"data/irrigation.db" env:"IRRIGATION_DB" help:"Path to the SQLite run archive."`
}

func (c *serveCmd) Run() error {
	st, err := store.Open(c.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.NewServer(st, c.Listen).Start(ctx)
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("irrigation-model"),
		kong.Description("Maize soil water balance simulator."),
		kong.UsageOnError(),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)
	if err := ctx.Run(); err != nil {
		log.Fatalf("%s: %v", ctx.Command(), err)
	}
}
