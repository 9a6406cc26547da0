package app

import (
	"context"
	"errors"

	"github.com/klokku/spendcast/internal/config"
	"github.com/klokku/spendcast/internal/event_bus"
	"github.com/klokku/spendcast/internal/metrics"
	"github.com/klokku/spendcast/internal/utils"
	"github.com/klokku/spendcast/pkg/expense"
	"github.com/klokku/spendcast/pkg/export"
	"github.com/klokku/spendcast/pkg/forecast"
	"github.com/klokku/spendcast/pkg/google"
	"github.com/klokku/spendcast/pkg/mockdata"
	"github.com/klokku/spendcast/pkg/stats"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Registry

	ExpenseRepo    expense.Repository
	ExpenseService *expense.ServiceImpl
	ExpenseHandler *expense.Handler

	ForecastService *forecast.ServiceImpl
	ForecastHandler *forecast.Handler

	StatsService     *stats.StatsServiceImpl
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler

	ExportService *export.ServiceImpl
	XlsxRenderer  *export.XlsxRenderer
	ExportHandler *export.Handler

	SheetsExporter google.Exporter
	GoogleHandler  *google.Handler

	Generator       *mockdata.Generator
	MockDataHandler *mockdata.Handler
}

// BuildDependencies initializes and wires all application services and handlers around repo.
func BuildDependencies(ctx context.Context, repo expense.Repository, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	var observer forecast.Observer
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.NewRegistry()
		deps.Metrics.SubscribeLedger(deps.EventBus)
		observer = deps.Metrics
	}

	deps.ExpenseRepo = repo
	deps.ExpenseService = expense.NewService(repo, deps.EventBus)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	forecastConfig, err := forecast.ConfigFrom(cfg.Forecast)
	if err != nil {
		return nil, err
	}
	deps.ForecastService = forecast.NewService(repo, forecastConfig, observer, deps.Clock)
	deps.ForecastHandler = forecast.NewHandler(deps.ForecastService)

	deps.StatsService = stats.NewStatsServiceImpl(repo)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer)

	deps.ExportService = export.NewService(repo)
	deps.XlsxRenderer = export.NewXlsxRenderer()
	deps.ExportHandler = export.NewHandler(deps.ExportService, deps.XlsxRenderer, deps.Clock)

	sheetsExporter, err := google.NewSheetsExporter(ctx, cfg.Google)
	switch {
	case err == nil:
		deps.SheetsExporter = sheetsExporter
	case errors.Is(err, google.ErrNotConfigured):
		log.Info("Google Sheets export is not configured")
	default:
		log.Warnf("Google Sheets export disabled: %v", err)
	}
	deps.GoogleHandler = google.NewHandler(deps.ExportService, deps.SheetsExporter)

	deps.Generator = mockdata.NewGenerator(deps.Clock)
	deps.MockDataHandler = mockdata.NewHandler(deps.Generator, deps.ExpenseService, mockdata.Options{
		Records: cfg.MockData.Records,
		Days:    cfg.MockData.Days,
		Seed:    cfg.MockData.Seed,
	})

	return deps, nil
}
