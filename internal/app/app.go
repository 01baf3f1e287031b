package app

import (
	"context"

	"github.com/rs/zerolog"

	"currency-event-impact/internal/config"
	"currency-event-impact/internal/countries"
	"currency-event-impact/internal/service"
	"currency-event-impact/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// resolver builds the currency to country lookup the engine components
// share. The configured map wins; use_builtin_map falls back to the
// shipped 22-currency table.
func (a *App) resolver() (countries.Resolver, error) {
	if err := a.Config.RequireCountryMap(); err != nil {
		return nil, err
	}
	if len(a.Config.Engine.CurrencyCountryMap) > 0 {
		return countries.NewStatic(a.Config.Engine.CurrencyCountryMap), nil
	}
	return countries.Default(), nil
}

func (a *App) newService(resolver countries.Resolver) (*service.Service, error) {
	return service.New(service.Options{
		ZThreshold:  a.Config.Engine.ZThreshold,
		LagDays:     a.Config.Engine.LagDays,
		TopN:        a.Config.Engine.TopN,
		NeutralBand: a.Config.Engine.NeutralBand,
	}, resolver, a.Logger)
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// AnalyzeOptions hold parameters for a full pipeline run.
type AnalyzeOptions struct {
	RatesPath  string
	EventsPath string
	CSVDir     string
	XLSXPath   string
	SharesPNG  string
	ImpactPNG  string
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// ExportOptions configure rendering of persisted results.
type ExportOptions struct {
	CSVDir    string
	XLSXPath  string
	SharesPNG string
	ImpactPNG string
}
