package app

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/juaai/jua/internal/application/analysis"
	"github.com/juaai/jua/internal/application/doctor"
	"github.com/juaai/jua/internal/application/history"
	"github.com/juaai/jua/internal/application/preferences"
	"github.com/juaai/jua/internal/application/tips"
	"github.com/juaai/jua/internal/application/weather"
	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/cache"
	"github.com/juaai/jua/internal/infrastructure/classifier"
	"github.com/juaai/jua/internal/infrastructure/config"
	"github.com/juaai/jua/internal/infrastructure/metrics"
	"github.com/juaai/jua/internal/infrastructure/persistence"
	"github.com/juaai/jua/internal/infrastructure/reference"
	"github.com/juaai/jua/internal/infrastructure/server"
	"github.com/juaai/jua/internal/infrastructure/storage"
	"github.com/juaai/jua/internal/pkg/logger"
	"github.com/juaai/jua/internal/ports"
)

// Options tune container construction.
type Options struct {
	Verbose bool
	// Ephemeral keeps all state in memory for the lifetime of the process.
	Ephemeral bool
	// ConfigPath overrides the config file location.
	ConfigPath string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         *logger.ZapLogger
	Store          ports.KeyValueStore
	Adapter        *persistence.Adapter
	Registry       *prometheus.Registry
	Metrics        *metrics.Recorder
	Catalog        *reference.Catalog

	AnalysisService    *analysis.Service
	HistoryStore       *history.Store
	WeatherService     *weather.Service
	TipsService        *tips.Service
	PreferencesService *preferences.Service
	DoctorService      *doctor.Service
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(opts.Verbose)

	settings := cfg.Storage
	if opts.Ephemeral {
		settings.Backend = domain.StorageBackendMemory
	}
	store, err := storage.Open(settings)
	if store == nil {
		return nil, err
	}
	if err != nil {
		log.Warn("storage degraded", map[string]interface{}{"error": err.Error()})
	}
	adapter := persistence.NewAdapter(store, log)

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	catalog, err := reference.LoadEmbedded()
	if err != nil {
		return nil, err
	}

	historyStore := history.NewStore(adapter, cfg.History.MaxEntries)
	httpClient := &http.Client{}

	var remote ports.Classifier
	if cfg.Classifier.Endpoint != "" {
		remote = classifier.NewRemoteClient(cfg.Classifier.Endpoint, httpClient, cfg.Classifier.RatePerMinute)
	}
	analysisService := analysis.NewService(
		remote,
		classifier.NewSimulator(catalog.Diseases(), nil),
		historyStore,
		log,
		analysis.WithObserver(recorder),
		analysis.WithTimeout(time.Duration(cfg.Classifier.TimeoutSeconds)*time.Second),
	)

	weatherService := weather.NewService(
		weather.MockProvider{},
		cache.New[domain.Forecast](adapter, "weather", cache.WithMetrics(recorder)),
		ports.SystemClock{},
		log,
		cfg.Weather.TTLMinutes,
		cfg.Weather.ForecastDays,
	)
	tipsService := tips.NewService(
		catalog,
		cache.New[domain.TipSet](adapter, "tips", cache.WithMetrics(recorder)),
		cfg.Tips.TTLMinutes,
	)

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Store:          store,
		Reference:      catalog,
		History:        historyStore,
	}
	if cfg.Classifier.HealthEndpoint != "" {
		doctorService.Prober = classifier.NewHealthClient(cfg.Classifier.HealthEndpoint, httpClient)
	}

	return &Container{
		Config:             cfg,
		ConfigProvider:     cfgLoader,
		ConfigLoader:       cfgLoader,
		Logger:             log,
		Store:              store,
		Adapter:            adapter,
		Registry:           registry,
		Metrics:            recorder,
		Catalog:            catalog,
		AnalysisService:    analysisService,
		HistoryStore:       historyStore,
		WeatherService:     weatherService,
		TipsService:        tipsService,
		PreferencesService: preferences.NewService(adapter, catalog.Languages),
		DoctorService:      doctorService,
	}, nil
}

// NewServer builds the local classification backend over the container's metrics.
func (c *Container) NewServer() *server.Server {
	return server.New(server.Config{
		Predictor: server.NewMockPredictor(nil),
		Recorder:  c.Metrics,
		Gatherer:  c.Registry,
		Logger:    c.Logger,
	})
}

// Close waits for in-flight analyses and releases the store.
func (c *Container) Close() error {
	c.AnalysisService.Wait()
	_ = c.Logger.Sync()
	if closer, ok := c.Store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
