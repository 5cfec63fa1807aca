// Package wire provides dependency injection for the frontdesk application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/genai"

	cliadapter "github.com/example/frontdesk/internal/adapters/cli"
	"github.com/example/frontdesk/internal/adapters/filesystem"
	"github.com/example/frontdesk/internal/adapters/gemini"
	"github.com/example/frontdesk/internal/adapters/httpapi"
	"github.com/example/frontdesk/internal/adapters/offline"
	"github.com/example/frontdesk/internal/adapters/sqlite"
	"github.com/example/frontdesk/internal/app"
	"github.com/example/frontdesk/internal/config"
	"github.com/example/frontdesk/internal/db"
	"github.com/example/frontdesk/internal/logging"
	"github.com/example/frontdesk/internal/metrics"
	"github.com/example/frontdesk/internal/ports/primary"
	"github.com/example/frontdesk/internal/ports/secondary"
)

var (
	configPath = config.DefaultPath
	verbose    bool

	cfg      *config.Config
	logger   *zap.Logger
	database *sql.DB
	registry *prometheus.Registry
	collect  *metrics.Metrics

	sessionRepo *sqlite.SessionRepository
	memberRepo  *sqlite.MemberRepository
	vectorIndex *sqlite.VectorIndex
	corpusFile  *filesystem.CorpusFile

	embedder       secondary.Embedder
	embedderErr    error
	synthesizer    secondary.Synthesizer
	synthesizerErr error

	resolutionService *app.ResolutionServiceImpl
	membershipService *app.MembershipServiceImpl

	once            sync.Once
	embedderOnce    sync.Once
	synthesizerOnce sync.Once
)

// Configure sets the config file and verbosity. It must be called before
// any accessor.
func Configure(path string, verboseLogging bool) {
	if path != "" {
		configPath = path
	}
	verbose = verboseLogging
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the shared logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// ResolutionService returns the singleton ResolutionService. Knowledge
// publication is disabled when no embedding provider can be built.
func ResolutionService() *app.ResolutionServiceImpl {
	once.Do(initServices)
	return resolutionService
}

// MembershipService returns the singleton MembershipService.
func MembershipService() primary.MembershipService {
	once.Do(initServices)
	return membershipService
}

// ReceptionistService returns a ReceptionistService backed by the configured
// embedding and synthesis providers.
func ReceptionistService() primary.ReceptionistService {
	once.Do(initServices)
	requireEmbedder()
	requireSynthesizer()
	return app.NewReceptionistService(
		sessionRepo,
		app.NewVectorRetriever(embedder, vectorIndex),
		synthesizer,
		collect,
		logger,
		app.ReceptionistConfig{
			ConfidenceThreshold: cfg.Escalation.ConfidenceThreshold,
			TopK:                cfg.Retrieval.TopK,
			Namespace:           cfg.Retrieval.Namespace,
			RetrievalTimeout:    cfg.Retrieval.Timeout,
			SynthesisTimeout:    cfg.Synthesis.Timeout,
			Greeting:            cfg.Persona.Greeting,
			Fallback:            cfg.Persona.Fallback,
		},
	)
}

// IngestService returns an IngestService backed by the configured embedder.
func IngestService() primary.IngestService {
	once.Do(initServices)
	requireEmbedder()
	open := func(path string) secondary.CorpusStore {
		if path == corpusFile.Path() {
			return corpusFile
		}
		return filesystem.NewCorpusFile(path)
	}
	return app.NewIngestService(open, embedder, vectorIndex, app.IngestConfig{
		CorpusPath: cfg.Corpus.Path,
		Namespace:  cfg.Retrieval.Namespace,
		BatchSize:  cfg.Embedding.BatchSize,
	}, logger)
}

// Sweeper returns an aging sweeper using the configured timeout and interval.
func Sweeper() *app.Sweeper {
	once.Do(initServices)
	return app.NewSweeper(sessionRepo, cfg.Escalation.PendingTimeout, cfg.Escalation.SweepInterval, nil, collect, logger)
}

// HTTPServer returns the supervisor HTTP server bound to the configured address.
func HTTPServer() *http.Server {
	once.Do(initServices)

	handler := httpapi.NewServer(&httpapi.Handler{
		Receptionist: ReceptionistService(),
		Resolution:   resolutionService,
		Membership:   membershipService,
		Logger:       logger.Named("http"),
	},
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		httpapi.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	)

	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
	}
}

// SessionAdapter returns a new SessionAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func SessionAdapter() *cliadapter.SessionAdapter {
	return cliadapter.NewSessionAdapter(ResolutionService(), os.Stdout)
}

// CallAdapter returns a new CallAdapter reading from in and writing to out.
func CallAdapter(in io.Reader, out io.Writer) *cliadapter.CallAdapter {
	return cliadapter.NewCallAdapter(ReceptionistService(), in, out)
}

// MemberAdapter returns a new MemberAdapter writing to stdout.
func MemberAdapter() *cliadapter.MemberAdapter {
	return cliadapter.NewMemberAdapter(MembershipService(), os.Stdout)
}

// Close drains background publications and closes the database.
func Close() {
	if resolutionService != nil {
		resolutionService.Wait()
	}
	if database != nil {
		database.Close()
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

// initServices initializes the configuration, storage and services.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err = logging.New(cfg.Logging, verbose)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	database, err = db.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.String("path", cfg.Database.Path), zap.Error(err))
	}

	registry = prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collect = metrics.New(registry)

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	sessionRepo = sqlite.NewSessionRepository(database, nil)
	memberRepo = sqlite.NewMemberRepository(database, nil)
	vectorIndex = sqlite.NewVectorIndex(database, cfg.Database.Driver, nil)
	corpusFile = filesystem.NewCorpusFile(cfg.Corpus.Path)

	var publisher app.Publisher
	if err := loadEmbedder(); err != nil {
		logger.Warn("knowledge publishing disabled", zap.Error(err))
	} else {
		publisher = app.NewKnowledgePublisher(corpusFile, embedder, vectorIndex, cfg.Retrieval.Namespace, collect, logger)
	}

	// Create services (primary ports implementation)
	resolutionService = app.NewResolutionService(sessionRepo, publisher, cfg.Escalation.PublishTimeout, collect, logger)
	membershipService = app.NewMembershipService(memberRepo, logger)
}

func loadEmbedder() error {
	embedderOnce.Do(func() {
		embedder, embedderErr = buildEmbedder(cfg)
	})
	return embedderErr
}

func requireEmbedder() {
	if err := loadEmbedder(); err != nil {
		logger.Fatal("failed to initialize embedding provider", zap.Error(err))
	}
}

func requireSynthesizer() {
	synthesizerOnce.Do(func() {
		synthesizer, synthesizerErr = buildSynthesizer(cfg)
	})
	if synthesizerErr != nil {
		logger.Fatal("failed to initialize synthesis provider", zap.Error(synthesizerErr))
	}
}

// buildEmbedder and buildSynthesizer are independent so an offline embedder
// keeps publishing alive when the synthesis provider cannot start.
func buildEmbedder(c *config.Config) (secondary.Embedder, error) {
	if c.Embedding.Provider == config.ProviderHashing {
		hashing, err := offline.NewHashingEmbedder(c.Embedding.Dimensions)
		if err != nil {
			return nil, err
		}
		return hashing, nil
	}
	client, err := newGeminiClient(c)
	if err != nil {
		return nil, err
	}
	return gemini.NewEmbedder(client, c.Embedding.Model, c.Embedding.Dimensions), nil
}

func buildSynthesizer(c *config.Config) (secondary.Synthesizer, error) {
	if c.Synthesis.Provider == config.ProviderExtractive {
		return offline.NewExtractiveSynthesizer(), nil
	}
	client, err := newGeminiClient(c)
	if err != nil {
		return nil, err
	}
	return gemini.NewSynthesizer(client, c.Synthesis, c.Persona), nil
}

func newGeminiClient(c *config.Config) (*genai.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return gemini.NewClient(ctx, c.Embedding.APIKey, "")
}
