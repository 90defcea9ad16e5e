package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sprintflow/scoring/internal/advice"
	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/sprintflow/scoring/internal/auth"
	"github.com/sprintflow/scoring/internal/cache"
	"github.com/sprintflow/scoring/internal/config"
	"github.com/sprintflow/scoring/internal/db"
	"github.com/sprintflow/scoring/internal/fatigue"
	"github.com/sprintflow/scoring/internal/indices"
	"github.com/sprintflow/scoring/internal/middleware"
	"github.com/sprintflow/scoring/internal/scoring"
	"github.com/sprintflow/scoring/internal/telemetry/metrics"
	"github.com/sprintflow/scoring/internal/telemetry/tracing"
	"github.com/sprintflow/scoring/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	webhookPath     = "/analyser_seance"
	maxRequestBytes = 1 << 20
)

type athleteStore interface {
	GetProfile(ctx context.Context, athleteID uuid.UUID) (*athlete.Profile, error)
	ListBodyCompositions(ctx context.Context, athleteID uuid.UUID, limit int) ([]athlete.BodyComposition, error)
	ListExerciseRecords(ctx context.Context, athleteID uuid.UUID) ([]athlete.ExerciseRecord, error)
	ListWorkouts(ctx context.Context, athleteID uuid.UUID, from, to time.Time) ([]athlete.Workout, error)
	ListSleepLogs(ctx context.Context, athleteID uuid.UUID, from, to time.Time) ([]athlete.SleepLog, error)
	LatestAnalysis(ctx context.Context, athleteID uuid.UUID) (*athlete.WorkoutAnalysis, error)
	GetAnalysis(ctx context.Context, workoutID uuid.UUID) (*athlete.WorkoutAnalysis, error)
	InsertAnalysis(ctx context.Context, a *athlete.WorkoutAnalysis) error
	UpdateAnalysis(ctx context.Context, a *athlete.WorkoutAnalysis) error
}

type catalogProvider interface {
	Catalog(ctx context.Context) *scoring.Catalog
}

type subjectResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// routerDeps are the collaborators the routes are built from; tests swap
// in the in-memory store and fake auth.
type routerDeps struct {
	store           athleteStore
	catalogs        catalogProvider
	resolver        subjectResolver
	rateLimiter     middleware.RequestRateLimiter
	metricsManager  *metrics.Manager
	webhookSecret   string
	rateLimitPerMin int
	requestTimeout  time.Duration
	versionInfo     string
	now             func() time.Time
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	secrets      *config.Secrets
	dbPool       *pgxpool.Pool
	athleteRepo  *athlete.Repo
	catalogCache *cache.CatalogCache
	redisClient  *redis.Client
	authResolver *auth.Resolver

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.Secrets.PostgresPassword,
		TracingEnabled: params.Secrets.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("sprintflow", "scoring", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.Secrets.RedisPassword,
		DB:       0, // use default DB
	})

	if params.Secrets.HoneycombEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.Secrets.HoneycombEnabled, params.Secrets.OtelServiceName)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	}

	athleteRepo := athlete.NewRepo(dbPool)

	return &Server{
		config:       params.Config,
		secrets:      params.Secrets,
		versionInfo:  params.VersionInfo,
		dbPool:       dbPool,
		athleteRepo:  athleteRepo,
		catalogCache: cache.NewCatalogCache(athleteRepo, time.Duration(params.Config.CatalogCacheTTLSeconds)*time.Second),
		redisClient:  rdb,
		authResolver: auth.NewResolver(
			params.Config.AuthBaseURL,
			params.Secrets.SupabaseAnonKey,
			tracedHttpClient,
			rdb,
			params.Config.AuthCacheTTL(),
		),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	return newRouter(routerDeps{
		store:           s.athleteRepo,
		catalogs:        s.catalogCache,
		resolver:        s.authResolver,
		rateLimiter:     redis_rate.NewLimiter(s.redisClient),
		metricsManager:  s.metricsManager,
		webhookSecret:   s.secrets.WebhookSecret,
		rateLimitPerMin: s.config.RateLimitPerMin,
		requestTimeout:  s.config.RequestTimeout(),
		versionInfo:     s.versionInfo,
		now:             time.Now,
	})
}

func newRouter(deps routerDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("scoring-router"))

	indicesHandler := indices.NewHandler(
		indices.NewService(deps.store, deps.catalogs, deps.metricsManager, deps.now),
	)
	r.HandleFunc("/get_indice_performance", indicesHandler.HandlePerformance).Methods("POST", "OPTIONS").Name("indice-performance")
	r.HandleFunc("/get_indice_poids_puissance", indicesHandler.HandlePower).Methods("POST", "OPTIONS").Name("indice-poids-puissance")
	r.HandleFunc("/get_indice_forme", indicesHandler.HandleForm).Methods("POST", "OPTIONS").Name("indice-forme")

	adviceHandler := advice.NewHandler(deps.catalogs, deps.metricsManager)
	r.HandleFunc("/conseils_performance", adviceHandler.HandlePerformance).Methods("POST", "OPTIONS").Name("conseils-performance")
	r.HandleFunc("/conseils_poids_puissance", adviceHandler.HandlePower).Methods("POST", "OPTIONS").Name("conseils-poids-puissance")
	r.HandleFunc("/conseils_forme", adviceHandler.HandleForm).Methods("POST", "OPTIONS").Name("conseils-forme")

	fatigueHandler := fatigue.NewHandler(
		fatigue.NewService(deps.store, deps.metricsManager, deps.now),
	)
	r.HandleFunc(webhookPath, fatigueHandler.HandleAnalyse).Methods("POST", "OPTIONS").Name("analyser-seance")

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteJSON(w, map[string]string{"status": "ok", "version": deps.versionInfo}, http.StatusOK)
	}).Methods("GET").Name("health")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSONError(w, "not found", http.StatusNotFound)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		deps.resolver,
		deps.webhookSecret,
		webhookPath,
	)

	r.Use(middleware.PanicRecovery(deps.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(deps.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.Timeout(deps.requestTimeout))
	r.Use(authMiddleware.AuthCheck())
	if deps.rateLimiter != nil {
		r.Use(middleware.RateLimit(deps.rateLimiter, "scoring", deps.rateLimitPerMin, deps.metricsManager, webhookPath))
	}
	r.Use(middleware.DrainAndCloseRequest(maxRequestBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metrics.Handler(s.promRegistry))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the pool and redis go away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
