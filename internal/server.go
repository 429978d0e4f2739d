package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/liftlog/statsengine/internal/config"
	"github.com/liftlog/statsengine/internal/db"
	"github.com/liftlog/statsengine/internal/middleware"
	"github.com/liftlog/statsengine/internal/statsengine"
	"github.com/liftlog/statsengine/internal/statsengine/achievements"
	"github.com/liftlog/statsengine/internal/statsengine/ledger"
	"github.com/liftlog/statsengine/internal/statsengine/stats"
	"github.com/liftlog/statsengine/internal/telemetry/metrics"
	"github.com/liftlog/statsengine/internal/telemetry/tracing"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	serviceSecret     string // collaborator services authenticate event posts with it
	versionInfo       string

	config  *config.Config
	dbPool  *pgxpool.Pool
	engine  *statsengine.Service
	achRepo *achievements.Repo

	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	ServiceSecret           string
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
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
	metricsManager := metrics.NewManager("statsengine", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "statsengine")
	if err != nil {
		return nil, err
	}

	achievementsRepo := achievements.NewRepo(
		dbPool,
		time.Duration(params.Config.AchievementsCacheTTLSeconds)*time.Second,
	)

	engine := statsengine.NewService(
		dbPool,
		stats.NewRepo(dbPool),
		ledger.NewRepo(dbPool),
		achievementsRepo,
		metricsManager,
		params.Config.EventMaxRetries,
	)

	return &Server{
		config:        params.Config,
		dbPool:        dbPool,
		serviceSecret: params.ServiceSecret,
		versionInfo:   params.VersionInfo,
		engine:        engine,
		achRepo:       achievementsRepo,

		redisClient: rdb,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("statsengine-router"))

	eventsHandler := statsengine.NewHandler(s.engine)
	r.HandleFunc("/engine/events/set", eventsHandler.HandleSetLogged).Methods("POST", "OPTIONS").Name("event-set")
	r.HandleFunc("/engine/events/workout", eventsHandler.HandleWorkoutCompleted).Methods("POST", "OPTIONS").Name("event-workout")
	r.HandleFunc("/engine/events/nutrition", eventsHandler.HandleNutritionLogged).Methods("POST", "OPTIONS").Name("event-nutrition")
	r.HandleFunc("/engine/events/mesocycle", eventsHandler.HandleMesocycleCompleted).Methods("POST", "OPTIONS").Name("event-mesocycle")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	statsSubrouter := r.PathPrefix("/engine/stats").Subrouter()
	statsSubrouter.Use(middleware.RateLimit(
		reqRateLimiter, "stats", s.config.StatsRateLimitAllowedPerMin, s.metricsManager,
	))
	statsSubrouter.HandleFunc("/{userID}", eventsHandler.HandleGetStats).Methods("GET", "OPTIONS").Name("get-stats")

	achievementsHandler := achievements.NewHandler(s.achRepo)
	r.HandleFunc("/engine/achievements/catalog", achievementsHandler.HandleCatalog).Methods("GET", "OPTIONS").Name("achievements-catalog")
	r.HandleFunc("/engine/achievements/{userID}/unseen", achievementsHandler.HandleUnseen).Methods("GET", "OPTIONS").Name("achievements-unseen")
	r.HandleFunc("/engine/achievements/{userID}/{achievementID}/seen", achievementsHandler.HandleMarkSeen).Methods("POST", "OPTIONS").Name("achievements-seen")

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(s.versionInfo))
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewServiceAuthHandler(s.serviceSecret)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

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
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("stats engine service, listen and serve: %s", err)
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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

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
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
