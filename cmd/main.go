package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sbilibin2017/super-wallet/internal/clock"
	"github.com/sbilibin2017/super-wallet/internal/consumers"
	"github.com/sbilibin2017/super-wallet/internal/facades"
	"github.com/sbilibin2017/super-wallet/internal/handlers"
	"github.com/sbilibin2017/super-wallet/internal/jobs"
	"github.com/sbilibin2017/super-wallet/internal/jwt"
	"github.com/sbilibin2017/super-wallet/internal/logger"
	"github.com/sbilibin2017/super-wallet/internal/middlewares"
	"github.com/sbilibin2017/super-wallet/internal/repositories"
	"github.com/sbilibin2017/super-wallet/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

const serviceName = "super-wallet"

// jobConfig schedules one sweep.
type jobConfig struct {
	Cron    string
	Timeout time.Duration
	Delay   time.Duration
}

// config holds every setting read from the environment.
type config struct {
	AppHost  string
	AppPort  string
	LogLevel string
	GRPCPort string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int
	TokenCacheExp     time.Duration

	KafkaBrokers          []string
	KafkaCommandsTopic    string
	KafkaCommandsGroupID  string
	KafkaCommandsDLTTopic string
	KafkaEventsTopic      string

	IngestProcessingTimeout time.Duration
	IngestRetryCount        uint64
	IngestRetryDelay        time.Duration

	WalletsLimitPerOwner int

	JobConcurrency                int
	JobSendExecutedCommands       jobConfig
	JobSendExecutedCommandsPage   int
	JobProcessNotCompleted        jobConfig
	JobProcessMissingExecutedCmds jobConfig

	JWTSecretKey string
	JWTExp       time.Duration
}

// @title super-wallet API
// @version 1.0.0
// @description Admin API of the wallet service: wallets and registered tokens
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath, issueTokenFor := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if issueTokenFor != "" {
		token, err := jwt.New(jwt.WithSecretKey(cfg.JWTSecretKey), jwt.WithExpiration(cfg.JWTExp)).
			Generate(context.Background(), issueTokenFor)
		if err != nil {
			log.Fatalf("failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags returns the config file path and, when set, the owner id to issue an admin token for.
func parseFlags() (configPath, issueTokenFor string) {
	c := flag.String("c", "config.env", "Path to configuration file")
	t := flag.String("issue-token", "", "Print a bearer token for the given owner id and exit")
	flag.Parse()
	return *c, *t
}

// parseConfig loads environment variables from a file and applies defaults.
func parseConfig(path string) (*config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	var errs []error
	getInt := func(key, defaultValue string) int {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}
	getDuration := func(key, defaultValue string) time.Duration {
		v, err := time.ParseDuration(getEnv(key, defaultValue))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}

	cfg := &config{}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.GRPCPort = getEnv("GRPC_PORT", "50051")

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGPort = getInt("POSTGRES_PORT", "5432")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "database")
	cfg.PGMaxOpenConns = getInt("POSTGRES_MAX_OPEN_CONNS", "16")
	cfg.PGMaxIdleConns = getInt("POSTGRES_MAX_IDLE_CONNS", "8")

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getInt("REDIS_PORT", "6379")
	cfg.RedisDB = getInt("REDIS_DB", "0")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisPoolSize = getInt("REDIS_POOL_SIZE", "10")
	cfg.RedisMinIdleConns = getInt("REDIS_MIN_IDLE_CONNS", "2")
	cfg.TokenCacheExp = time.Duration(getInt("TOKEN_CACHE_EXP_SECOND", "60")) * time.Second

	// Kafka config
	cfg.KafkaBrokers = strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	cfg.KafkaCommandsTopic = getEnv("KAFKA_COMMANDS_TOPIC", "wallet-commands")
	cfg.KafkaCommandsGroupID = getEnv("KAFKA_COMMANDS_GROUP_ID", serviceName)
	cfg.KafkaCommandsDLTTopic = getEnv("KAFKA_COMMANDS_DLT_TOPIC", cfg.KafkaCommandsTopic+"-dlt")
	cfg.KafkaEventsTopic = getEnv("KAFKA_EVENTS_TOPIC", "wallet-events")

	// Ingestion config
	cfg.IngestProcessingTimeout = getDuration("INGEST_PROCESSING_TIMEOUT", "30s")
	cfg.IngestRetryCount = uint64(getInt("INGEST_RETRY_COUNT", "3"))
	cfg.IngestRetryDelay = getDuration("INGEST_RETRY_DELAY", "200ms")

	cfg.WalletsLimitPerOwner = getInt("WALLETS_LIMIT_PER_OWNER", "5")

	// Jobs config
	cfg.JobConcurrency = getInt("JOB_CONCURRENCY", "8")
	cfg.JobSendExecutedCommands = jobConfig{
		Cron:    getEnv("JOB_SEND_EXECUTED_COMMANDS_CRON", "0 * * * * *"),
		Timeout: getDuration("JOB_SEND_EXECUTED_COMMANDS_TIMEOUT", "50s"),
		Delay:   getDuration("JOB_SEND_EXECUTED_COMMANDS_DELAY", "1m"),
	}
	cfg.JobSendExecutedCommandsPage = getInt("JOB_SEND_EXECUTED_COMMANDS_PAGE_SIZE", "500")
	cfg.JobProcessNotCompleted = jobConfig{
		Cron:    getEnv("JOB_PROCESS_NOT_COMPLETED_CRON", "15 * * * * *"),
		Timeout: getDuration("JOB_PROCESS_NOT_COMPLETED_TIMEOUT", "50s"),
		Delay:   getDuration("JOB_PROCESS_NOT_COMPLETED_DELAY", "1m"),
	}
	cfg.JobProcessMissingExecutedCmds = jobConfig{
		Cron:    getEnv("JOB_PROCESS_MISSING_EXECUTED_COMMANDS_CRON", "30 * * * * *"),
		Timeout: getDuration("JOB_PROCESS_MISSING_EXECUTED_COMMANDS_TIMEOUT", "50s"),
		Delay:   getDuration("JOB_PROCESS_MISSING_EXECUTED_COMMANDS_DELAY", "1m"),
	}

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	cfg.JWTExp = time.Duration(getInt("JWT_EXP_SECOND", "3600")) * time.Second

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run wires storage, transport, the orchestrator, the ingestion loop, the
// sweeps and the admin API, and blocks until ctx is cancelled or a signal
// arrives.
func run(ctx context.Context, cfg *config) error {
	if err := logger.Initialize(cfg.LogLevel, serviceName); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB)
	logger.Log.Infow("connecting to PostgreSQL", "host", cfg.PGHost, "port", cfg.PGPort, "db", cfg.PGDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)

	if err := repositories.Migrate(ctx, db); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka producers and consumer
	eventsWriter := newKafkaWriter(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
	defer eventsWriter.Close()
	dltWriter := newKafkaWriter(cfg.KafkaBrokers, cfg.KafkaCommandsDLTTopic)
	defer dltWriter.Close()
	commandsReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaCommandsTopic,
		GroupID:  cfg.KafkaCommandsGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer commandsReader.Close()

	clk := clock.System{}

	// Initialize repositories
	walletRepo := repositories.NewWalletRepository(db, repositories.GetTxFromContext, clk)
	processRepo := repositories.NewWalletProcessRepository(db, repositories.GetTxFromContext, clk)
	executedRepo := repositories.NewExecutedCommandRepository(db, repositories.GetTxFromContext, clk)
	tokenRepo := repositories.NewTokenRepository(db, repositories.GetTxFromContext, clk)
	tokenCache := repositories.NewTokenCacheRepository(rdb, cfg.TokenCacheExp)
	jobLocks := repositories.NewJobLockRepository(rdb)
	transactor := repositories.NewTransactor(db)

	// Initialize services
	eventsPublisher := facades.NewWalletEventsPublisher(eventsWriter)
	walletService := services.NewWalletService(walletRepo, transactor, cfg.WalletsLimitPerOwner)
	tokenService := services.NewTokenService(tokenRepo, tokenCache)
	executedService := services.NewExecutedCommandService(executedRepo, eventsPublisher, clk)
	orchestrator, err := services.NewCommandOrchestrator(
		walletRepo, processRepo, executedService,
		services.NewCommandValidator(tokenService),
		eventsPublisher, transactor, clk,
		services.NewExecuteCommandStep(clk),
		services.NewSendResponseStep(executedService),
	)
	if err != nil {
		return err
	}

	consumer := consumers.NewWalletCommandsConsumer(
		commandsReader, orchestrator, facades.NewDeadLetterPublisher(dltWriter),
		consumers.Config{
			ProcessingTimeout: cfg.IngestProcessingTimeout,
			RetryCount:        cfg.IngestRetryCount,
			RetryDelay:        cfg.IngestRetryDelay,
		},
	)

	// Schedule sweeps
	scheduler := jobs.NewScheduler(jobLocks)
	schedule := []struct {
		cfg jobConfig
		job jobs.Job
	}{
		{cfg.JobSendExecutedCommands, jobs.NewSendExecutedCommandsJob(
			executedService, clk, cfg.JobSendExecutedCommands.Delay, cfg.JobSendExecutedCommandsPage, cfg.JobConcurrency)},
		{cfg.JobProcessNotCompleted, jobs.NewProcessNotCompletedJob(
			processRepo, orchestrator, clk, cfg.JobProcessNotCompleted.Delay, cfg.JobConcurrency)},
		{cfg.JobProcessMissingExecutedCmds, jobs.NewProcessMissingExecutedCommandsJob(
			walletRepo, executedService, clk, cfg.JobProcessMissingExecutedCmds.Delay, cfg.JobConcurrency)},
	}
	for _, s := range schedule {
		if err := scheduler.Register(s.cfg.Cron, s.cfg.Timeout, s.job); err != nil {
			return err
		}
	}

	// Setup router
	tokener := jwt.New(jwt.WithSecretKey(cfg.JWTSecretKey), jwt.WithExpiration(cfg.JWTExp))

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(tokener))
		r.Post("/wallets", handlers.NewCreateWalletHandler(walletService))
		r.Get("/wallets/{id}", handlers.NewGetWalletHandler(walletService))
		r.Post("/tokens", handlers.NewCreateTokenHandler(tokenService))
		r.Get("/tokens", handlers.NewListTokensHandler(tokenService))
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: r,
	}

	// gRPC health
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.AppHost, cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("gRPC listen failed: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Log.Infof("gRPC health server listening on %s", grpcListener.Addr())
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Log.Infow("consuming wallet commands", "topic", cfg.KafkaCommandsTopic, "group", cfg.KafkaCommandsGroupID)
		return consumer.Run(gctx)
	})

	scheduler.Start()

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutdown signal received, stopping servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		healthServer.Shutdown()
		if err := scheduler.Stop(shutdownCtx); err != nil {
			logger.Log.Errorw("scheduler shutdown error", "error", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorw("HTTP server shutdown error", "error", err)
		}
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Log.Info("service stopped gracefully")
	return nil
}

func newKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}
