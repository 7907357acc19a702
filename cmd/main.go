package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"github.com/deepcave/auth-service/internal/apperrors"
	"github.com/deepcave/auth-service/internal/handlers"
	jwtissuer "github.com/deepcave/auth-service/internal/jwt"
	"github.com/deepcave/auth-service/internal/logger"
	"github.com/deepcave/auth-service/internal/middlewares"
	"github.com/deepcave/auth-service/internal/password"
	"github.com/deepcave/auth-service/internal/repositories"
	"github.com/deepcave/auth-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title deepcave auth API
// @version 1.0.0
// @description Registration and sign-in backend for the cave game
// @host localhost:3003
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// config holds all startup configuration. It is populated once by parseConfig
// and never mutated afterwards.
type config struct {
	appHost  string
	appPort  string
	appEnv   string
	logLevel string

	pgHost         string
	pgPort         int
	pgUser         string
	pgPassword     string
	pgDB           string
	pgMaxOpenConns int
	pgMaxIdleConns int

	kafkaBrokers string
	kafkaTopic   string

	jwtSecretKey string
	jwtIssuer    string
	jwtExpSecond int

	cookieExpDays int
}

func (c config) development() bool {
	return c.appEnv == "development"
}

// parseConfig loads environment variables from a file and returns the full
// application configuration. The JWT secret has no default: a deployment
// without one must fail here, at startup, not on the first sign-in.
func parseConfig(path string) (config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	var cfg config
	var err error

	// Application config
	cfg.appHost = getEnv("APP_HOST", "localhost")
	cfg.appPort = getEnv("APP_PORT", "3003")
	cfg.appEnv = getEnv("APP_ENV", "production")
	cfg.logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.pgHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.pgUser = getEnv("POSTGRES_USER", "user")
	cfg.pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.pgDB = getEnv("POSTGRES_DB", "database")
	if cfg.pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return cfg, err
	}
	if cfg.pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return cfg, err
	}
	if cfg.pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return cfg, err
	}

	// Kafka config; empty brokers disable event publishing
	cfg.kafkaBrokers = getEnv("KAFKA_BROKERS", "")
	cfg.kafkaTopic = getEnv("KAFKA_TOPIC", "user.registered")

	// JWT config
	cfg.jwtSecretKey = getEnv("JWT_SECRET_KEY", "")
	if cfg.jwtSecretKey == "" {
		return cfg, apperrors.Configuration("JWT_SECRET_KEY is required")
	}
	cfg.jwtIssuer = getEnv("JWT_ISSUER", "deepcave-auth")
	if cfg.jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "86400")); err != nil {
		return cfg, err
	}

	// Cookie config
	if cfg.cookieExpDays, err = strconv.Atoi(getEnv("COOKIE_EXP_DAYS", "7")); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// run initializes the logger, database, Kafka writer and HTTP server. It sets
// up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.logLevel, cfg.development()); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d", cfg.pgHost, cfg.pgPort)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.pgMaxOpenConns)
	db.SetMaxIdleConns(cfg.pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Kafka writer for registration events, optional
	var kafkaWriter services.KafkaWriter
	if cfg.kafkaBrokers != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(cfg.kafkaBrokers, ",")...),
			Topic:    cfg.kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infof("Kafka writer initialized for topic %s", cfg.kafkaTopic)
	}

	// Initialize token issuer; fails fast on missing secret or expiry
	tokens, err := jwtissuer.New(cfg.jwtSecretKey, cfg.jwtIssuer, time.Duration(cfg.jwtExpSecond)*time.Second)
	if err != nil {
		return err
	}

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)

	// Initialize services
	hasher := password.New()
	authService := services.NewAuthService(userReadRepo, userWriteRepo, hasher, tokens, kafkaWriter)
	userService := services.NewUserService(userReadRepo)

	// Initialize handlers
	devMode := cfg.development()
	cookies := handlers.NewSessionCookies(!devMode, cfg.cookieExpDays)
	signupHandler := handlers.NewSignupHandler(authService, cookies, devMode)
	signinHandler := handlers.NewSigninHandler(authService, cookies, devMode)
	listUsersHandler := handlers.NewListUsersHandler(userService, devMode)
	getUserHandler := handlers.NewGetUserHandler(userService, devMode)
	meHandler := handlers.NewMeHandler(userService, devMode)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	authMiddleware := middlewares.AuthMiddleware(tokens, devMode)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", signupHandler)
			r.Post("/signin", signinHandler)
		})
		r.Route("/users", func(r chi.Router) {
			// The auth routes are mounted here too, mirroring the public API
			r.Post("/signup", signupHandler)
			r.Post("/signin", signinHandler)

			r.Get("/", listUsersHandler)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware)
				r.Get("/me", meHandler)
			})
			r.Get("/{id}", getUserHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
