package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/satriohadi/sewateman/internal"
	"github.com/satriohadi/sewateman/internal/auth"
	authPostgres "github.com/satriohadi/sewateman/internal/auth/postgres"
	"github.com/satriohadi/sewateman/internal/booking"
	bookingPostgres "github.com/satriohadi/sewateman/internal/booking/postgres"
	"github.com/satriohadi/sewateman/internal/chat"
	chatPostgres "github.com/satriohadi/sewateman/internal/chat/postgres"
	"github.com/satriohadi/sewateman/internal/core/events"
	"github.com/satriohadi/sewateman/internal/notification"
	notificationPostgres "github.com/satriohadi/sewateman/internal/notification/postgres"
	"github.com/satriohadi/sewateman/internal/payment"
	paymentPostgres "github.com/satriohadi/sewateman/internal/payment/postgres"
	"github.com/satriohadi/sewateman/internal/paymentgateway"
	"github.com/satriohadi/sewateman/internal/stats"
	"github.com/satriohadi/sewateman/internal/sweeper"
	"github.com/satriohadi/sewateman/internal/transport/rest"
	"github.com/satriohadi/sewateman/internal/user"
	userPostgres "github.com/satriohadi/sewateman/internal/user/postgres"
	"github.com/satriohadi/sewateman/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	EventBus *events.EventBus
	Sweeper  *sweeper.Sweeper

	BookingService *booking.Service
	PaymentService *payment.Service
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	sweepCtx, stopSweeps := context.WithCancel(context.Background())
	defer stopSweeps()
	deps.Sweeper.Start(sweepCtx)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		stopSweeps()
		deps.Sweeper.Stop()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(lg)

	bookingRepo := bookingPostgres.NewBookingRepository(gormDB)
	paymentRepo := paymentPostgres.NewPaymentRepository(gormDB)
	chatRepo := chatPostgres.NewMessageRepository(gormDB)
	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)
	authRepo := authPostgres.NewAuthRepository(gormDB)

	gatewayClient := paymentgateway.NewClient(paymentgateway.Config{
		TokenURL:       config.Gateway.TokenURL,
		APIKey:         config.Gateway.APIKey,
		RequestTimeout: config.Gateway.RequestTimeout,
	}, lg)

	bookingService := booking.NewService(bookingRepo, bus, lg)
	paymentService := payment.NewService(paymentRepo, bookingRepo, gatewayClient, bus, lg)
	chatService := chat.NewService(chatRepo, bookingRepo, lg)
	notificationService := notification.NewService(notificationRepo, lg)
	userService := user.NewService(userRepo, lg)

	tokenGen := &auth.JWTTokenGenerator{
		AccessTokenSecret:  []byte(config.Security.AccessTokenSecret),
		RefreshTokenSecret: []byte(config.Security.RefreshTokenSecret),
		AccessTokenTTL:     config.Security.AccessTokenDuration,
		RefreshTokenTTL:    config.Security.RefreshTokenDuration,
	}
	authService := auth.NewService(authRepo, tokenGen, lg)

	notification.NewEventHandler(notificationService, lg).RegisterHandlers(bus)

	sw := sweeper.New(sweeper.Config{
		Interval:   config.Sweeper.Interval,
		MaxWorkers: config.Sweeper.MaxWorkers,
		BatchSize:  config.Sweeper.BatchSize,
	}, lg)
	sw.Register(sweeper.Task{
		Name: "complete_elapsed_bookings",
		Run: func(ctx context.Context) error {
			_, err := bookingService.CompleteElapsed(ctx, config.Sweeper.BatchSize)
			return err
		},
	})
	sw.Register(sweeper.Task{
		Name: "expire_stale_payments",
		Run: func(ctx context.Context) error {
			_, err := paymentService.ExpireStale(ctx, config.Payment.ValidationTTL, config.Sweeper.BatchSize)
			return err
		},
	})

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Booking:      booking.NewHandler(bookingService),
		Payment:      payment.NewHandler(paymentService),
		Chat:         chat.NewHandler(chatService),
		Stats:        stats.NewHandler(bookingRepo),
		Notification: notification.NewHandler(notificationService),
	}, lg)

	return &Dependencies{
		Config:         config,
		Logger:         lg,
		DB:             db,
		GormDB:         gormDB,
		Router:         router,
		EventBus:       bus,
		Sweeper:        sw,
		BookingService: bookingService,
		PaymentService: paymentService,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
