package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	httpadapter "github.com/jrobz00/Joseph1/internal/adapters/http"
	"github.com/jrobz00/Joseph1/internal/adapters/notify"
	"github.com/jrobz00/Joseph1/internal/adapters/security"
	filestore "github.com/jrobz00/Joseph1/internal/adapters/storage/file"
	"github.com/jrobz00/Joseph1/internal/adapters/storage/memory"
	"github.com/jrobz00/Joseph1/internal/adapters/storage/postgres"
	redisstore "github.com/jrobz00/Joseph1/internal/adapters/storage/redis"
	"github.com/jrobz00/Joseph1/internal/application"
	"github.com/jrobz00/Joseph1/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping client portal",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"storage", cfg.StorageBackend,
		"notify", cfg.NotifyBackend,
		"theme", cfg.Theme,
	)

	cleanup := func(context.Context) {}
	var tickets ports.TicketStore
	users := ports.UserRepository(nil)
	sessions := ports.SessionRepository(nil)

	switch cfg.StorageBackend {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("gorm sql db: %w", err)
		}
		cleanup = func(context.Context) { _ = sqlDB.Close() }
		tickets = postgres.NewTicketStore(db)
		users = postgres.NewUserRepository(db)
		sessions = memory.NewSessionRepository()
	case "redis":
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		cleanup = func(context.Context) { _ = client.Close() }
		tickets = redisstore.NewTicketStore(client)
		users = memory.NewUserRepository()
		sessions = redisstore.NewSessionRepository(client)
	case "file":
		store, err := filestore.NewTicketStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		tickets = store
		users = memory.NewUserRepository()
		sessions = memory.NewSessionRepository()
	default:
		tickets = memory.NewTicketStore()
		users = memory.NewUserRepository()
		sessions = memory.NewSessionRepository()
	}

	signer, err := security.NewJWTSigner(cfg.JWTKeyID, cfg.JWTPrivateKeyPEM, cfg.JWTPublicKeyPEM)
	if err != nil {
		if !cfg.AllowEphemeralJWT {
			cleanup(ctx)
			return nil, fmt.Errorf("init jwt signer: %w", err)
		}
		logger.Warn("using ephemeral JWT keys for local/dev runtime")
		signer, err = security.NewEphemeralJWTSigner(cfg.JWTKeyID)
		if err != nil {
			cleanup(ctx)
			return nil, fmt.Errorf("init ephemeral jwt signer: %w", err)
		}
	}

	var dispatcher ports.Dispatcher
	switch cfg.NotifyBackend {
	case "emailapi":
		dispatcher = notify.NewEmailAPIDispatcher(notify.EmailAPIConfig{
			BaseURL:   cfg.NotifyAPIBaseURL,
			ServiceID: cfg.NotifyServiceID,
			PublicKey: cfg.NotifyPublicKey,
		})
	case "smtp":
		dispatcher = notify.NewSMTPDispatcher(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPTo)
	default:
		dispatcher = notify.NewMemoryDispatcher()
	}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:      cfg.ServiceID,
			SessionTTL:       cfg.SessionTTL,
			NotifyTemplateID: cfg.NotifyTemplateID,
		},
		Users:      users,
		Sessions:   sessions,
		Tickets:    tickets,
		Hasher:     security.NewBcryptHasher(cfg.BcryptCost),
		Signer:     signer,
		Dispatcher: dispatcher,
	})

	handler := httpadapter.NewHandler(svc, httpadapter.SiteConfig{
		Theme:    cfg.Theme,
		SiteName: cfg.SiteName,
		Tagline:  cfg.Tagline,
		Contact:  cfg.Contact,
	})
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		cleanup(ctx)
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		cleanupFn:  cleanup,
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc health server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}
