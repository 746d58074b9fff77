package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/health"

	grpcrouter "github.com/dtroode/todo-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/todo-server/internal/api/grpc/server"
	httpctx "github.com/dtroode/todo-server/internal/api/http/context"
	httprouter "github.com/dtroode/todo-server/internal/api/http/router"
	httpserver "github.com/dtroode/todo-server/internal/api/http/server"
	"github.com/dtroode/todo-server/internal/config"
	"github.com/dtroode/todo-server/internal/logger"
	"github.com/dtroode/todo-server/internal/model"
	"github.com/dtroode/todo-server/internal/password"
	"github.com/dtroode/todo-server/internal/repository/postgres"
	"github.com/dtroode/todo-server/internal/revocation"
	"github.com/dtroode/todo-server/internal/server"
	"github.com/dtroode/todo-server/internal/service"
	"github.com/dtroode/todo-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

type listenerServer struct {
	model.Server
	sl model.SecurityLayer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogJSON)

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	hasher := password.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokenManager := token.NewJWT(cfg.JWT.Secret, token.WithTTL(cfg.JWT.TTL))

	registry := revocation.NewRegistry(logger, revocation.WithSweepInterval(cfg.Revocation.SweepInterval))
	go registry.Run(ctx)

	tokenService := service.NewTokenService(tokenManager, registry, logger)
	authService := service.NewAuth(userRepo, hasher, tokenService, logger,
		service.WithEmailNormalization(cfg.Auth.NormalizeEmail))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	// The health endpoint is meant for in-cluster liveness checks and stays plaintext.
	servers := []listenerServer{{
		Server: newHTTPServer(cfg, logger, authService, tokenService, registry),
		sl:     sl,
	}}
	if cfg.GRPC.Enabled {
		servers = append(servers, listenerServer{
			Server: newGRPCServer(logger, fmt.Sprintf(":%s", cfg.GRPC.Port)),
			sl:     server.NewPlainListener(),
		})
	}

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s listenerServer) {
			defer wg.Done()
			logger.Info("Starting server on", "server", s.Name(), "address", s.Address())
			if err := s.Start(s.sl); err != nil {
				logger.Error("failed to start server", "server", s.Name(), "error", err)
				stop()
			}
		}(s)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "server", s.Name(), "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func newHTTPServer(
	cfg *config.Config,
	logger *logger.Logger,
	authService *service.Auth,
	tokenService *service.TokenService,
	registry *revocation.Registry,
) *httpserver.HTTPServer {
	r := httprouter.New(authService, tokenService, registry, httpctx.NewManager(), httprouter.Options{
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Development: cfg.IsDevelopment(),
	}, logger)

	return httpserver.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))
}

func newGRPCServer(logger *logger.Logger, addr string) *grpcserver.GRPCServer {
	hs := health.NewServer()
	s := grpcrouter.New(hs, logger).Register()

	return grpcserver.NewGRPCServer(s, hs, addr)
}
