package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"cubie-assistant/internal/bootstrap"
	"cubie-assistant/internal/config"
	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/internal/server"
	"cubie-assistant/internal/tracer"
	"cubie-assistant/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	defer sysLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Tracing
	shutdownTracer := tracer.InitTracer(cfg.Otel, sysLogger)
	defer shutdownTracer(context.Background())

	// 3. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.App.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg, sysLogger)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	// 5. Background services
	go container.WebSocketHub.Run(ctx)
	if container.EventRelay != nil {
		if err := container.EventRelay.Start(ctx); err != nil {
			sysLogger.Error("BOOTSTRAP", "Event relay failed to start", map[string]interface{}{"error": err})
		}
	}

	// 6. Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sysLogger.Error("SERVER", "Shutdown failed", map[string]interface{}{"error": err})
		}
	}()

	if err := srv.Run(); err != nil {
		sysLogger.Error("SERVER", "Server stopped", map[string]interface{}{"error": err})
	}
}
