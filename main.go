package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"pc-store/app"
	"pc-store/config"
	_ "pc-store/docs"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title PC Store API
// @version 1.0
// @description Bilingual (en/ja) storefront API for PC components.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	config.LoadConfig()
	cfg := config.AppConfig

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, gin.Default())
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer application.Close()

	go application.SweepSessions(ctx, cfg.SessionSweep)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", srv.Addr)
		log.Printf("Environment: %s", cfg.AppEnv)
		log.Printf("Swagger UI: http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
