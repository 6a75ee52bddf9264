package api

import (
	"context"
	"log"
	"net/http"
	"pc-store/app"
	"pc-store/config"
	_ "pc-store/docs"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	router  *gin.Engine
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.FromEnv()
		// Migrations run from the long-lived server only.
		cfg.RunMigrations = false

		engine := gin.New()
		engine.Use(gin.Recovery())

		if _, err := app.New(context.Background(), cfg, engine); err != nil {
			initErr = err
			log.Printf("init app: %v", err)
			return
		}
		router = engine
	})
}

// Handler is the serverless entry point; it builds the same router as main.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		http.Error(w, `{"success":false,"error":"internal_error"}`, http.StatusServiceUnavailable)
		return
	}
	router.ServeHTTP(w, r)
}
