// Package app assembles the storefront from configuration: stores, optional
// integrations, services and the gin router.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"pc-store/cache"
	"pc-store/config"
	"pc-store/database"
	"pc-store/events"
	"pc-store/i18n"
	"pc-store/libs"
	"pc-store/middleware"
	"pc-store/repositories"
	"pc-store/routes"
	"pc-store/services"
	"pc-store/utils"
	"time"

	"github.com/gin-gonic/gin"
)

type App struct {
	Router  *gin.Engine
	Cart    *services.CartService
	closers []func()
}

// New connects every configured backend. Redis, RabbitMQ, SMTP, Cloudinary
// and Google sign-in are optional; a missing or unreachable one only
// disables its feature.
func New(ctx context.Context, cfg *config.Config, router *gin.Engine) (*App, error) {
	a := &App{Router: router}

	if cfg.RunMigrations {
		if err := database.Migrate(cfg.DSN()); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)

	users := repositories.NewUserRepository(pool)
	products := repositories.NewProductRepository(pool)
	categories := repositories.NewCategoryRepository(pool)
	reviews := repositories.NewReviewRepository(pool)
	sessions := repositories.NewSessionRepository(pool)
	carts := repositories.NewCartRepository(pool)
	orders := repositories.NewOrderRepository(pool)

	var productCache services.ProductCache
	if client := libs.InitRedis(cfg); client != nil {
		productCache = cache.NewProductCache(client, cfg.CacheTTL)
		a.closers = append(a.closers, func() {
			if err := client.Close(); err != nil {
				log.Printf("close redis: %v", err)
			}
		})
	}

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		p, closeFn, err := events.Dial(cfg.AMQPURL)
		if err != nil {
			log.Printf("Warning: order events disabled: %v", err)
		} else {
			publisher = p
			a.closers = append(a.closers, closeFn)
			log.Println("RabbitMQ connected successfully")
		}
	}

	var mailer services.OrderMailer
	if m, err := libs.NewEmailService(cfg); err == nil {
		mailer = m
	} else if !errors.Is(err, libs.ErrSMTPNotConfigured) {
		log.Printf("Warning: order e-mails disabled: %v", err)
	}

	var images services.ImageStore
	if cld, err := libs.NewCloudinaryService(cfg); err == nil {
		images = cld
	} else {
		if !errors.Is(err, libs.ErrCloudinaryNotConfigured) {
			log.Printf("Warning: Cloudinary unavailable, using local uploads: %v", err)
		}
		if err := os.MkdirAll(cfg.UploadDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("create upload directory: %w", err)
		}
		images = utils.NewLocalImageStore(cfg.UploadDir, cfg.MaxUploadSize)
	}

	var google services.GoogleVerifier
	if cfg.GoogleClientID != "" {
		if v, err := libs.NewGoogleVerifier(ctx, cfg.GoogleClientID); err == nil {
			google = v
		} else {
			log.Printf("Warning: Google sign-in disabled: %v", err)
		}
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	messages := i18n.NewCatalog(cfg.DefaultLanguage)

	authService := services.NewAuthService(users, tokens, google)
	catalogService := services.NewCatalogService(products, categories, reviews, productCache)
	a.Cart = services.NewCartService(sessions, carts, products, cfg.SessionTTL)
	orderService := services.NewOrderService(orders, a.Cart, mailer, publisher)
	adminService := services.NewAdminService(products, users, images, catalogService)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Printf("Warning: bootstrap admin: %v", err)
		}
	}

	router.Use(middleware.CORSMiddleware(cfg.OriginURL))
	routes.SetupRoutes(router, routes.Services{
		Auth:      authService,
		Catalog:   catalogService,
		Cart:      a.Cart,
		Orders:    orderService,
		Admin:     adminService,
		Tokens:    tokens,
		Messages:  messages,
		UploadDir: cfg.UploadDir,
	})

	return a, nil
}

// SweepSessions purges expired cart sessions every interval until ctx ends.
func (a *App) SweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.Cart.PurgeExpired(ctx)
			if err != nil {
				log.Printf("session sweep: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("session sweep: removed %d expired sessions", n)
			}
		}
	}
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
