package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/e-learning-backend/internal/auth"
	"github.com/iliyamo/e-learning-backend/internal/config"
	"github.com/iliyamo/e-learning-backend/internal/database"
	"github.com/iliyamo/e-learning-backend/internal/email"
	"github.com/iliyamo/e-learning-backend/internal/handler"
	"github.com/iliyamo/e-learning-backend/internal/middleware"
	"github.com/iliyamo/e-learning-backend/internal/queue"
	"github.com/iliyamo/e-learning-backend/internal/repository"
	"github.com/iliyamo/e-learning-backend/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		// The session cache is the revocation mechanism; without it refresh
		// rotation cannot be trusted.
		log.Fatal("redis: connection failed; session cache is required")
	}

	codec := &auth.Codec{
		ActivationSecret: cfg.ActivationSecret,
		AccessSecret:     cfg.AccessSecret,
		RefreshSecret:    cfg.RefreshSecret,
		AccessTTL:        cfg.AccessTTL(),
		RefreshTTL:       cfg.RefreshTTL(),
	}

	users := repository.NewUserRepo(db)
	courses := repository.NewCourseRepo(db)
	sections := repository.NewSectionRepo(db)
	orders := repository.NewOrderRepo(db)
	comments := repository.NewCommentRepo(db)
	notifications := repository.NewNotificationRepo(db)
	sessions := repository.NewSessionCache(rdb, cfg.SessionTTL())

	var sender email.Sender
	if cfg.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		log.Println("email: RESEND_API_KEY not set, logging activation codes instead")
		sender = email.NewLogSender()
	}

	activation := &auth.Activation{Codec: codec, BcryptCost: cfg.BcryptCost}
	sessionSvc := &auth.Sessions{Codec: codec, Cache: sessions}

	cacheCfg := config.LoadCacheConfig()

	go queue.StartNotificationConsumer(notifications)

	e := echo.New()
	router.Register(e, router.Deps{
		Codec:         codec,
		Auth:          handler.NewAuthHandler(cfg, users, sessions, activation, sessionSvc, sender),
		Users:         handler.NewUserHandler(users, sessions, cfg.BcryptCost),
		Courses:       handler.NewCourseHandler(courses, sections, rdb, cacheCfg.Prefix),
		Sections:      handler.NewSectionHandler(sections, comments),
		Orders:        handler.NewOrderHandler(orders, courses),
		Notifications: handler.NewNotificationHandler(notifications),
		Purchases:     orders,
		SectionIndex:  sections,
		RateLimit:     middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:         middleware.NewCatalogCache(cacheCfg, rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
