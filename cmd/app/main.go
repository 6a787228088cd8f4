package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/accomnote/internal/config"
	"github.com/noah-isme/accomnote/internal/database"
	"github.com/noah-isme/accomnote/internal/firebase"
	"github.com/noah-isme/accomnote/internal/flash"
	"github.com/noah-isme/accomnote/internal/handler"
	"github.com/noah-isme/accomnote/internal/middleware"
	"github.com/noah-isme/accomnote/internal/router"
	"github.com/noah-isme/accomnote/internal/service"
	"github.com/noah-isme/accomnote/internal/session"
	"github.com/noah-isme/accomnote/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	views, err := view.New()
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	tokens, err := firebase.NewTokenSource(cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("failed to load service-account credentials: %v", err)
	}

	db := firebase.NewClient(cfg.FirebaseDBURL, tokens, logger)
	identity := firebase.NewIdentityClient(cfg.IdentityBaseURL, cfg.FirebaseAPIKey, logger)
	sessions := session.NewRedisStore(redisClient, cfg.SessionTTL)
	notices := flash.NewSigner(cfg.SessionSecret)

	authService := service.NewAuthService(identity, db, sessions, logger)
	studentService := service.NewStudentService(db, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		Views:        views,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		Auth:      handler.NewAuthHandler(authService, notices, cfg.CookieName, logger),
		Dashboard: handler.NewDashboardHandler(studentService, notices, logger),
		Student:   handler.NewStudentHandler(studentService, notices, logger),
		Sessions:  sessions,
		Notices:   notices,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
