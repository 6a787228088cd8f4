package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/accomnote/internal/config"
	"github.com/noah-isme/accomnote/internal/firebase"
	"github.com/noah-isme/accomnote/internal/flash"
	"github.com/noah-isme/accomnote/internal/handler"
	"github.com/noah-isme/accomnote/internal/middleware"
	"github.com/noah-isme/accomnote/internal/router"
	"github.com/noah-isme/accomnote/internal/service"
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

	tokens, err := firebase.NewTokenSource(cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("failed to load service-account credentials: %v", err)
	}

	db := firebase.NewClient(cfg.FirebaseDBURL, tokens, logger)
	identity := firebase.NewIdentityClient(cfg.IdentityBaseURL, cfg.FirebaseAPIKey, logger)
	notices := flash.NewSigner(cfg.SessionSecret)
	validate := validator.New(validator.WithRequiredStructEnabled())

	registrationService := service.NewRegistrationService(identity, db, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName + " Registration",
		ServerHeader: cfg.AppName,
		Views:        views,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.RegisterService(app, cfg, handler.NewRegisterHandler(registrationService, notices, logger))

	go func() {
		if err := app.Listen(cfg.RegisterAddress()); err != nil {
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
