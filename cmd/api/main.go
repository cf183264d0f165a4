package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hurby24/Bibliobay-backend/internal/config"
	"github.com/hurby24/Bibliobay-backend/internal/infrastructure/dynamo"
	"github.com/hurby24/Bibliobay-backend/internal/infrastructure/email"
	"github.com/hurby24/Bibliobay-backend/internal/infrastructure/google"
	"github.com/hurby24/Bibliobay-backend/internal/infrastructure/memory"
	"github.com/hurby24/Bibliobay-backend/internal/infrastructure/redis"
	"github.com/hurby24/Bibliobay-backend/internal/infrastructure/sns"
	"github.com/hurby24/Bibliobay-backend/internal/infrastructure/turnstile"
	transporthttp "github.com/hurby24/Bibliobay-backend/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamodb client: %v", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.EmailVerifications),
		Captcha:          turnstile.NewVerifier(cfg.TurnstileSecret, cfg.TurnstileVerifyURL),
	}

	switch cfg.SessionBackend {
	case config.SessionBackendDynamo:
		deps.SessionStore = dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions)
	case config.SessionBackendMemory:
		deps.SessionStore = memory.NewSessionStore(time.Minute)
	default:
		redisClient, err := redis.NewClient(ctx, cfg)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		deps.SessionStore = redis.NewSessionStore(redisClient, cfg.RedisKeyPrefix)
	}

	switch cfg.EmailProvider {
	case config.EmailProviderSMTP:
		deps.Email = email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	default:
		sesCfg, err := dynamo.LoadAWSConfig(ctx, cfg, cfg.SESRegion)
		if err != nil {
			log.Fatalf("ses config: %v", err)
		}
		deps.Email = email.NewSESSender(sesCfg, cfg.EmailFrom)
	}

	// SNS auth events (optional: a missing topic ARN yields a no-op publisher).
	snsCfg, err := dynamo.LoadAWSConfig(ctx, cfg, cfg.SNSRegion)
	if err != nil {
		log.Fatalf("sns config: %v", err)
	}
	deps.Events = sns.NewPublisher(snsCfg, cfg.SNSAuthEventsTopicARN)

	if cfg.GoogleOAuthEnabled() {
		deps.OAuth = google.NewOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	} else {
		log.Println("WARN: Google sign-in disabled, GOOGLE_CLIENT_ID/SECRET/REDIRECT_URL not set")
	}

	stop := make(chan struct{})
	router := transporthttp.NewRouter(cfg, deps, stop)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, sessions=%s, email=%s)",
			cfg.AppPort, cfg.AppEnv, cfg.SessionBackend, cfg.EmailProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	close(stop)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
