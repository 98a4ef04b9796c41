package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dakshh-official/dakshh-api/internal/config"
	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/adminsession"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/dynamo"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/otpsession"
	s3infra "github.com/dakshh-official/dakshh-api/internal/infrastructure/s3"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/smtp"
	"github.com/dakshh-official/dakshh-api/internal/pkg/id"
	"github.com/dakshh-official/dakshh-api/internal/pkg/qr"
	transporthttp "github.com/dakshh-official/dakshh-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// S3 store for event banners.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	adminUserRepo := dynamo.NewAdminUserRepo(dynamoClient, cfg.DynamoTables.AdminUsers)
	seedSuperAdmin(context.Background(), adminUserRepo, cfg.SuperAdminEmail)

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		AdminUserRepo:    adminUserRepo,
		EventRepo:        dynamo.NewEventRepo(dynamoClient, cfg.DynamoTables.Events),
		RegistrationRepo: dynamo.NewRegistrationRepo(dynamoClient, cfg.DynamoTables.Registrations),
		S3Store:          s3Store,
		Mailer:           mailer,
		Authority:        adminsession.NewAuthority(cfg.AdminSessionSecret, cfg.AdminSessionTTL),
		QRSigner:         qr.NewSigner(cfg.QRSigningSecret),
		OTPSessions:      otpsession.NewStore(),
		AdminOTPSessions: otpsession.NewStore(),
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// seedSuperAdmin ensures the configured super admin account exists so the
// panel is reachable on a fresh deployment.
func seedSuperAdmin(ctx context.Context, repo *dynamo.AdminUserRepo, email string) {
	if email == "" {
		return
	}
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Printf("WARN: super admin lookup failed: %v", err)
		return
	}
	now := time.Now().UTC()
	admin := &domain.AdminUser{
		AdminID:   id.New(),
		Email:     email,
		Role:      domain.RoleAdmin,
		InvitedBy: "system",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Put(ctx, admin); err != nil {
		log.Printf("WARN: super admin seed failed: %v", err)
		return
	}
	log.Printf("Seeded super admin account %s", email)
}
