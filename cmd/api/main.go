package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/billcraft/invoice-api/internal/application/service"
	"github.com/billcraft/invoice-api/internal/config"
	"github.com/billcraft/invoice-api/internal/infrastructure/database"
	"github.com/billcraft/invoice-api/internal/infrastructure/repository"
	"github.com/billcraft/invoice-api/internal/presentation/http/handler"
	"github.com/billcraft/invoice-api/internal/presentation/http/routes"
	"github.com/billcraft/invoice-api/pkg/email"
	"github.com/billcraft/invoice-api/pkg/report"
	"github.com/billcraft/invoice-api/pkg/utils"
)

func main() {
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := database.SeedDefaultData(db); err != nil {
		log.Fatalf("Failed to seed default data: %v", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	mailer := email.NewService(email.Config{
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.Username,
		SMTPPassword: cfg.SMTP.Password,
		FromName:     cfg.SMTP.FromName,
		FromEmail:    cfg.SMTP.FromAddr,
	})

	renderer := report.NewPDFRenderer(report.Config{
		CompanyName:    cfg.Report.CompanyName,
		CompanyAddress: cfg.Report.CompanyAddress,
		Footnote:       cfg.Report.Footnote,
	})

	authService := service.NewAuthService(userRepo, roleRepo, jwtManager)
	invoiceService := service.NewInvoiceService(invoiceRepo, renderer, mailer, cfg.Report.CompanyName)

	router := routes.Setup(routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Invoice: handler.NewInvoiceHandler(invoiceService),
	}, routes.Deps{
		Cfg:             cfg,
		JWTManager:      jwtManager,
		IdempotencyRepo: idempotencyRepo,
	})

	log.Printf("Starting %s on port %s", cfg.App.Name, cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
