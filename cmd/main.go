package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"vespernexus/api/handler"
	apiMiddleware "vespernexus/api/middleware"
	"vespernexus/api/routes"
	"vespernexus/config"
	"vespernexus/internal/repository"
	"vespernexus/internal/service"
	"vespernexus/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("config")
	}

	db, err := config.ConnectDb(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("database")
	}

	validate := validator.New()

	tokenManager := utils.JWTManager{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		TokenTTL: 12 * time.Hour,
	}

	userRepo := repository.NewUserRepository(db)
	codeRepo := repository.NewDeveloperCodeRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewVipOrderRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	clock := service.RealClock{}
	passwordHasher := service.BcryptPasswordHasher{}
	emailSender := service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom)

	codeService := service.NewDeveloperCodeService(codeRepo, userRepo, auditRepo, clock, cfg.GenesisCode)
	if err := codeService.Bootstrap(context.Background()); err != nil {
		logger.WithError(err).Fatal("genesis bootstrap")
	}

	var sender service.EmailSender
	if emailSender != nil {
		sender = emailSender
	}
	authService := service.NewAuthService(
		userRepo,
		codeService,
		auditRepo,
		sender,
		passwordHasher,
		service.JWTSessionIssuer{Manager: &tokenManager},
		clock,
		service.AuthConfig{
			ChallengeTTL: 10 * time.Minute,
			ExposeCodes:  cfg.Development(),
		},
	)
	vipService := service.NewVipService(orderRepo, couponRepo, userRepo, auditRepo, clock)

	authHandler := handler.NewAuthHandler(authService, validate)
	developerHandler := handler.NewDeveloperHandler(authService, codeService, validate)
	vipHandler := handler.NewVipHandler(vipService, validate)
	adminHandler := handler.NewAdminHandler(authService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(apiMiddleware.Metrics())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &tokenManager}
	router := routes.NewRouter(app, authHandler, developerHandler, vipHandler, adminHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
