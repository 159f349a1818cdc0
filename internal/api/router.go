package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/hubcrm/accounts-api/docs"
	"github.com/hubcrm/accounts-api/internal/api/handler"
	"github.com/hubcrm/accounts-api/internal/api/middleware"
	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
	"github.com/hubcrm/accounts-api/internal/core/service"
	"github.com/hubcrm/accounts-api/internal/infrastructure/config"
	mongodb "github.com/hubcrm/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/hubcrm/accounts-api/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered. The
// admin panel and the public web surface share one process but use
// separate account collections, token lifetimes and mail templates.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, mailQueue ports.MailQueue, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	links := service.Links{
		ControlPanelURL: cfg.Links.ControlPanelURL,
		SiteURL:         cfg.Links.SiteURL,
		CompanyName:     cfg.Links.CompanyName,
		SetPasswordPath: cfg.Links.SetPasswordPath,
		VerifyEmailPath: cfg.Links.VerifyEmailPath,
		LogoPath:        cfg.Links.LogoPath,
	}

	// --- Repositories and services ---
	userRepo := mongodb.NewAccountRepository(db, mongodb.CollectionUsers)
	customerRepo := mongodb.NewAccountRepository(db, mongodb.CollectionCustomers)
	templateRepo := mongodb.NewTemplateRepository(db)

	adminAuth := service.NewAuthService(userRepo,
		service.NewTokenService(cfg.JWTSecret, service.AdminTokenTTL),
		mailQueue, links, service.TemplateForgotPasswordAdmin, log)
	webAuth := service.NewAuthService(customerRepo,
		service.NewTokenService(cfg.JWTSecret, service.WebTokenTTL),
		mailQueue, links, service.TemplateForgotPasswordWeb, log)

	accountService := service.NewAccountService(userRepo, mailQueue, links, log)
	customerService := service.NewCustomerService(customerRepo, mailQueue, links, log)
	templateService := service.NewTemplateService(templateRepo)

	// --- Handlers ---
	adminAuthHandler := handler.NewAuthHandler(adminAuth, "admin", log)
	webAuthHandler := handler.NewAuthHandler(webAuth, "web", log)
	userHandler := handler.NewUserHandler(accountService, log)
	customerHandler := handler.NewCustomerHandler(customerService, log)
	templateHandler := handler.NewTemplateHandler(templateService, log)
	healthHandler := handler.NewHealthHandler(db, rdb)

	// --- Middleware ---
	authMW := middleware.Auth(cfg.JWTSecret)
	superAdminOnly := middleware.RBAC(domain.RoleSuperAdmin)
	anyAdmin := middleware.RBAC(domain.RoleSuperAdmin, domain.RoleSubAdmin)

	limiter := redisdb.NewRateLimitStore(rdb, cfg.Rate.Limit, time.Duration(cfg.Rate.WindowSeconds)*time.Second)
	loginLimit := middleware.RateLimit(limiter, "login", log)
	forgotLimit := middleware.RateLimit(limiter, "forgot_password", log)

	// --- Admin auth routes ---
	adminAuthGroup := e.Group("/admin/auth")
	adminAuthGroup.POST("/login", adminAuthHandler.Login, loginLimit)
	adminAuthGroup.POST("/forgot-password", adminAuthHandler.ForgotPassword, forgotLimit)
	adminAuthGroup.POST("/verify-token", adminAuthHandler.VerifyToken)
	adminAuthGroup.POST("/verify-approve-token", adminAuthHandler.VerifyApproveToken)
	adminAuthGroup.POST("/set-password", adminAuthHandler.SetPassword)
	adminAuthGroup.POST("/change-password", adminAuthHandler.ChangePassword, authMW)

	// --- Admin user management routes ---
	users := e.Group("/admin/users", authMW)
	users.GET("", userHandler.List, anyAdmin)
	users.GET("/:id", userHandler.Get, anyAdmin)
	users.POST("", userHandler.Create, superAdminOnly)
	users.PUT("/:id", userHandler.Update, superAdminOnly)
	users.POST("/approve", userHandler.Approve, superAdminOnly)
	users.POST("/resend-token", userHandler.ResendToken, superAdminOnly)
	users.POST("/change-status", userHandler.ChangeStatus, superAdminOnly)
	users.POST("/:id/reset-password", userHandler.ResetPassword, superAdminOnly)

	// --- Admin system email templates ---
	templates := e.Group("/admin/system-emails", authMW, superAdminOnly)
	templates.GET("", templateHandler.List)
	templates.GET("/:id", templateHandler.Get)
	templates.POST("", templateHandler.Create)
	templates.PUT("/:id", templateHandler.Update)

	// --- Public web routes ---
	web := e.Group("/web")
	web.POST("/customers/register", customerHandler.Register, forgotLimit)
	web.POST("/auth/login", webAuthHandler.Login, loginLimit)
	web.POST("/auth/forgot-password", webAuthHandler.ForgotPassword, forgotLimit)
	web.POST("/auth/verify-token", webAuthHandler.VerifyToken)
	web.POST("/auth/verify-approve-token", webAuthHandler.VerifyApproveToken)
	web.POST("/auth/set-password", webAuthHandler.SetPassword)
	web.POST("/auth/change-password", webAuthHandler.ChangePassword, authMW)

	// --- Operational endpoints ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
