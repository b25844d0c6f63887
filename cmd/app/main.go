package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/smartsella/syntecxhub-shop-api/external/abstractapi"
	"github.com/smartsella/syntecxhub-shop-api/external/mockpay"
	"github.com/smartsella/syntecxhub-shop-api/external/resend"

	"github.com/smartsella/syntecxhub-shop-api/internal/config"
	"github.com/smartsella/syntecxhub-shop-api/internal/db"
	"github.com/smartsella/syntecxhub-shop-api/internal/repository"
	"github.com/smartsella/syntecxhub-shop-api/internal/services"
	"github.com/smartsella/syntecxhub-shop-api/internal/token"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// ======================
	// INFRA
	// ======================
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.TokenTTL(), cfg.JWT.Issuer)

	// ======================
	// EXTERNALS
	// ======================
	var emailValidator services.EmailValidator
	if cfg.Security.UseEmailReputation {
		emailValidator, err = abstractapi.NewAbstractReputationValidator(cfg.Security.AbstractAPIKey)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		emailValidator = services.NewLocalValidator()
	}

	mailer, err := resend.NewResendMailer(cfg.Mail.ResendAPIKey, cfg.Mail.From)
	if err != nil {
		log.Fatal(err)
	}

	payments := mockpay.NewClient()

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	otpRepo := repository.NewOTPRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	// ======================
	// SERVICES
	// ======================
	otpSvc := services.NewOTPService(otpRepo)
	authSvc := services.NewAuthService(userRepo, otpSvc, issuer, mailer, emailValidator,
		cfg.Server.FrontendURL+"/verify-email")
	productSvc := services.NewProductService(productRepo, categoryRepo)
	categorySvc := services.NewCategoryService(categoryRepo)
	cartSvc := services.NewCartService(cartRepo, productRepo)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, cartSvc, payments)

	// periodic OTP sweep; stale rows are never valid anyway, this just
	// reclaims storage
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if n, err := otpRepo.DeleteExpired(sweepCtx); err == nil && n > 0 {
				log.Printf("otp sweep: removed %d expired codes", n)
			}
			cancel()
		}
	}()

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.Server.FrontendURL},
		AllowCredentials: true,
	}))
	e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(cfg.Security.RateLimit))))

	api := e.Group("/api/v1")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"success":   true,
			"message":   "Server is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// ======================
	// ROUTES
	// ======================
	registerAuthRoutes(api, authSvc, issuer, cfg.Server.Production)
	registerProductRoutes(api, productSvc, issuer)
	registerCategoryRoutes(api, categorySvc, issuer)
	registerCartRoutes(api, cartSvc, issuer)
	registerOrderRoutes(api, orderSvc, issuer)
	registerAdminRoutes(api, userRepo, orderSvc, issuer)

	// ======================
	// SERVER
	// ======================
	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
}
