package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mzurek/drumtrack/internal/config"
	"github.com/mzurek/drumtrack/internal/database"
	"github.com/mzurek/drumtrack/internal/handler"
	"github.com/mzurek/drumtrack/internal/mailer"
	"github.com/mzurek/drumtrack/internal/queue"
	"github.com/mzurek/drumtrack/internal/repository"
	"github.com/mzurek/drumtrack/internal/router"
	"github.com/mzurek/drumtrack/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and the
	// report cache without touching the core flows.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable, rate limiting and response cache disabled")
	}

	companies := repository.NewCompanyRepo(db)
	clients := repository.NewClientUserRepo(db)
	admins := repository.NewAdminUserRepo(db)
	tokens := repository.NewSetupTokenRepo(db)
	drums := repository.NewDrumRepo(db)
	periods := repository.NewReturnPeriodRepo(db)
	requests := repository.NewReturnRequestRepo(db)

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	authSvc := service.NewAuthService(clients, admins)
	passwordSvc := service.NewPasswordService(companies, tokens, clients, mail, cfg.AppBaseURL, cfg.BcryptCost)
	importSvc := service.NewImportService(drums)

	authH := handler.NewAuthHandler(cfg, authSvc, passwordSvc, clients, admins, companies)
	importH := handler.NewImportHandler(cfg, importSvc)
	clientH := handler.NewClientHandler(drums, periods, requests, companies)
	adminH := handler.NewAdminHandler(companies, drums, periods, requests)

	e := echo.New()
	router.RegisterBase(e)
	router.RegisterAuth(e, authH, config.LoadRateLimitConfig(), rdb)
	router.RegisterImport(e, importH)
	router.RegisterClient(e, clientH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret, config.LoadCacheConfig(), rdb)

	// Consumer appends created return requests to the logistics log.
	// It reconnects forever on its own; failures never stop the API.
	go func() {
		if err := queue.StartRequestConsumer(); err != nil {
			log.Printf("request consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
