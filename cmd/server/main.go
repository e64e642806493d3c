package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/candyline/sweet-shop/internal/config"
	"github.com/candyline/sweet-shop/internal/es"
	"github.com/candyline/sweet-shop/internal/handlers"
	"github.com/candyline/sweet-shop/internal/logging"
	authmw "github.com/candyline/sweet-shop/internal/middleware/auth"
	"github.com/candyline/sweet-shop/internal/mykafka"
	"github.com/candyline/sweet-shop/internal/service"
	httpserver "github.com/candyline/sweet-shop/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer(cfg.KAFKA_ADDRESS)
		defer producer.Close()
	}

	authService := &service.AuthService{DB: db, JWTSecret: []byte(cfg.JWT_SECRET)}
	inventoryService := &service.InventoryService{DB: db}

	deps := &httpserver.Deps{
		AuthHandler:  &handlers.AuthHandler{Auth: authService, Producer: producer},
		SweetHandler: &handlers.SweetHandler{Inventory: inventoryService, Producer: producer},
		TokenMW:      &authmw.TokenMiddleware{Auth: authService},
	}

	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			logger.Warn("elasticsearch unavailable, search disabled", "err", err)
		} else {
			deps.SweetHandler.ES = esClient
			deps.SearchHandler = &handlers.SearchHandler{ES: esClient}
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(logger)
	e.Validator = handlers.NewValidator()
	e.Use(middleware.Recover())
	e.Use(logging.RequestLogger(logger))

	httpserver.Register(e, deps)

	e.Logger.Fatal(e.Start(":" + cfg.PORT))
}
