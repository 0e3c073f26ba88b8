package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"items-backend/internal/config"
	"items-backend/internal/database"
	"items-backend/internal/domain"
	"items-backend/internal/handler"
	"items-backend/internal/realtime"
	"items-backend/internal/repository"
	"items-backend/internal/service"
	"items-backend/pkg/httputil"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".") // Load from .env or environment
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	// --- Repository selection ---
	// Test mode binds the in-memory fake and never touches the database.
	// Every other environment gets the PostgreSQL repository.
	var itemRepository domain.ItemRepository
	if cfg.IsTest() {
		log.Println("Running in test mode: using in-memory item repository.")
		itemRepository = repository.NewFakeItemRepository()
	} else {
		dbPool, err := database.ConnectPostgres(cfg.DBSource)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to database: %v", err)
		}
		defer func() {
			log.Println("Closing database connection pool...")
			dbPool.Close()
		}()

		log.Println("Attempting to run database migrations...")
		if err := database.RunMigrations(cfg.MigrationURL, cfg.DBSource); err != nil {
			log.Fatalf("FATAL: Could not run migrations: %v", err)
		}

		itemRepository = repository.NewPgItemRepository(dbPool)
	}

	// --- Echo Instance ---
	e := echo.New()

	// --- Middleware ---
	e.Use(middleware.RequestID()) // Generates X-Request-Id if absent, echoes it back
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{ // Structured logging
		Format: `{"time":"${time_rfc3339_nano}","id":"${id}","remote_ip":"${remote_ip}",` +
			`"host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}",` +
			`"status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}"` +
			`,"bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))
	e.Use(middleware.Recover()) // Recover from panics anywhere in the chain
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:5173", cfg.FrontendURL},
		AllowMethods: []string{http.MethodGet, http.MethodPatch, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Central error handler: the single place where domain errors become
	// HTTP responses.
	e.HTTPErrorHandler = httputil.ErrorHandler

	// --- Real-time Hub ---
	hub := realtime.NewHub()
	go hub.Run()
	log.Println("Realtime Hub started.")

	// --- Dependency Injection (Repositories, Services, Handlers) ---
	itemSvc := service.NewItemService(itemRepository, hub)
	itemHdlr := handler.NewItemHandler(itemSvc)

	pricingSvc := service.NewPricingService()
	pricingHdlr := handler.NewPricingHandler(pricingSvc)

	wsHdlr := handler.NewWebSocketHandler(hub)

	// --- Routes ---
	e.GET("/", rootHandler)
	e.GET("/health", healthCheckHandler)

	apiV1 := e.Group("/api/v1")

	itemsGroup := apiV1.Group("/items")
	itemsGroup.POST("", itemHdlr.CreateItem)
	itemsGroup.GET("", itemHdlr.ListItems)
	itemsGroup.GET("/:id", itemHdlr.GetItemByID)
	itemsGroup.PATCH("/:id", itemHdlr.UpdateItem)
	itemsGroup.DELETE("/:id", itemHdlr.DeleteItem)

	pricingGroup := apiV1.Group("/pricing")
	pricingGroup.GET("/quote", pricingHdlr.QuoteItemPrice)

	e.GET("/ws/item-events", wsHdlr.HandleConnections)

	// --- Start Server with Graceful Shutdown ---
	go func() {
		log.Printf("Starting server on port %s (env: %s)", cfg.ServerPort, cfg.Env)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal("shutting down the server unexpectedly:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received, initiating graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Error during server shutdown:", err)
	}

	log.Println("Server gracefully shut down.")
}

// rootHandler is a trivial landing endpoint.
func rootHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Items API",
		"version": "1.0.0",
	})
}

// healthCheckHandler is a simple handler for health checks.
func healthCheckHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
