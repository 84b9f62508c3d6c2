package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/auth"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/config"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/database"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/handlers"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/middleware"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/registry"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/routes"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/suggest"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/websocket"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/workflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it")
	}

	config.LoadConfig()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var ping func(context.Context) error
	if config.StoreBackend == config.BackendMongo {
		if err := database.Connect(); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		ping = database.Ping
	}

	store, err := registry.OpenStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open registry store: %v", err)
	}

	directory, err := auth.Load(config.UsersFile, config.DefaultPasswordHash)
	if err != nil {
		log.Fatalf("Failed to load users: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	svc := registry.NewService(store, workflow.New(),
		registry.WithCredentials(directory),
		registry.WithPublisher(hub),
	)
	defer svc.Close()

	var suggester *suggest.Client
	if config.SuggestEndpoint != "" {
		suggester = suggest.NewClient(config.SuggestEndpoint, config.SuggestAPIKey, config.SuggestModel, config.SuggestTimeout)
	} else {
		log.Println("SUGGEST_ENDPOINT not set, suggestions disabled")
	}

	handlers.InitServices(handlers.Services{
		Registry:  svc,
		Directory: directory,
		Suggest:   suggester,
		Hub:       hub,
		Ping:      ping,
		Backend:   config.StoreBackend,
	})

	// API routes first so the static catch-all does not shadow them
	router := mux.NewRouter()
	routes.RegisterRoutes(router)
	if config.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(config.StaticDir)))
	}
	routes.LogRoutes(router)

	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.CorsMiddleware)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Risk & Opportunities Registry running on http://localhost:%s (%s store)", config.Port, config.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}
	stop()

	database.Disconnect()
	log.Println("Server stopped")
}
