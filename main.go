package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fanlink_server/cache"
	"fanlink_server/middleware"
	"fanlink_server/monitoring"
	"fanlink_server/routes"
	"fanlink_server/services"
	"fanlink_server/socket"
	"fanlink_server/workers"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	clerkKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkKey == "" {
		log.Fatal("CLERK_SECRET_KEY is not set")
	}
	clerk.SetKey(clerkKey)

	monitoring.Register()

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Redis backs the read cache, XP frequency windows and action limits
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	cacheClient := cache.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	limits := cache.NewActionLimits(cacheClient)

	// Initialize Services
	xpService := &services.XPService{Dynamo: dynamoService, Cache: cacheClient}
	userProfileService := services.NewUserProfileService(dynamoService, cacheClient)
	interactionService := services.NewInteractionService(dynamoService, cacheClient, xpService)
	notificationService := services.NewNotificationService(dynamoService)
	postService := services.NewPostService(dynamoService, cacheClient)
	storyService := services.NewStoryService(dynamoService, cacheClient, interactionService, userProfileService, notificationService)
	chatService := services.NewChatService(dynamoService, notificationService)

	// Socket.IO server for story comments, chat and notification pushes
	socketServer := socket.NewSocketServer()
	notificationService.Socket = socketServer
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Errorf("❌ Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to FanLink")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler())).Methods("GET")
	r.Handle("/socket.io/", socketServer)

	// All API routes require an authenticated Clerk session
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.ClerkAuthMiddleware)

	// Register routes
	routes.RegisterUserProfileRoutes(api, userProfileService)
	routes.RegisterInteractionRoutes(api, interactionService, limits)
	routes.RegisterPostRoutes(api, postService, limits)
	routes.RegisterStoryRoutes(api, storyService, limits, socketServer)
	routes.RegisterChatRoutes(api, chatService, limits, socketServer)
	routes.RegisterNotificationRoutes(api, notificationService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(middleware.RateLimitMiddleware(middleware.MonitorMiddleware(r)))

	go middleware.CleanupVisitors()

	// Background sweep keeps the Stories table free of expired items
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweepInterval := time.Hour
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("Invalid SWEEP_INTERVAL %q: %v", v, err)
		}
		sweepInterval = parsed
	}
	workers.NewStorySweeper(storyService, sweepInterval).Start(ctx)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s...\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, draining connections...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("❌ Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
