package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"

	"trashspot-backend/internal/cache"
	"trashspot-backend/internal/config"
	"trashspot-backend/internal/database"
	"trashspot-backend/internal/handlers"
	"trashspot-backend/internal/middleware"
	"trashspot-backend/internal/scheduler"
	"trashspot-backend/internal/services"
	"trashspot-backend/internal/services/airesearch"
	"trashspot-backend/internal/websocket"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 TRASHSPOT BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()

	// Connect to database
	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()
	log.Println("✅ Database connection established")

	// Run migrations
	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ FATAL ERROR: Database migrations failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Seed database
	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedAreas(db); err != nil {
		log.Fatalf("❌ FATAL ERROR: Area seeding failed: %v", err)
	}
	if err := database.SeedTrashBins(db); err != nil {
		log.Fatalf("❌ FATAL ERROR: Trash bin seeding failed: %v", err)
	}
	if err := database.SeedAdminUser(db, "admin@trashspot.jp", "admin123"); err != nil {
		log.Fatalf("❌ FATAL ERROR: Admin user seeding failed: %v", err)
	}
	log.Println("✅ Seed data in place")

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Shared cache and services
	store := cache.NewStore(0)
	binService := services.NewTrashBinService(db, store)
	areaService := services.NewAreaService(db)
	qualityService := services.NewQualityService(db)

	// AI providers: real ones when keys exist, mock otherwise
	var providers []airesearch.Provider
	if cfg.MockAIMode() {
		providers = append(providers, airesearch.NewMockProvider(time.Now().UnixNano()))
		log.Println("🤖 AI research running in MOCK mode (no usable API keys)")
	} else {
		if cfg.OpenAIConfigured() {
			providers = append(providers, airesearch.NewOpenAIProvider(cfg.OpenAIAPIKey))
			log.Println("🤖 OpenAI provider enabled")
		}
		if cfg.AnthropicConfigured() {
			providers = append(providers, airesearch.NewAnthropicProvider(cfg.AnthropicAPIKey))
			log.Println("🤖 Anthropic provider enabled")
		}
	}
	researchService := airesearch.NewService(db, providers, wsHub, cfg.AICallTimeout)

	// Background jobs
	sched, err := scheduler.New(cfg, researchService, qualityService)
	if err != nil {
		log.Fatalf("❌ FATAL ERROR: Scheduler setup failed: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httprate.LimitByIP(cfg.RateLimitMax, cfg.RateLimitWindow))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", handlers.Health(db, store, wsHub))

	// WebSocket endpoint (public, area subscription via messages)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	// Uploaded feedback photos
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadDir))))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", handlers.Login(db))

		r.Get("/trash-bins/search", handlers.SearchTrashBins(binService))
		r.Post("/trash-bins/feedback", handlers.SubmitFeedback(binService, qualityService, cfg.UploadDir, wsHub))
		r.Get("/trash-bins/area/{id}", handlers.GetAreaBins(areaService))
		r.Get("/trash-bins/{id}", handlers.GetTrashBin(binService))
		r.Post("/trash-bins/{id}/feedback", handlers.SubmitFeedback(binService, qualityService, cfg.UploadDir, wsHub))

		r.Get("/areas", handlers.GetAreas(areaService))
		r.Get("/areas/{id}", handlers.GetArea(areaService))
		r.Get("/areas/{id}/trash-bins", handlers.GetAreaBins(areaService))

		// Admin surface
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole("admin"))

			r.Post("/ai/research", handlers.TriggerResearch(researchService))
			r.Get("/ai/research-history", handlers.GetResearchHistory(researchService))
			r.Get("/ai/status", handlers.GetAIStatus(cfg))
		})
	})

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Start server
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("❌ FATAL ERROR: Server failed to start: %v", err)
	}
}
