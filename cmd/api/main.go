package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/TosaOdiase/allergenblock/internal/camera"
	"github.com/TosaOdiase/allergenblock/internal/db"
	"github.com/TosaOdiase/allergenblock/internal/llm"
	"github.com/TosaOdiase/allergenblock/internal/maps"
	"github.com/TosaOdiase/allergenblock/internal/match"
	"github.com/TosaOdiase/allergenblock/internal/middleware"
	"github.com/TosaOdiase/allergenblock/internal/restaurant"
	"github.com/TosaOdiase/allergenblock/internal/scrape"
	"github.com/TosaOdiase/allergenblock/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
		"GEMINI_API_KEY",
		"GEMINI_MODEL",
		"GOOGLE_MAPS_API_KEY",
		"R2_ACCESS_KEY",
		"R2_SECRET_KEY",
		"R2_BUCKET_NAME",
		"R2_ENDPOINT",
		"R2_PUBLIC_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── GIN ─────────────────────────
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── STORAGE ─────────────────────────
	r2Client, err := storage.NewR2Client(context.Background())
	if err != nil {
		log.Fatal("❌ R2 init failed:", err)
	}

	// ───────────────────────── COLLABORATORS ─────────────────────────
	// Constructed once here and injected; no package-level clients.
	mapsClient := maps.NewClient()
	geminiClient := llm.NewGeminiClient()

	// ───────────────────────── CORE SERVICES ─────────────────────────
	restaurantRepo := restaurant.NewPostgresRepository(pgDB)

	resolverService := restaurant.NewService(
		restaurantRepo,
		mapsClient,
		match.ConfigFromEnv(),
	)

	orchestrator := scrape.NewOrchestrator(
		scrape.NewHTTPFetcher(),
		scrape.NewChromeRenderer(),
	)

	cameraService := camera.NewService(r2Client, geminiClient, resolverService)

	// ───────────────────────── HANDLERS ─────────────────────────
	restaurantHandler := restaurant.NewHandler(resolverService)
	scrapeHandler := scrape.NewHandler(orchestrator, geminiClient, scrapeConcurrency())
	cameraHandler := camera.NewHandler(cameraService)
	mapsHandler := maps.NewHandler(mapsClient)

	// ───────────────────────── RESTAURANT ROUTES ─────────────────────────
	restaurants := r.Group("/restaurants")
	{
		restaurants.GET("", restaurantHandler.ListRestaurants)
		restaurants.GET("/:id", restaurantHandler.GetRestaurant)
		restaurants.POST("/resolve", restaurantHandler.Resolve)
		restaurants.POST("/lookup", restaurantHandler.Lookup)
	}

	// ───────────────────────── MENU ROUTES ─────────────────────────
	menus := r.Group("/menus")
	{
		menus.GET("/:id", restaurantHandler.GetMenuDetails)
		menus.POST("/scrape", scrapeHandler.Scrape)
		menus.POST("/scrape/batch", scrapeHandler.ScrapeBatch)
		menus.POST("/classify", scrapeHandler.Classify)
	}

	// ───────────────────────── CAMERA ROUTES ─────────────────────────
	r.POST("/camera/upload", cameraHandler.Upload)

	// ───────────────────────── MAPS ROUTES ─────────────────────────
	r.GET("/maps/nearby", mapsHandler.Nearby)

	// ───────────────────────── ADMIN ROUTES ─────────────────────────
	admin := r.Group("/admin")
	admin.Use(middleware.AdminAuth())
	{
		admin.DELETE("/restaurants/:id", restaurantHandler.DeleteRestaurant)
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── START ─────────────────────────
	log.Println("🚀 API running at http://localhost:8000")
	r.Run(":8000")
}

func scrapeConcurrency() int {
	if v := os.Getenv("SCRAPE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 3
}
