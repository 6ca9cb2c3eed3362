package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"petcare/internal/config"
	handlers "petcare/internal/handlers/shared"
	"petcare/internal/middleware"
	"petcare/internal/models"
	"petcare/internal/providers"
	"petcare/internal/repositories/interfaces"
	"petcare/internal/repositories/mongodb"
	"petcare/internal/repositories/postgres"
	"petcare/internal/services"
	"petcare/pkg/cache"
	"petcare/pkg/database"
	"petcare/pkg/logger"
	"petcare/pkg/maps"
	"petcare/pkg/petfinder"
	"petcare/pkg/yelp"
	"petcare/routes"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
	healthTimeout   = 3 * time.Second
)

// sharedStore backs the result cache, the Petfinder token and the window
// rate limiter.
type sharedStore interface {
	cache.Store
	cache.WindowCounter
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:   logger.LogLevel(cfg.App.LogLevel),
		Format:  cfg.App.LogFormat,
		Output:  "stdout",
		AppName: cfg.App.Name,
		Version: cfg.App.Version,
		Verbose: !cfg.App.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.WithError(err).Fatal("Server stopped")
	}
}

func run(cfg *config.Config, appLogger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := handlers.NewHealthHandler(cfg.App.Version, healthTimeout)

	store, redisCache := newSharedStore(cfg.Redis, appLogger)
	if redisCache != nil {
		defer redisCache.Close()
		health.Register("redis", redisCache.Ping)
	}

	// Internal places store
	var placeRepo interfaces.PlaceRepository
	if cfg.Postgres.Enabled() {
		db, err := openPostgres(ctx, cfg.Postgres, appLogger)
		if err != nil {
			return err
		}
		defer db.Close()
		placeRepo = postgres.NewPlaceRepository(db, appLogger)
		health.Register("postgres", db.PingContext)
	} else {
		appLogger.Warn("DATABASE_URL not set, internal places are disabled")
	}

	// ZIP centroid cache
	var zipRepo interfaces.ZipCodeRepository
	if cfg.Database.Enabled() {
		mongoDB, err := openMongo(ctx, cfg.Database, cfg.App.Name, cfg.Maps.ZipCacheTTL, appLogger)
		if err != nil {
			return err
		}
		defer mongoDB.Close()
		zipRepo = mongodb.NewZipCodeRepository(mongoDB.Database, cfg.Maps.ZipCacheTTL)
		health.Register("mongodb", mongoDB.Ping)
	} else {
		appLogger.Warn("MONGODB_URI not set, ZIP centroids are not cached")
	}

	timeout := cfg.Search.HTTPTimeout
	geocoders, placesClient := newMaps(cfg.Maps, timeout, appLogger)
	locations := services.NewLocationService(zipRepo, geocoders, timeout, appLogger)

	googleVets := providers.NewGoogleProvider(placesClient, providers.GoogleConfig{
		PlaceType:       models.PlaceTypeVet,
		MaxRadiusM:      cfg.Maps.GoogleMaps.MaxRadiusM,
		EnrichmentLimit: cfg.Search.EnrichmentLimit,
		Timeout:         timeout,
	}, appLogger)
	googleShelters := providers.NewGoogleProvider(placesClient, providers.GoogleConfig{
		PlaceType:  models.PlaceTypeShelter,
		MaxRadiusM: cfg.Maps.GoogleMaps.MaxRadiusM,
		Timeout:    timeout,
	}, appLogger)

	var businesses providers.BusinessSearcher
	if cfg.Yelp.Enabled() {
		businesses = yelp.NewClient(yelp.Config{
			BaseURL:    cfg.Yelp.BaseURL,
			APIKey:     cfg.Yelp.APIKey,
			MaxRadiusM: cfg.Yelp.MaxRadiusM,
			MaxLimit:   cfg.Yelp.MaxLimit,
			Timeout:    timeout,
		})
	}

	var (
		organizations providers.OrganizationSearcher
		shelterLookup services.OrganizationGetter
	)
	if cfg.Petfinder.Enabled() {
		tokens := petfinder.NewTokenStore(cfg.Petfinder.ClientID, cfg.Petfinder.ClientSecret, cfg.Petfinder.TokenURL, store, &http.Client{Timeout: timeout})
		petfinderClient := petfinder.NewClient(petfinder.Config{
			BaseURL:       cfg.Petfinder.BaseURL,
			MaxDistanceMi: cfg.Petfinder.MaxDistanceMi,
			MaxLimit:      cfg.Petfinder.MaxLimit,
			Timeout:       timeout,
		}, tokens)
		organizations, shelterLookup = petfinderClient, petfinderClient
	}

	vetChain := providers.NewChain("vet", appLogger,
		providers.Step{Provider: googleVets},
		providers.Step{Provider: providers.NewYelpProvider(businesses)},
	)
	shelterChain := providers.NewChain("shelter", appLogger,
		providers.Step{Provider: providers.NewPetfinderProvider(organizations)},
		providers.Step{Provider: googleShelters},
	)

	vetPath := services.SearchPath{External: vetChain}
	shelterPath := services.SearchPath{External: shelterChain}
	if cfg.Search.IncludeStore && placeRepo != nil {
		vetPath.Store = providers.NewStoreProvider(placeRepo, models.PlaceTypeVet)
		shelterPath.Store = providers.NewStoreProvider(placeRepo, models.PlaceTypeShelter)
	}

	production := cfg.App.IsProduction()
	searchService := services.NewSearchService(services.SearchDependencies{
		Locations: locations,
		Vet:       vetPath,
		Shelter:   shelterPath,
		Cache:     store,
		Limiter:   newRateLimiter(cfg.Search, store),
	}, cfg.Search, production, appLogger)

	shelterService := services.NewShelterService(shelterLookup, appLogger)
	placeService := services.NewPlaceService(placeRepo)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService, production)
	placeHandler := handlers.NewPlaceHandler(placeService, shelterService, production)

	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.OptionalAuth(cfg.Security.JWTSecret, appLogger))
	router.Use(middleware.LoggingMiddleware(appLogger))

	// API routes
	v1 := router.Group("/api/v1")
	{
		routes.SetupSearchRoutes(v1, searchHandler, placeHandler)
	}
	routes.SetupHealthRoutes(router, health)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.WithField("addr", server.Addr).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newSharedStore prefers Redis and falls back to process memory.
func newSharedStore(cfg *config.RedisConfig, appLogger *logger.Logger) (sharedStore, *cache.RedisCache) {
	if !cfg.Enabled {
		return cache.NewMemoryStore(), nil
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Host,
		Port:         cfg.Port,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		SSL:          cfg.SSL,
	})
	if err != nil {
		appLogger.WithError(err).Warn("Redis unavailable, using in-memory cache")
		return cache.NewMemoryStore(), nil
	}
	return redisCache, redisCache
}

// newRateLimiter counts fixed windows in the shared store, Redis or process
// memory. The token bucket runs only when configured explicitly.
func newRateLimiter(cfg *config.SearchConfig, store cache.WindowCounter) services.RateLimiter {
	if cfg.RateLimitBackend == config.RateLimitBackendBucket {
		return services.NewBucketRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	}
	return services.NewWindowRateLimiter(store, cfg.RateLimit, cfg.RateLimitWindow)
}

func openPostgres(ctx context.Context, cfg *config.PostgresConfig, appLogger *logger.Logger) (*sql.DB, error) {
	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart {
		if err := database.ApplyMigrations(db, appLogger); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

func openMongo(ctx context.Context, cfg *config.DatabaseConfig, appName string, zipCacheTTL time.Duration, appLogger *logger.Logger) (*database.MongoDB, error) {
	mongoDB, err := database.NewMongoDB(ctx, &database.DatabaseConfig{
		URI:            cfg.URI,
		Database:       cfg.Database,
		AppName:        appName,
		MaxPoolSize:    cfg.MaxPoolSize,
		MinPoolSize:    cfg.MinPoolSize,
		ConnectTimeout: cfg.ConnectTimeout,
		SocketTimeout:  cfg.SocketTimeout,
	})
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(mongoDB.Database, zipCacheTTL, appLogger).Up(ctx); err != nil {
		mongoDB.Close()
		return nil, err
	}
	return mongoDB, nil
}

// newMaps builds the geocoder chain Google, Mapbox, Nominatim and the Google
// places client. placesClient is nil without a Google key.
func newMaps(cfg *config.MapsConfig, timeout time.Duration, appLogger *logger.Logger) ([]maps.Geocoder, maps.PlacesClient) {
	var (
		geocoders    []maps.Geocoder
		placesClient maps.PlacesClient
	)

	if cfg.GoogleMaps.Enabled() {
		opts := []maps.GoogleMapsOption{
			maps.WithGoogleHTTPClient(&http.Client{Timeout: timeout}),
			maps.WithGoogleCountry(cfg.GoogleMaps.Country),
		}
		if cfg.GoogleMaps.BaseURL != "" {
			opts = append(opts, maps.WithGoogleBaseURL(cfg.GoogleMaps.BaseURL))
		}

		google, err := maps.NewGoogleMapsProvider(cfg.GoogleMaps.APIKey, opts...)
		if err != nil {
			appLogger.WithError(err).Warn("Google Maps disabled")
		} else {
			geocoders = append(geocoders, google)
			placesClient = google
		}
	}

	if cfg.Mapbox.Enabled() {
		geocoders = append(geocoders, maps.NewMapboxProvider(cfg.Mapbox.AccessToken, cfg.Mapbox.BaseURL, timeout))
	}
	geocoders = append(geocoders, maps.NewNominatimProvider(cfg.Nominatim.BaseURL, cfg.Nominatim.UserAgent, timeout))

	return geocoders, placesClient
}
