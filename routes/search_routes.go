package routes

import (
	"github.com/gin-gonic/gin"

	handlers "petcare/internal/handlers/shared"
)

// SetupSearchRoutes sets up the public search and lookup routes
func SetupSearchRoutes(r *gin.RouterGroup, searchHandler *handlers.SearchHandler, placeHandler *handlers.PlaceHandler) {
	r.GET("/search", searchHandler.Search)

	places := r.Group("/places")
	{
		places.GET("/:id", placeHandler.GetPlace)
		places.GET("/:id/nearby", placeHandler.GetNearby)
	}

	shelters := r.Group("/shelters")
	{
		shelters.GET("/:id", placeHandler.GetShelter)
	}
}

// SetupHealthRoutes registers the unversioned health endpoint
func SetupHealthRoutes(router *gin.Engine, healthHandler *handlers.HealthHandler) {
	router.GET("/health", healthHandler.Health)
}
