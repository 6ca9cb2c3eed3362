package handlers

import (
	"github.com/gin-gonic/gin"

	"petcare/internal/services"
	"petcare/internal/utils"
	"petcare/internal/validators"
)

type PlaceHandler struct {
	placeService   services.PlaceService
	shelterService services.ShelterService
	production     bool
}

func NewPlaceHandler(placeService services.PlaceService, shelterService services.ShelterService, production bool) *PlaceHandler {
	return &PlaceHandler{
		placeService:   placeService,
		shelterService: shelterService,
		production:     production,
	}
}

// GetPlace returns one stored place
func (h *PlaceHandler) GetPlace(c *gin.Context) {
	id := c.Param("id")
	if errs := validators.ValidatePlaceID(id); len(errs) > 0 {
		utils.BadRequestResponse(c, errs[0].Message)
		return
	}

	place, err := h.placeService.GetPlace(c.Request.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(c, err, h.production)
		return
	}

	utils.CachedSuccessResponse(c, utils.PlaceCacheControl, place)
}

// GetNearby lists stored places around a stored place
func (h *PlaceHandler) GetNearby(c *gin.Context) {
	id := c.Param("id")
	if errs := validators.ValidatePlaceID(id); len(errs) > 0 {
		utils.BadRequestResponse(c, errs[0].Message)
		return
	}

	nearby, err := h.placeService.GetNearby(c.Request.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(c, err, h.production)
		return
	}

	utils.CachedSuccessResponse(c, utils.PlaceCacheControl, nearby)
}

// GetShelter returns one Petfinder organization
func (h *PlaceHandler) GetShelter(c *gin.Context) {
	id := c.Param("id")
	if errs := validators.ValidateShelterID(id); len(errs) > 0 {
		utils.BadRequestResponse(c, errs[0].Message)
		return
	}

	shelter, err := h.shelterService.GetShelter(c.Request.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(c, err, h.production)
		return
	}

	utils.CachedSuccessResponse(c, utils.PlaceCacheControl, shelter)
}
