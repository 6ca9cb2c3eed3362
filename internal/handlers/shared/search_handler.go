package handlers

import (
	"github.com/gin-gonic/gin"

	"petcare/internal/middleware"
	"petcare/internal/services"
	"petcare/internal/utils"
	"petcare/internal/validators"
)

type SearchHandler struct {
	searchService services.SearchService
	production    bool
}

// NewSearchHandler creates the search endpoint. production redacts upstream
// error details.
func NewSearchHandler(searchService services.SearchService, production bool) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		production:    production,
	}
}

// Search finds vets and shelters around a ZIP code or coordinates
func (h *SearchHandler) Search(c *gin.Context) {
	var request validators.SearchRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters")
		return
	}

	if errs := validators.ValidateSearchRequest(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs[0].Message, errs.Fields())
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), request.ToQuery(), middleware.CallerKey(c))
	if err != nil {
		utils.ErrorFromAppError(c, err, h.production)
		return
	}

	utils.CachedSuccessResponse(c, utils.SearchCacheControl, result)
}
