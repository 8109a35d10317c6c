package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spesecasa/internal/services"
)

// SearchHandler serves the family-wide search
type SearchHandler struct {
	searchService services.SearchServicer
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService services.SearchServicer) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search matches movements, categories and active rules
// @Summary     Global search
// @Tags        search
// @Produce     json
// @Security    BearerAuth
// @Param       q query string true "Search text, at least 2 characters"
// @Success     200 {object} services.SearchResponse "Grouped results"
// @Failure     400 {object} ErrorResponse "Query too short"
// @Router      /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	familyID, err := getFamilyID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.searchService.Search(familyID, c.Query("q"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
