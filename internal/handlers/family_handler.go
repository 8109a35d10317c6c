package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spesecasa/internal/pagination"
	"spesecasa/internal/services"
)

// FamilyHandler handles tenant administration. Routes are superuser only.
type FamilyHandler struct {
	familyService services.FamilyServicer
	auditService  services.AuditServicer
}

// NewFamilyHandler creates a new FamilyHandler.
func NewFamilyHandler(familyService services.FamilyServicer, auditService services.AuditServicer) *FamilyHandler {
	return &FamilyHandler{familyService: familyService, auditService: auditService}
}

// CreateFamilyRequest represents the request payload for creating a family.
type CreateFamilyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateFamily handles the creation of a family.
// @Summary     Create a family
// @Tags        families
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateFamilyRequest true "Family details"
// @Success     201 {object} models.Family "Family created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not a superuser"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /families [post]
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	family, err := h.familyService.CreateFamily(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_FAMILY", "family", family.ID, c.ClientIP(),
		map[string]interface{}{"name": family.Name})

	c.JSON(http.StatusCreated, gin.H{"family": family})
}

// GetFamilies handles listing families.
// @Summary     List families
// @Tags        families
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Family] "Paginated families"
// @Failure     403 {object} ErrorResponse "Not a superuser"
// @Router      /families [get]
func (h *FamilyHandler) GetFamilies(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.familyService.ListFamilies(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetFamily handles retrieving a family with its members.
// @Summary     Get family by ID
// @Tags        families
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Family ID"
// @Success     200 {object} models.Family "Family details"
// @Failure     403 {object} ErrorResponse "Not a superuser"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Router      /families/{id} [get]
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	familyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	family, err := h.familyService.GetFamilyByID(familyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"family": family})
}
