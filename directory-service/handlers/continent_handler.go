package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gbr-backend/directory-service/services"
)

// TaxonomyHandler serves the directory tree and its administrative edits
type TaxonomyHandler struct {
	taxonomy *services.TaxonomyService
	logos    *services.LogoService
}

func NewTaxonomyHandler(taxonomy *services.TaxonomyService, logos *services.LogoService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: taxonomy, logos: logos}
}

// CreateNameRequest is the request body for name-only taxonomy levels
type CreateNameRequest struct {
	Name string `json:"name" binding:"required" example:"Europe"`
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return uuid.Nil, false
	}
	return id, true
}

func respondTaxonomyError(c *gin.Context, err error, what string) {
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to access " + what,
		"message": err.Error(),
	})
}

// GET /api/continents
// @Summary List continents
// @Description List all continents in insertion order
// @Tags taxonomy
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string "Server error"
// @Router /continents [get]
func (h *TaxonomyHandler) GetContinents(c *gin.Context) {
	continents, err := h.taxonomy.ListContinents()
	if err != nil {
		respondTaxonomyError(c, err, "continents")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    continents,
	})
}

// POST /api/continents
// @Summary Create continent
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param continent body CreateNameRequest true "Continent data"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /continents [post]
func (h *TaxonomyHandler) CreateContinent(c *gin.Context) {
	var req CreateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	continent, err := h.taxonomy.CreateContinent(req.Name)
	if err != nil {
		respondTaxonomyError(c, err, "continent")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    continent,
	})
}

// DELETE /api/continents/:id
// @Summary Delete continent
// @Description Delete a continent; its countries, industries, companies and chat messages are removed with it
// @Tags taxonomy
// @Produce json
// @Param id path string true "Continent ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid continent ID format"
// @Failure 404 {object} map[string]string "Continent not found"
// @Router /continents/{id} [delete]
func (h *TaxonomyHandler) DeleteContinent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taxonomy.DeleteContinent(id); err != nil {
		respondTaxonomyError(c, err, "continent")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Continent deleted successfully",
	})
}
