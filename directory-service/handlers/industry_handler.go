package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/countries/:id/industries
// @Summary List industries
// @Description List the industries of a country in insertion order
// @Tags taxonomy
// @Produce json
// @Param id path string true "Country ID" format(uuid)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid country ID format"
// @Failure 404 {object} map[string]string "Country not found"
// @Router /countries/{id}/industries [get]
func (h *TaxonomyHandler) GetIndustries(c *gin.Context) {
	countryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	industries, err := h.taxonomy.ListIndustries(countryID)
	if err != nil {
		respondTaxonomyError(c, err, "country")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    industries,
	})
}

// POST /api/countries/:id/industries
// @Summary Create industry
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param id path string true "Country ID" format(uuid)
// @Param industry body CreateNameRequest true "Industry data"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Country not found"
// @Router /countries/{id}/industries [post]
func (h *TaxonomyHandler) CreateIndustry(c *gin.Context) {
	countryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	industry, err := h.taxonomy.CreateIndustry(countryID, req.Name)
	if err != nil {
		respondTaxonomyError(c, err, "country")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    industry,
	})
}

// DELETE /api/industries/:id
// @Summary Delete industry
// @Description Delete an industry; its companies and chat messages are removed with it
// @Tags taxonomy
// @Produce json
// @Param id path string true "Industry ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Industry not found"
// @Router /industries/{id} [delete]
func (h *TaxonomyHandler) DeleteIndustry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taxonomy.DeleteIndustry(id); err != nil {
		respondTaxonomyError(c, err, "industry")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Industry deleted successfully",
	})
}
