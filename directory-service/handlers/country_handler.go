package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/continents/:id/countries
// @Summary List countries
// @Description List the countries of a continent in insertion order
// @Tags taxonomy
// @Produce json
// @Param id path string true "Continent ID" format(uuid)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid continent ID format"
// @Failure 404 {object} map[string]string "Continent not found"
// @Router /continents/{id}/countries [get]
func (h *TaxonomyHandler) GetCountries(c *gin.Context) {
	continentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	countries, err := h.taxonomy.ListCountries(continentID)
	if err != nil {
		respondTaxonomyError(c, err, "continent")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    countries,
	})
}

// POST /api/continents/:id/countries
// @Summary Create country
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param id path string true "Continent ID" format(uuid)
// @Param country body CreateNameRequest true "Country data"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Continent not found"
// @Router /continents/{id}/countries [post]
func (h *TaxonomyHandler) CreateCountry(c *gin.Context) {
	continentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	country, err := h.taxonomy.CreateCountry(continentID, req.Name)
	if err != nil {
		respondTaxonomyError(c, err, "continent")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    country,
	})
}

// DELETE /api/countries/:id
// @Summary Delete country
// @Description Delete a country; its industries, companies and chat messages are removed with it
// @Tags taxonomy
// @Produce json
// @Param id path string true "Country ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Country not found"
// @Router /countries/{id} [delete]
func (h *TaxonomyHandler) DeleteCountry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taxonomy.DeleteCountry(id); err != nil {
		respondTaxonomyError(c, err, "country")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Country deleted successfully",
	})
}
