package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gbr-backend/directory-service/services"
)

// CompanyRequest is the request body for creating or updating a company
type CompanyRequest struct {
	Name         string `json:"name" binding:"required" example:"Acme Ltd"`
	Description  string `json:"description" example:"Widget manufacturer"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email" example:"info@acme.example"`
	ContactPhone string `json:"contact_phone" example:"+441234567890"`
	ChatCode     string `json:"chat_code" example:"ACME"`
}

func (r CompanyRequest) toInput() services.CompanyInput {
	return services.CompanyInput{
		Name:         r.Name,
		Description:  r.Description,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		ChatCode:     r.ChatCode,
	}
}

// GET /api/industries/:id/companies
// @Summary List companies
// @Description List the companies of an industry in insertion order
// @Tags taxonomy
// @Produce json
// @Param id path string true "Industry ID" format(uuid)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid industry ID format"
// @Failure 404 {object} map[string]string "Industry not found"
// @Router /industries/{id}/companies [get]
func (h *TaxonomyHandler) GetCompanies(c *gin.Context) {
	industryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	companies, err := h.taxonomy.ListCompanies(industryID)
	if err != nil {
		respondTaxonomyError(c, err, "industry")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    companies,
	})
}

// GET /api/companies/:id
// @Summary Get company by ID
// @Tags taxonomy
// @Produce json
// @Param id path string true "Company ID" format(uuid)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Company not found"
// @Router /companies/{id} [get]
func (h *TaxonomyHandler) GetCompany(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	company, err := h.taxonomy.GetCompany(id)
	if err != nil {
		respondTaxonomyError(c, err, "company")
		return
	}

	response := gin.H{
		"success": true,
		"data":    company,
	}

	// Attach a short-lived logo URL when a logo is stored
	if h.logos != nil && company.LogoKey != "" {
		if logoURL, err := h.logos.LogoURL(c.Request.Context(), company.LogoKey, 15*time.Minute); err == nil {
			response["logo_url"] = logoURL
		}
	}

	c.JSON(http.StatusOK, response)
}

// POST /api/industries/:id/companies
// @Summary Create company
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param id path string true "Industry ID" format(uuid)
// @Param company body CompanyRequest true "Company data"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Industry not found"
// @Router /industries/{id}/companies [post]
func (h *TaxonomyHandler) CreateCompany(c *gin.Context) {
	industryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.taxonomy.CreateCompany(industryID, req.toInput())
	if err != nil {
		respondTaxonomyError(c, err, "industry")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    company,
	})
}

// PUT /api/companies/:id
// @Summary Update company
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param id path string true "Company ID" format(uuid)
// @Param company body CompanyRequest true "Company data"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Company not found"
// @Router /companies/{id} [put]
func (h *TaxonomyHandler) UpdateCompany(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.taxonomy.UpdateCompany(id, req.toInput())
	if err != nil {
		respondTaxonomyError(c, err, "company")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    company,
	})
}

// DELETE /api/companies/:id
// @Summary Delete company
// @Description Delete a company and its chat messages
// @Tags taxonomy
// @Produce json
// @Param id path string true "Company ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Company not found"
// @Router /companies/{id} [delete]
func (h *TaxonomyHandler) DeleteCompany(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taxonomy.DeleteCompany(id); err != nil {
		respondTaxonomyError(c, err, "company")
		return
	}

	if h.logos != nil {
		if err := h.logos.RemoveLogo(c.Request.Context(), id); err != nil {
			// The database row is already gone, the orphaned object is harmless
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Company deleted, logo cleanup failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Company deleted successfully",
	})
}

// POST /api/companies/:id/logo
// @Summary Upload company logo
// @Description Upload a logo image for a company; replaces any previous logo
// @Tags taxonomy
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Company ID" format(uuid)
// @Param file formData file true "Logo image"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid file"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 500 {object} map[string]string "Upload failed"
// @Router /companies/{id}/logo [post]
func (h *TaxonomyHandler) UploadCompanyLogo(c *gin.Context) {
	if h.logos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Logo storage not configured"})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.taxonomy.GetCompany(id); err != nil {
		respondTaxonomyError(c, err, "company")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Logo file is required"})
		return
	}

	if !services.AllowedLogoType(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	objectKey, err := h.logos.UploadLogo(c.Request.Context(), id, file, fileHeader.Filename,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not upload logo"})
		return
	}

	if err := h.taxonomy.SetCompanyLogo(id, objectKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store logo reference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"logo_key": objectKey,
	})
}
