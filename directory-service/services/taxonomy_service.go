package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gbr-backend/shared/database/models"
)

// TaxonomyCache is the optional read-through cache for listings. The tree is
// read-heavy and rarely mutated, so a coarse invalidate-on-write policy is
// enough. A nil cache disables caching.
type TaxonomyCache interface {
	GetTaxonomyCache(level, parentID string, dest interface{}) bool
	SetTaxonomyCache(level, parentID string, value interface{}) error
	InvalidateTaxonomy() error
}

// TaxonomyService owns the Continent → Country → Industry → Company tree.
// Listings return children in insertion order (created_at, id).
type TaxonomyService struct {
	db    *gorm.DB
	cache TaxonomyCache
}

func NewTaxonomyService(db *gorm.DB, cache TaxonomyCache) *TaxonomyService {
	return &TaxonomyService{db: db, cache: cache}
}

const insertionOrder = "created_at, id"

func (s *TaxonomyService) invalidate() {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTaxonomy(); err != nil {
		log.Printf("❌ Failed to invalidate taxonomy cache: %v", err)
	}
}

// parentExists returns ErrNotFound when the given parent row is missing.
func (s *TaxonomyService) parentExists(model interface{}, id uuid.UUID) error {
	var count int64
	if err := s.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("parent lookup failed: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// ListContinents returns all continents in insertion order
func (s *TaxonomyService) ListContinents() ([]models.Continent, error) {
	var continents []models.Continent
	if s.cache != nil && s.cache.GetTaxonomyCache("continents", "", &continents) {
		return continents, nil
	}

	if err := s.db.Order(insertionOrder).Find(&continents).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetTaxonomyCache("continents", "", continents); err != nil {
			log.Printf("❌ Failed to cache continents: %v", err)
		}
	}
	return continents, nil
}

// ListCountries returns the countries of a continent in insertion order
func (s *TaxonomyService) ListCountries(continentID uuid.UUID) ([]models.Country, error) {
	if err := s.parentExists(&models.Continent{}, continentID); err != nil {
		return nil, err
	}

	var countries []models.Country
	if s.cache != nil && s.cache.GetTaxonomyCache("countries", continentID.String(), &countries) {
		return countries, nil
	}

	if err := s.db.Where("continent_id = ?", continentID).Order(insertionOrder).Find(&countries).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetTaxonomyCache("countries", continentID.String(), countries); err != nil {
			log.Printf("❌ Failed to cache countries: %v", err)
		}
	}
	return countries, nil
}

// ListIndustries returns the industries of a country in insertion order
func (s *TaxonomyService) ListIndustries(countryID uuid.UUID) ([]models.Industry, error) {
	if err := s.parentExists(&models.Country{}, countryID); err != nil {
		return nil, err
	}

	var industries []models.Industry
	if s.cache != nil && s.cache.GetTaxonomyCache("industries", countryID.String(), &industries) {
		return industries, nil
	}

	if err := s.db.Where("country_id = ?", countryID).Order(insertionOrder).Find(&industries).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetTaxonomyCache("industries", countryID.String(), industries); err != nil {
			log.Printf("❌ Failed to cache industries: %v", err)
		}
	}
	return industries, nil
}

// ListCompanies returns the companies of an industry in insertion order
func (s *TaxonomyService) ListCompanies(industryID uuid.UUID) ([]models.Company, error) {
	if err := s.parentExists(&models.Industry{}, industryID); err != nil {
		return nil, err
	}

	var companies []models.Company
	if s.cache != nil && s.cache.GetTaxonomyCache("companies", industryID.String(), &companies) {
		return companies, nil
	}

	if err := s.db.Where("industry_id = ?", industryID).Order(insertionOrder).Find(&companies).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetTaxonomyCache("companies", industryID.String(), companies); err != nil {
			log.Printf("❌ Failed to cache companies: %v", err)
		}
	}
	return companies, nil
}

// GetCompany returns a single company by id
func (s *TaxonomyService) GetCompany(companyID uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, "id = ?", companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// CreateContinent creates a continent
func (s *TaxonomyService) CreateContinent(name string) (*models.Continent, error) {
	continent := models.Continent{Name: name}
	if err := s.db.Create(&continent).Error; err != nil {
		return nil, err
	}
	s.invalidate()
	return &continent, nil
}

// CreateCountry creates a country under a continent
func (s *TaxonomyService) CreateCountry(continentID uuid.UUID, name string) (*models.Country, error) {
	if err := s.parentExists(&models.Continent{}, continentID); err != nil {
		return nil, err
	}

	country := models.Country{Name: name, ContinentID: continentID}
	if err := s.db.Create(&country).Error; err != nil {
		return nil, err
	}
	s.invalidate()
	return &country, nil
}

// CreateIndustry creates an industry under a country
func (s *TaxonomyService) CreateIndustry(countryID uuid.UUID, name string) (*models.Industry, error) {
	if err := s.parentExists(&models.Country{}, countryID); err != nil {
		return nil, err
	}

	industry := models.Industry{Name: name, CountryID: countryID}
	if err := s.db.Create(&industry).Error; err != nil {
		return nil, err
	}
	s.invalidate()
	return &industry, nil
}

// CompanyInput carries the editable company fields
type CompanyInput struct {
	Name         string
	Description  string
	ContactEmail string
	ContactPhone string
	ChatCode     string
}

// CreateCompany creates a company under an industry
func (s *TaxonomyService) CreateCompany(industryID uuid.UUID, input CompanyInput) (*models.Company, error) {
	if err := s.parentExists(&models.Industry{}, industryID); err != nil {
		return nil, err
	}

	company := models.Company{
		Name:         input.Name,
		Description:  input.Description,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
		ChatCode:     input.ChatCode,
		IndustryID:   industryID,
	}
	if err := s.db.Create(&company).Error; err != nil {
		return nil, err
	}
	s.invalidate()
	return &company, nil
}

// UpdateCompany updates the editable fields of a company
func (s *TaxonomyService) UpdateCompany(companyID uuid.UUID, input CompanyInput) (*models.Company, error) {
	company, err := s.GetCompany(companyID)
	if err != nil {
		return nil, err
	}

	company.Name = input.Name
	company.Description = input.Description
	company.ContactEmail = input.ContactEmail
	company.ContactPhone = input.ContactPhone
	company.ChatCode = input.ChatCode

	if err := s.db.Save(company).Error; err != nil {
		return nil, err
	}
	s.invalidate()
	return company, nil
}

// SetCompanyLogo stores the object key of an uploaded company logo
func (s *TaxonomyService) SetCompanyLogo(companyID uuid.UUID, logoKey string) error {
	result := s.db.Model(&models.Company{}).Where("id = ?", companyID).Update("logo_key", logoKey)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.invalidate()
	return nil
}

// DeleteContinent deletes a continent and cascades through its countries,
// industries, companies and their chat messages in one transaction. The
// cascade is explicit rather than delegated to FK constraints so the behavior
// is identical on every backend.
func (s *TaxonomyService) DeleteContinent(continentID uuid.UUID) error {
	if err := s.parentExists(&models.Continent{}, continentID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		countryIDs := tx.Model(&models.Country{}).Select("id").Where("continent_id = ?", continentID)
		industryIDs := tx.Model(&models.Industry{}).Select("id").Where("country_id IN (?)", countryIDs)
		companyIDs := tx.Model(&models.Company{}).Select("id").Where("industry_id IN (?)", industryIDs)

		if err := tx.Where("company_id IN (?)", companyIDs).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("industry_id IN (?)", industryIDs).Delete(&models.Company{}).Error; err != nil {
			return err
		}
		if err := tx.Where("country_id IN (?)", countryIDs).Delete(&models.Industry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("continent_id = ?", continentID).Delete(&models.Country{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Continent{}, "id = ?", continentID).Error
	})
	if err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// DeleteCountry deletes a country and its industries, companies and chat messages
func (s *TaxonomyService) DeleteCountry(countryID uuid.UUID) error {
	if err := s.parentExists(&models.Country{}, countryID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		industryIDs := tx.Model(&models.Industry{}).Select("id").Where("country_id = ?", countryID)
		companyIDs := tx.Model(&models.Company{}).Select("id").Where("industry_id IN (?)", industryIDs)

		if err := tx.Where("company_id IN (?)", companyIDs).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("industry_id IN (?)", industryIDs).Delete(&models.Company{}).Error; err != nil {
			return err
		}
		if err := tx.Where("country_id = ?", countryID).Delete(&models.Industry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Country{}, "id = ?", countryID).Error
	})
	if err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// DeleteIndustry deletes an industry and its companies and chat messages
func (s *TaxonomyService) DeleteIndustry(industryID uuid.UUID) error {
	if err := s.parentExists(&models.Industry{}, industryID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		companyIDs := tx.Model(&models.Company{}).Select("id").Where("industry_id = ?", industryID)

		if err := tx.Where("company_id IN (?)", companyIDs).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("industry_id = ?", industryID).Delete(&models.Company{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Industry{}, "id = ?", industryID).Error
	})
	if err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// DeleteCompany deletes a company and its chat messages
func (s *TaxonomyService) DeleteCompany(companyID uuid.UUID) error {
	if err := s.parentExists(&models.Company{}, companyID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", companyID).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Company{}, "id = ?", companyID).Error
	})
	if err != nil {
		return err
	}

	s.invalidate()
	return nil
}
