package services

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gbr-backend/shared/database/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	migrate := []interface{}{
		&models.Continent{},
		&models.Country{},
		&models.Industry{},
		&models.Company{},
		&models.ChatMessage{},
	}
	if err := db.AutoMigrate(migrate...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// fakeCache records lookups and invalidations without storing anything
type fakeCache struct {
	gets        int
	sets        int
	invalidated int
}

func (c *fakeCache) GetTaxonomyCache(level, parentID string, dest interface{}) bool {
	c.gets++
	return false
}

func (c *fakeCache) SetTaxonomyCache(level, parentID string, value interface{}) error {
	c.sets++
	return nil
}

func (c *fakeCache) InvalidateTaxonomy() error {
	c.invalidated++
	return nil
}

// seedTree builds continent → country → industry → company with one chat message
func seedTree(t *testing.T, db *gorm.DB, svc *TaxonomyService) (*models.Continent, *models.Country, *models.Industry, *models.Company) {
	t.Helper()

	continent, err := svc.CreateContinent("Europe")
	if err != nil {
		t.Fatalf("CreateContinent: %v", err)
	}
	country, err := svc.CreateCountry(continent.ID, "Germany")
	if err != nil {
		t.Fatalf("CreateCountry: %v", err)
	}
	industry, err := svc.CreateIndustry(country.ID, "Logistics")
	if err != nil {
		t.Fatalf("CreateIndustry: %v", err)
	}
	company, err := svc.CreateCompany(industry.ID, CompanyInput{Name: "Acme Freight", ContactEmail: "info@acme.test"})
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}

	msg := models.ChatMessage{CompanyID: company.ID, Message: "hello", CreatedAt: time.Now().UTC()}
	if err := db.Create(&msg).Error; err != nil {
		t.Fatalf("failed to create chat message: %v", err)
	}

	return continent, country, industry, company
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func TestListContinentsInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaxonomyService(db, nil)

	// Explicit timestamps so ordering does not depend on clock resolution
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	names := []string{"Europe", "Asia", "Africa"}
	for i, name := range names {
		continent := models.Continent{Name: name, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := db.Create(&continent).Error; err != nil {
			t.Fatalf("failed to create continent %s: %v", name, err)
		}
	}

	continents, err := svc.ListContinents()
	if err != nil {
		t.Fatalf("ListContinents: %v", err)
	}
	if len(continents) != len(names) {
		t.Fatalf("expected %d continents, got %d", len(names), len(continents))
	}
	for i, want := range names {
		if continents[i].Name != want {
			t.Errorf("position %d: got %q, want %q", i, continents[i].Name, want)
		}
	}
}

func TestListCountriesScopedToParent(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaxonomyService(db, nil)

	europe, _ := svc.CreateContinent("Europe")
	asia, _ := svc.CreateContinent("Asia")
	if _, err := svc.CreateCountry(europe.ID, "Germany"); err != nil {
		t.Fatalf("CreateCountry: %v", err)
	}
	if _, err := svc.CreateCountry(asia.ID, "Japan"); err != nil {
		t.Fatalf("CreateCountry: %v", err)
	}

	countries, err := svc.ListCountries(europe.ID)
	if err != nil {
		t.Fatalf("ListCountries: %v", err)
	}
	if len(countries) != 1 || countries[0].Name != "Germany" {
		t.Errorf("unexpected countries for Europe: %+v", countries)
	}
}

func TestListCountriesMissingParent(t *testing.T) {
	svc := NewTaxonomyService(newTestDB(t), nil)

	if _, err := svc.ListCountries(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateChildRequiresParent(t *testing.T) {
	svc := NewTaxonomyService(newTestDB(t), nil)

	if _, err := svc.CreateCountry(uuid.New(), "Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateCountry: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.CreateIndustry(uuid.New(), "Mining"); !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateIndustry: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.CreateCompany(uuid.New(), CompanyInput{Name: "Ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateCompany: expected ErrNotFound, got %v", err)
	}
}

func TestGetCompanyNotFound(t *testing.T) {
	svc := NewTaxonomyService(newTestDB(t), nil)

	if _, err := svc.GetCompany(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateCompany(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaxonomyService(db, nil)
	_, _, _, company := seedTree(t, db, svc)

	updated, err := svc.UpdateCompany(company.ID, CompanyInput{
		Name:         "Acme Freight GmbH",
		Description:  "Road and rail",
		ContactEmail: "contact@acme.test",
		ChatCode:     "acme",
	})
	if err != nil {
		t.Fatalf("UpdateCompany: %v", err)
	}
	if updated.Name != "Acme Freight GmbH" || updated.ChatCode != "acme" {
		t.Errorf("update not applied: %+v", updated)
	}

	reloaded, err := svc.GetCompany(company.ID)
	if err != nil {
		t.Fatalf("GetCompany: %v", err)
	}
	if reloaded.Description != "Road and rail" {
		t.Errorf("description not persisted, got %q", reloaded.Description)
	}
}

func TestDeleteContinentCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaxonomyService(db, nil)
	continent, _, _, _ := seedTree(t, db, svc)

	// An unrelated tree must survive the cascade
	other, _ := svc.CreateContinent("Asia")
	otherCountry, _ := svc.CreateCountry(other.ID, "Japan")
	otherIndustry, _ := svc.CreateIndustry(otherCountry.ID, "Robotics")
	if _, err := svc.CreateCompany(otherIndustry.ID, CompanyInput{Name: "Mecha Works"}); err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}

	if err := svc.DeleteContinent(continent.ID); err != nil {
		t.Fatalf("DeleteContinent: %v", err)
	}

	if got := count(t, db, &models.Continent{}); got != 1 {
		t.Errorf("continents = %d, want 1", got)
	}
	if got := count(t, db, &models.Country{}); got != 1 {
		t.Errorf("countries = %d, want 1", got)
	}
	if got := count(t, db, &models.Industry{}); got != 1 {
		t.Errorf("industries = %d, want 1", got)
	}
	if got := count(t, db, &models.Company{}); got != 1 {
		t.Errorf("companies = %d, want 1", got)
	}
	if got := count(t, db, &models.ChatMessage{}); got != 0 {
		t.Errorf("chat messages = %d, want 0", got)
	}
}

func TestDeleteCompanyRemovesChatLog(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaxonomyService(db, nil)
	_, _, industry, company := seedTree(t, db, svc)

	if err := svc.DeleteCompany(company.ID); err != nil {
		t.Fatalf("DeleteCompany: %v", err)
	}

	if got := count(t, db, &models.ChatMessage{}); got != 0 {
		t.Errorf("chat messages = %d, want 0", got)
	}
	// The parent industry is untouched
	if err := svc.parentExists(&models.Industry{}, industry.ID); err != nil {
		t.Errorf("industry unexpectedly gone: %v", err)
	}
}

func TestDeleteMissingNodeReturnsNotFound(t *testing.T) {
	svc := NewTaxonomyService(newTestDB(t), nil)

	if err := svc.DeleteContinent(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteContinent: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteCompany(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteCompany: expected ErrNotFound, got %v", err)
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	db := newTestDB(t)
	cache := &fakeCache{}
	svc := NewTaxonomyService(db, cache)

	continent, err := svc.CreateContinent("Europe")
	if err != nil {
		t.Fatalf("CreateContinent: %v", err)
	}
	if cache.invalidated != 1 {
		t.Errorf("invalidations after create = %d, want 1", cache.invalidated)
	}

	if err := svc.DeleteContinent(continent.ID); err != nil {
		t.Fatalf("DeleteContinent: %v", err)
	}
	if cache.invalidated != 2 {
		t.Errorf("invalidations after delete = %d, want 2", cache.invalidated)
	}

	// A cache miss falls through to the database and refills the cache
	if _, err := svc.ListContinents(); err != nil {
		t.Fatalf("ListContinents: %v", err)
	}
	if cache.gets != 1 || cache.sets != 1 {
		t.Errorf("cache gets=%d sets=%d, want 1/1", cache.gets, cache.sets)
	}
}
