package database

import (
	"log"

	"gbr-backend/shared/config"
	"gbr-backend/shared/database/models"
	utils "gbr-backend/shared/utils/auth"
)

// SeedDatabase seeds the database with initial taxonomy data
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	created, err := seedTaxonomy()
	if err != nil {
		return err
	}

	if created > 0 {
		log.Printf("✅ Database seeding completed (%d taxonomy records created)", created)
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	// Create super admin from config
	return CreateSuperAdminFromConfig()
}

// seedTaxonomy creates a small starter tree so the directory is browsable
// out of the box. Existing continents are never touched.
func seedTaxonomy() (int, error) {
	tree := map[string]map[string][]string{
		"Europe": {
			"United Kingdom": {"Finance", "Manufacturing"},
			"Germany":        {"Automotive"},
		},
		"Asia": {
			"Japan": {"Electronics"},
		},
		"North America": {
			"United States": {"Technology", "Healthcare"},
		},
	}

	created := 0
	for continentName, countries := range tree {
		var continent models.Continent
		err := DB.Where("name = ?", continentName).First(&continent).Error
		if err == nil {
			continue
		}

		continent = models.Continent{Name: continentName}
		if err := DB.Create(&continent).Error; err != nil {
			return created, err
		}
		created++

		for countryName, industries := range countries {
			country := models.Country{Name: countryName, ContinentID: continent.ID}
			if err := DB.Create(&country).Error; err != nil {
				return created, err
			}
			created++

			for _, industryName := range industries {
				industry := models.Industry{Name: industryName, CountryID: country.ID}
				if err := DB.Create(&industry).Error; err != nil {
					return created, err
				}
				created++
			}
		}
	}

	return created, nil
}

// CreateSuperAdminFromConfig creates the staff member defined in config
func CreateSuperAdminFromConfig() error {
	cfg := config.GetConfig()
	return CreateSuperAdmin(cfg.SuperAdminUsername, cfg.SuperAdminEmail, cfg.SuperAdminPassword)
}

// CreateSuperAdmin creates a staff member that can access the analytics report
func CreateSuperAdmin(username, email, password string) error {
	var existing models.Member
	if err := DB.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
		log.Printf("✅ Super admin already exists: %s", email)
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.Member{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Category: "staff",
		IsActive: true,
		IsStaff:  true,
	}

	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Super admin created: %s", email)
	return nil
}
