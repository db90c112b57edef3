package database

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/exposure-hq/briefdesk/internal/models"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	var existing models.Brief
	result := db.Where("title = ?", "Launch teaser for Acme").First(&existing)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	creators := []models.User{
		{Email: "cleo@exposure.com.au", Name: "Cleo"},
		{Email: "chloe@exposure.com.au", Name: "Chloe"},
	}
	for i := range creators {
		if err := db.Where("email = ?", creators[i].Email).FirstOrCreate(&creators[i]).Error; err != nil {
			return err
		}
	}

	pending := models.Brief{
		Title:        "Launch teaser for Acme",
		Client:       "Acme",
		CreatorEmail: "cleo@exposure.com.au",
		DueDate:      time.Now().AddDate(0, 0, 10),
		Status:       models.BriefStatusPending,
		Script:       "Open on the product. Hold for two beats, then cut to talent.",
	}
	if err := pending.SetShots([]string{"Wide establishing shot", "Close-up on product", "Talent reaction"}); err != nil {
		return err
	}
	if err := db.Create(&pending).Error; err != nil {
		return err
	}

	late := models.Brief{
		Title:        "Winter social cutdowns",
		Client:       "Birchwood",
		CreatorEmail: "chloe@exposure.com.au",
		DueDate:      time.Now().AddDate(0, 0, -3),
		Status:       models.BriefStatusInProgress,
	}
	if err := db.Create(&late).Error; err != nil {
		return err
	}

	done := models.Brief{
		Title:        "Retail spot v2",
		Client:       "Acme",
		CreatorEmail: "cleo@exposure.com.au",
		DueDate:      time.Now().AddDate(0, 0, -14),
		Status:       models.BriefStatusSubmitted,
		MarkURL:      "https://vimeo.com/100000001",
	}
	if err := db.Create(&done).Error; err != nil {
		return err
	}

	profile := models.Profile{
		ID:          "dev-creator-cleo",
		Email:       "cleo@exposure.com.au",
		BankName:    "Commonwealth Bank",
		AccountName: "Cleo",
		BSB:         "062-000",
	}
	if err := db.Where("email = ?", profile.Email).FirstOrCreate(&profile).Error; err != nil {
		return err
	}

	log.Println("Seeded dev data: 2 users, 3 briefs, 1 profile")
	return nil
}
