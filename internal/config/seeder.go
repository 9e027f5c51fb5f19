package config

import (
	"fmt"
	"log"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("Running database seeders...")

	if err := s.seedSuperadmin(); err != nil {
		return err
	}
	if err := s.seedDocumentTypes(); err != nil {
		return err
	}
	if err := s.seedCounters(); err != nil {
		return err
	}

	log.Println("Database seeding completed")
	return nil
}

// seedSuperadmin seeds the bootstrap superadmin account.
// Change the password immediately on a fresh install.
func (s *Seeder) seedSuperadmin() error {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(getEnv("SEED_ADMIN_PASSWORD", "changeme1234"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "superadmin",
		Email:    getEnv("SEED_ADMIN_EMAIL", "admin@citidesk.local"),
		Password: hashed,
		Role:     "SUPERADMIN",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Superadmin user created: %s", admin.Username)
	return nil
}

// seedDocumentTypes seeds the default document type catalog.
// Prices are stored in centavos.
func (s *Seeder) seedDocumentTypes() error {
	var count int64
	if err := s.db.Model(&models.DocumentType{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	types := []models.DocumentType{
		{Code: "CLR", Name: "Certificate of Clearance", Description: "General clearance certificate", UnitPrice: 5000, RequiresPurpose: true, IsActive: true},
		{Code: "RES", Name: "Certificate of Residency", Description: "Proof of residency", UnitPrice: 3000, RequiresPurpose: false, IsActive: true},
		{Code: "IND", Name: "Certificate of Indigency", Description: "Indigency certificate for fee waivers", UnitPrice: 0, RequiresPurpose: true, IsActive: true},
		{Code: "BUS", Name: "Business Permit Endorsement", Description: "Endorsement for business permit application", UnitPrice: 10000, RequiresPurpose: true, IsActive: true},
		{Code: "GMC", Name: "Good Moral Certificate", Description: "Certificate of good moral character", UnitPrice: 5000, RequiresPurpose: true, IsActive: true},
	}

	if err := s.db.Create(&types).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d document types", len(types))
	return nil
}

// seedCounters seeds the physical service counters
func (s *Seeder) seedCounters() error {
	var count int64
	if err := s.db.Model(&models.ServiceCounter{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	counters := make([]models.ServiceCounter, 0, 3)
	for i := 1; i <= 3; i++ {
		counters = append(counters, models.ServiceCounter{
			CounterNumber: i,
			CounterName:   fmt.Sprintf("Counter %d", i),
			Status:        models.CounterClosed,
			IsActive:      true,
		})
	}

	if err := s.db.Create(&counters).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d service counters", len(counters))
	return nil
}
