package services

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/petnic-studio-api/logging"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedConfig names the bootstrap administrator
type SeedConfig struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

var sampleProducts = []models.Product{
	{
		Name:          "Custom Pet T-Shirt",
		Description:   "High-quality cotton t-shirt with your pet's custom portrait",
		Price:         decimal.RequireFromString("29.99"),
		Category:      "apparel",
		ImageURL:      "/assets/sample-tshirt.jpg",
		StockQuantity: 100,
		IsFeatured:    true,
	},
	{
		Name:          "Pet Portrait Mug",
		Description:   "Ceramic mug featuring your pet's beautiful portrait",
		Price:         decimal.RequireFromString("19.99"),
		Category:      "drinkware",
		ImageURL:      "/assets/sample-mug.jpg",
		StockQuantity: 50,
		IsFeatured:    true,
	},
	{
		Name:          "Canvas Pet Print",
		Description:   "Premium canvas print of your pet in artistic style",
		Price:         decimal.RequireFromString("49.99"),
		Category:      "prints",
		ImageURL:      "/assets/sample-canvas.jpg",
		StockQuantity: 25,
		IsFeatured:    true,
	},
	{
		Name:          "Pet Phone Case",
		Description:   "Protective phone case with your pet's photo",
		Price:         decimal.RequireFromString("24.99"),
		Category:      "accessories",
		ImageURL:      "/assets/sample-phonecase.jpg",
		StockQuantity: 75,
	},
	{
		Name:          "Pet Pillow",
		Description:   "Soft pillow featuring your beloved pet",
		Price:         decimal.RequireFromString("34.99"),
		Category:      "home",
		ImageURL:      "/assets/sample-pillow.jpg",
		StockQuantity: 30,
	},
}

// Seed creates the administrator account and the sample catalog. Both steps
// are skipped when their data already exists, so Seed is safe on every start.
func Seed(ctx context.Context, db *gorm.DB, cfg SeedConfig) error {
	logger := logging.FromContext(ctx)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cfg.AdminPassword == "" {
			logger.Warn("ADMIN_PASSWORD not set, skipping admin user seed")
		} else {
			var count int64
			if err := tx.Model(&models.User{}).Where("username = ?", cfg.AdminUsername).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check admin user: %w", err)
			}
			if count == 0 {
				hash, err := utils.HashPassword(cfg.AdminPassword)
				if err != nil {
					return fmt.Errorf("failed to hash admin password: %w", err)
				}
				admin := models.User{
					Username:     cfg.AdminUsername,
					Email:        cfg.AdminEmail,
					PasswordHash: hash,
					FirstName:    "Admin",
					LastName:     "User",
					IsAdmin:      true,
					IsActive:     true,
				}
				if err := tx.Create(&admin).Error; err != nil {
					return fmt.Errorf("failed to create admin user: %w", err)
				}
				logger.Info("seeded admin user", "username", admin.Username)
			}
		}

		var products int64
		if err := tx.Model(&models.Product{}).Count(&products).Error; err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		if products > 0 {
			return nil
		}

		seed := make([]models.Product, len(sampleProducts))
		for i, p := range sampleProducts {
			p.IsActive = true
			seed[i] = p
		}
		if err := tx.Omit(clause.Associations).Create(&seed).Error; err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
		logger.Info("seeded sample products", "count", len(seed))
		return nil
	})
}
