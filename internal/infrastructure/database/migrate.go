package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/sangkips/hotel-billing-api/internal/config"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceSequenceName is the counter used for every invoice number.
const InvoiceSequenceName = "invoice"

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},

		// Catalog
		&entity.RoomType{},
		&entity.RoomPricing{},
		&entity.RoomInstance{},
		&entity.MenuItem{},

		// Stays
		&entity.Reservation{},
		&entity.RoomAssignment{},
		&entity.RoomNight{},
		&entity.ReservationCharge{},
		&entity.ReservationPayment{},

		// Billing
		&entity.Invoice{},
		&entity.InvoiceLineItem{},
		&entity.InvoiceDiscount{},
		&entity.InvoiceSnapshot{},
		&entity.InvoiceSequence{},
		&entity.Order{},
		&entity.OrderItem{},

		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	seq := entity.InvoiceSequence{Name: InvoiceSequenceName}
	if err := db.Where("name = ?", seq.Name).FirstOrCreate(&seq).Error; err != nil {
		return fmt.Errorf("failed to create invoice sequence: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the configured admin account and, when enabled, a demo catalog.
func SeedDefaultData(db *gorm.DB, cfg *config.SeedConfig) error {
	log.Println("Seeding default data...")

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		var existing entity.User
		err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
		switch {
		case err == nil:
			log.Printf("Admin user already exists: %s", cfg.AdminEmail)
		case errors.Is(err, gorm.ErrRecordNotFound):
			hashed, err := utils.HashPassword(cfg.AdminPassword)
			if err != nil {
				return fmt.Errorf("failed to hash admin password: %w", err)
			}
			name := cfg.AdminName
			if name == "" {
				name = "Administrator"
			}
			admin := entity.User{Name: name, Email: cfg.AdminEmail, Password: hashed, Role: enum.RoleAdmin}
			if err := db.Create(&admin).Error; err != nil {
				log.Printf("Warning: failed to create admin user: %v", err)
			} else {
				log.Printf("Admin user created: %s", cfg.AdminEmail)
			}
		default:
			return err
		}
	}

	if cfg.DemoCatalog {
		if err := seedDemoCatalog(db); err != nil {
			return err
		}
	}

	log.Println("Default data seeding completed")
	return nil
}

func seedDemoCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.RoomType{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	roomTypes := []entity.RoomType{
		{
			Name:        "Deluxe",
			Description: "Mountain view, king bed",
			MaxChildren: 2,
			Amenities:   []string{"wifi", "breakfast", "balcony"},
			Pricing: []entity.RoomPricing{
				{Occupancy: 1, PricePerNight: decimal.NewFromInt(80)},
				{Occupancy: 2, PricePerNight: decimal.NewFromInt(100)},
			},
			Rooms: []entity.RoomInstance{
				{RoomNumber: "D1", Status: enum.RoomStatusAvailable},
				{RoomNumber: "D2", Status: enum.RoomStatusAvailable},
				{RoomNumber: "D3", Status: enum.RoomStatusNotAvailable},
			},
		},
		{
			Name:        "Family Suite",
			Description: "Two bedrooms, kitchenette",
			MaxChildren: 3,
			Amenities:   []string{"wifi", "breakfast", "kitchenette"},
			Pricing: []entity.RoomPricing{
				{Occupancy: 2, PricePerNight: decimal.NewFromInt(150)},
				{Occupancy: 3, PricePerNight: decimal.NewFromInt(180)},
				{Occupancy: 4, PricePerNight: decimal.NewFromInt(210)},
			},
			Rooms: []entity.RoomInstance{
				{RoomNumber: "F1", Status: enum.RoomStatusAvailable},
			},
		},
	}
	if err := db.Create(&roomTypes).Error; err != nil {
		return fmt.Errorf("failed to seed room types: %w", err)
	}

	menu := []entity.MenuItem{
		{Name: "Club Sandwich", Category: "food", Price: decimal.NewFromInt(450), Available: true},
		{Name: "Dal Bhat Set", Category: "food", Price: decimal.NewFromInt(550), Available: true},
		{Name: "Masala Tea", Category: "drinks", Price: decimal.NewFromInt(120), Available: true},
		{Name: "Laundry Bag", Category: "services", Price: decimal.NewFromInt(800), Available: true},
	}
	if err := db.Create(&menu).Error; err != nil {
		return fmt.Errorf("failed to seed menu items: %w", err)
	}

	log.Printf("Demo catalog seeded: %d room types, %d menu items", len(roomTypes), len(menu))
	return nil
}
