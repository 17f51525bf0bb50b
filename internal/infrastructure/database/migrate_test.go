package database

import (
	"testing"

	"github.com/sangkips/hotel-billing-api/internal/config"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeedDefaultData_Idempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:seed_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// a second migration keeps the single invoice counter
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate again: %v", err)
	}

	cfg := &config.SeedConfig{
		AdminEmail:    "admin@hotel.test",
		AdminPassword: "change-me",
		DemoCatalog:   true,
	}
	for i := 0; i < 2; i++ {
		if err := SeedDefaultData(db, cfg); err != nil {
			t.Fatalf("seed run %d: %v", i+1, err)
		}
	}

	counts := map[string]struct {
		model interface{}
		want  int64
	}{
		"users":      {&entity.User{}, 1},
		"room types": {&entity.RoomType{}, 2},
		"rooms":      {&entity.RoomInstance{}, 4},
		"menu items": {&entity.MenuItem{}, 4},
		"sequences":  {&entity.InvoiceSequence{}, 1},
	}
	for name, c := range counts {
		var n int64
		if err := db.Model(c.model).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if n != c.want {
			t.Errorf("%s = %d, want %d", name, n, c.want)
		}
	}

	var admin entity.User
	if err := db.Where("email = ?", cfg.AdminEmail).First(&admin).Error; err != nil {
		t.Fatalf("admin: %v", err)
	}
	if admin.Role != enum.RoleAdmin || admin.Name != "Administrator" {
		t.Errorf("admin = %s / %s", admin.Role, admin.Name)
	}
	if admin.Password == cfg.AdminPassword || !utils.CheckPasswordHash(cfg.AdminPassword, admin.Password) {
		t.Error("admin password is not stored as a bcrypt hash")
	}
}
