package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type roomTypeRepository struct {
	db *gorm.DB
}

// NewRoomTypeRepository creates a new room type repository
func NewRoomTypeRepository(db *gorm.DB) domainRepo.RoomTypeRepository {
	return &roomTypeRepository{db: db}
}

func withCatalog(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Pricing", func(db *gorm.DB) *gorm.DB { return db.Order("occupancy ASC") }).
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("room_number ASC") })
}

func (r *roomTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RoomType, error) {
	var roomType entity.RoomType
	err := withCatalog(dbFrom(ctx, r.db)).First(&roomType, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &roomType, err
}

func (r *roomTypeRepository) List(ctx context.Context) ([]entity.RoomType, error) {
	var roomTypes []entity.RoomType
	err := withCatalog(dbFrom(ctx, r.db)).Order("name ASC").Find(&roomTypes).Error
	return roomTypes, err
}

func (r *roomTypeRepository) Create(ctx context.Context, roomType *entity.RoomType) error {
	return dbFrom(ctx, r.db).Create(roomType).Error
}
