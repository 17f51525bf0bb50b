package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
)

// RoomTypeRepository reads the room catalog
type RoomTypeRepository interface {
	// GetByID loads a room type with its pricing tiers and rooms
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RoomType, error)
	List(ctx context.Context) ([]entity.RoomType, error)
	Create(ctx context.Context, roomType *entity.RoomType) error
}
