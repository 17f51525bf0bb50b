package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// ReservationRepository defines the interface for reservation data operations
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	// GetForUpdate loads the reservation and locks its row for the current transaction
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	Update(ctx context.Context, reservation *entity.Reservation) error
	ReplaceRooms(ctx context.Context, reservationID uuid.UUID, rooms []entity.RoomAssignment) error
	List(ctx context.Context, params *ReservationFilterParams) ([]entity.Reservation, int64, error)

	// CountConflicts counts active reservations holding the room over an overlapping range
	CountConflicts(ctx context.Context, roomTypeID uuid.UUID, roomNumber string, checkIn, checkOut time.Time, exclude *uuid.UUID) (int64, error)
	// HoldNights writes one occupancy marker per room and night
	HoldNights(ctx context.Context, nights []entity.RoomNight) error
	ReleaseNights(ctx context.Context, reservationID uuid.UUID) error

	AddCharge(ctx context.Context, charge *entity.ReservationCharge) error
	AddPayment(ctx context.Context, payment *entity.ReservationPayment) error
}

// ReservationFilterParams contains filtering parameters for reservation queries
type ReservationFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.ReservationStatus
	From       *time.Time
	To         *time.Time
}
