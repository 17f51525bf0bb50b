package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
)

// AvailabilityService answers whether rooms are free over a date range
type AvailabilityService struct {
	roomTypeRepo    repository.RoomTypeRepository
	reservationRepo repository.ReservationRepository
	rates           RateProvider
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	roomTypeRepo repository.RoomTypeRepository,
	reservationRepo repository.ReservationRepository,
	rates RateProvider,
) *AvailabilityService {
	return &AvailabilityService{
		roomTypeRepo:    roomTypeRepo,
		reservationRepo: reservationRepo,
		rates:           rates,
	}
}

// IsRoomAvailable reports whether no active reservation other than exclude holds
// the room over [checkIn, checkOut). Ranges that touch do not conflict.
func (s *AvailabilityService) IsRoomAvailable(
	ctx context.Context,
	roomTypeID uuid.UUID,
	roomNumber string,
	checkIn, checkOut time.Time,
	exclude *uuid.UUID,
) (bool, error) {
	if !checkOut.After(checkIn) {
		return false, apperror.NewValidationError([]apperror.FieldError{
			{Field: "check_out", Message: "check_out must be after check_in"},
		})
	}

	count, err := s.reservationRepo.CountConflicts(ctx, roomTypeID, roomNumber, checkIn, checkOut, exclude)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// AvailabilityQuery describes a party looking for rooms
type AvailabilityQuery struct {
	CheckIn  time.Time
	CheckOut time.Time
	Adults   int
	Children int
}

// AvailableRoomType lists the free rooms of one room type
type AvailableRoomType struct {
	RoomTypeID  uuid.UUID  `json:"room_type_id"`
	Name        string     `json:"name"`
	MaxAdults   int        `json:"max_adults"`
	MaxChildren int        `json:"max_children"`
	Amenities   []string   `json:"amenities"`
	Rooms       []string   `json:"rooms"`
	Quote       *StayQuote `json:"quote,omitempty"`
}

// ListAvailable walks every room type priced for the party and returns the
// rooms that are in service and free for the whole range, each with a quote.
func (s *AvailabilityService) ListAvailable(ctx context.Context, q AvailabilityQuery) ([]AvailableRoomType, error) {
	nights, err := Nights(q.CheckIn, q.CheckOut)
	if err != nil {
		return nil, err
	}
	if q.Adults < 1 || q.Children < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "adults", Message: "at least one adult is required and children cannot be negative"},
		})
	}

	roomTypes, err := s.roomTypeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	rate := s.rates.Rate()
	result := make([]AvailableRoomType, 0, len(roomTypes))
	for i := range roomTypes {
		rt := &roomTypes[i]
		if q.Children > rt.MaxChildren {
			continue
		}
		// a party can only book a type with a tier for exactly its adults
		if _, ok := rt.TierFor(q.Adults); !ok {
			continue
		}

		free := make([]string, 0, len(rt.Rooms))
		for _, room := range rt.Rooms {
			if room.Status != enum.RoomStatusAvailable {
				continue
			}
			ok, err := s.IsRoomAvailable(ctx, rt.ID, room.RoomNumber, q.CheckIn, q.CheckOut, nil)
			if err != nil {
				return nil, err
			}
			if ok {
				free = append(free, room.RoomNumber)
			}
		}
		if len(free) == 0 {
			continue
		}

		entry := AvailableRoomType{
			RoomTypeID:  rt.ID,
			Name:        rt.Name,
			MaxAdults:   rt.MaxAdults(),
			MaxChildren: rt.MaxChildren,
			Amenities:   rt.Amenities,
			Rooms:       free,
		}
		quote, err := PriceForStay(rt, q.Adults, nights, rate)
		if err != nil {
			return nil, err
		}
		entry.Quote = &quote
		result = append(result, entry)
	}

	return result, nil
}
