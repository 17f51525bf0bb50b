package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/database"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/broker"
	"github.com/sangkips/hotel-billing-api/pkg/keylock"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

// BookingService owns the reservation lifecycle
type BookingService struct {
	tx              repository.Transactor
	roomTypeRepo    repository.RoomTypeRepository
	reservationRepo repository.ReservationRepository
	availability    *AvailabilityService
	invoices        *InvoiceService
	rates           RateProvider
	locks           *keylock.Locker
	lockTimeout     time.Duration
	ids             *utils.IDGenerator
	events          broker.Publisher
}

const defaultLockTimeout = 10 * time.Second

// NewBookingService creates a new booking service. lockTimeout bounds how long
// a request waits for another booking of the same room to finish.
func NewBookingService(
	tx repository.Transactor,
	roomTypeRepo repository.RoomTypeRepository,
	reservationRepo repository.ReservationRepository,
	availability *AvailabilityService,
	invoices *InvoiceService,
	rates RateProvider,
	locks *keylock.Locker,
	lockTimeout time.Duration,
	ids *utils.IDGenerator,
	events broker.Publisher,
) *BookingService {
	return &BookingService{
		tx:              tx,
		roomTypeRepo:    roomTypeRepo,
		reservationRepo: reservationRepo,
		availability:    availability,
		invoices:        invoices,
		rates:           rates,
		locks:           locks,
		lockTimeout:     lockTimeout,
		ids:             ids,
		events:          events,
	}
}

// RoomRequest asks for one physical room
type RoomRequest struct {
	RoomTypeID uuid.UUID
	RoomNumber string
	Adults     int
	Children   int
}

func (r RoomRequest) lockKey() string {
	return r.RoomTypeID.String() + ":" + r.RoomNumber
}

// CreateBookingInput represents a reservation request
type CreateBookingInput struct {
	UserID     *uuid.UUID
	GuestName  string
	GuestEmail string
	GuestPhone string
	CheckIn    time.Time
	CheckOut   time.Time
	Adults     int
	Children   int
	Rooms      []RoomRequest
}

// Create books every requested room or none of them.
func (s *BookingService) Create(ctx context.Context, input *CreateBookingInput) (*entity.Reservation, error) {
	nights, err := Nights(input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}
	if input.UserID == nil && strings.TrimSpace(input.GuestName) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "guest_name", Message: "guest_name is required when booking without an account"},
		})
	}
	rooms, err := normalizeRooms(input.Rooms, input.Adults, input.Children)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockRooms(ctx, roomKeys(rooms))
	if err != nil {
		return nil, err
	}
	defer unlock()

	reservation := &entity.Reservation{
		ReferenceCode: s.ids.Next("BK"),
		UserID:        input.UserID,
		GuestName:     strings.TrimSpace(input.GuestName),
		GuestEmail:    strings.TrimSpace(input.GuestEmail),
		GuestPhone:    strings.TrimSpace(input.GuestPhone),
		CheckIn:       input.CheckIn.UTC(),
		CheckOut:      input.CheckOut.UTC(),
		Status:        enum.ReservationStatusPending,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		assignments, err := s.assignRooms(ctx, rooms, reservation.CheckIn, reservation.CheckOut, nights, nil)
		if err != nil {
			return err
		}

		reservation.Rooms = assignments
		reservation.Adults, reservation.Children = partySize(assignments)
		reservation.RecomputeTotals()

		if err := s.reservationRepo.Create(ctx, reservation); err != nil {
			return err
		}
		return s.holdNights(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, EventReservationCreated, reservation)
	return reservation, nil
}

// UpdateBookingInput changes any of rooms, dates and status. Nil fields are left alone.
type UpdateBookingInput struct {
	CheckIn  *time.Time
	CheckOut *time.Time
	Rooms    []RoomRequest
	Status   *enum.ReservationStatus
}

func (in *UpdateBookingInput) changesStay() bool {
	return in.CheckIn != nil || in.CheckOut != nil || in.Rooms != nil
}

// Update re-validates and re-prices a changed stay from scratch, then applies
// any status transition.
func (s *BookingService) Update(ctx context.Context, id uuid.UUID, input *UpdateBookingInput) (*entity.Reservation, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown reservation status")
	}
	if input.Rooms != nil && len(input.Rooms) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "rooms", Message: "at least one room is required"},
		})
	}
	if input.CheckIn != nil && input.CheckOut != nil {
		if _, err := Nights(*input.CheckIn, *input.CheckOut); err != nil {
			return nil, err
		}
	}

	current, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.NewNotFoundError("Reservation")
	}

	var rooms []RoomRequest
	if input.Rooms != nil {
		if rooms, err = normalizeRooms(input.Rooms, current.Adults, current.Children); err != nil {
			return nil, err
		}
	} else {
		rooms = requestsFrom(current.Rooms)
	}

	var keys []string
	if input.changesStay() {
		keys = append(roomKeys(rooms), roomKeys(requestsFrom(current.Rooms))...)
	}
	unlock, err := s.lockRooms(ctx, keys)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var previous enum.ReservationStatus
	var reservation *entity.Reservation

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.reservationRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return apperror.NewNotFoundError("Reservation")
		}
		previous = r.Status

		if input.changesStay() {
			if input.Rooms == nil {
				rooms = requestsFrom(r.Rooms)
				if !coveredBy(roomKeys(rooms), keys) {
					return apperror.NewConflictError("Reservation changed while it was being updated, please retry")
				}
			}
			if err := s.changeStay(ctx, r, input, rooms); err != nil {
				return err
			}
		}

		if input.Status != nil && *input.Status != r.Status {
			if err := s.transition(ctx, r, *input.Status); err != nil {
				return err
			}
		}

		if err := s.reservationRepo.Update(ctx, r); err != nil {
			return err
		}
		reservation = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if reservation.Status != previous {
		publish(ctx, s.events, EventReservationStatusChanged, map[string]interface{}{
			"reservation_id": reservation.ID,
			"reference_code": reservation.ReferenceCode,
			"from":           previous,
			"to":             reservation.Status,
		})
	}
	if input.changesStay() {
		publish(ctx, s.events, EventReservationUpdated, reservation)
	}
	return reservation, nil
}

// changeStay swaps the rooms and dates of r and re-prices it from scratch.
func (s *BookingService) changeStay(ctx context.Context, r *entity.Reservation, input *UpdateBookingInput, rooms []RoomRequest) error {
	if r.Status != enum.ReservationStatusPending && r.Status != enum.ReservationStatusConfirmed {
		return apperror.NewConflictError(fmt.Sprintf("Cannot change rooms or dates of a %s reservation", r.Status))
	}

	checkIn, checkOut := r.CheckIn, r.CheckOut
	if input.CheckIn != nil {
		checkIn = input.CheckIn.UTC()
	}
	if input.CheckOut != nil {
		checkOut = input.CheckOut.UTC()
	}
	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return err
	}

	assignments, err := s.assignRooms(ctx, rooms, checkIn, checkOut, nights, &r.ID)
	if err != nil {
		return err
	}

	if err := s.reservationRepo.ReleaseNights(ctx, r.ID); err != nil {
		return err
	}
	if err := s.reservationRepo.ReplaceRooms(ctx, r.ID, assignments); err != nil {
		return err
	}

	r.CheckIn, r.CheckOut = checkIn, checkOut
	r.Rooms = assignments
	r.Adults, r.Children = partySize(assignments)
	r.RecomputeTotals()

	return s.holdNights(ctx, r)
}

// transition moves r along the status machine and applies the side effects of
// the new status. Cancelling keeps every posted charge and payment.
func (s *BookingService) transition(ctx context.Context, r *entity.Reservation, next enum.ReservationStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return apperror.NewBadRequestError(fmt.Sprintf("Cannot change reservation status from %s to %s", r.Status, next))
	}

	now := time.Now().UTC()
	switch next {
	case enum.ReservationStatusCheckedIn:
		r.CheckedInAt = &now
		if err := s.openStayInvoice(ctx, r); err != nil {
			return err
		}
	case enum.ReservationStatusCheckedOut:
		r.CheckedOutAt = &now
		if err := s.reservationRepo.ReleaseNights(ctx, r.ID); err != nil {
			return err
		}
	case enum.ReservationStatusCancelled, enum.ReservationStatusNoShow:
		r.CancelledAt = &now
		if err := s.reservationRepo.ReleaseNights(ctx, r.ID); err != nil {
			return err
		}
	}

	r.Status = next
	return nil
}

// openStayInvoice opens the bill of a stay with one line per room.
func (s *BookingService) openStayInvoice(ctx context.Context, r *entity.Reservation) error {
	existing, err := s.invoices.OpenForReservation(ctx, r.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	items := make([]entity.InvoiceLineItem, 0, len(r.Rooms))
	for _, room := range r.Rooms {
		items = append(items, entity.InvoiceLineItem{
			Description:  fmt.Sprintf("%s room %s, %d night(s)", room.RoomTypeName, room.RoomNumber, room.Nights),
			Quantity:     1,
			UnitPrice:    room.TotalPrice,
			UnitPriceUSD: room.TotalPriceUSD,
			Total:        room.TotalPrice,
			TotalUSD:     room.TotalPriceUSD,
		})
	}

	id := r.ID
	return s.invoices.Open(ctx, &entity.Invoice{
		CustomerType:  enum.CustomerTypeBooking,
		ReservationID: &id,
		GuestName:     r.GuestName,
		IsStayBill:    true,
		Items:         items,
	})
}

// assignRooms checks and prices each requested room. Any failure rejects the whole set.
func (s *BookingService) assignRooms(
	ctx context.Context,
	rooms []RoomRequest,
	checkIn, checkOut time.Time,
	nights int,
	exclude *uuid.UUID,
) ([]entity.RoomAssignment, error) {
	rate := s.rates.Rate()
	assignments := make([]entity.RoomAssignment, 0, len(rooms))

	for _, req := range rooms {
		rt, err := s.roomTypeRepo.GetByID(ctx, req.RoomTypeID)
		if err != nil {
			return nil, err
		}
		if rt == nil {
			return nil, apperror.NewNotFoundError("Room type")
		}
		room, ok := rt.Room(req.RoomNumber)
		if !ok {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Room %s", req.RoomNumber))
		}
		if room.Status != enum.RoomStatusAvailable {
			return nil, apperror.NewConflictError(fmt.Sprintf("Room %s is out of service", req.RoomNumber))
		}
		if req.Adults > rt.MaxAdults() || req.Children > rt.MaxChildren {
			return nil, apperror.NewBadRequestError(fmt.Sprintf(
				"Room %s holds at most %d adults and %d children", req.RoomNumber, rt.MaxAdults(), rt.MaxChildren))
		}

		quote, err := PriceForStay(rt, req.Adults, nights, rate)
		if err != nil {
			return nil, err
		}

		free, err := s.availability.IsRoomAvailable(ctx, rt.ID, req.RoomNumber, checkIn, checkOut, exclude)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, apperror.NewConflictError(fmt.Sprintf("Room %s is already booked for the requested dates", req.RoomNumber))
		}

		assignments = append(assignments, entity.RoomAssignment{
			RoomTypeID:    rt.ID,
			RoomNumber:    req.RoomNumber,
			RoomTypeName:  rt.Name,
			Adults:        req.Adults,
			Children:      req.Children,
			Nights:        nights,
			PricePerNight: quote.PricePerNight,
			TotalPrice:    quote.Total,
			TotalPriceUSD: quote.TotalUSD,
		})
	}

	return assignments, nil
}

// holdNights writes the occupancy markers of r. A unique violation means another
// process holds one of the nights.
func (s *BookingService) holdNights(ctx context.Context, r *entity.Reservation) error {
	var nights []entity.RoomNight
	last := utils.StartOfDay(r.CheckOut)
	for _, room := range r.Rooms {
		for night := utils.StartOfDay(r.CheckIn); night.Before(last); night = night.Add(day) {
			nights = append(nights, entity.RoomNight{
				RoomTypeID:    room.RoomTypeID,
				RoomNumber:    room.RoomNumber,
				Night:         night,
				ReservationID: r.ID,
			})
		}
	}

	err := s.reservationRepo.HoldNights(ctx, nights)
	if database.IsDuplicateKey(err) {
		return apperror.ErrRoomUnavailable
	}
	return err
}

func (s *BookingService) lockRooms(ctx context.Context, keys []string) (func(), error) {
	timeout := s.lockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	unlock, err := s.locks.Lock(waitCtx, keys...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, apperror.NewTransactionError("Timed out waiting for the room to become free")
		}
		return nil, err
	}
	return unlock, nil
}

// Get returns a reservation with its rooms and ledgers
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, apperror.NewNotFoundError("Reservation")
	}
	return reservation, nil
}

// List returns a page of reservations
func (s *BookingService) List(ctx context.Context, params *repository.ReservationFilterParams) ([]entity.Reservation, int64, error) {
	return s.reservationRepo.List(ctx, params)
}

// normalizeRooms rejects malformed or repeated rooms. A single room without its
// own party size takes the booking-level counts.
func normalizeRooms(rooms []RoomRequest, adults, children int) ([]RoomRequest, error) {
	if len(rooms) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "rooms", Message: "at least one room is required"},
		})
	}

	var fieldErrors []apperror.FieldError
	seen := make(map[string]bool, len(rooms))
	out := make([]RoomRequest, len(rooms))
	for i, room := range rooms {
		room.RoomNumber = strings.TrimSpace(room.RoomNumber)
		if len(rooms) == 1 && room.Adults == 0 && room.Children == 0 {
			room.Adults, room.Children = adults, children
		}
		field := fmt.Sprintf("rooms[%d]", i)

		switch {
		case room.RoomTypeID == uuid.Nil:
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".room_type_id", Message: "room_type_id is required"})
		case room.RoomNumber == "":
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".room_number", Message: "room_number is required"})
		case room.Adults < 1:
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".adults", Message: "at least one adult is required"})
		case room.Children < 0:
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".children", Message: "children cannot be negative"})
		case seen[room.lockKey()]:
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: "room requested twice"})
		}
		seen[room.lockKey()] = true
		out[i] = room
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}
	return out, nil
}

func requestsFrom(assignments []entity.RoomAssignment) []RoomRequest {
	rooms := make([]RoomRequest, len(assignments))
	for i, a := range assignments {
		rooms[i] = RoomRequest{RoomTypeID: a.RoomTypeID, RoomNumber: a.RoomNumber, Adults: a.Adults, Children: a.Children}
	}
	return rooms
}

func roomKeys(rooms []RoomRequest) []string {
	keys := make([]string, len(rooms))
	for i, room := range rooms {
		keys[i] = room.lockKey()
	}
	return keys
}

func coveredBy(keys, held []string) bool {
	set := make(map[string]bool, len(held))
	for _, k := range held {
		set[k] = true
	}
	for _, k := range keys {
		if !set[k] {
			return false
		}
	}
	return true
}

func partySize(assignments []entity.RoomAssignment) (adults, children int) {
	for _, a := range assignments {
		adults += a.Adults
		children += a.Children
	}
	return adults, children
}
