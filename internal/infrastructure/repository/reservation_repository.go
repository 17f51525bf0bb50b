package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *gorm.DB) domainRepo.ReservationRepository {
	return &reservationRepository{db: db}
}

func withLedgers(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("room_number ASC") }).
		Preload("Charges", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	return dbFrom(ctx, r.db).Create(reservation).Error
}

func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	var reservation entity.Reservation
	err := withLedgers(dbFrom(ctx, r.db)).First(&reservation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &reservation, err
}

func (r *reservationRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	var reservation entity.Reservation
	err := withLedgers(dbFrom(ctx, r.db)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&reservation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &reservation, err
}

func (r *reservationRepository) Update(ctx context.Context, reservation *entity.Reservation) error {
	return dbFrom(ctx, r.db).Omit(clause.Associations).Save(reservation).Error
}

func (r *reservationRepository) ReplaceRooms(ctx context.Context, reservationID uuid.UUID, rooms []entity.RoomAssignment) error {
	db := dbFrom(ctx, r.db)
	if err := db.Where("reservation_id = ?", reservationID).Delete(&entity.RoomAssignment{}).Error; err != nil {
		return err
	}
	if len(rooms) == 0 {
		return nil
	}
	for i := range rooms {
		rooms[i].ReservationID = reservationID
	}
	return db.Create(&rooms).Error
}

func (r *reservationRepository) List(ctx context.Context, params *domainRepo.ReservationFilterParams) ([]entity.Reservation, int64, error) {
	var reservations []entity.Reservation
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Reservation{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	// stays overlapping [From, To)
	if params.From != nil {
		query = query.Where("check_out > ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("check_in < ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Pagination
	if page == nil {
		page = pagination.DefaultPagination()
	}
	page.Validate()
	err := query.Offset(page.Offset()).Limit(page.PerPage).
		Preload("Rooms").
		Order("check_in ASC, created_at ASC").
		Find(&reservations).Error

	return reservations, total, err
}

func (r *reservationRepository) CountConflicts(ctx context.Context, roomTypeID uuid.UUID, roomNumber string, checkIn, checkOut time.Time, exclude *uuid.UUID) (int64, error) {
	var count int64
	query := dbFrom(ctx, r.db).Model(&entity.RoomAssignment{}).
		Joins("JOIN reservations ON reservations.id = room_assignments.reservation_id").
		Where("room_assignments.room_type_id = ? AND room_assignments.room_number = ?", roomTypeID, roomNumber).
		Where("reservations.status IN ?", enum.ActiveReservationStatuses).
		Where("reservations.check_in < ? AND reservations.check_out > ?", checkOut, checkIn)

	if exclude != nil {
		query = query.Where("reservations.id <> ?", *exclude)
	}

	err := query.Count(&count).Error
	return count, err
}

func (r *reservationRepository) HoldNights(ctx context.Context, nights []entity.RoomNight) error {
	if len(nights) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Create(&nights).Error
}

func (r *reservationRepository) ReleaseNights(ctx context.Context, reservationID uuid.UUID) error {
	return dbFrom(ctx, r.db).Where("reservation_id = ?", reservationID).Delete(&entity.RoomNight{}).Error
}

func (r *reservationRepository) AddCharge(ctx context.Context, charge *entity.ReservationCharge) error {
	return dbFrom(ctx, r.db).Create(charge).Error
}

func (r *reservationRepository) AddPayment(ctx context.Context, payment *entity.ReservationPayment) error {
	return dbFrom(ctx, r.db).Create(payment).Error
}
