package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-billing-api/pkg/broker"
	"github.com/sangkips/hotel-billing-api/pkg/keylock"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixedRate struct{ rate decimal.Decimal }

func (f fixedRate) Rate() decimal.Decimal { return f.rate }

var testRate = decimal.NewFromInt(133)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db           *gorm.DB
	availability *AvailabilityService
	bookings     *BookingService
	invoices     *InvoiceService
	orders       *OrderService
	deluxe       *entity.RoomType
	tea          *entity.MenuItem
	sandwich     *entity.MenuItem
	staffID      uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	tx := infraRepo.NewTransactor(db, infraRepo.TxOptions{Timeout: 5 * time.Second, MaxRetries: 2, Backoff: time.Millisecond})
	roomTypes := infraRepo.NewRoomTypeRepository(db)
	reservations := infraRepo.NewReservationRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	users := infraRepo.NewUserRepository(db)
	menu := infraRepo.NewMenuItemRepository(db)

	ids, err := utils.NewIDGenerator(1)
	if err != nil {
		t.Fatalf("id generator: %v", err)
	}
	rates := fixedRate{rate: testRate}

	availability := NewAvailabilityService(roomTypes, reservations, rates)
	invoices := NewInvoiceService(tx, invoiceRepo, broker.Null{}, "INV")
	env := &testEnv{
		db:           db,
		availability: availability,
		invoices:     invoices,
		bookings:     NewBookingService(tx, roomTypes, reservations, availability, invoices, rates, keylock.New(), 5*time.Second, ids, broker.Null{}),
		orders:       NewOrderService(tx, infraRepo.NewOrderRepository(db), menu, reservations, users, invoices, rates, ids, broker.Null{}),
		staffID:      uuid.New(),
	}

	env.deluxe = &entity.RoomType{
		Name:        "Deluxe",
		MaxChildren: 1,
		Pricing: []entity.RoomPricing{
			{Occupancy: 1, PricePerNight: decimal.NewFromInt(80)},
			{Occupancy: 2, PricePerNight: decimal.NewFromInt(100)},
		},
		Rooms: []entity.RoomInstance{
			{RoomNumber: "D1", Status: enum.RoomStatusAvailable},
			{RoomNumber: "D2", Status: enum.RoomStatusAvailable},
			{RoomNumber: "D3", Status: enum.RoomStatusNotAvailable},
		},
	}
	if err := roomTypes.Create(context.Background(), env.deluxe); err != nil {
		t.Fatalf("room type: %v", err)
	}

	env.tea = &entity.MenuItem{Name: "Masala tea", Category: "Drinks", Price: decimal.NewFromInt(150), Available: true}
	env.sandwich = &entity.MenuItem{Name: "Club sandwich", Category: "Food", Price: decimal.NewFromInt(650), Available: true}
	for _, item := range []*entity.MenuItem{env.tea, env.sandwich} {
		if err := menu.Create(context.Background(), item); err != nil {
			t.Fatalf("menu item: %v", err)
		}
	}
	return env
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func (e *testEnv) book(t *testing.T, room, checkIn, checkOut string, adults int) (*entity.Reservation, error) {
	t.Helper()
	return e.bookings.Create(context.Background(), &CreateBookingInput{
		GuestName: "Guest " + room,
		CheckIn:   date(t, checkIn),
		CheckOut:  date(t, checkOut),
		Rooms:     []RoomRequest{{RoomTypeID: e.deluxe.ID, RoomNumber: room, Adults: adults}},
	})
}

func (e *testEnv) mustBook(t *testing.T, room, checkIn, checkOut string) *entity.Reservation {
	t.Helper()
	r, err := e.book(t, room, checkIn, checkOut, 2)
	if err != nil {
		t.Fatalf("book %s %s-%s: %v", room, checkIn, checkOut, err)
	}
	return r
}

func (e *testEnv) setStatus(t *testing.T, id uuid.UUID, status enum.ReservationStatus) (*entity.Reservation, error) {
	t.Helper()
	return e.bookings.Update(context.Background(), id, &UpdateBookingInput{Status: &status})
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
