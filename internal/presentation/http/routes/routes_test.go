package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/config"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/database"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/handler"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/hotel-billing-api/pkg/broker"
	"github.com/sangkips/hotel-billing-api/pkg/fxrate"
	"github.com/sangkips/hotel-billing-api/pkg/keylock"
	"github.com/sangkips/hotel-billing-api/pkg/printer"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type staticSource struct{ rate decimal.Decimal }

func (s staticSource) FetchRate(context.Context) (decimal.Decimal, error) { return s.rate, nil }

type apiEnv struct {
	router *gin.Engine
	token  string
	deluxe *entity.RoomType
}

func newAPIEnv(t *testing.T, rateLimit int) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{App: config.AppConfig{Name: "hotel-billing-api"}}
	jwtManager := utils.NewJWTManager("test-secret", cfg.App.Name, time.Hour)
	ids, err := utils.NewIDGenerator(1)
	if err != nil {
		t.Fatalf("id generator: %v", err)
	}
	rates := fxrate.NewCache(staticSource{rate: decimal.NewFromInt(133)}, decimal.NewFromInt(133), time.Hour, 1)
	p, _ := printer.New(printer.Options{Type: "none"})

	tx := repository.NewTransactor(db, repository.TxOptions{Timeout: 5 * time.Second, MaxRetries: 1})
	userRepo := repository.NewUserRepository(db)
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)

	availability := service.NewAvailabilityService(roomTypeRepo, reservationRepo, rates)
	invoices := service.NewInvoiceService(tx, invoiceRepo, broker.Null{}, "INV")
	bookings := service.NewBookingService(tx, roomTypeRepo, reservationRepo, availability, invoices, rates, keylock.New(), 5*time.Second, ids, broker.Null{})
	orders := service.NewOrderService(tx, repository.NewOrderRepository(db), menuRepo, reservationRepo, userRepo, invoices, rates, ids, broker.Null{})
	printing := service.NewPrinterService(p, invoiceRepo, service.ReceiptHeader{HotelName: "Test"}, service.ReceiptOptions{PaperWidth: 48})

	var limiter *middleware.ClientRateLimiter
	if rateLimit > 0 {
		limiter = middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: 0.001,
			BurstSize:         rateLimit,
			CleanupInterval:   time.Minute,
			EntryTTL:          time.Minute,
		})
		t.Cleanup(limiter.Close)
	}

	router := Setup(&Handlers{
		Auth:    handler.NewAuthHandler(service.NewAuthService(userRepo, jwtManager, time.Hour)),
		Booking: handler.NewBookingHandler(bookings, availability),
		Invoice: handler.NewInvoiceHandler(invoices, printing),
		Pos:     handler.NewPosHandler(orders),
		FX:      handler.NewFXHandler(rates),
	}, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		RateLimiter:     limiter,
	})

	deluxe := &entity.RoomType{
		Name: "Deluxe",
		Pricing: []entity.RoomPricing{
			{Occupancy: 2, PricePerNight: decimal.NewFromInt(100)},
		},
		Rooms: []entity.RoomInstance{{RoomNumber: "D1", Status: enum.RoomStatusAvailable}},
	}
	if err := roomTypeRepo.Create(context.Background(), deluxe); err != nil {
		t.Fatalf("room type: %v", err)
	}

	token, err := jwtManager.GenerateAccessToken(uuid.New(), "staff@example.com", []string{enum.RoleStaff})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return &apiEnv{router: router, token: token, deluxe: deluxe}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

func (e *apiEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
	return w, env
}

func (e *apiEnv) bookingBody(checkIn, checkOut string) gin.H {
	return gin.H{
		"guest_name": "Asha",
		"check_in":   checkIn,
		"check_out":  checkOut,
		"rooms": []gin.H{
			{"room_type_id": e.deluxe.ID, "room_number": "D1", "adults": 2},
		},
	}
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t, 0)

	w, _ := env.do(t, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestBookingRoutes_CreateAndConflict(t *testing.T) {
	env := newAPIEnv(t, 0)

	w, resp := env.do(t, http.MethodPost, "/api/booking", env.bookingBody("2025-06-01", "2025-06-03"), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		TotalPrice decimal.Decimal `json:"total_price"`
		Status     string          `json:"status"`
	}
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("decode reservation: %v", err)
	}
	if !created.TotalPrice.Equal(decimal.NewFromInt(200)) || created.Status != "pending" {
		t.Errorf("created = %s %s, want 200 pending", created.TotalPrice, created.Status)
	}

	w, resp = env.do(t, http.MethodPost, "/api/booking", env.bookingBody("2025-06-02", "2025-06-04"), nil)
	if w.Code != http.StatusBadRequest || resp.Kind != "conflict" {
		t.Errorf("overlap = %d %q, want 400 conflict", w.Code, resp.Kind)
	}

	w, _ = env.do(t, http.MethodPost, "/api/booking", env.bookingBody("2025-06-03", "2025-06-05"), nil)
	if w.Code != http.StatusCreated {
		t.Errorf("touching stay = %d, want 201", w.Code)
	}
}

func TestBookingRoutes_ListPaginates(t *testing.T) {
	env := newAPIEnv(t, 0)
	for _, stay := range [][2]string{{"2025-08-01", "2025-08-02"}, {"2025-08-02", "2025-08-03"}, {"2025-08-05", "2025-08-06"}} {
		if w, _ := env.do(t, http.MethodPost, "/api/booking", env.bookingBody(stay[0], stay[1]), nil); w.Code != http.StatusCreated {
			t.Fatalf("create %v = %d", stay, w.Code)
		}
	}

	auth := map[string]string{"Authorization": "Bearer " + env.token}
	w, resp := env.do(t, http.MethodGet, "/api/booking?page=2&per_page=2&status=pending", nil, auth)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d, body %s", w.Code, w.Body.String())
	}
	var page struct {
		Items      []json.RawMessage `json:"items"`
		Pagination struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
			HasPrev    bool  `json:"has_prev"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(resp.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Items) != 1 || page.Pagination.Total != 3 || page.Pagination.TotalPages != 2 || !page.Pagination.HasPrev {
		t.Errorf("page = %d items, %+v", len(page.Items), page.Pagination)
	}

	w, _ = env.do(t, http.MethodGet, "/api/booking?status=lost", nil, auth)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status = %d, want 400", w.Code)
	}
}

func TestBookingRoutes_Validation(t *testing.T) {
	env := newAPIEnv(t, 0)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		code   int
	}{
		{"inverted range", http.MethodPost, "/api/booking", env.bookingBody("2025-06-03", "2025-06-01"), http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/booking", env.bookingBody("June 1st", "2025-06-03"), http.StatusBadRequest},
		{"availability missing dates", http.MethodGet, "/api/booking/available", nil, http.StatusBadRequest},
		{"availability zero nights", http.MethodGet, "/api/booking/available?check_in=2025-06-01&check_out=2025-06-01", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := env.do(t, tt.method, tt.path, tt.body, nil)
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.code, w.Body.String())
			}
		})
	}
}

func TestAvailableRoute(t *testing.T) {
	env := newAPIEnv(t, 0)

	w, resp := env.do(t, http.MethodGet, "/api/booking/available?check_in=2025-06-01&check_out=2025-06-03&adults=2", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var rooms []service.AvailableRoomType
	if err := json.Unmarshal(resp.Data, &rooms); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rooms) != 1 || len(rooms[0].Rooms) != 1 || rooms[0].Rooms[0] != "D1" {
		t.Errorf("rooms = %+v, want Deluxe D1", rooms)
	}
}

func TestStaffRoutes_RequireToken(t *testing.T) {
	env := newAPIEnv(t, 0)

	w, _ := env.do(t, http.MethodGet, "/api/invoice", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	memberToken, _ := utils.NewJWTManager("test-secret", "hotel-billing-api", time.Hour).
		GenerateAccessToken(uuid.New(), "guest@example.com", []string{enum.RoleMember})
	w, _ = env.do(t, http.MethodGet, "/api/invoice", nil, map[string]string{"Authorization": "Bearer " + memberToken})
	if w.Code != http.StatusForbidden {
		t.Errorf("member token = %d, want 403", w.Code)
	}

	w, _ = env.do(t, http.MethodGet, "/api/invoice", nil, map[string]string{"Authorization": "Bearer " + env.token})
	if w.Code != http.StatusOK {
		t.Errorf("staff token = %d, want 200", w.Code)
	}
}

func TestInvoiceRoutes_UnknownInvoice(t *testing.T) {
	env := newAPIEnv(t, 0)
	auth := map[string]string{"Authorization": "Bearer " + env.token}

	w, resp := env.do(t, http.MethodPost, "/api/invoice/apply-vat", gin.H{"invoice_id": uuid.New(), "vat_rate": 13}, auth)
	if w.Code != http.StatusNotFound || resp.Kind != "not_found" {
		t.Errorf("apply-vat = %d %q, want 404 not_found", w.Code, resp.Kind)
	}

	w, _ = env.do(t, http.MethodPost, "/api/invoice/finalize-invoice/not-a-uuid", nil, auth)
	if w.Code != http.StatusBadRequest {
		t.Errorf("finalize bad id = %d, want 400", w.Code)
	}
}

func TestPosRoutes_EmptyCart(t *testing.T) {
	env := newAPIEnv(t, 0)
	auth := map[string]string{"Authorization": "Bearer " + env.token}

	w, resp := env.do(t, http.MethodPost, "/api/pos/create-pos-walkin", gin.H{"payment_type": "instant", "items": []gin.H{}}, auth)
	if w.Code != http.StatusBadRequest || resp.Message != "Cart is empty" {
		t.Errorf("empty cart = %d %q", w.Code, resp.Message)
	}
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	env := newAPIEnv(t, 0)
	headers := map[string]string{middleware.IdempotencyKeyHeader: "booking-1"}

	first, _ := env.do(t, http.MethodPost, "/api/booking", env.bookingBody("2025-07-01", "2025-07-02"), headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("first = %d, body %s", first.Code, first.Body.String())
	}

	second, _ := env.do(t, http.MethodPost, "/api/booking", env.bookingBody("2025-07-01", "2025-07-02"), headers)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay = %d, want 201 (body %s)", second.Code, second.Body.String())
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Error("replay header missing")
	}
	if second.Body.String() != first.Body.String() {
		t.Error("replayed body differs from the original")
	}
}

func TestRateLimiter_RejectsBurst(t *testing.T) {
	env := newAPIEnv(t, 2)

	for i := 0; i < 2; i++ {
		if w, _ := env.do(t, http.MethodGet, "/api/fx-rate", nil, nil); w.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, w.Code)
		}
	}
	w, _ := env.do(t, http.MethodGet, "/api/fx-rate", nil, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", w.Code)
	}
}
