package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

// BookingHandler handles reservation HTTP requests
type BookingHandler struct {
	bookingService      *service.BookingService
	availabilityService *service.AvailabilityService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *service.BookingService, availabilityService *service.AvailabilityService) *BookingHandler {
	return &BookingHandler{
		bookingService:      bookingService,
		availabilityService: availabilityService,
	}
}

// Create books every requested room, or none of them
// @Summary Create reservation
// @Tags booking
// @Accept json
// @Produce json
// @Param request body request.CreateBookingRequest true "Reservation"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /booking [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req request.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	reservation, err := h.bookingService.Create(c.Request.Context(), &service.CreateBookingInput{
		UserID:     GetUserID(c),
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		CheckIn:    req.CheckIn.Time,
		CheckOut:   req.CheckOut.Time,
		Adults:     req.Adults,
		Children:   req.Children,
		Rooms:      roomRequests(req.Rooms),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Reservation created successfully", reservation)
}

// Available lists free rooms per room type for a party and date range
func (h *BookingHandler) Available(c *gin.Context) {
	var req request.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "check_in and check_out are required")
		return
	}

	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		response.Error(c, dateError("check_in", err))
		return
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		response.Error(c, dateError("check_out", err))
		return
	}

	rooms, err := h.availabilityService.ListAvailable(c.Request.Context(), service.AvailabilityQuery{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Adults:   req.Adults,
		Children: req.Children,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Available rooms retrieved successfully", rooms)
}

// Update changes dates, rooms or status of a reservation
func (h *BookingHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	input := &service.UpdateBookingInput{
		CheckIn:  req.CheckIn.TimePtr(),
		CheckOut: req.CheckOut.TimePtr(),
		Status:   req.Status,
	}
	if req.Rooms != nil {
		input.Rooms = roomRequests(req.Rooms)
	}

	reservation, err := h.bookingService.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reservation updated successfully", reservation)
}

// Get returns one reservation with its rooms and ledgers
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	reservation, err := h.bookingService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reservation retrieved successfully", reservation)
}

// List returns reservations filtered by status and stay window
func (h *BookingHandler) List(c *gin.Context) {
	var req request.BookingFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ReservationFilterParams{Pagination: pageParams(req.Page, req.PerPage)}
	if req.Status != "" {
		status, err := enum.ParseReservationStatus(req.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.Status = &status
	}
	if req.From != "" {
		from, err := utils.ParseDate(req.From)
		if err != nil {
			response.Error(c, dateError("from", err))
			return
		}
		params.From = &from
	}
	if req.To != "" {
		to, err := utils.ParseDate(req.To)
		if err != nil {
			response.Error(c, dateError("to", err))
			return
		}
		params.To = &to
	}

	reservations, total, err := h.bookingService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Reservations retrieved successfully",
		pagination.NewPaginatedResult[entity.Reservation](reservations, params.Pagination, total))
}

func roomRequests(rooms []request.RoomRequest) []service.RoomRequest {
	out := make([]service.RoomRequest, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, service.RoomRequest{
			RoomTypeID: r.RoomTypeID,
			RoomNumber: r.RoomNumber,
			Adults:     r.Adults,
			Children:   r.Children,
		})
	}
	return out
}

func dateError(field string, err error) error {
	return apperror.NewValidationError([]apperror.FieldError{{Field: field, Message: err.Error()}})
}
