package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// PosHandler handles point-of-sale orders
type PosHandler struct {
	orderService *service.OrderService
}

// NewPosHandler creates a new POS handler
func NewPosHandler(orderService *service.OrderService) *PosHandler {
	return &PosHandler{orderService: orderService}
}

// CreateForBooking posts a room-service order against a stay
// @Summary Post room-service order
// @Tags pos
// @Accept json
// @Produce json
// @Param request body request.CreatePosRequest true "Order"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /pos/create-pos [post]
func (h *PosHandler) CreateForBooking(c *gin.Context) {
	h.create(c, enum.CustomerTypeBooking)
}

// CreateWalkIn posts an instantly paid walk-in order
func (h *PosHandler) CreateWalkIn(c *gin.Context) {
	h.create(c, enum.CustomerTypeWalkIn)
}

// CreateForMember posts an instantly paid order for a registered member
func (h *PosHandler) CreateForMember(c *gin.Context) {
	h.create(c, enum.CustomerTypeMember)
}

func (h *PosHandler) create(c *gin.Context, source enum.CustomerType) {
	var req request.CreatePosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	input := &service.PostOrderInput{
		Source:      source,
		GuestName:   req.GuestName,
		RoomNumber:  req.RoomNumber,
		PaymentType: req.PaymentType,
		Items:       make([]service.OrderItemInput, 0, len(req.Items)),
	}
	switch source {
	case enum.CustomerTypeBooking:
		input.ReservationID = req.BookingID
	case enum.CustomerTypeMember:
		input.CustomerID = req.UserID
	}
	if staffID := GetUserID(c); staffID != nil {
		input.StaffID = *staffID
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.OrderItemInput{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		})
	}

	order, err := h.orderService.PostOrder(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order posted successfully", order)
}

// Get returns one order with its price snapshot
func (h *PosHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// List returns orders, newest first
func (h *PosHandler) List(c *gin.Context) {
	var req request.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := pageParams(req.Page, req.PerPage)
	orders, total, err := h.orderService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Orders retrieved successfully",
		pagination.NewPaginatedResult[entity.Order](orders, params, total))
}

// Menu lists the POS catalog
func (h *PosHandler) Menu(c *gin.Context) {
	items, err := h.orderService.Menu(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu retrieved successfully", items)
}
