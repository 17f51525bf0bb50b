package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-billing-api/pkg/fxrate"
)

// RateSource exposes the cached exchange rate
type RateSource interface {
	Snapshot() fxrate.Snapshot
}

// FXHandler serves the NPR per USD rate used for conversions
type FXHandler struct {
	rates RateSource
}

// NewFXHandler creates a new FX handler
func NewFXHandler(rates RateSource) *FXHandler {
	return &FXHandler{rates: rates}
}

// Rate returns the current rate, when it was fetched and whether it is the fallback
func (h *FXHandler) Rate(c *gin.Context) {
	response.OK(c, "Exchange rate retrieved successfully", h.rates.Snapshot())
}
