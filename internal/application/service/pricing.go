package service

import (
	"fmt"
	"time"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// RateProvider supplies the current NPR per USD rate
type RateProvider interface {
	Rate() decimal.Decimal
}

// StayQuote is the price of one room for a whole stay
type StayQuote struct {
	Occupancy     int             `json:"occupancy"`
	Nights        int             `json:"nights"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	Total         decimal.Decimal `json:"total"`
	TotalUSD      decimal.Decimal `json:"total_usd"`
}

// Nights counts the nights between checkIn and checkOut. A partial day is a full night.
func Nights(checkIn, checkOut time.Time) (int, error) {
	span := checkOut.Sub(checkIn)
	if span <= 0 {
		return 0, apperror.NewValidationError([]apperror.FieldError{
			{Field: "check_out", Message: "check_out must be after check_in"},
		})
	}
	n := int(span / day)
	if span%day != 0 {
		n++
	}
	return n, nil
}

// PriceForStay prices a room type for the given party size and stay length.
// Only a tier whose occupancy equals adults applies.
func PriceForStay(roomType *entity.RoomType, adults, nights int, rate decimal.Decimal) (StayQuote, error) {
	tier, ok := roomType.TierFor(adults)
	if !ok {
		return StayQuote{}, apperror.NewBadRequestError(
			fmt.Sprintf("%s has no price for %d adults", roomType.Name, adults))
	}

	total := tier.PricePerNight.Mul(decimal.NewFromInt(int64(nights)))
	return StayQuote{
		Occupancy:     adults,
		Nights:        nights,
		PricePerNight: tier.PricePerNight,
		Total:         total,
		TotalUSD:      Convert(total, rate),
	}, nil
}

// Convert turns an NPR amount into USD, rounded to cents at the point of conversion.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return amount.Div(rate).Round(2)
}
