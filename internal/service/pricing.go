package service

import (
	"fmt"
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/config"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/datemath"
	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"
)

// PricingCalculator prices stays from the config rate card and validates
// the inputs a quote depends on: date window, guest composition, cabin
// capacity.
type PricingCalculator struct {
	rates   config.PricingConfig
	booking config.BookingConfig
	cabins  []models.Cabin
}

func NewPricingCalculator(cfg *config.Config) *PricingCalculator {
	return &PricingCalculator{
		rates:   cfg.Pricing,
		booking: cfg.Booking,
		cabins:  cfg.Cabins,
	}
}

// Quote prices a stay in CLP. Babies stay free; children pay a flat rate
// regardless of season.
func (p *PricingCalculator) Quote(season string, nights, adults, children int) int64 {
	if nights <= 0 {
		return 0
	}

	adultRate := p.rates.AdultRateLow
	if season == models.SeasonHigh {
		adultRate = p.rates.AdultRateHigh
	}

	perNight := int64(adults)*adultRate + int64(children)*p.rates.ChildRate
	return int64(nights) * perNight
}

// PriceFor resolves a reservation's total: a staff-entered custom price
// wins outright, otherwise the rate card applies.
func (p *PricingCalculator) PriceFor(r *models.Reservation) int64 {
	if r.UseCustomPrice && r.CustomPrice > 0 {
		return r.CustomPrice
	}
	return p.Quote(r.Season, r.Nights(), r.Adults, r.Children)
}

// ValidateDates rejects stays outside the bookable window.
func (p *PricingCalculator) ValidateDates(checkIn, checkOut, now time.Time) error {
	today := datemath.Today(now)

	if datemath.BeforeDay(checkIn, today) {
		return &ValidationError{Field: "check_in", Message: "cannot be in the past"}
	}
	if !datemath.AfterDay(checkOut, checkIn) {
		return &ValidationError{Field: "check_out", Message: "must be after check-in"}
	}

	if nights := datemath.NightsBetween(checkIn, checkOut); nights > p.booking.MaxStayNights {
		return &ValidationError{
			Field:   "check_out",
			Message: fmt.Sprintf("stay of %d nights exceeds the maximum of %d", nights, p.booking.MaxStayNights),
		}
	}

	horizon := datemath.AddDays(today, p.booking.BookingHorizonDays)
	if datemath.AfterDay(checkIn, horizon) {
		return &ValidationError{
			Field:   "check_in",
			Message: fmt.Sprintf("more than %d days ahead", p.booking.BookingHorizonDays),
		}
	}

	return nil
}

// ValidateGuests rejects impossible guest compositions and parties larger
// than the cabin sleeps.
func (p *PricingCalculator) ValidateGuests(r *models.Reservation) error {
	if r.Adults < 1 {
		return &ValidationError{Field: "adults", Message: "at least one adult is required"}
	}
	if r.Children < 0 || r.Babies < 0 {
		return &ValidationError{Field: "children", Message: "guest counts cannot be negative"}
	}
	if r.Season != models.SeasonHigh && r.Season != models.SeasonLow {
		return &ValidationError{
			Field:   "season",
			Message: fmt.Sprintf("must be %q or %q", models.SeasonHigh, models.SeasonLow),
		}
	}

	cabin, ok := p.cabin(r.CabinID)
	if !ok {
		return &ValidationError{Field: "cabin_id", Message: fmt.Sprintf("unknown cabin %q", r.CabinID)}
	}
	if !cabin.IsActive {
		return &ValidationError{Field: "cabin_id", Message: fmt.Sprintf("cabin %s is not accepting bookings", cabin.Name)}
	}

	// Babies do not count against capacity.
	if guests := r.Guests(); guests > cabin.Capacity {
		return &ValidationError{
			Field:   "adults",
			Message: fmt.Sprintf("%s sleeps %d, got %d guests", cabin.Name, cabin.Capacity, guests),
		}
	}

	return nil
}

func (p *PricingCalculator) cabin(id string) (models.Cabin, bool) {
	for _, cabin := range p.cabins {
		if cabin.ID == id {
			return cabin, true
		}
	}
	return models.Cabin{}, false
}
