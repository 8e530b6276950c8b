package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTimezone is used when a caller supplies no timezone for
// calendar-day queries. Field crews submit in local site time.
const DefaultTimezone = "Asia/Shanghai"

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func NewInt(n int) *int {
	return &n
}

func NewDecimal(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// ValidateQuantity checks that a stock quantity is positive and carries at
// most two fractional digits. Stored columns are decimal(10,2); anything
// finer would be silently rounded by the database.
func ValidateQuantity(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return fmt.Errorf("quantity must be greater than zero, got %s", qty.String())
	}
	if !qty.Equal(qty.Round(2)) {
		return fmt.Errorf("quantity %s has more than two decimal places", qty.String())
	}
	return nil
}

// ValidateNonNegative is ValidateQuantity for values where zero is allowed
// (initial stock, warning thresholds).
func ValidateNonNegative(qty decimal.Decimal) error {
	if qty.IsNegative() {
		return fmt.Errorf("value must not be negative, got %s", qty.String())
	}
	if !qty.Equal(qty.Round(2)) {
		return fmt.Errorf("value %s has more than two decimal places", qty.String())
	}
	return nil
}

// DayRange returns the [start, end) bounds of the calendar day containing t
// in the given timezone (DefaultTimezone when empty).
func DayRange(t time.Time, timezone string) (time.Time, time.Time, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid timezone: " + timezone)
	}
	local := t.In(location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
	return start, start.AddDate(0, 0, 1), nil
}
