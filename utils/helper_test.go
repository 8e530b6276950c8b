package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateQuantity(t *testing.T) {
	cases := []struct {
		name    string
		qty     decimal.Decimal
		wantErr bool
	}{
		{"positive integer", decimal.NewFromInt(5), false},
		{"two decimal places", decimal.RequireFromString("3.25"), false},
		{"zero", decimal.Zero, true},
		{"negative", decimal.NewFromInt(-1), true},
		{"three decimal places", decimal.RequireFromString("1.005"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQuantity(tc.qty)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateQuantity(%s) err=%v, wantErr=%v", tc.qty.String(), err, tc.wantErr)
			}
		})
	}
}

func TestValidateNonNegativeAllowsZero(t *testing.T) {
	if err := ValidateNonNegative(decimal.Zero); err != nil {
		t.Fatalf("zero should be allowed: %v", err)
	}
	if err := ValidateNonNegative(decimal.NewFromInt(-1)); err == nil {
		t.Fatalf("negative should be rejected")
	}
	if err := ValidateNonNegative(decimal.RequireFromString("0.001")); err == nil {
		t.Fatalf("three decimal places should be rejected")
	}
}

func TestDayRange(t *testing.T) {
	// 2026-03-01 18:30 UTC is already 2026-03-02 02:30 in Shanghai.
	ts := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	start, end, err := DayRange(ts, "Asia/Shanghai")
	if err != nil {
		t.Fatalf("DayRange: %v", err)
	}
	if start.Format("2006-01-02") != "2026-03-02" {
		t.Fatalf("expected start on 2026-03-02 local; got %s", start.Format("2006-01-02"))
	}
	if got := end.Sub(start); got != 24*time.Hour {
		t.Fatalf("expected 24h range; got %s", got)
	}
	if ts.Before(start) || !ts.Before(end) {
		t.Fatalf("timestamp should fall inside its own day range [%s, %s)", start, end)
	}
}

func TestDayRangeDefaultsTimezone(t *testing.T) {
	ts := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	start, _, err := DayRange(ts, "")
	if err != nil {
		t.Fatalf("DayRange with empty timezone: %v", err)
	}
	if start.Location().String() != DefaultTimezone {
		t.Fatalf("expected %s; got %s", DefaultTimezone, start.Location())
	}
}

func TestDayRangeInvalidTimezone(t *testing.T) {
	if _, _, err := DayRange(time.Now(), "Not/AZone"); err == nil {
		t.Fatalf("expected error for invalid timezone")
	}
}
