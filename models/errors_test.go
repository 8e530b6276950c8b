package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestAsBusinessError(t *testing.T) {
	base := InsufficientStockError("have %s, need %s", "3", "5")

	be, ok := AsBusinessError(base)
	if !ok || be.Code != ErrCodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK; got %v ok=%v", be, ok)
	}

	// Wrapped business errors still unwrap.
	wrapped := fmt.Errorf("posting failed: %w", base)
	be, ok = AsBusinessError(wrapped)
	if !ok || be.Code != ErrCodeInsufficientStock {
		t.Fatalf("expected wrapped error to unwrap; got %v ok=%v", be, ok)
	}

	// Plain errors are not business errors.
	if _, ok := AsBusinessError(errors.New("connection reset")); ok {
		t.Fatalf("plain error must not be a business error")
	}
}

func TestMovementKindValid(t *testing.T) {
	for _, k := range []MovementKind{MovementKindTransferIn, MovementKindTransferOut, MovementKindPurchaseIn, MovementKindConsumeOut} {
		if !k.Valid() {
			t.Fatalf("%s should be valid", k)
		}
	}
	if MovementKind("ADJUSTMENT").Valid() {
		t.Fatalf("unknown kind should be invalid")
	}
	if MovementKind("").Valid() {
		t.Fatalf("empty kind should be invalid")
	}
}

func TestMovementKindIsTransfer(t *testing.T) {
	if !MovementKindTransferIn.IsTransfer() || !MovementKindTransferOut.IsTransfer() {
		t.Fatalf("transfer kinds must report IsTransfer")
	}
	if MovementKindPurchaseIn.IsTransfer() || MovementKindConsumeOut.IsTransfer() {
		t.Fatalf("purchase/consume kinds must not report IsTransfer")
	}
}
