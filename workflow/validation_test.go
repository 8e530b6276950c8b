package workflow

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/buildsite/sitestock_backend/models"
	"github.com/buildsite/sitestock_backend/utils"
)

func TestValidateLaborInput(t *testing.T) {
	cases := []struct {
		name    string
		labor   LaborInput
		wantErr bool
	}{
		{"full day", LaborInput{PersonId: 1, WorkDays: decimal.NewFromInt(1)}, false},
		{"half day", LaborInput{PersonId: 1, WorkDays: decimal.RequireFromString("0.5")}, false},
		{"zero day with overtime", LaborInput{PersonId: 1, WorkDays: decimal.Zero, ExtraHours: 8}, false},
		{"quarter day", LaborInput{PersonId: 1, WorkDays: decimal.RequireFromString("0.25")}, true},
		{"negative overtime", LaborInput{PersonId: 1, WorkDays: decimal.NewFromInt(1), ExtraHours: -1}, true},
		{"overtime above eight", LaborInput{PersonId: 1, WorkDays: decimal.NewFromInt(1), ExtraHours: 9}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateLaborInput(tc.labor)
			if (err != nil) != tc.wantErr {
				t.Fatalf("validateLaborInput(%+v) err=%v wantErr=%v", tc.labor, err, tc.wantErr)
			}
			if err != nil {
				be, ok := models.AsBusinessError(err)
				if !ok || be.Code != models.ErrCodeValidation {
					t.Fatalf("expected VALIDATION_ERROR; got %v", err)
				}
			}
		})
	}
}

func TestValidateConsumptionLine(t *testing.T) {
	if err := validateConsumptionLine(ConsumptionLine{MaterialId: 1, Count: decimal.NewFromInt(3)}); err != nil {
		t.Fatalf("valid line rejected: %v", err)
	}
	err := validateConsumptionLine(ConsumptionLine{MaterialId: 1, Count: decimal.Zero})
	if err == nil {
		t.Fatalf("zero count must be rejected")
	}
	be, ok := models.AsBusinessError(err)
	if !ok || be.Code != models.ErrCodeValidation {
		t.Fatalf("expected VALIDATION_ERROR; got %v", err)
	}
}

// The dispatcher rejects malformed requests before touching the database,
// so these paths are testable without a connection.
func TestPostMovementRejectsBeforePosting(t *testing.T) {
	ctx := context.Background()

	_, err := PostMovement(ctx, MovementInput{
		Kind:       models.MovementKind("ADJUSTMENT"),
		MaterialId: 1,
		Qty:        decimal.NewFromInt(1),
		PersonId:   1,
	})
	if be, ok := models.AsBusinessError(err); !ok || be.Code != models.ErrCodeValidation {
		t.Fatalf("unknown kind: expected VALIDATION_ERROR; got %v", err)
	}

	_, err = PostMovement(ctx, MovementInput{
		Kind:       models.MovementKindTransferOut,
		MaterialId: 1,
		Qty:        decimal.NewFromInt(1),
		PersonId:   1,
	})
	if be, ok := models.AsBusinessError(err); !ok || be.Code != models.ErrCodeInvalidTransferSpec {
		t.Fatalf("missing endpoints: expected INVALID_TRANSFER_SPEC; got %v", err)
	}

	_, err = PostMovement(ctx, MovementInput{
		Kind:            models.MovementKindTransferIn,
		FromWarehouseId: utils.NewInt(7),
		ToWarehouseId:   utils.NewInt(7),
		MaterialId:      1,
		Qty:             decimal.NewFromInt(1),
		PersonId:        1,
	})
	if be, ok := models.AsBusinessError(err); !ok || be.Code != models.ErrCodeInvalidTransferSpec {
		t.Fatalf("same warehouse: expected INVALID_TRANSFER_SPEC; got %v", err)
	}

	_, err = PostPurchase(ctx, PurchaseInput{WarehouseId: 1, MaterialId: 1, Qty: decimal.Zero, PersonId: 1})
	if be, ok := models.AsBusinessError(err); !ok || be.Code != models.ErrCodeValidation {
		t.Fatalf("zero qty: expected VALIDATION_ERROR; got %v", err)
	}
}
