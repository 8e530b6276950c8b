package workflow

import (
	"context"
	"time"

	"github.com/buildsite/sitestock_backend/config"
	"github.com/buildsite/sitestock_backend/models"
	"github.com/buildsite/sitestock_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Every posting runs as one database transaction: the snapshot update and
// the ledger append commit together or not at all. Partial application
// (ledger row without snapshot change, or vice versa) is a correctness
// violation, so nothing here writes outside the transaction closure.

type PurchaseInput struct {
	WarehouseId int             `json:"warehouse_id"`
	MaterialId  int             `json:"material_id"`
	Qty         decimal.Decimal `json:"qty"`
	PersonId    int             `json:"person_id"`
}

type ConsumptionInput struct {
	WarehouseId   int             `json:"warehouse_id"`
	MaterialId    int             `json:"material_id"`
	Qty           decimal.Decimal `json:"qty"`
	PersonId      int             `json:"person_id"`
	DailyReportId *int            `json:"daily_report_id"`
}

type TransferInput struct {
	FromWarehouseId int             `json:"from_warehouse_id"`
	ToWarehouseId   int             `json:"to_warehouse_id"`
	MaterialId      int             `json:"material_id"`
	Qty             decimal.Decimal `json:"qty"`
	PersonId        int             `json:"person_id"`
}

// MovementInput is the transport-facing union for PostMovement.
type MovementInput struct {
	Kind            models.MovementKind `json:"kind"`
	WarehouseId     int                 `json:"warehouse_id"`
	FromWarehouseId *int                `json:"from_warehouse_id"`
	ToWarehouseId   *int                `json:"to_warehouse_id"`
	MaterialId      int                 `json:"material_id"`
	Qty             decimal.Decimal     `json:"qty"`
	PersonId        int                 `json:"person_id"`
}

// PostPurchase increments the snapshot (creating it at zero on first
// arrival of a material) and appends one PURCHASE_IN row.
func PostPurchase(ctx context.Context, input PurchaseInput) (*models.MovementEntry, error) {
	logger := config.GetLogger()
	if err := utils.ValidateQuantity(input.Qty); err != nil {
		return nil, models.ValidationError("%s", err.Error())
	}

	release, err := utils.WarehouseLock(ctx, input.WarehouseId, "stockPosting.go", "PostPurchase")
	if err != nil {
		return nil, err
	}
	defer release()

	db := config.GetDB()
	var entry *models.MovementEntry
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var terr error
		entry, terr = postPurchaseTx(tx, time.Now(), input)
		return terr
	})
	if err != nil {
		config.LogError(logger, "stockPosting.go", "PostPurchase", "Transaction", input, err)
		return nil, err
	}
	return entry, nil
}

// PostConsumption decrements the snapshot and appends one CONSUME_OUT row,
// optionally tagged with the daily report that caused it. The pair must
// already be tracked; consuming from an untracked pair is NotFound, not a
// silent zero-stock creation.
func PostConsumption(ctx context.Context, input ConsumptionInput) (*models.MovementEntry, error) {
	logger := config.GetLogger()
	if err := utils.ValidateQuantity(input.Qty); err != nil {
		return nil, models.ValidationError("%s", err.Error())
	}

	release, err := utils.WarehouseLock(ctx, input.WarehouseId, "stockPosting.go", "PostConsumption")
	if err != nil {
		return nil, err
	}
	defer release()

	db := config.GetDB()
	var entry *models.MovementEntry
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var terr error
		entry, terr = postConsumptionTx(tx, time.Now(), input)
		return terr
	})
	if err != nil {
		config.LogError(logger, "stockPosting.go", "PostConsumption", "Transaction", input, err)
		return nil, err
	}
	return entry, nil
}

// PostTransfer moves qty between two warehouses: one decrement, one
// increment (destination pair created on first arrival) and two mirrored
// ledger rows sharing a single timestamp, all in one transaction.
func PostTransfer(ctx context.Context, input TransferInput) (*models.MovementEntry, *models.MovementEntry, error) {
	logger := config.GetLogger()
	if input.FromWarehouseId <= 0 || input.ToWarehouseId <= 0 {
		return nil, nil, models.InvalidTransferSpecError("transfer requires both from and to warehouses")
	}
	if input.FromWarehouseId == input.ToWarehouseId {
		return nil, nil, models.InvalidTransferSpecError("transfer source and destination must differ")
	}
	if err := utils.ValidateQuantity(input.Qty); err != nil {
		return nil, nil, models.ValidationError("%s", err.Error())
	}

	// Lock warehouses in id order so two opposite transfers cannot
	// deadlock on the redis locks.
	first, second := input.FromWarehouseId, input.ToWarehouseId
	if second < first {
		first, second = second, first
	}
	releaseFirst, err := utils.WarehouseLock(ctx, first, "stockPosting.go", "PostTransfer")
	if err != nil {
		return nil, nil, err
	}
	defer releaseFirst()
	releaseSecond, err := utils.WarehouseLock(ctx, second, "stockPosting.go", "PostTransfer")
	if err != nil {
		return nil, nil, err
	}
	defer releaseSecond()

	db := config.GetDB()
	var outEntry, inEntry *models.MovementEntry
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var terr error
		outEntry, inEntry, terr = postTransferTx(tx, time.Now(), input)
		return terr
	})
	if err != nil {
		config.LogError(logger, "stockPosting.go", "PostTransfer", "Transaction", input, err)
		return nil, nil, err
	}
	return outEntry, inEntry, nil
}

// PostMovement dispatches a generic movement request from the transport
// layer. Transfer kinds return both rows of the pair.
func PostMovement(ctx context.Context, input MovementInput) ([]*models.MovementEntry, error) {
	switch input.Kind {
	case models.MovementKindPurchaseIn:
		entry, err := PostPurchase(ctx, PurchaseInput{
			WarehouseId: input.WarehouseId,
			MaterialId:  input.MaterialId,
			Qty:         input.Qty,
			PersonId:    input.PersonId,
		})
		if err != nil {
			return nil, err
		}
		return []*models.MovementEntry{entry}, nil
	case models.MovementKindConsumeOut:
		entry, err := PostConsumption(ctx, ConsumptionInput{
			WarehouseId: input.WarehouseId,
			MaterialId:  input.MaterialId,
			Qty:         input.Qty,
			PersonId:    input.PersonId,
		})
		if err != nil {
			return nil, err
		}
		return []*models.MovementEntry{entry}, nil
	case models.MovementKindTransferOut, models.MovementKindTransferIn:
		if input.FromWarehouseId == nil || input.ToWarehouseId == nil {
			return nil, models.InvalidTransferSpecError("transfer requires both from and to warehouses")
		}
		outEntry, inEntry, err := PostTransfer(ctx, TransferInput{
			FromWarehouseId: *input.FromWarehouseId,
			ToWarehouseId:   *input.ToWarehouseId,
			MaterialId:      input.MaterialId,
			Qty:             input.Qty,
			PersonId:        input.PersonId,
		})
		if err != nil {
			return nil, err
		}
		return []*models.MovementEntry{outEntry, inEntry}, nil
	default:
		return nil, models.ValidationError("unknown movement kind %q", string(input.Kind))
	}
}

func postPurchaseTx(tx *gorm.DB, now time.Time, input PurchaseInput) (*models.MovementEntry, error) {
	if err := resolvePostingRefs(tx, input.WarehouseId, input.MaterialId, input.PersonId); err != nil {
		return nil, err
	}
	if _, err := models.AdjustStock(tx, input.WarehouseId, input.MaterialId, input.Qty); err != nil {
		return nil, err
	}

	entry := models.MovementEntry{
		Time:        now,
		WarehouseId: input.WarehouseId,
		PersonId:    input.PersonId,
		Kind:        models.MovementKindPurchaseIn,
		MaterialId:  input.MaterialId,
		Qty:         input.Qty,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func postConsumptionTx(tx *gorm.DB, now time.Time, input ConsumptionInput) (*models.MovementEntry, error) {
	if err := resolvePostingRefs(tx, input.WarehouseId, input.MaterialId, input.PersonId); err != nil {
		return nil, err
	}
	if _, err := models.AdjustStock(tx, input.WarehouseId, input.MaterialId, input.Qty.Neg()); err != nil {
		return nil, err
	}

	entry := models.MovementEntry{
		Time:          now,
		WarehouseId:   input.WarehouseId,
		PersonId:      input.PersonId,
		Kind:          models.MovementKindConsumeOut,
		MaterialId:    input.MaterialId,
		Qty:           input.Qty,
		DailyReportId: input.DailyReportId,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func postTransferTx(tx *gorm.DB, now time.Time, input TransferInput) (*models.MovementEntry, *models.MovementEntry, error) {
	if err := resolvePostingRefs(tx, input.FromWarehouseId, input.MaterialId, input.PersonId); err != nil {
		return nil, nil, err
	}
	if _, err := models.GetWarehouseTx(tx, input.ToWarehouseId); err != nil {
		return nil, nil, err
	}

	if _, err := models.AdjustStock(tx, input.FromWarehouseId, input.MaterialId, input.Qty.Neg()); err != nil {
		return nil, nil, err
	}
	if _, err := models.AdjustStock(tx, input.ToWarehouseId, input.MaterialId, input.Qty); err != nil {
		return nil, nil, err
	}

	outEntry := models.MovementEntry{
		Time:            now,
		WarehouseId:     input.FromWarehouseId,
		PersonId:        input.PersonId,
		Kind:            models.MovementKindTransferOut,
		MaterialId:      input.MaterialId,
		Qty:             input.Qty,
		FromWarehouseId: &input.FromWarehouseId,
		ToWarehouseId:   &input.ToWarehouseId,
	}
	if err := tx.Create(&outEntry).Error; err != nil {
		return nil, nil, err
	}

	inEntry := models.MovementEntry{
		Time:            now,
		WarehouseId:     input.ToWarehouseId,
		PersonId:        input.PersonId,
		Kind:            models.MovementKindTransferIn,
		MaterialId:      input.MaterialId,
		Qty:             input.Qty,
		FromWarehouseId: &input.FromWarehouseId,
		ToWarehouseId:   &input.ToWarehouseId,
	}
	if err := tx.Create(&inEntry).Error; err != nil {
		return nil, nil, err
	}

	return &outEntry, &inEntry, nil
}

func resolvePostingRefs(tx *gorm.DB, warehouseId int, materialId int, personId int) error {
	if _, err := models.GetWarehouseTx(tx, warehouseId); err != nil {
		return err
	}
	if _, err := models.GetMaterialTx(tx, materialId); err != nil {
		return err
	}
	if _, err := models.GetPersonTx(tx, personId); err != nil {
		return err
	}
	return nil
}
