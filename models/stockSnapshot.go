package models

import (
	"context"
	"errors"
	"time"

	"github.com/buildsite/sitestock_backend/config"
	"github.com/buildsite/sitestock_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockSnapshot is the current-quantity projection for one
// (warehouse, material) pair. It is mutated only by ledger postings; every
// change has a matching MovementEntry in the same transaction.
type StockSnapshot struct {
	ID               int              `gorm:"primary_key" json:"id"`
	WarehouseId      int              `gorm:"uniqueIndex:uniq_warehouse_material;not null" json:"warehouse_id"`
	MaterialId       int              `gorm:"uniqueIndex:uniq_warehouse_material;not null" json:"material_id"`
	CurrentStock     decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"current_stock"`
	WarningThreshold *decimal.Decimal `gorm:"type:decimal(10,2)" json:"warning_threshold"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	Material *Material `gorm:"foreignKey:MaterialId" json:"material,omitempty"`
}

type NewStockSnapshot struct {
	WarehouseId      int              `json:"warehouse_id" binding:"required"`
	MaterialId       int              `json:"material_id" binding:"required"`
	InitialStock     decimal.Decimal  `json:"initial_stock"`
	WarningThreshold *decimal.Decimal `json:"warning_threshold"`
}

// CreateStockSnapshot registers a pair explicitly. The unique index is the
// arbiter under races: the loser gets DuplicateEntry.
func CreateStockSnapshot(ctx context.Context, input *NewStockSnapshot) (*StockSnapshot, error) {
	if err := utils.ValidateNonNegative(input.InitialStock); err != nil {
		return nil, ValidationError("initial stock: %s", err.Error())
	}
	if input.WarningThreshold != nil {
		if err := utils.ValidateNonNegative(*input.WarningThreshold); err != nil {
			return nil, ValidationError("warning threshold: %s", err.Error())
		}
	}

	db := config.GetDB()
	var snapshot StockSnapshot
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := GetWarehouseTx(tx, input.WarehouseId); err != nil {
			return err
		}
		if _, err := GetMaterialTx(tx, input.MaterialId); err != nil {
			return err
		}
		snapshot = StockSnapshot{
			WarehouseId:      input.WarehouseId,
			MaterialId:       input.MaterialId,
			CurrentStock:     input.InitialStock,
			WarningThreshold: input.WarningThreshold,
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return DuplicateEntryError("stock snapshot already exists for warehouse %d material %d",
					input.WarehouseId, input.MaterialId)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func GetStocksByWarehouse(ctx context.Context, warehouseId int) ([]*StockSnapshot, error) {
	db := config.GetDB()
	if _, err := GetWarehouseTx(db.WithContext(ctx), warehouseId); err != nil {
		return nil, err
	}

	var snapshots []*StockSnapshot
	if err := db.WithContext(ctx).
		Preload("Material").
		Where("warehouse_id = ?", warehouseId).
		Order("material_id").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func GetStocksByProject(ctx context.Context, projectId int) ([]*StockSnapshot, error) {
	db := config.GetDB()
	if _, err := GetProjectTx(db.WithContext(ctx), projectId); err != nil {
		return nil, err
	}

	var snapshots []*StockSnapshot
	if err := db.WithContext(ctx).
		Preload("Material").
		Where("warehouse_id IN (SELECT id FROM warehouses WHERE project_id = ?)", projectId).
		Order("warehouse_id, material_id").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// UpdateStockSnapshotThreshold edits the warning threshold. CurrentStock
// has no direct update path; it moves only through ledger postings.
func UpdateStockSnapshotThreshold(ctx context.Context, id int, threshold *decimal.Decimal) (*StockSnapshot, error) {
	if threshold != nil {
		if err := utils.ValidateNonNegative(*threshold); err != nil {
			return nil, ValidationError("warning threshold: %s", err.Error())
		}
	}

	db := config.GetDB()
	var snapshot StockSnapshot
	if err := db.WithContext(ctx).First(&snapshot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("stock snapshot %d not found", id)
		}
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&snapshot).Update("warning_threshold", threshold).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetOrCreateStockSnapshot locks (or creates at zero) the snapshot row for
// an inflow posting. The FOR UPDATE clause pins the row for the rest of
// the transaction.
func GetOrCreateStockSnapshot(tx *gorm.DB, warehouseId int, materialId int) (*StockSnapshot, error) {
	snapshot := StockSnapshot{
		WarehouseId:  warehouseId,
		MaterialId:   materialId,
		CurrentStock: decimal.Zero,
	}
	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("warehouse_id = ? AND material_id = ?", warehouseId, materialId).
		FirstOrCreate(&snapshot)
	if result.Error != nil {
		return nil, result.Error
	}
	return &snapshot, nil
}

// AdjustStock applies currentStock += delta for one pair.
//
// Decrements run as a single conditional UPDATE guarded by
// current_stock >= qty; the affected-row count is the sufficiency check, so
// two concurrent consumers can never both pass on a stale read. Increments
// lock-or-create the row first so a fresh pair starts at zero.
func AdjustStock(tx *gorm.DB, warehouseId int, materialId int, delta decimal.Decimal) (*StockSnapshot, error) {
	if delta.IsNegative() {
		qty := delta.Neg()
		result := tx.Model(&StockSnapshot{}).
			Where("warehouse_id = ? AND material_id = ? AND current_stock >= ?", warehouseId, materialId, qty).
			Update("current_stock", gorm.Expr("current_stock - ?", qty))
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, stockShortfallError(tx, warehouseId, materialId, qty)
		}
	} else {
		snapshot, err := GetOrCreateStockSnapshot(tx, warehouseId, materialId)
		if err != nil {
			return nil, err
		}
		if err := tx.Model(&StockSnapshot{}).
			Where("id = ?", snapshot.ID).
			Update("current_stock", gorm.Expr("current_stock + ?", delta)).Error; err != nil {
			return nil, err
		}
	}

	var snapshot StockSnapshot
	if err := tx.Where("warehouse_id = ? AND material_id = ?", warehouseId, materialId).
		First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// stockShortfallError distinguishes "pair is not tracked" from "tracked but
// short" after a conditional decrement matched no row.
func stockShortfallError(tx *gorm.DB, warehouseId int, materialId int, qty decimal.Decimal) error {
	var snapshot StockSnapshot
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("warehouse_id = ? AND material_id = ?", warehouseId, materialId).
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError("no stock snapshot for warehouse %d material %d", warehouseId, materialId)
	}
	if err != nil {
		return err
	}

	materialName := ""
	if material, merr := GetMaterialTx(tx, materialId); merr == nil {
		materialName = material.Name
	}
	shortfall := qty.Sub(snapshot.CurrentStock)
	return InsufficientStockError("insufficient stock of %s (material %d) in warehouse %d: have %s, need %s, short %s",
		materialName, materialId, warehouseId,
		snapshot.CurrentStock.String(), qty.String(), shortfall.String())
}
