package models

import (
	"context"
	"time"

	"github.com/buildsite/sitestock_backend/config"
	"github.com/shopspring/decimal"
)

// MovementKind classifies a ledger row. Transfers always come in mirrored
// TRANSFER_OUT / TRANSFER_IN pairs written by one transaction.
type MovementKind string

const (
	MovementKindTransferIn  MovementKind = "TRANSFER_IN"
	MovementKindTransferOut MovementKind = "TRANSFER_OUT"
	MovementKindPurchaseIn  MovementKind = "PURCHASE_IN"
	MovementKindConsumeOut  MovementKind = "CONSUME_OUT"
)

func (k MovementKind) Valid() bool {
	switch k {
	case MovementKindTransferIn, MovementKindTransferOut, MovementKindPurchaseIn, MovementKindConsumeOut:
		return true
	}
	return false
}

// IsTransfer reports whether the kind requires the from/to warehouse pair.
func (k MovementKind) IsTransfer() bool {
	return k == MovementKindTransferIn || k == MovementKindTransferOut
}

// MovementEntry is one append-only ledger row. Rows are never updated or
// deleted; corrections are posted as new movements.
type MovementEntry struct {
	ID              int             `gorm:"primary_key" json:"id"`
	Time            time.Time       `gorm:"not null;index" json:"time"`
	WarehouseId     int             `gorm:"not null;index" json:"warehouse_id"`
	PersonId        int             `gorm:"not null" json:"person_id"`
	Kind            MovementKind    `gorm:"type:enum('TRANSFER_IN','TRANSFER_OUT','PURCHASE_IN','CONSUME_OUT');not null" json:"kind"`
	MaterialId      int             `gorm:"not null;index" json:"material_id"`
	Qty             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"qty"`
	FromWarehouseId *int            `json:"from_warehouse_id"`
	ToWarehouseId   *int            `json:"to_warehouse_id"`
	DailyReportId   *int            `gorm:"index" json:"daily_report_id"`

	Material *Material `gorm:"foreignKey:MaterialId" json:"material,omitempty"`
	Person   *Person   `gorm:"foreignKey:PersonId" json:"person,omitempty"`
}

func ListMovementsByWarehouse(ctx context.Context, warehouseId int) ([]*MovementEntry, error) {
	db := config.GetDB()
	if _, err := GetWarehouseTx(db.WithContext(ctx), warehouseId); err != nil {
		return nil, err
	}

	var entries []*MovementEntry
	if err := db.WithContext(ctx).
		Preload("Material").
		Preload("Person").
		Where("warehouse_id = ?", warehouseId).
		Order("time DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func ListMovementsByProject(ctx context.Context, projectId int) ([]*MovementEntry, error) {
	db := config.GetDB()
	if _, err := GetProjectTx(db.WithContext(ctx), projectId); err != nil {
		return nil, err
	}

	var entries []*MovementEntry
	if err := db.WithContext(ctx).
		Preload("Material").
		Preload("Person").
		Where("warehouse_id IN (SELECT id FROM warehouses WHERE project_id = ?)", projectId).
		Order("time DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListConsumptionsByReport returns the CONSUME_OUT rows a daily report
// produced, in posting order. This is the read-side source for a report's
// derived consumption records.
func ListConsumptionsByReport(ctx context.Context, reportId int) ([]*MovementEntry, error) {
	db := config.GetDB()

	var entries []*MovementEntry
	if err := db.WithContext(ctx).
		Preload("Material").
		Where("daily_report_id = ? AND kind = ?", reportId, MovementKindConsumeOut).
		Order("id").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
