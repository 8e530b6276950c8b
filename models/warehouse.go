package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/buildsite/sitestock_backend/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Warehouse is a named stock container, optionally bound to one project
// site. Deleting the project unlinks the warehouse, it never cascades.
type Warehouse struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	ProjectId *int      `gorm:"index" json:"project_id"`
	MediaId   *int      `json:"media_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewWarehouse struct {
	Name      string `json:"name" binding:"required"`
	ProjectId *int   `json:"project_id"`
	MediaId   *int   `json:"media_id"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewWarehouse) validate(tx *gorm.DB) error {
	if strings.TrimSpace(input.Name) == "" {
		return ValidationError("warehouse name is required")
	}
	if input.ProjectId != nil {
		if _, err := GetProjectTx(tx, *input.ProjectId); err != nil {
			return err
		}
	}
	if input.MediaId != nil {
		if _, err := GetMediaTx(tx, *input.MediaId); err != nil {
			return err
		}
	}
	return nil
}

func CreateWarehouse(ctx context.Context, input *NewWarehouse) (*Warehouse, error) {
	db := config.GetDB()

	var warehouse Warehouse
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := input.validate(tx); err != nil {
			return err
		}
		warehouse = Warehouse{
			Name:      input.Name,
			ProjectId: input.ProjectId,
			MediaId:   input.MediaId,
		}
		return tx.Create(&warehouse).Error
	})
	if err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func UpdateWarehouse(ctx context.Context, id int, input *NewWarehouse) (*Warehouse, error) {
	db := config.GetDB()

	var warehouse *Warehouse
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		warehouse, err = GetWarehouseTx(tx, id)
		if err != nil {
			return err
		}
		if err := input.validate(tx); err != nil {
			return err
		}
		return tx.Model(warehouse).Updates(map[string]interface{}{
			"name":       input.Name,
			"project_id": input.ProjectId,
			"media_id":   input.MediaId,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return warehouse, nil
}

// DeleteWarehouse refuses while the warehouse still tracks stock or owns
// ledger rows; the movement ledger is an audit trail and must not be
// orphaned.
func DeleteWarehouse(ctx context.Context, id int) (*Warehouse, error) {
	db := config.GetDB()

	var warehouse *Warehouse
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		warehouse, err = GetWarehouseTx(tx, id)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&StockSnapshot{}).Where("warehouse_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ValidationError("warehouse %d has stock", id)
		}
		if err := tx.Model(&MovementEntry{}).Where("warehouse_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ValidationError("warehouse %d has ledger history", id)
		}

		return tx.Delete(warehouse).Error
	})
	if err != nil {
		return nil, err
	}
	return warehouse, nil
}

func GetWarehouse(ctx context.Context, id int) (*Warehouse, error) {
	db := config.GetDB()
	return GetWarehouseTx(db.WithContext(ctx), id)
}

func ListWarehouses(ctx context.Context, name *string) ([]*Warehouse, error) {
	db := config.GetDB()
	var results []*Warehouse

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListWarehousesByProject may return zero rows, or more than one when
// provisioning raced; callers must not assume exactly one.
func ListWarehousesByProject(ctx context.Context, projectId int) ([]*Warehouse, error) {
	db := config.GetDB()
	if _, err := GetProjectTx(db.WithContext(ctx), projectId); err != nil {
		return nil, err
	}
	var results []*Warehouse
	if err := db.WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("created_at, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UnlinkProjectWarehouses clears the project pointer on every warehouse of
// a deleted project. The warehouses and their ledgers stay.
func UnlinkProjectWarehouses(ctx context.Context, projectId int) error {
	db := config.GetDB()
	return unlinkProjectWarehousesTx(db.WithContext(ctx), projectId)
}

func unlinkProjectWarehousesTx(tx *gorm.DB, projectId int) error {
	return tx.Model(&Warehouse{}).
		Where("project_id = ?", projectId).
		Update("project_id", nil).Error
}

// FindOrCreateWarehouseForProject returns the project's canonical
// warehouse: the earliest-created row wins when several exist. When none
// exists one is provisioned named "<project.name>仓库". The row is locked
// so two concurrent callers cannot both provision.
func FindOrCreateWarehouseForProject(tx *gorm.DB, projectId int) (*Warehouse, error) {
	var warehouse Warehouse
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("project_id = ?", projectId).
		Order("created_at, id").
		First(&warehouse).Error
	if err == nil {
		return &warehouse, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	project, err := GetProjectTx(tx, projectId)
	if err != nil {
		return nil, err
	}
	warehouse = Warehouse{
		Name:      project.Name + "仓库",
		ProjectId: &project.ID,
	}
	if err := tx.Create(&warehouse).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func GetWarehouseTx(tx *gorm.DB, id int) (*Warehouse, error) {
	var warehouse Warehouse
	if err := tx.First(&warehouse, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("warehouse %d not found", id)
		}
		return nil, err
	}
	return &warehouse, nil
}
