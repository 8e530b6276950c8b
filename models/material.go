package models

import (
	"context"
	"errors"
	"time"

	"github.com/buildsite/sitestock_backend/config"
	"gorm.io/gorm"
)

// Material is immutable reference data for the ledger ("cement, ton").
// The catalog collaborator creates and edits rows; postings reference them
// by id.
type Material struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Unit        string    `gorm:"size:100;not null" json:"unit"`
	IconMediaId *int      `json:"icon_media_id"`
	CreateById  *int      `json:"create_by_id"`
	CreateTime  time.Time `gorm:"autoCreateTime" json:"create_time"`
}

func GetMaterial(ctx context.Context, id int) (*Material, error) {
	db := config.GetDB()
	return GetMaterialTx(db.WithContext(ctx), id)
}

func ListMaterials(ctx context.Context) ([]*Material, error) {
	db := config.GetDB()
	var materials []*Material
	if err := db.WithContext(ctx).Order("name").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func GetMaterialTx(tx *gorm.DB, id int) (*Material, error) {
	var material Material
	if err := tx.First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("material %d not found", id)
		}
		return nil, err
	}
	return &material, nil
}
