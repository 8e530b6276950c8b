package models

import (
	"context"
	"errors"
	"time"

	"github.com/buildsite/sitestock_backend/config"
	"gorm.io/gorm"
)

// Media rows are written by the media-storage collaborator; this module
// only links existing ids to reports and warehouses.
type Media struct {
	ID           int       `gorm:"primary_key" json:"id"`
	MediaType    *string   `gorm:"size:100" json:"media_type"`
	Uri          *string   `gorm:"size:200" json:"uri"`
	OriginalName *string   `gorm:"size:500" json:"original_name"`
	CreateTime   time.Time `gorm:"autoCreateTime" json:"create_time"`
}

func GetMedia(ctx context.Context, id int) (*Media, error) {
	db := config.GetDB()
	return GetMediaTx(db.WithContext(ctx), id)
}

func GetMediaTx(tx *gorm.DB, id int) (*Media, error) {
	var media Media
	if err := tx.First(&media, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("media %d not found", id)
		}
		return nil, err
	}
	return &media, nil
}
