package models

import (
	"context"
	"errors"
	"time"

	"github.com/buildsite/sitestock_backend/config"
	"gorm.io/gorm"
)

// Person is owned by the identity collaborator; the ledger only records
// who acted and existence-checks the id.
type Person struct {
	ID         int       `gorm:"primary_key" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Tel        string    `gorm:"size:100" json:"tel"`
	CreateTime time.Time `gorm:"autoCreateTime" json:"create_time"`
}

func GetPerson(ctx context.Context, id int) (*Person, error) {
	db := config.GetDB()
	return GetPersonTx(db.WithContext(ctx), id)
}

func GetPersonTx(tx *gorm.DB, id int) (*Person, error) {
	var person Person
	if err := tx.First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("person %d not found", id)
		}
		return nil, err
	}
	return &person, nil
}
