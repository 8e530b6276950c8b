package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/buildsite/sitestock_backend/config"
	"gorm.io/gorm"
)

// Project is owned by the project-management collaborator. This module
// stores the columns warehouse provisioning and report creation need and
// existence-checks the rest by id.
type Project struct {
	ID         int       `gorm:"primary_key" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Location   *string   `gorm:"size:200" json:"location"`
	CreateTime time.Time `gorm:"autoCreateTime" json:"create_time"`
}

type NewProject struct {
	Name     string  `json:"name" binding:"required"`
	Location *string `json:"location"`
}

// CreateProject registers a project and provisions its warehouse in the
// same transaction. The warehouse is named "<project.name>仓库".
func CreateProject(ctx context.Context, input *NewProject) (*Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ValidationError("project name is required")
	}

	project := Project{
		Name:     input.Name,
		Location: input.Location,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		_, err := FindOrCreateWarehouseForProject(tx, project.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func GetProject(ctx context.Context, id int) (*Project, error) {
	db := config.GetDB()
	return GetProjectTx(db.WithContext(ctx), id)
}

// DeleteProject removes the project and unlinks (never deletes) its
// warehouses.
func DeleteProject(ctx context.Context, id int) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := GetProjectTx(tx, id)
		if err != nil {
			return err
		}
		if err := unlinkProjectWarehousesTx(tx, project.ID); err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
}

func GetProjectTx(tx *gorm.DB, id int) (*Project, error) {
	var project Project
	if err := tx.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("project %d not found", id)
		}
		return nil, err
	}
	return &project, nil
}
