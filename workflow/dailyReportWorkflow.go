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

type LaborInput struct {
	PersonId   int             `json:"person_id"`
	WorkDays   decimal.Decimal `json:"work_days"`
	ExtraHours int             `json:"extra_hours"`
}

type ConsumptionLine struct {
	MaterialId int             `json:"material_id"`
	Count      decimal.Decimal `json:"count"`
}

type NewDailyReport struct {
	ProjectId  int               `json:"project_id"`
	CreateById int               `json:"create_by_id"`
	Remark     *string           `json:"remark"`
	Persons    []LaborInput      `json:"persons"`
	Materials  []ConsumptionLine `json:"materials"`
	MediaIds   []int             `json:"media_ids"`
}

var workDayValues = []decimal.Decimal{
	decimal.Zero,
	decimal.NewFromFloat(0.5),
	decimal.NewFromInt(1),
}

func validateLaborInput(labor LaborInput) error {
	ok := false
	for _, v := range workDayValues {
		if labor.WorkDays.Equal(v) {
			ok = true
			break
		}
	}
	if !ok {
		return models.ValidationError("work days must be 0, 0.5 or 1, got %s", labor.WorkDays.String())
	}
	if labor.ExtraHours < 0 || labor.ExtraHours > 8 {
		return models.ValidationError("extra hours must be between 0 and 8, got %d", labor.ExtraHours)
	}
	return nil
}

func validateConsumptionLine(line ConsumptionLine) error {
	if err := utils.ValidateQuantity(line.Count); err != nil {
		return models.ValidationError("material %d: %s", line.MaterialId, err.Error())
	}
	return nil
}

// CreateDailyReport creates a field report together with its labor
// entries, material consumption (stock decrements + CONSUME_OUT ledger
// rows tagged with the report) and media links as one unit of work. Any
// failure rolls back everything; callers never observe a half-created
// report.
//
// The same person may appear in several labor lines; field submissions do
// that when a worker is split across shifts.
func CreateDailyReport(ctx context.Context, input *NewDailyReport) (*models.DailyReportDetail, error) {
	logger := config.GetLogger()

	for _, labor := range input.Persons {
		if err := validateLaborInput(labor); err != nil {
			return nil, err
		}
	}
	for _, line := range input.Materials {
		if err := validateConsumptionLine(line); err != nil {
			return nil, err
		}
	}

	db := config.GetDB()
	var reportId int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := models.GetProjectTx(tx, input.ProjectId); err != nil {
			return err
		}
		if _, err := models.GetPersonTx(tx, input.CreateById); err != nil {
			return err
		}

		now := time.Now()
		report := models.DailyReport{
			ProjectId:  input.ProjectId,
			CreateById: input.CreateById,
			Remark:     input.Remark,
			CreateTime: now,
		}
		if err := tx.Create(&report).Error; err != nil {
			return err
		}

		for _, labor := range input.Persons {
			if _, err := models.GetPersonTx(tx, labor.PersonId); err != nil {
				return err
			}
			entry := models.DailyReportPerson{
				DailyReportId: report.ID,
				PersonId:      labor.PersonId,
				WorkDays:      labor.WorkDays,
				ExtraHours:    labor.ExtraHours,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		warehouse, err := models.FindOrCreateWarehouseForProject(tx, input.ProjectId)
		if err != nil {
			return err
		}
		for _, line := range input.Materials {
			if _, err := postConsumptionTx(tx, now, ConsumptionInput{
				WarehouseId:   warehouse.ID,
				MaterialId:    line.MaterialId,
				Qty:           line.Count,
				PersonId:      input.CreateById,
				DailyReportId: &report.ID,
			}); err != nil {
				return err
			}
		}

		for _, mediaId := range input.MediaIds {
			if _, err := models.GetMediaTx(tx, mediaId); err != nil {
				return err
			}
			link := models.DailyReportMedia{
				DailyReportId: report.ID,
				MediaId:       mediaId,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		reportId = report.ID
		return nil
	})
	if err != nil {
		config.LogError(logger, "dailyReportWorkflow.go", "CreateDailyReport", "Transaction", input, err)
		return nil, err
	}

	return models.GetDailyReport(ctx, reportId)
}
