package models

import (
	"context"
	"errors"
	"time"

	"github.com/buildsite/sitestock_backend/config"
	"github.com/buildsite/sitestock_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyReport is the header of one field submission: who reported, for
// which project, when, plus a free-text remark. Labor entries, media links
// and consumption ledger rows hang off it. A report is created only through
// the coordinator workflow and is immutable after creation except for the
// header pointers.
type DailyReport struct {
	ID         int       `gorm:"primary_key" json:"id"`
	ProjectId  int       `gorm:"not null;index" json:"project_id"`
	CreateById int       `gorm:"not null;index" json:"create_by_id"`
	Remark     *string   `gorm:"size:500" json:"remark"`
	CreateTime time.Time `gorm:"not null;index" json:"create_time"`

	Project  *Project `gorm:"foreignKey:ProjectId" json:"project,omitempty"`
	CreateBy *Person  `gorm:"foreignKey:CreateById" json:"create_by,omitempty"`
}

// DailyReportPerson is one labor line: a person worked 0, 0.5 or 1 days
// plus up to 8 extra hours. Cascades away with the report or the person.
type DailyReportPerson struct {
	ID            int             `gorm:"primary_key" json:"id"`
	DailyReportId int             `gorm:"not null;index" json:"daily_report_id"`
	PersonId      int             `gorm:"not null" json:"person_id"`
	WorkDays      decimal.Decimal `gorm:"type:decimal(2,1);not null" json:"work_days"`
	ExtraHours    int             `gorm:"not null" json:"extra_hours"`

	DailyReport *DailyReport `gorm:"foreignKey:DailyReportId;constraint:OnDelete:CASCADE" json:"-"`
	Person      *Person      `gorm:"foreignKey:PersonId;constraint:OnDelete:CASCADE" json:"person,omitempty"`
}

// DailyReportMedia links an uploaded media id to a report.
type DailyReportMedia struct {
	ID            int `gorm:"primary_key" json:"id"`
	DailyReportId int `gorm:"not null;index" json:"daily_report_id"`
	MediaId       int `gorm:"not null" json:"media_id"`

	DailyReport *DailyReport `gorm:"foreignKey:DailyReportId;constraint:OnDelete:CASCADE" json:"-"`
	Media       *Media       `gorm:"foreignKey:MediaId" json:"media,omitempty"`
}

// DailyReportDetail is the read-side shape: the header plus its children
// and the consumption records reconstructed from the ledger at read time.
// Nothing here is stored redundantly.
type DailyReportDetail struct {
	DailyReport
	Persons            []*DailyReportPerson `json:"persons"`
	Media              []*DailyReportMedia  `json:"media"`
	ConsumptionRecords []*MovementEntry     `json:"consumption_records"`
}

type UpdateDailyReportInput struct {
	ProjectId  *int    `json:"project_id"`
	CreateById *int    `json:"create_by_id"`
	Remark     *string `json:"remark"`
}

func GetDailyReport(ctx context.Context, id int) (*DailyReportDetail, error) {
	db := config.GetDB()

	var report DailyReport
	if err := db.WithContext(ctx).
		Preload("Project").
		Preload("CreateBy").
		First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("daily report %d not found", id)
		}
		return nil, err
	}
	return assembleDailyReport(ctx, &report)
}

func ListDailyReports(ctx context.Context) ([]*DailyReportDetail, error) {
	db := config.GetDB()

	var reports []*DailyReport
	if err := db.WithContext(ctx).
		Preload("Project").
		Preload("CreateBy").
		Order("create_time DESC, id DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return assembleDailyReports(ctx, reports)
}

func ListDailyReportsByProject(ctx context.Context, projectId int) ([]*DailyReportDetail, error) {
	db := config.GetDB()
	if _, err := GetProjectTx(db.WithContext(ctx), projectId); err != nil {
		return nil, err
	}

	var reports []*DailyReport
	if err := db.WithContext(ctx).
		Preload("Project").
		Preload("CreateBy").
		Where("project_id = ?", projectId).
		Order("create_time DESC, id DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return assembleDailyReports(ctx, reports)
}

// FindDailyReportForDate returns the report a creator filed for a project
// on the calendar day containing date. The schema does not forbid
// duplicates per day; when several exist the newest wins.
func FindDailyReportForDate(ctx context.Context, projectId int, createById int, date time.Time, timezone string) (*DailyReportDetail, error) {
	start, end, err := utils.DayRange(date, timezone)
	if err != nil {
		return nil, ValidationError("%s", err.Error())
	}

	db := config.GetDB()
	var report DailyReport
	if err := db.WithContext(ctx).
		Preload("Project").
		Preload("CreateBy").
		Where("project_id = ? AND create_by_id = ? AND create_time >= ? AND create_time < ?",
			projectId, createById, start, end).
		Order("create_time DESC, id DESC").
		First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("no daily report for project %d creator %d on %s",
				projectId, createById, start.Format("2006-01-02"))
		}
		return nil, err
	}
	return assembleDailyReport(ctx, &report)
}

// UpdateDailyReport touches header pointers only. Labor entries and
// consumption records have no update path; the ledger is append-only.
func UpdateDailyReport(ctx context.Context, id int, input *UpdateDailyReportInput) (*DailyReportDetail, error) {
	db := config.GetDB()

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report DailyReport
		if err := tx.First(&report, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("daily report %d not found", id)
			}
			return err
		}

		updates := map[string]interface{}{}
		if input.ProjectId != nil {
			if _, err := GetProjectTx(tx, *input.ProjectId); err != nil {
				return err
			}
			updates["project_id"] = *input.ProjectId
		}
		if input.CreateById != nil {
			if _, err := GetPersonTx(tx, *input.CreateById); err != nil {
				return err
			}
			updates["create_by_id"] = *input.CreateById
		}
		if input.Remark != nil {
			updates["remark"] = *input.Remark
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&report).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return GetDailyReport(ctx, id)
}

func assembleDailyReports(ctx context.Context, reports []*DailyReport) ([]*DailyReportDetail, error) {
	details := make([]*DailyReportDetail, 0, len(reports))
	for _, report := range reports {
		detail, err := assembleDailyReport(ctx, report)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func assembleDailyReport(ctx context.Context, report *DailyReport) (*DailyReportDetail, error) {
	db := config.GetDB()

	var persons []*DailyReportPerson
	if err := db.WithContext(ctx).
		Preload("Person").
		Where("daily_report_id = ?", report.ID).
		Order("id").
		Find(&persons).Error; err != nil {
		return nil, err
	}

	var media []*DailyReportMedia
	if err := db.WithContext(ctx).
		Preload("Media").
		Where("daily_report_id = ?", report.ID).
		Order("id").
		Find(&media).Error; err != nil {
		return nil, err
	}

	consumptions, err := ListConsumptionsByReport(ctx, report.ID)
	if err != nil {
		return nil, err
	}

	return &DailyReportDetail{
		DailyReport:        *report,
		Persons:            persons,
		Media:              media,
		ConsumptionRecords: consumptions,
	}, nil
}
