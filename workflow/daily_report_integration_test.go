package workflow_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildsite/sitestock_backend/config"
	"github.com/buildsite/sitestock_backend/models"
	"github.com/buildsite/sitestock_backend/utils"
	"github.com/buildsite/sitestock_backend/workflow"
)

func TestCreateDailyReportPostsConsumptionAtomically(t *testing.T) {
	ctx := setupStockDB(t)
	project, person, cement := seedBase(t, ctx, "Cement", "ton")
	warehouse := projectWarehouse(t, ctx, project.ID)

	worker := models.Person{Name: "Li Na"}
	if err := config.GetDB().WithContext(ctx).Create(&worker).Error; err != nil {
		t.Fatalf("seed worker: %v", err)
	}

	if _, err := workflow.PostPurchase(ctx, workflow.PurchaseInput{
		WarehouseId: warehouse.ID, MaterialId: cement.ID,
		Qty: decimal.NewFromInt(10), PersonId: person.ID,
	}); err != nil {
		t.Fatalf("PostPurchase: %v", err)
	}

	remark := "poured second floor slab"
	detail, err := workflow.CreateDailyReport(ctx, &workflow.NewDailyReport{
		ProjectId:  project.ID,
		CreateById: person.ID,
		Remark:     &remark,
		Persons: []workflow.LaborInput{
			{PersonId: person.ID, WorkDays: decimal.NewFromInt(1), ExtraHours: 2},
			{PersonId: worker.ID, WorkDays: decimal.RequireFromString("0.5")},
		},
		Materials: []workflow.ConsumptionLine{
			{MaterialId: cement.ID, Count: decimal.NewFromInt(4)},
		},
	})
	if err != nil {
		t.Fatalf("CreateDailyReport: %v", err)
	}

	if len(detail.Persons) != 2 {
		t.Fatalf("expected 2 labor entries; got %d", len(detail.Persons))
	}
	if len(detail.ConsumptionRecords) != 1 {
		t.Fatalf("expected 1 consumption record; got %d", len(detail.ConsumptionRecords))
	}
	record := detail.ConsumptionRecords[0]
	if record.Kind != models.MovementKindConsumeOut || record.DailyReportId == nil || *record.DailyReportId != detail.ID {
		t.Fatalf("consumption record must be a CONSUME_OUT tagged with the report; got %+v", record)
	}

	stocks, err := models.GetStocksByWarehouse(ctx, warehouse.ID)
	if err != nil {
		t.Fatalf("GetStocksByWarehouse: %v", err)
	}
	if len(stocks) != 1 || stocks[0].CurrentStock.Cmp(decimal.NewFromInt(6)) != 0 {
		t.Fatalf("expected stock 10-4=6; got %+v", stocks)
	}
}

func TestCreateDailyReportRollsBackOnBadLine(t *testing.T) {
	ctx := setupStockDB(t)
	project, person, cement := seedBase(t, ctx, "Cement", "ton")
	warehouse := projectWarehouse(t, ctx, project.ID)

	if _, err := workflow.PostPurchase(ctx, workflow.PurchaseInput{
		WarehouseId: warehouse.ID, MaterialId: cement.ID,
		Qty: decimal.NewFromInt(10), PersonId: person.ID,
	}); err != nil {
		t.Fatalf("PostPurchase: %v", err)
	}

	// Second line references a material that does not exist; the first
	// line's decrement and the report itself must both roll back.
	_, err := workflow.CreateDailyReport(ctx, &workflow.NewDailyReport{
		ProjectId:  project.ID,
		CreateById: person.ID,
		Persons: []workflow.LaborInput{
			{PersonId: person.ID, WorkDays: decimal.NewFromInt(1)},
		},
		Materials: []workflow.ConsumptionLine{
			{MaterialId: cement.ID, Count: decimal.NewFromInt(3)},
			{MaterialId: 99999, Count: decimal.NewFromInt(1)},
		},
	})
	if be, ok := models.AsBusinessError(err); !ok || be.Code != models.ErrCodeNotFound {
		t.Fatalf("expected NOT_FOUND; got %v", err)
	}

	reports, err := models.ListDailyReportsByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListDailyReportsByProject: %v", err)
	}
	if len(reports) != 0 {
		t.Fatalf("expected no report after rollback; got %d", len(reports))
	}

	stocks, err := models.GetStocksByWarehouse(ctx, warehouse.ID)
	if err != nil {
		t.Fatalf("GetStocksByWarehouse: %v", err)
	}
	if len(stocks) != 1 || stocks[0].CurrentStock.Cmp(decimal.NewFromInt(10)) != 0 {
		t.Fatalf("expected stock unchanged at 10; got %+v", stocks)
	}

	var laborCount int64
	if err := config.GetDB().WithContext(ctx).Model(&models.DailyReportPerson{}).Count(&laborCount).Error; err != nil {
		t.Fatalf("count labor entries: %v", err)
	}
	if laborCount != 0 {
		t.Fatalf("expected no labor entries after rollback; got %d", laborCount)
	}

	movements, err := models.ListMovementsByWarehouse(ctx, warehouse.ID)
	if err != nil {
		t.Fatalf("ListMovementsByWarehouse: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("expected only the seed purchase row; got %d", len(movements))
	}
}

func TestFindDailyReportForDate(t *testing.T) {
	ctx := setupStockDB(t)
	project, person, _ := seedBase(t, ctx, "Cement", "ton")

	detail, err := workflow.CreateDailyReport(ctx, &workflow.NewDailyReport{
		ProjectId:  project.ID,
		CreateById: person.ID,
		Persons: []workflow.LaborInput{
			{PersonId: person.ID, WorkDays: decimal.NewFromInt(1)},
		},
	})
	if err != nil {
		t.Fatalf("CreateDailyReport: %v", err)
	}

	found, err := models.FindDailyReportForDate(ctx, project.ID, person.ID, time.Now(), utils.DefaultTimezone)
	if err != nil {
		t.Fatalf("FindDailyReportForDate: %v", err)
	}
	if found.ID != detail.ID {
		t.Fatalf("expected report %d; got %d", detail.ID, found.ID)
	}

	other := models.Person{Name: "Wang Fang"}
	if err := config.GetDB().WithContext(ctx).Create(&other).Error; err != nil {
		t.Fatalf("seed person: %v", err)
	}
	if _, err := models.FindDailyReportForDate(ctx, project.ID, other.ID, time.Now(), utils.DefaultTimezone); err == nil {
		t.Fatalf("expected NOT_FOUND for a creator with no report")
	} else if be, ok := models.AsBusinessError(err); !ok || be.Code != models.ErrCodeNotFound {
		t.Fatalf("expected NOT_FOUND; got %v", err)
	}

	// A second submission the same day is permitted; the newest wins.
	second, err := workflow.CreateDailyReport(ctx, &workflow.NewDailyReport{
		ProjectId:  project.ID,
		CreateById: person.ID,
		Persons: []workflow.LaborInput{
			{PersonId: person.ID, WorkDays: decimal.RequireFromString("0.5")},
		},
	})
	if err != nil {
		t.Fatalf("CreateDailyReport(second): %v", err)
	}
	found, err = models.FindDailyReportForDate(ctx, project.ID, person.ID, time.Now(), utils.DefaultTimezone)
	if err != nil {
		t.Fatalf("FindDailyReportForDate(after second): %v", err)
	}
	if found.ID != second.ID {
		t.Fatalf("expected newest report %d; got %d", second.ID, found.ID)
	}
}
