package models

import (
	"log"

	"github.com/buildsite/sitestock_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Project{}, &Person{}, &Media{}, &Material{},
		&Warehouse{},
		&StockSnapshot{}, &MovementEntry{},
		&DailyReport{}, &DailyReportPerson{}, &DailyReportMedia{},
	)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
}
