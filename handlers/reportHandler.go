package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/buildsite/sitestock_backend/models"
	"github.com/buildsite/sitestock_backend/utils"
	"github.com/buildsite/sitestock_backend/workflow"
)

func createDailyReport(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "createDailyReport")
	defer span.End()

	var input workflow.NewDailyReport
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": string(models.ErrCodeValidation), "message": err.Error()})
		return
	}
	detail, err := workflow.CreateDailyReport(ctx, &input)
	if err != nil {
		span.RecordError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func listDailyReports(c *gin.Context) {
	details, err := models.ListDailyReports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func listDailyReportsByProject(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	details, err := models.ListDailyReportsByProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func getDailyReport(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	detail, err := models.GetDailyReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// findTodayDailyReport looks up the report a creator filed for a project
// on one calendar day (today unless ?date=YYYY-MM-DD is given).
func findTodayDailyReport(c *gin.Context) {
	projectId, ok := queryInt(c, "project_id")
	if !ok {
		return
	}
	createById, ok := queryInt(c, "create_by_id")
	if !ok {
		return
	}

	timezone := c.DefaultQuery("timezone", utils.DefaultTimezone)
	date := time.Now()
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": string(models.ErrCodeValidation), "message": "invalid date, want YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	detail, err := models.FindDailyReportForDate(c.Request.Context(), projectId, createById, date, timezone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func updateDailyReport(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.UpdateDailyReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": string(models.ErrCodeValidation), "message": err.Error()})
		return
	}
	detail, err := models.UpdateDailyReport(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
