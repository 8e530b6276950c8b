// Package handlers exposes the ledger operations over REST. Transport is a
// thin shell: handlers bind the request, call a models/workflow operation
// and translate business errors into status codes.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"

	"github.com/buildsite/sitestock_backend/models"
)

var tracer = otel.Tracer("sitestock-backend")

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("movementkind", func(fl validator.FieldLevel) bool {
			return models.MovementKind(fl.Field().String()).Valid()
		})
	}
}

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/projects", createProject)
	api.DELETE("/projects/:id", deleteProject)
	api.GET("/projects/:id/warehouses", listWarehousesByProject)
	api.GET("/projects/:id/stocks", getStocksByProject)
	api.GET("/projects/:id/movements", listMovementsByProject)
	api.GET("/projects/:id/daily-reports", listDailyReportsByProject)

	api.POST("/warehouses", createWarehouse)
	api.GET("/warehouses", listWarehouses)
	api.GET("/warehouses/:id", getWarehouse)
	api.PUT("/warehouses/:id", updateWarehouse)
	api.DELETE("/warehouses/:id", deleteWarehouse)
	api.GET("/warehouses/:id/stocks", getStocksByWarehouse)
	api.GET("/warehouses/:id/movements", listMovementsByWarehouse)

	api.GET("/materials", listMaterials)
	api.GET("/materials/:id", getMaterial)

	api.POST("/stock-snapshots", createStockSnapshot)
	api.PUT("/stock-snapshots/:id", updateStockSnapshot)

	api.POST("/movements", postMovement)

	api.POST("/daily-reports", createDailyReport)
	api.GET("/daily-reports", listDailyReports)
	api.GET("/daily-reports/today", findTodayDailyReport)
	api.GET("/daily-reports/:id", getDailyReport)
	api.PUT("/daily-reports/:id", updateDailyReport)
}

// respondError maps business failures onto stable status codes and hides
// infrastructure errors behind a generic 500.
func respondError(c *gin.Context, err error) {
	if be, ok := models.AsBusinessError(err); ok {
		status := http.StatusBadRequest
		switch be.Code {
		case models.ErrCodeNotFound:
			status = http.StatusNotFound
		case models.ErrCodeDuplicateEntry:
			status = http.StatusConflict
		case models.ErrCodeInsufficientStock, models.ErrCodeInvalidTransferSpec:
			status = http.StatusUnprocessableEntity
		case models.ErrCodeValidation:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"code": string(be.Code), "message": be.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "message": "internal error"})
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": string(models.ErrCodeValidation), "message": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": string(models.ErrCodeValidation), "message": "invalid " + name})
		return 0, false
	}
	return v, true
}
