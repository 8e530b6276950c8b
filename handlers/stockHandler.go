package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/buildsite/sitestock_backend/models"
)

type updateStockSnapshotRequest struct {
	WarningThreshold *decimal.Decimal `json:"warning_threshold"`
}

func createStockSnapshot(c *gin.Context) {
	var input models.NewStockSnapshot
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": string(models.ErrCodeValidation), "message": err.Error()})
		return
	}
	snapshot, err := models.CreateStockSnapshot(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func updateStockSnapshot(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req updateStockSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": string(models.ErrCodeValidation), "message": err.Error()})
		return
	}
	snapshot, err := models.UpdateStockSnapshotThreshold(c.Request.Context(), id, req.WarningThreshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func getStocksByWarehouse(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	snapshots, err := models.GetStocksByWarehouse(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

func getStocksByProject(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	snapshots, err := models.GetStocksByProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}
