package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/buildsite/sitestock_backend/models"
	"github.com/buildsite/sitestock_backend/workflow"
)

type postMovementRequest struct {
	Kind            string          `json:"kind" binding:"required,movementkind"`
	WarehouseId     int             `json:"warehouse_id"`
	FromWarehouseId *int            `json:"from_warehouse_id"`
	ToWarehouseId   *int            `json:"to_warehouse_id"`
	MaterialId      int             `json:"material_id" binding:"required"`
	Qty             decimal.Decimal `json:"qty" binding:"required"`
	PersonId        int             `json:"person_id" binding:"required"`
}

// postMovement accepts any of the four movement kinds. Transfers answer
// with both rows of the mirrored pair.
func postMovement(c *gin.Context) {
	var req postMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": string(models.ErrCodeValidation), "message": err.Error()})
		return
	}
	entries, err := workflow.PostMovement(c.Request.Context(), workflow.MovementInput{
		Kind:            models.MovementKind(req.Kind),
		WarehouseId:     req.WarehouseId,
		FromWarehouseId: req.FromWarehouseId,
		ToWarehouseId:   req.ToWarehouseId,
		MaterialId:      req.MaterialId,
		Qty:             req.Qty,
		PersonId:        req.PersonId,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entries)
}

func listMovementsByWarehouse(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	entries, err := models.ListMovementsByWarehouse(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func listMovementsByProject(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	entries, err := models.ListMovementsByProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
