package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildsite/sitestock_backend/models"
)

func createWarehouse(c *gin.Context) {
	var input models.NewWarehouse
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": string(models.ErrCodeValidation), "message": err.Error()})
		return
	}
	warehouse, err := models.CreateWarehouse(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, warehouse)
}

func listWarehouses(c *gin.Context) {
	var name *string
	if v := c.Query("name"); v != "" {
		name = &v
	}
	warehouses, err := models.ListWarehouses(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, warehouses)
}

func getWarehouse(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	warehouse, err := models.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, warehouse)
}

func updateWarehouse(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewWarehouse
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": string(models.ErrCodeValidation), "message": err.Error()})
		return
	}
	warehouse, err := models.UpdateWarehouse(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, warehouse)
}

func deleteWarehouse(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	warehouse, err := models.DeleteWarehouse(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, warehouse)
}

func listWarehousesByProject(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	warehouses, err := models.ListWarehousesByProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, warehouses)
}
