package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildsite/sitestock_backend/models"
)

func createProject(c *gin.Context) {
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": string(models.ErrCodeValidation), "message": err.Error()})
		return
	}
	project, err := models.CreateProject(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func deleteProject(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if err := models.DeleteProject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func listMaterials(c *gin.Context) {
	materials, err := models.ListMaterials(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, materials)
}

func getMaterial(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	material, err := models.GetMaterial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}
