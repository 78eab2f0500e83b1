package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sundayschool/internal/apperr"
	"sundayschool/internal/classconfig"
	"sundayschool/internal/schoolyear"
)

func (a *API) upsertClassConfig(c *gin.Context) {
	var in struct {
		SchoolYear string                 `json:"schoolYear"`
		Classes    []classconfig.ClassDef `json:"classes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.Validation("please provide a classes array"))
		return
	}
	cfg, created, err := a.Configs.Upsert(c.Request.Context(), in.SchoolYear, in.Classes)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, cfg)
}

func (a *API) getClassConfig(c *gin.Context) {
	cfg, err := a.Configs.Get(c.Request.Context(), c.Param("schoolYear"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (a *API) listClassConfigs(c *gin.Context) {
	configs, err := a.Configs.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, configs)
}

func (a *API) deleteClassConfig(c *gin.Context) {
	year := c.Param("schoolYear")
	if err := a.Configs.Delete(c.Request.Context(), year); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "class configuration for " + year + " deleted successfully"})
}

func (a *API) currentSchoolYear(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"schoolYear": schoolyear.Current()})
}
