package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sundayschool/internal/apperr"
	"sundayschool/internal/attendance"
	"sundayschool/internal/auth"
	"sundayschool/internal/user"
)

func (a *API) actor(c *gin.Context) (user.User, bool) {
	u, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
	}
	return u, ok
}

func (a *API) recordOne(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}
	var in attendance.RecordOneInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.Validation("please provide studentId, date and status"))
		return
	}
	rec, err := a.Attendance.RecordOne(c.Request.Context(), in, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (a *API) recordBulk(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}
	var in attendance.BulkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.Validation("please provide date and an attendanceRecords array"))
		return
	}
	year, result, err := a.Attendance.RecordBulk(c.Request.Context(), in, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "bulk attendance processed",
		"schoolYear": year,
		"results":    result,
	})
}

func (a *API) attendanceByDate(c *gin.Context) {
	year, records, err := a.Attendance.ByDate(c.Request.Context(), c.Param("date"), c.Query("schoolYear"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schoolYear": year, "attendanceRecords": records})
}

func (a *API) attendanceRoster(c *gin.Context) {
	className := c.Param("className")
	date := c.Param("date")
	year, entries, err := a.Attendance.Roster(c.Request.Context(), className, date, c.Query("schoolYear"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"schoolYear": year,
		"class":      className,
		"date":       date,
		"students":   entries,
	})
}

func (a *API) attendanceByClass(c *gin.Context) {
	year, records, err := a.Attendance.HistoryByClass(c.Request.Context(), c.Param("className"), c.Query("schoolYear"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schoolYear": year, "attendanceRecords": records})
}

func (a *API) attendanceByStudent(c *gin.Context) {
	year, records, err := a.Attendance.HistoryByStudent(c.Request.Context(), c.Param("studentId"), c.Query("schoolYear"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schoolYear": year, "attendanceRecords": records})
}

func (a *API) classStats(c *gin.Context) {
	stats, err := a.Attendance.ClassStats(c.Request.Context(), c.Param("className"), c.Query("schoolYear"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (a *API) updateRecord(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.Validation("please provide a status"))
		return
	}
	rec, err := a.Attendance.UpdateOne(c.Request.Context(), c.Param("schoolYear"), c.Param("id"), in.Status, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (a *API) deleteRecord(c *gin.Context) {
	if err := a.Attendance.DeleteOne(c.Request.Context(), c.Param("schoolYear"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance record deleted successfully"})
}
