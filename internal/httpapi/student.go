package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sundayschool/internal/apperr"
	"sundayschool/internal/student"
)

type studentRequest struct {
	FullName      string `json:"fullName" binding:"required"`
	ChristianName string `json:"christianName"`
	NameDayMonth  int    `json:"nameDayMonth"`
	Grade         string `json:"grade" binding:"required"`
	Gender        string `json:"gender" binding:"required"`
	MotherName    string `json:"motherName"`
	MotherContact string `json:"motherContact"`
	FatherName    string `json:"fatherName"`
	FatherContact string `json:"fatherContact"`
}

func (a *API) createStudent(c *gin.Context) {
	var in studentRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.Validation("please provide fullName, grade and gender"))
		return
	}
	st, err := a.Students.Create(c.Request.Context(), student.Student{
		FullName:      in.FullName,
		ChristianName: in.ChristianName,
		NameDayMonth:  in.NameDayMonth,
		Grade:         in.Grade,
		Gender:        in.Gender,
		MotherName:    in.MotherName,
		MotherContact: in.MotherContact,
		FatherName:    in.FatherName,
		FatherContact: in.FatherContact,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (a *API) listStudents(c *gin.Context) {
	students, err := a.Students.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (a *API) getStudent(c *gin.Context) {
	st, err := a.Students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (a *API) updateStudent(c *gin.Context) {
	var in student.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.Validation("invalid student payload"))
		return
	}
	st, err := a.Students.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (a *API) deleteStudent(c *gin.Context) {
	if err := a.Students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student deleted successfully"})
}
