// Package httpapi exposes the REST surface of the app.
package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"sundayschool/internal/attendance"
	"sundayschool/internal/auth"
	"sundayschool/internal/classconfig"
	"sundayschool/internal/student"
	"sundayschool/internal/user"
)

// UserService is the account surface the API needs; satisfied by
// *user.Service.
type UserService interface {
	Signup(ctx context.Context, fullName, email, password string) (user.User, error)
	Login(ctx context.Context, email, password string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	UpdateProfile(ctx context.Context, id string, in user.ProfileInput) (user.User, error)
}

// Sessions carries the token settings login and signup need.
type Sessions struct {
	SigningKey   string
	Issuer       string
	AccessTTL    time.Duration
	RememberTTL  time.Duration
	SecureCookie bool
}

// API bundles the services behind the REST endpoints.
type API struct {
	Attendance *attendance.Service
	Students   *student.Service
	Configs    *classconfig.Service
	Users      UserService
	Sessions   Sessions
}

// RegisterRoutes mounts all endpoints under /api. Everything except signup,
// login and logout requires a valid session; admin-only routes additionally
// require the admin role.
func (a *API) RegisterRoutes(r *gin.Engine) {
	protect := auth.Protect(a.Sessions.SigningKey, a.Sessions.Issuer, a.Users)
	adminOnly := auth.AdminOnly()

	api := r.Group("/api")

	ua := api.Group("/auth")
	ua.POST("/signup", a.signup)
	ua.POST("/login", a.login)
	ua.POST("/logout", a.logout)
	ua.GET("/me", protect, a.me)
	ua.PUT("/me", protect, a.updateProfile)

	st := api.Group("/students", protect)
	st.GET("", a.listStudents)
	st.GET("/:id", a.getStudent)
	st.POST("", adminOnly, a.createStudent)
	st.PUT("/:id", adminOnly, a.updateStudent)
	st.DELETE("/:id", adminOnly, a.deleteStudent)

	att := api.Group("/attendance", protect)
	att.POST("", a.recordOne)
	att.POST("/bulk", a.recordBulk)
	att.GET("/date/:date", a.attendanceByDate)
	att.GET("/class/:className", a.attendanceByClass)
	att.GET("/class/:className/date/:date", a.attendanceRoster)
	att.GET("/student/:studentId", a.attendanceByStudent)
	att.GET("/stats/class/:className", a.classStats)
	att.PUT("/:schoolYear/:id", a.updateRecord)
	att.DELETE("/:schoolYear/:id", a.deleteRecord)

	cc := api.Group("/class-config", protect)
	cc.POST("", adminOnly, a.upsertClassConfig)
	cc.GET("", a.listClassConfigs)
	cc.GET("/current/year", a.currentSchoolYear)
	cc.GET("/:schoolYear", a.getClassConfig)
	cc.DELETE("/:schoolYear", adminOnly, a.deleteClassConfig)
}
