package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sundayschool/internal/apperr"
	"sundayschool/internal/auth"
	"sundayschool/internal/user"
)

type sessionResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

func (a *API) issueSession(c *gin.Context, u user.User, remember bool) (sessionResponse, error) {
	ttl := a.Sessions.AccessTTL
	if remember {
		ttl = a.Sessions.RememberTTL
	}
	token, exp, err := auth.Issue(u.ID, a.Sessions.Issuer, a.Sessions.SigningKey, ttl)
	if err != nil {
		return sessionResponse{}, err
	}
	maxAge := int(time.Until(exp).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, token, maxAge, "/", "", a.Sessions.SecureCookie, true)
	return sessionResponse{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role, Token: token}, nil
}

func (a *API) signup(c *gin.Context) {
	var in struct {
		FullName string `json:"fullName" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.Validation("fullName, email and password are required"))
		return
	}
	u, err := a.Users.Signup(c.Request.Context(), in.FullName, in.Email, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	session, err := a.issueSession(c, u, false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (a *API) login(c *gin.Context) {
	var in struct {
		Email      string `json:"email" binding:"required"`
		Password   string `json:"password" binding:"required"`
		RememberMe bool   `json:"rememberMe"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.Validation("email and password are required"))
		return
	}
	u, err := a.Users.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	session, err := a.issueSession(c, u, in.RememberMe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (a *API) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", a.Sessions.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (a *API) me(c *gin.Context) {
	u, ok := a.actor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, u)
}

func (a *API) updateProfile(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}
	var in user.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperr.Validation("invalid profile payload"))
		return
	}
	u, err := a.Users.UpdateProfile(c.Request.Context(), actor.ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
