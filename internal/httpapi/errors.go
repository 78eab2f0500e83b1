package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"sundayschool/internal/apperr"
)

// respondError maps business errors onto HTTP statuses. Unknown errors are
// logged and hidden behind a generic 500 message.
func respondError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err), apperr.IsDuplicate(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
	}
}
