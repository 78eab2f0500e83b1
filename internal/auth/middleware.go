package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sundayschool/internal/user"
)

// SessionCookie is the cookie name the client may carry the token in.
const SessionCookie = "jwt"

const userContextKey = "currentUser"

// UserLoader fetches the account behind a verified token.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Protect enforces a valid session token. The Authorization header is
// checked first, then the jwt cookie. The resolved account must exist and
// be active; it is stored in the request context for handlers.
func Protect(signingKey, issuer string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				tokenStr = cookie
			}
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, no token"})
			return
		}

		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, invalid token"})
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || !u.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, user not found"})
			return
		}

		c.Set(userContextKey, u)
		c.Next()
	}
}

// AdminOnly rejects requests whose account does not hold the admin role.
// Must run after Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
			return
		}
		if !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "access denied, admin only"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the account Protect resolved for this request.
func CurrentUser(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func bearerToken(c *gin.Context) string {
	authz := c.GetHeader("Authorization")
	if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return ""
	}
	return strings.TrimSpace(authz[len("bearer "):])
}
