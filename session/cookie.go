package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetCookie stores token in the session cookie.
func SetCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, MaxAge, "/", "", secure, true)
}

// ClearCookie overwrites the session cookie with an expired one.
func ClearCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}

// FromRequest returns the raw session token, or "" when there is none.
func FromRequest(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}
