package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/stall-pos/utils"
)

// WebSocketAuthMiddleware reads the token from the query string since browsers
// cannot set headers on websocket upgrades.
func WebSocketAuthMiddleware(blacklist *utils.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.AbortError(c, http.StatusUnauthorized, errors.New("token query parameter missing"))
			return
		}
		authenticate(c, blacklist, token)
	}
}
