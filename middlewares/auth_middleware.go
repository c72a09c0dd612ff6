package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/stall-pos/utils"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxFullName = "full_name"
	CtxRole     = "role"
	CtxToken    = "token"
	CtxClaims   = "claims"
)

func AuthMiddleware(blacklist *utils.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.AbortError(c, http.StatusUnauthorized, errors.New("Authorization header must use the Bearer scheme"))
			return
		}

		authenticate(c, blacklist, strings.TrimPrefix(authHeader, "Bearer "))
	}
}

func authenticate(c *gin.Context, blacklist *utils.TokenBlacklist, tokenString string) {
	claims, err := blacklist.ValidateToken(tokenString)
	if err != nil || claims == nil {
		utils.AbortError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
		return
	}
	if claims.UserID == 0 {
		utils.AbortError(c, http.StatusUnauthorized, errors.New("Invalid user ID in token"))
		return
	}

	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxUsername, claims.Username)
	c.Set(CtxFullName, claims.FullName)
	c.Set(CtxRole, claims.Role)
	c.Set(CtxToken, tokenString)
	c.Set(CtxClaims, claims)
	c.Next()
}
