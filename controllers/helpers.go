package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/stall-pos/middlewares"
	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/utils"
)

var errInvalidID = errors.New("invalid id")

// parseID reads a positive numeric path parameter, answering 400 when it is not one.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errInvalidID)
		return 0, false
	}
	return uint(id), true
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(middlewares.CtxUserID)
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middlewares.CtxRole) == models.RoleAdmin
}

// credentials builds the cashier identity of the authenticated request.
func credentials(c *gin.Context) pos.Credentials {
	return pos.Credentials{
		Cashier: pos.Cashier{
			ID:       currentUserID(c),
			Username: c.GetString(middlewares.CtxUsername),
			FullName: c.GetString(middlewares.CtxFullName),
		},
		Token: c.GetString(middlewares.CtxToken),
	}
}
