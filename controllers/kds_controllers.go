package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/stall-pos/kds"
	"github.com/yeremiapane/stall-pos/middlewares"
	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/utils"
)

type KDSController struct {
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts upgrades from any origin; the token in the query
// string is what authenticates the display.
func NewKDSController(hub *kds.Hub) *KDSController {
	return &KDSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// KDSHandler -> endpoint WebSocket
func (kc *KDSController) KDSHandler(c *gin.Context) {
	role := c.GetString(middlewares.CtxRole)
	if role != models.RoleAdmin && role != models.RoleCashier {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("Websocket upgrade failed: %v", err)
		return
	}

	kc.Hub.Register(ws, role)
	utils.InfoLogger.Printf("Kitchen display connected (%s), %d clients", c.GetString(middlewares.CtxUsername), kc.Hub.ClientCount())

	// displays only listen; reading detects the disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kc.Hub.Unregister(ws)
}
