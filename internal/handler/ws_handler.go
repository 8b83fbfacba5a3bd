package handler

import (
	"net/http"

	"github.com/Devam759/StitchUp-Firebase/internal/service"
	"github.com/Devam759/StitchUp-Firebase/internal/ws"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type WSHandler struct {
	hub      *ws.Hub
	users    service.UserService
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, users service.UserService) *WSHandler {
	return &WSHandler{
		hub:   hub,
		users: users,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are already screened by the CORS layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) Connect(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	h.hub.Serve(conn, u)
	return nil
}
