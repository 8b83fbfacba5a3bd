package handler

import (
	"net/http"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/service"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	svc   service.OrderService
	users service.UserService
}

func NewOrderHandler(svc service.OrderService, users service.UserService) *OrderHandler {
	return &OrderHandler{svc: svc, users: users}
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	orders, err := h.svc.ListForUser(c.Request().Context(), u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch orders"))
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	var req OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	order, err := h.svc.UpdateStatus(c.Request().Context(), u, c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "order not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed for this order"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Dashboard(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleTailor {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "tailor account required"))
	}
	stats, err := h.svc.Dashboard(c.Request().Context(), u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to compute dashboard"))
	}
	return c.JSON(http.StatusOK, stats)
}
