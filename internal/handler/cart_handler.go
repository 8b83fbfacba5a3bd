package handler

import (
	"net/http"

	"github.com/Devam759/StitchUp-Firebase/internal/service"
	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	svc   service.CartService
	users service.UserService
}

func NewCartHandler(svc service.CartService, users service.UserService) *CartHandler {
	return &CartHandler{svc: svc, users: users}
}

func (h *CartHandler) List(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	items, err := h.svc.List(c.Request().Context(), u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch cart"))
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) Add(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	item, err := h.svc.Add(c.Request().Context(), u, c.Param("id"))
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "tailor not found"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) Clear(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if err := h.svc.Clear(c.Request().Context(), u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to clear cart"))
	}
	return c.JSON(http.StatusOK, statusOK)
}

func (h *CartHandler) Remove(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), u.ID, c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to remove item"))
	}
	return c.JSON(http.StatusOK, statusOK)
}
