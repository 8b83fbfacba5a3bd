package handler

import (
	"net/http"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// resolveUser maps the verified token on the request onto the app's user
// record. Shared by every handler that needs the caller's identity.
func resolveUser(c echo.Context, svc service.UserService) (*model.User, error) {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing uid")
	}
	phone, _ := c.Get("phone").(string)
	u, err := svc.Resolve(c.Request().Context(), uid, phone)
	if err != nil {
		if err == service.ErrNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "no account found for this number")
		}
		return nil, err
	}
	return u, nil
}

type SignupRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func (h *UserHandler) Signup(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	role := model.Role(req.Role)
	if role == "" {
		role = model.RoleCustomer
	}
	phone := req.Phone
	if phone == "" {
		phone, _ = c.Get("phone").(string)
	}
	u, err := h.svc.Signup(c.Request().Context(), uid, phone, req.Name, role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, u)
}

// Session resolves the caller's profile after OTP verification; the frontend
// calls this right after sign-in instead of keeping an ambient local copy.
func (h *UserHandler) Session(c echo.Context) error {
	u, err := resolveUser(c, h.svc)
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return c.JSON(he.Code, NewErrorResponse("auth_error", he.Message.(string)))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to resolve session"))
	}
	return c.JSON(http.StatusOK, u)
}
