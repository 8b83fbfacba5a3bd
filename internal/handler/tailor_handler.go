package handler

import (
	"net/http"

	"github.com/Devam759/StitchUp-Firebase/internal/eta"
	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/service"
	"github.com/Devam759/StitchUp-Firebase/internal/storage"
	"github.com/labstack/echo/v4"
)

type TailorHandler struct {
	svc      service.TailorService
	users    service.UserService
	uploader *storage.Uploader
}

func NewTailorHandler(svc service.TailorService, users service.UserService, uploader *storage.Uploader) *TailorHandler {
	return &TailorHandler{svc: svc, users: users, uploader: uploader}
}

type TailorCard struct {
	model.User
	ETA string `json:"eta"`
}

func (h *TailorHandler) List(c echo.Context) error {
	tailors, err := h.svc.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch tailors"))
	}
	resp := make([]TailorCard, 0, len(tailors))
	for _, t := range tailors {
		resp = append(resp, TailorCard{
			User: t,
			ETA:  eta.Estimate(t.HeavyTasks, t.LightTasks),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TailorHandler) Get(c echo.Context) error {
	t, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "tailor not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch tailor"))
	}
	return c.JSON(http.StatusOK, TailorCard{
		User: *t,
		ETA:  eta.Estimate(t.HeavyTasks, t.LightTasks),
	})
}

type RateCardRequest struct {
	Pricing model.PricingMap `json:"pricing"`
	Hours   model.Hours      `json:"hours"`
	Skills  model.SkillSet   `json:"skills"`
	KYC     model.KYC        `json:"kyc"`
}

func (h *TailorHandler) UpdateRateCard(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleTailor {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "tailor account required"))
	}
	var req RateCardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.svc.UpdateRateCard(c.Request().Context(), u.ID, service.RateCardUpdate{
		Pricing: req.Pricing,
		Hours:   req.Hours,
		Skills:  req.Skills,
		KYC:     req.KYC,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to save rate card"))
	}
	return c.JSON(http.StatusOK, statusOK)
}

type ProfileRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	About    *string `json:"about"`
	YearsExp *int    `json:"yearsExp"`
}

func (h *TailorHandler) UpdateProfile(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.svc.UpdateProfile(c.Request().Context(), u.ID, service.ProfileUpdate{
		Name:     req.Name,
		Address:  req.Address,
		About:    req.About,
		YearsExp: req.YearsExp,
	}); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, statusOK)
}

type AvailabilityRequest struct {
	Available bool `json:"available"`
}

func (h *TailorHandler) UpdateAvailability(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleTailor {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "tailor account required"))
	}
	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.svc.SetAvailability(c.Request().Context(), u.ID, req.Available); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to update availability"))
	}
	return c.JSON(http.StatusOK, statusOK)
}

type PresenceRequest struct {
	Active bool `json:"active"`
}

func (h *TailorHandler) UpdatePresence(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleTailor {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "tailor account required"))
	}
	var req PresenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.svc.SetPresence(c.Request().Context(), u.ID, req.Active); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to update presence"))
	}
	return c.JSON(http.StatusOK, statusOK)
}

func (h *TailorHandler) UploadBanner(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleTailor {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "tailor account required"))
	}
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("storage_unavailable", "media storage is not configured"))
	}
	fh, err := c.FormFile("banner")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "banner file is required"))
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "cannot read banner file"))
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request().Context(), "banners/"+u.ID, fh.Header.Get("Content-Type"), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to upload banner"))
	}
	if err := h.svc.SetBanner(c.Request().Context(), u.ID, url); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to save banner"))
	}
	return c.JSON(http.StatusOK, map[string]string{"bannerUrl": url})
}
