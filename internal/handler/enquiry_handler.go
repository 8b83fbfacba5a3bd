package handler

import (
	"net/http"
	"time"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/service"
	"github.com/Devam759/StitchUp-Firebase/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EnquiryHandler struct {
	svc      service.EnquiryService
	users    service.UserService
	uploader *storage.Uploader
}

func NewEnquiryHandler(svc service.EnquiryService, users service.UserService, uploader *storage.Uploader) *EnquiryHandler {
	return &EnquiryHandler{svc: svc, users: users, uploader: uploader}
}

type MessageRequest struct {
	Text         string `json:"text"`
	CustomerName string `json:"customerName"`
}

type PricingRequest struct {
	Service      string `json:"service"`
	Price        int    `json:"price"`
	CustomerName string `json:"customerName"`
}

type RejectRequest struct {
	Reason       string `json:"reason"`
	CustomerName string `json:"customerName"`
}

type AcceptRequest struct {
	Service      string `json:"service"`
	Price        int    `json:"price"`
	WorkType     string `json:"workType"`
	CustomerName string `json:"customerName"`
}

type EnquiryListEntry struct {
	model.Enquiry
	Preview string `json:"preview"`
	HasNew  bool   `json:"hasNew"`
}

type ThreadResponse struct {
	Enquiry  *model.Enquiry  `json:"enquiry"`
	Messages []model.Message `json:"messages"`
}

// SendFromCustomer opens (or continues) the thread with the tailor in the
// path. The thread itself is created lazily on the first message.
func (h *EnquiryHandler) SendFromCustomer(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleCustomer {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "customer account required"))
	}
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.SendCustomerMessage(c.Request().Context(), u, c.Param("id"), req.Text)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "tailor not found"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, msg)
}

// CustomerThread returns the caller's conversation with the tailor in the
// path; a thread that does not exist yet is an empty list, not an error.
func (h *EnquiryHandler) CustomerThread(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	enq, msgs, err := h.svc.Thread(c.Request().Context(), u.ID, c.Param("id"), u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch thread"))
	}
	return c.JSON(http.StatusOK, ThreadResponse{Enquiry: enq, Messages: msgs})
}

func (h *EnquiryHandler) List(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleTailor {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "tailor account required"))
	}
	previews, err := h.svc.ListForTailor(c.Request().Context(), u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch enquiries"))
	}
	resp := make([]EnquiryListEntry, 0, len(previews))
	for _, p := range previews {
		entry := EnquiryListEntry{Enquiry: p.Enquiry, Preview: "No messages yet"}
		if p.LastMessage != nil {
			entry.Preview = p.LastMessage.Preview()
			entry.HasNew = p.LastMessage.From == model.FromCustomer
		}
		resp = append(resp, entry)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EnquiryHandler) TailorThread(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	enq, msgs, err := h.svc.Thread(c.Request().Context(), c.Param("customerId"), u.ID, u.ID)
	if err != nil {
		if err == service.ErrForbidden {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch thread"))
	}
	return c.JSON(http.StatusOK, ThreadResponse{Enquiry: enq, Messages: msgs})
}

func (h *EnquiryHandler) SendFromTailor(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleTailor {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "tailor account required"))
	}
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.SendTailorMessage(c.Request().Context(), u, c.Param("customerId"), customerNameOrDefault(req.CustomerName), req.Text)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *EnquiryHandler) SendPricing(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleTailor {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "tailor account required"))
	}
	var req PricingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.SendPricing(c.Request().Context(), u, c.Param("customerId"), customerNameOrDefault(req.CustomerName), req.Service, req.Price)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *EnquiryHandler) ShareNumber(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleTailor {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "tailor account required"))
	}
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.ShareNumber(c.Request().Context(), u, c.Param("customerId"), customerNameOrDefault(req.CustomerName))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *EnquiryHandler) Reject(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleTailor {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "tailor account required"))
	}
	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.svc.Reject(c.Request().Context(), u, c.Param("customerId"), customerNameOrDefault(req.CustomerName), req.Reason); err != nil {
		if err == service.ErrEnquiryClosed {
			return c.JSON(http.StatusConflict, NewErrorResponse("conflict", err.Error()))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, statusOK)
}

func (h *EnquiryHandler) Accept(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if u.Role != model.RoleTailor {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "tailor account required"))
	}
	var req AcceptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	order, err := h.svc.Accept(c.Request().Context(), u, c.Param("customerId"), customerNameOrDefault(req.CustomerName), req.Service, req.Price, model.WorkType(req.WorkType))
	if err != nil {
		if err == service.ErrEnquiryClosed {
			return c.JSON(http.StatusConflict, NewErrorResponse("conflict", err.Error()))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, order)
}

// SendVoice uploads the audio to media storage and appends a voice message
// referencing it. The path parameter names the other side of the thread.
func (h *EnquiryHandler) SendVoice(c echo.Context) error {
	u, err := resolveUser(c, h.users)
	if err != nil {
		return err
	}
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("storage_unavailable", "media storage is not configured"))
	}
	counterpartID := c.Param("customerId")
	if counterpartID == "" {
		counterpartID = c.Param("id")
	}
	counterpart, err := h.users.Get(c.Request().Context(), counterpartID)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "recipient not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch recipient"))
	}

	fh, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "audio file is required"))
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "cannot read audio file"))
	}
	defer f.Close()

	object := "voice/" + time.Now().Format("20060102") + "/" + uuid.NewString()
	url, err := h.uploader.Upload(c.Request().Context(), object, fh.Header.Get("Content-Type"), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to upload audio"))
	}

	msg, err := h.svc.SendVoice(c.Request().Context(), u, counterpart, url)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, msg)
}

func customerNameOrDefault(name string) string {
	if name == "" {
		return "Customer"
	}
	return name
}
