package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/labstack/echo/v4"
)

// stubUsers resolves every request to a fixed user.
type stubUsers struct {
	user *model.User
}

func (s *stubUsers) Resolve(ctx context.Context, uid, phone string) (*model.User, error) {
	return s.user, nil
}

func (s *stubUsers) Signup(ctx context.Context, uid, phone, name string, role model.Role) (*model.User, error) {
	return s.user, nil
}

func (s *stubUsers) Get(ctx context.Context, id string) (*model.User, error) {
	return s.user, nil
}

func TestSendFromCustomerRejectsTailorAccount(t *testing.T) {
	users := &stubUsers{user: &model.User{ID: "tail2", Role: model.RoleTailor, Name: "Other Tailors"}}
	// svc stays nil: the role guard must fire before any service call
	h := NewEnquiryHandler(nil, users, nil)

	e := echo.New()
	body := strings.NewReader(`{"text":"looks cheaper over here"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tailors/tail1/messages", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "firebase_tail2")
	c.SetParamNames("id")
	c.SetParamValues("tail1")

	if err := h.SendFromCustomer(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusForbidden)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body: %v", err)
	}
	if resp.Error.Code != "forbidden" {
		t.Fatalf("code=%q want=%q", resp.Error.Code, "forbidden")
	}
}
