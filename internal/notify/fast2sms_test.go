package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFast2SMSClientSend(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"return": true, "message": "ok"})
	}))
	defer srv.Close()

	c := NewFast2SMSClient("test-key")
	c.baseURL = srv.URL

	if err := c.Send(context.Background(), "9876543210", "new enquiry"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotQuery["authorization"] != "test-key" {
		t.Fatalf("authorization=%q", gotQuery["authorization"])
	}
	if gotQuery["route"] != "q" {
		t.Fatalf("route=%q", gotQuery["route"])
	}
	if gotQuery["numbers"] != "9876543210" {
		t.Fatalf("numbers=%q", gotQuery["numbers"])
	}
	if gotQuery["message"] != "new enquiry" {
		t.Fatalf("message=%q", gotQuery["message"])
	}
}

func TestFast2SMSClientGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"return": false, "message": "invalid key"})
	}))
	defer srv.Close()

	c := NewFast2SMSClient("bad-key")
	c.baseURL = srv.URL

	if err := c.Send(context.Background(), "9876543210", "new enquiry"); err == nil {
		t.Fatal("expected error for rejected message")
	}
}

func TestFast2SMSClientMissingKey(t *testing.T) {
	c := NewFast2SMSClient("")
	if err := c.Send(context.Background(), "9876543210", "new enquiry"); err == nil {
		t.Fatal("expected error when api key is not set")
	}
}
