package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrobz00/Joseph1/internal/adapters/notify"
	"github.com/jrobz00/Joseph1/internal/ports"
)

func TestEmailAPIDispatcherSendsTemplateParams(t *testing.T) {
	t.Parallel()
	var got struct {
		ServiceID      string `json:"service_id"`
		TemplateID     string `json:"template_id"`
		UserID         string `json:"user_id"`
		TemplateParams struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Status      string `json:"status"`
			Email       string `json:"email"`
		} `json:"template_params"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1.0/email/send" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dispatcher := notify.NewEmailAPIDispatcher(notify.EmailAPIConfig{
		BaseURL:   srv.URL,
		ServiceID: "service_ceu2i8g",
		PublicKey: "public-key",
	})
	err := dispatcher.Send(context.Background(), "template_84jn7h5", ports.NotificationPayload{
		Title:       "Bug",
		Description: "Broken nav",
		Status:      "Open",
		Email:       "a@x.com",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.ServiceID != "service_ceu2i8g" || got.TemplateID != "template_84jn7h5" || got.UserID != "public-key" {
		t.Fatalf("unexpected identifiers: %+v", got)
	}
	if got.TemplateParams.Title != "Bug" || got.TemplateParams.Email != "a@x.com" {
		t.Fatalf("unexpected template params: %+v", got.TemplateParams)
	}
}

func TestEmailAPIDispatcherSurfacesAPIErrors(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "template not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	dispatcher := notify.NewEmailAPIDispatcher(notify.EmailAPIConfig{BaseURL: srv.URL})
	if err := dispatcher.Send(context.Background(), "missing", ports.NotificationPayload{}); err == nil {
		t.Fatalf("expected error from non-200 response")
	}
}
