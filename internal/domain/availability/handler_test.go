package availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/middleware"
)

func publish(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/profile/availability", strings.NewReader(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), "pilot"))
	rec := httptest.NewRecorder()
	h.Publish(rec, req)

	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec, out
}

func errorCode(body map[string]interface{}) string {
	e, _ := body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func TestPublishHandlerStatusCodes(t *testing.T) {
	svc, ledger, profileID := newTestService()
	h := NewHandler(svc)

	rec, body := publish(t, h, `{"dates":["2025-06-01","2025-06-02"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := body["data"].(map[string]interface{})
	if dates := data["available_dates"].([]interface{}); len(dates) != 2 || dates[0] != "2025-06-01" {
		t.Fatalf("unexpected response %v", data)
	}

	rec, body = publish(t, h, `{"dates":["01/06/2025"]}`)
	if rec.Code != http.StatusBadRequest || errorCode(body) != "INVALID_DATE" {
		t.Fatalf("expected 400 INVALID_DATE, got %d %v", rec.Code, body)
	}

	rec, body = publish(t, h, `{}`)
	if rec.Code != http.StatusBadRequest || errorCode(body) != "VALIDATION_ERROR" {
		t.Fatalf("expected 400 VALIDATION_ERROR for missing dates, got %d %v", rec.Code, body)
	}

	d, _ := ParseDate("2025-06-01")
	ledger.MarkBooked(context.Background(), profileID, d)
	rec, body = publish(t, h, `{"dates":["2025-06-02"]}`)
	if rec.Code != http.StatusConflict || errorCode(body) != "BOOKED_DATE_REMOVAL" {
		t.Fatalf("expected 409 BOOKED_DATE_REMOVAL, got %d %v", rec.Code, body)
	}
}
