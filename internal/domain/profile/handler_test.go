package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/middleware"
)

type stubLister struct {
	dates map[uuid.UUID][]time.Time
}

func (s stubLister) ListAvailable(ctx context.Context, profileID uuid.UUID) ([]time.Time, error) {
	return s.dates[profileID], nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return env
}

func newTestRouter(h *Handler, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Mount("/pilots", h.PublicRoutes())
	r.Route("/profile", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithIdentity(req.Context(), userID, "pilot")))
			})
		})
		h.RegisterOwnerRoutes(r)
	})
	return r
}

func TestGetByIDIncludesAvailableDates(t *testing.T) {
	pilot := pilotUser()
	svc, _, _ := newTestService(t, pilot)
	p, err := svc.Ensure(context.Background(), pilot.ID)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := svc.AddService(context.Background(), pilot.ID, &CreateServiceRequest{Name: "Vídeo Inmobiliario", Price: 450}); err != nil {
		t.Fatalf("add service: %v", err)
	}

	lister := stubLister{dates: map[uuid.UUID][]time.Time{
		p.ID: {
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
	}}
	router := newTestRouter(NewHandler(svc, lister), pilot.ID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pilots/"+p.ID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var detail DetailResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if len(detail.AvailableDates) != 2 || detail.AvailableDates[0] != "2025-06-01" || detail.AvailableDates[1] != "2025-06-02" {
		t.Fatalf("unexpected dates %v", detail.AvailableDates)
	}
	if len(detail.Services) != 1 || detail.Services[0].Price != 450 {
		t.Fatalf("unexpected services %+v", detail.Services)
	}
	if detail.ProfilePictureURL != "https://picsum.photos/seed/"+p.ID.String()+"/300/300" {
		t.Fatalf("unexpected placeholder %s", detail.ProfilePictureURL)
	}
}

func TestGetByIDUnknownProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	router := newTestRouter(NewHandler(svc, stubLister{}), uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pilots/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pilots/not-a-uuid/availability", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddServiceValidation(t *testing.T) {
	pilot := pilotUser()
	svc, _, _ := newTestService(t, pilot)
	router := newTestRouter(NewHandler(svc, stubLister{}), pilot.ID)

	body := bytes.NewBufferString(`{"name":"Paquete Boda Básico","price":0}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/profile/services", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" || env.Error.Details["price"] == "" {
		t.Fatalf("expected price validation error, got %s", rec.Body.String())
	}

	body = bytes.NewBufferString(`{"name":"Paquete Boda Básico","description":"4 horas de cobertura","price":800}`)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/profile/services", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateRejectsBlankName(t *testing.T) {
	pilot := pilotUser()
	svc, _, _ := newTestService(t, pilot)
	router := newTestRouter(NewHandler(svc, stubLister{}), pilot.ID)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/profile", bytes.NewBufferString(body)))
		return rec
	}
	nameOf := func(rec *httptest.ResponseRecorder) string {
		var p ProfileResponse
		if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &p); err != nil {
			t.Fatalf("decode profile: %v", err)
		}
		return p.Name
	}

	for _, body := range []string{`{"name":"   "}`, `{"name":""}`, `{"name":"\t\n"}`} {
		rec := post(body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
		env := decodeEnvelope(t, rec)
		if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" || env.Error.Details["name"] == "" {
			t.Fatalf("%s: expected name validation error, got %s", body, rec.Body.String())
		}
	}

	// omitted name keeps the current one
	rec := post(`{"tagline":"Cinematografía Aérea Avanzada"}`)
	if rec.Code != http.StatusOK || nameOf(rec) != "piloto_test" {
		t.Fatalf("expected name to stay piloto_test, got %d %s", rec.Code, rec.Body.String())
	}

	rec = post(`{"name":"  AeroVision Pro "}`)
	if rec.Code != http.StatusOK || nameOf(rec) != "AeroVision Pro" {
		t.Fatalf("expected trimmed name, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestUploadPortfolioRequiresFile(t *testing.T) {
	pilot := pilotUser()
	svc, _, _ := newTestService(t, pilot)
	router := newTestRouter(NewHandler(svc, stubLister{}), pilot.ID)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("caption", "sin archivo")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/profile/portfolio", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadPortfolioCreatesItem(t *testing.T) {
	pilot := pilotUser()
	svc, _, _ := newTestService(t, pilot)
	router := newTestRouter(NewHandler(svc, stubLister{}), pilot.ID)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "aerial.png")
	_, _ = fw.Write(testPNG(t))
	_ = mw.WriteField("caption", "Atardecer")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/profile/portfolio", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var item PortfolioItemResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if item.Caption != "Atardecer" || item.ThumbnailURL == "" {
		t.Fatalf("unexpected item %+v", item)
	}
}
