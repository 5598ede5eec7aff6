package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/domain/auth"
	"github.com/skyhire/skyhire-api/internal/domain/availability"
	"github.com/skyhire/skyhire-api/internal/domain/booking"
	"github.com/skyhire/skyhire-api/internal/domain/notification"
	"github.com/skyhire/skyhire-api/internal/domain/profile"
	"github.com/skyhire/skyhire-api/internal/domain/search"
	"github.com/skyhire/skyhire-api/internal/pkg/jwt"
)

// testRouter wires handlers whose services are never reached by the requests below
func testRouter(t *testing.T) (http.Handler, *jwt.Service, string) {
	t.Helper()
	jwtService := jwt.NewService("secret", time.Minute, time.Hour)
	uploads := t.TempDir()

	d := &routerDeps{
		jwt:            jwtService,
		allowedOrigins: []string{"http://localhost:3000"},
		uploadsDir:     uploads,
		auth:           auth.NewHandler(auth.NewService(nil, nil, nil, jwtService, auth.NewRedisRefreshStore(nil))),
		profiles:       profile.NewHandler(profile.NewService(nil, nil, nil, nil, nil), nil),
		availability:   availability.NewHandler(availability.NewService(nil, nil, nil, nil)),
		bookings:       booking.NewHandler(booking.NewService(nil, nil, nil, nil, nil, nil)),
		search:         search.NewHandler(search.NewService(nil, nil, nil, nil, 0)),
		ws:             notification.NewHandler(notification.NewHub(nil), nil),
	}
	return newRouter(d), jwtService, uploads
}

func bearer(t *testing.T, svc *jwt.Service, role string) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(uuid.New(), role)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + token
}

func TestRouterPublicEndpoints(t *testing.T) {
	router, _, _ := testRouter(t)

	for _, path := range []string{"/health", "/api/v1/ping"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
	}
}

func TestRouterRoleGates(t *testing.T) {
	router, jwtService, _ := testRouter(t)
	id := uuid.New().String()

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"book without token", http.MethodPost, "/api/v1/book", "", http.StatusUnauthorized},
		{"book as pilot", http.MethodPost, "/api/v1/book", bearer(t, jwtService, "pilot"), http.StatusForbidden},
		{"publish as client", http.MethodPost, "/api/v1/profile/availability", bearer(t, jwtService, "client"), http.StatusForbidden},
		{"add service as client", http.MethodPost, "/api/v1/profile/services", bearer(t, jwtService, "client"), http.StatusForbidden},
		{"request as pilot", http.MethodPost, "/api/v1/bookings/requests", bearer(t, jwtService, "pilot"), http.StatusForbidden},
		{"release", http.MethodPost, "/api/v1/bookings/" + id + "/release", bearer(t, jwtService, "pilot"), http.StatusNotImplemented},
		{"me without token", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d body=%s", tt.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestRouterWebSocketRequiresToken(t *testing.T) {
	router, _, _ := testRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws?token=garbage", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", rr.Code)
	}
}

func TestRouterServesLocalUploads(t *testing.T) {
	router, _, dir := testRouter(t)
	if err := os.MkdirAll(filepath.Join(dir, "portfolio"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "portfolio", "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/portfolio/a.txt", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "hello" {
		t.Fatalf("unexpected upload response %d %q", rr.Code, rr.Body.String())
	}
}
