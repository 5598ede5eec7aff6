package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/domain/profile"
	"github.com/skyhire/skyhire-api/internal/pkg/recommender"
)

type stubProfiles struct {
	summaries []*profile.Summary
	services  []*profile.ServicePackage
}

func (s *stubProfiles) List(ctx context.Context) ([]*profile.Summary, error) {
	return s.summaries, nil
}

func (s *stubProfiles) ListServices(ctx context.Context, ids ...uuid.UUID) ([]*profile.ServicePackage, error) {
	return s.services, nil
}

type stubDates map[uuid.UUID][]time.Time

func (s stubDates) ListAvailableByProfile(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID][]time.Time, error) {
	return s, nil
}

type stubRecommender struct {
	configured bool
	answer     string
	err        error
	calls      int
	prompts    []string
}

func (s *stubRecommender) Configured() bool { return s.configured }

func (s *stubRecommender) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	return s.answer, s.err
}

type memCache map[string]string

func (m memCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m[key] = value
	return nil
}

func catalogue() (*stubProfiles, stubDates) {
	id := uuid.New()
	profiles := &stubProfiles{
		summaries: []*profile.Summary{{PilotProfile: profile.PilotProfile{
			ID:       id,
			Name:     "AeroVision Pro",
			Tagline:  "Tomas aéreas para bodas",
			Location: "Madrid",
		}}},
		services: []*profile.ServicePackage{{ProfileID: id, Name: "Paquete Boda Básico", Price: 800}},
	}
	dates := stubDates{id: {
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}}
	return profiles, dates
}

func TestBuildPromptIncludesCatalogue(t *testing.T) {
	profiles, dates := catalogue()
	svc := NewService(profiles, dates, &stubRecommender{configured: true}, nil, 0)

	prompt, n, err := svc.BuildPrompt(context.Background(), "  drone para boda en junio ")
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 profile, got %d", n)
	}
	for _, want := range []string{"AeroVision Pro", "Madrid", "Paquete Boda Básico, price 800", "2025-06-01, 2025-06-02", "Request: drone para boda en junio"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestSearchUsesCache(t *testing.T) {
	profiles, dates := catalogue()
	rec := &stubRecommender{configured: true, answer: "AeroVision Pro encaja"}
	svc := NewService(profiles, dates, rec, memCache{}, time.Hour)
	ctx := context.Background()

	first, err := svc.Search(ctx, "boda")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	second, err := svc.Search(ctx, "boda")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("expected one recommender call, got %d", rec.calls)
	}
	if first.Cached || !second.Cached || second.Answer != first.Answer {
		t.Fatalf("unexpected results %+v %+v", first, second)
	}
}

func TestSearchDependencyErrors(t *testing.T) {
	profiles, dates := catalogue()
	ctx := context.Background()

	svc := NewService(profiles, dates, &stubRecommender{}, nil, 0)
	if _, err := svc.Search(ctx, "boda"); !errors.Is(err, ErrDependency) || !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("unconfigured recommender must be a dependency error, got %v", err)
	}

	slow := fmt.Errorf("%w: %w: context deadline exceeded", recommender.ErrUnavailable, recommender.ErrTimeout)
	svc = NewService(profiles, dates, &stubRecommender{configured: true, err: slow}, memCache{}, time.Hour)
	_, err := svc.Search(ctx, "boda")
	if !errors.Is(err, ErrDependency) || !errors.Is(err, ErrTimeout) || !errors.Is(err, recommender.ErrUnavailable) {
		t.Fatalf("timed out recommender must keep its class, got %v", err)
	}

	svc = NewService(profiles, dates, &stubRecommender{configured: true, err: errors.New("boom")}, memCache{}, time.Hour)
	_, err = svc.Search(ctx, "boda")
	if !errors.Is(err, ErrDependency) || errors.Is(err, ErrTimeout) {
		t.Fatalf("failing recommender must be a plain dependency error, got %v", err)
	}
}

func TestSearchHandler(t *testing.T) {
	profiles, dates := catalogue()
	h := NewHandler(NewService(profiles, dates, &stubRecommender{configured: true, answer: "AeroVision Pro"}, nil, 0))

	rr := httptest.NewRecorder()
	h.Search(rr, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"boda en Madrid"}`)))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"recommendation":"AeroVision Pro"`) {
		t.Fatalf("unexpected response %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.Search(rr, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":""}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	down := NewHandler(NewService(profiles, dates, &stubRecommender{}, nil, 0))
	rr = httptest.NewRecorder()
	down.Search(rr, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"boda en Madrid"}`)))
	if rr.Code != http.StatusInternalServerError || !strings.Contains(rr.Body.String(), "DEPENDENCY_ERROR") {
		t.Fatalf("expected 500 DEPENDENCY_ERROR, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestSearchHandlerReportsOnlyFailureClass(t *testing.T) {
	profiles, dates := catalogue()
	upstream := fmt.Errorf("%w: status=502 body=%s", recommender.ErrUnavailable, `{"error":"quota exceeded for org-4711"}`)

	cases := []struct {
		name string
		rec  *stubRecommender
		want string
	}{
		{"not configured", &stubRecommender{}, "Recommendation service is not configured"},
		{"timeout", &stubRecommender{configured: true, err: fmt.Errorf("%w: %w: i/o timeout", recommender.ErrUnavailable, recommender.ErrTimeout)}, "Recommendation service timed out"},
		{"upstream error", &stubRecommender{configured: true, err: upstream}, "Recommendation service is unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(NewService(profiles, dates, tc.rec, nil, 0))
			rr := httptest.NewRecorder()
			h.Search(rr, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"boda en Madrid"}`)))

			body := rr.Body.String()
			if rr.Code != http.StatusInternalServerError || !strings.Contains(body, `"message":"`+tc.want+`"`) {
				t.Fatalf("expected %q, got %d %s", tc.want, rr.Code, body)
			}
			for _, leak := range []string{"status=502", "quota", "org-4711", "i/o timeout"} {
				if strings.Contains(body, leak) {
					t.Fatalf("response leaks %q: %s", leak, body)
				}
			}
		})
	}
}
