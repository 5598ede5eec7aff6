package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/domain/profile"
	"github.com/skyhire/skyhire-api/internal/pkg/logger"
	"github.com/skyhire/skyhire-api/internal/pkg/recommender"
	"github.com/skyhire/skyhire-api/internal/pkg/validator"
)

const cacheKeyPrefix = "search:"

const systemPrompt = `You are the assistant of a marketplace of drone pilots.
Recommend the pilots that best fit the client's request, using only the pilots listed.
Mention the pilot name, the matching service with its price and the next available dates.
If nobody fits, say so. Answer in the language of the request.`

// ProfileSource lists pilots and their services
type ProfileSource interface {
	List(ctx context.Context) ([]*profile.Summary, error)
	ListServices(ctx context.Context, profileIDs ...uuid.UUID) ([]*profile.ServicePackage, error)
}

// DateSource lists open dates per profile
type DateSource interface {
	ListAvailableByProfile(ctx context.Context, profileIDs ...uuid.UUID) (map[uuid.UUID][]time.Time, error)
}

// Recommender answers a prompt with free text
type Recommender interface {
	Configured() bool
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Result of a search
type Result struct {
	Answer   string
	Profiles int
	Cached   bool
}

// Service builds recommendation prompts from the pilot catalogue
type Service struct {
	profiles    ProfileSource
	dates       DateSource
	recommender Recommender
	cache       Cache
	cacheTTL    time.Duration
}

// NewService creates search service. cache may be nil.
func NewService(profiles ProfileSource, dates DateSource, recommender Recommender, cache Cache, cacheTTL time.Duration) *Service {
	return &Service{
		profiles:    profiles,
		dates:       dates,
		recommender: recommender,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

// Search asks the recommender which pilots fit query
func (s *Service) Search(ctx context.Context, query string) (*Result, error) {
	if s.recommender == nil || !s.recommender.Configured() {
		return nil, fmt.Errorf("%w: %w", ErrDependency, ErrNotConfigured)
	}

	prompt, count, err := s.BuildPrompt(ctx, query)
	if err != nil {
		return nil, err
	}
	key := cacheKey(prompt)

	if s.cache != nil {
		answer, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.LogWarn(ctx, "search cache read failed", "error", err.Error())
		} else if ok {
			return &Result{Answer: answer, Profiles: count, Cached: true}, nil
		}
	}

	answer, err := s.recommender.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		if errors.Is(err, recommender.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w: %w", ErrDependency, ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrDependency, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, answer, s.cacheTTL); err != nil {
			logger.LogWarn(ctx, "search cache write failed", "error", err.Error())
		}
	}

	logger.LogInfo(ctx, "search answered", "profiles", count, "query_length", len(query))
	return &Result{Answer: answer, Profiles: count}, nil
}

// BuildPrompt renders every pilot with services and open dates, followed by the query
func (s *Service) BuildPrompt(ctx context.Context, query string) (string, int, error) {
	summaries, err := s.profiles.List(ctx)
	if err != nil {
		return "", 0, err
	}

	ids := make([]uuid.UUID, 0, len(summaries))
	for _, p := range summaries {
		ids = append(ids, p.ID)
	}

	services, err := s.profiles.ListServices(ctx, ids...)
	if err != nil {
		return "", 0, err
	}
	byProfile := make(map[uuid.UUID][]*profile.ServicePackage, len(summaries))
	for _, svc := range services {
		byProfile[svc.ProfileID] = append(byProfile[svc.ProfileID], svc)
	}

	dates, err := s.dates.ListAvailableByProfile(ctx, ids...)
	if err != nil {
		return "", 0, err
	}

	var b strings.Builder
	b.WriteString("Pilots:\n")
	if len(summaries) == 0 {
		b.WriteString("(none)\n")
	}
	for _, p := range summaries {
		fmt.Fprintf(&b, "- %s (id %s)", p.Name, p.ID)
		if p.Tagline != "" {
			fmt.Fprintf(&b, ", %s", p.Tagline)
		}
		if p.Location != "" {
			fmt.Fprintf(&b, ", %s", p.Location)
		}
		b.WriteString("\n")
		if p.Bio != "" {
			fmt.Fprintf(&b, "  Bio: %s\n", p.Bio)
		}
		for _, svc := range byProfile[p.ID] {
			fmt.Fprintf(&b, "  Service: %s, price %d", svc.Name, svc.Price)
			if svc.Description != "" {
				fmt.Fprintf(&b, ", %s", svc.Description)
			}
			b.WriteString("\n")
		}
		if open := dates[p.ID]; len(open) > 0 {
			formatted := make([]string, len(open))
			for i, d := range open {
				formatted[i] = d.Format(validator.DateLayout)
			}
			fmt.Fprintf(&b, "  Available: %s\n", strings.Join(formatted, ", "))
		} else {
			b.WriteString("  Available: none\n")
		}
	}
	fmt.Fprintf(&b, "\nRequest: %s\n", strings.TrimSpace(query))

	return b.String(), len(summaries), nil
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
