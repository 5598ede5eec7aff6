package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/domain/profile"
	"github.com/skyhire/skyhire-api/internal/pkg/database"
	"github.com/skyhire/skyhire-api/internal/pkg/logger"
)

// ProfileProvider resolves the caller's profile, creating it on first use
type ProfileProvider interface {
	Ensure(ctx context.Context, userID uuid.UUID) (*profile.PilotProfile, error)
}

// ProfileLocker serializes concurrent publishes of one profile
type ProfileLocker interface {
	LockByID(ctx context.Context, id uuid.UUID) (*profile.PilotProfile, error)
}

// PublishResult is the ledger state after a publish
type PublishResult struct {
	ProfileID uuid.UUID
	Available []time.Time
	Booked    []time.Time
}

// Service handles the availability ledger
type Service struct {
	repo     Repository
	profiles ProfileProvider
	locker   ProfileLocker
	tx       database.Transactor
}

// NewService creates availability service
func NewService(repo Repository, profiles ProfileProvider, locker ProfileLocker, tx database.Transactor) *Service {
	return &Service{repo: repo, profiles: profiles, locker: locker, tx: tx}
}

// Publish replaces the open dates of the caller's profile with dates.
// Booked dates must be part of the new set; they stay booked.
func (s *Service) Publish(ctx context.Context, userID uuid.UUID, rawDates []string) (*PublishResult, error) {
	dates, err := ParseDates(rawDates)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.profiles.Ensure(ctx, userID)
		if err != nil {
			return err
		}
		if _, err := s.locker.LockByID(ctx, p.ID); err != nil {
			return err
		}
		result.ProfileID = p.ID

		entries, err := s.repo.ListEntries(ctx, p.ID)
		if err != nil {
			return err
		}

		wanted := make(map[string]struct{}, len(dates))
		for _, d := range dates {
			wanted[FormatDate(d)] = struct{}{}
		}

		var dropped []string
		booked := make(map[string]struct{})
		for _, e := range entries {
			if !e.IsBooked() {
				continue
			}
			key := FormatDate(e.Date)
			booked[key] = struct{}{}
			if _, ok := wanted[key]; !ok {
				dropped = append(dropped, key)
			}
		}
		if len(dropped) > 0 {
			return &BookedDateRemovalError{Dates: dropped}
		}

		removed, err := s.repo.DeleteAvailableExcept(ctx, p.ID, dates)
		if err != nil {
			return err
		}
		added, err := s.repo.InsertAvailable(ctx, p.ID, dates)
		if err != nil {
			return err
		}

		for _, d := range dates {
			if _, ok := booked[FormatDate(d)]; ok {
				result.Booked = append(result.Booked, d)
			} else {
				result.Available = append(result.Available, d)
			}
		}

		logger.LogInfo(ctx, "availability published",
			"profile_id", p.ID,
			"dates", len(dates),
			"added", added,
			"removed", removed,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListAvailable returns the open dates of a profile in ascending order
func (s *Service) ListAvailable(ctx context.Context, profileID uuid.UUID) ([]time.Time, error) {
	entries, err := s.repo.ListAvailable(ctx, profileID)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Date)
	}
	return out, nil
}

// ListAvailableByProfile returns open dates of several profiles keyed by profile
func (s *Service) ListAvailableByProfile(ctx context.Context, profileIDs ...uuid.UUID) (map[uuid.UUID][]time.Time, error) {
	entries, err := s.repo.ListAvailable(ctx, profileIDs...)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]time.Time, len(profileIDs))
	for _, e := range entries {
		out[e.ProfileID] = append(out[e.ProfileID], e.Date)
	}
	return out, nil
}
