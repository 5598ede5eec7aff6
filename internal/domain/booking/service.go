package booking

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/domain/profile"
	"github.com/skyhire/skyhire-api/internal/domain/user"
	"github.com/skyhire/skyhire-api/internal/pkg/database"
	"github.com/skyhire/skyhire-api/internal/pkg/logger"
	"github.com/skyhire/skyhire-api/internal/pkg/validator"
)

// Event types delivered to connected users
const (
	EventConfirmed = "booking:confirmed"
	EventRequested = "booking:requested"
	EventResponded = "booking:responded"
)

// DateReserver flips an available calendar date to booked
type DateReserver interface {
	MarkBooked(ctx context.Context, profileID uuid.UUID, date time.Time) (bool, error)
}

// ProfileFinder reads pilot profiles and their services
type ProfileFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profile.PilotProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.PilotProfile, error)
	LockShared(ctx context.Context, id uuid.UUID) (*profile.PilotProfile, error)
	GetService(ctx context.Context, id uuid.UUID) (*profile.ServicePackage, error)
}

// UserFinder reads user accounts
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Notifier delivers realtime events; failures are its own concern
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, payload interface{})
}

// Service handles the booking engine
type Service struct {
	repo     Repository
	users    UserFinder
	profiles ProfileFinder
	dates    DateReserver
	tx       database.Transactor
	notifier Notifier
}

// NewService creates booking service. notifier may be nil.
func NewService(repo Repository, users UserFinder, profiles ProfileFinder, dates DateReserver, tx database.Transactor, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		profiles: profiles,
		dates:    dates,
		tx:       tx,
		notifier: notifier,
	}
}

type target struct {
	client  *user.User
	profile *profile.PilotProfile
	service *profile.ServicePackage
}

func (s *Service) resolve(ctx context.Context, clientID, profileID, serviceID uuid.UUID) (*target, error) {
	client, err := s.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	if !client.IsClient() {
		return nil, ErrNotClient
	}

	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}

	svc, err := s.profiles.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil || svc.ProfileID != p.ID {
		return nil, ErrServiceNotFound
	}

	return &target{client: client, profile: p, service: svc}, nil
}

func (t *target) view(b *Booking) *View {
	return &View{
		Booking:        *b,
		ClientUsername: t.client.Username,
		PilotUserID:    t.profile.UserID,
		PilotName:      t.profile.Name,
		ServiceName:    t.service.Name,
		Price:          t.service.Price,
	}
}

// Book reserves an available date of a pilot for a client.
// The date flip and the booking insert commit together; of concurrent
// callers for one (profile, date) exactly one succeeds, the rest get ErrDateUnavailable.
func (s *Service) Book(ctx context.Context, clientID uuid.UUID, req *BookRequest) (*View, error) {
	date, err := time.Parse(validator.DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, ErrInvalidDate
	}

	var out *View
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.resolve(ctx, clientID, req.PilotID, req.ServiceID)
		if err != nil {
			return err
		}

		// a calendar publish holds the profile exclusively; wait for it so the
		// date is flipped against the calendar it committed
		if _, err := s.profiles.LockShared(ctx, t.profile.ID); err != nil {
			return err
		}

		reserved, err := s.dates.MarkBooked(ctx, t.profile.ID, date)
		if err != nil {
			return err
		}
		if !reserved {
			return ErrDateUnavailable
		}

		b := &Booking{
			ID:        uuid.New(),
			ClientID:  clientID,
			ProfileID: t.profile.ID,
			ServiceID: t.service.ID,
			Kind:      KindDate,
			Date:      sql.NullTime{Time: date, Valid: true},
			Status:    StatusConfirmed,
		}
		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}
		out = t.view(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.LogInfo(ctx, "booking confirmed",
		"booking_id", out.ID,
		"profile_id", out.ProfileID,
		"date", req.Date,
	)
	s.notify(ctx, out.PilotUserID, EventConfirmed, out)
	s.notify(ctx, out.ClientID, EventConfirmed, out)
	return out, nil
}

// Request creates a free-text job request awaiting the pilot's answer
func (s *Service) Request(ctx context.Context, clientID uuid.UUID, req *CreateRequestRequest) (*View, error) {
	var out *View
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.resolve(ctx, clientID, req.PilotID, req.ServiceID)
		if err != nil {
			return err
		}

		b := &Booking{
			ID:          uuid.New(),
			ClientID:    clientID,
			ProfileID:   t.profile.ID,
			ServiceID:   t.service.ID,
			Kind:        KindRequest,
			Description: strings.TrimSpace(req.Description),
			Status:      StatusPending,
		}
		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}
		out = t.view(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.LogInfo(ctx, "booking requested", "booking_id", out.ID, "profile_id", out.ProfileID)
	s.notify(ctx, out.PilotUserID, EventRequested, out)
	return out, nil
}

// Respond lets the booked pilot accept or decline a pending request
func (s *Service) Respond(ctx context.Context, userID, bookingID uuid.UUID, status Status) (*View, error) {
	if !status.IsResponse() {
		return nil, ErrInvalidStatusTransition
	}

	var out *View
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return ErrBookingNotFound
		}

		p, err := s.profiles.GetByID(ctx, b.ProfileID)
		if err != nil {
			return err
		}
		if p == nil || p.UserID != userID {
			return ErrNotBookingPilot
		}
		if !b.CanRespond() {
			return ErrInvalidStatusTransition
		}

		updated, err := s.repo.UpdateStatus(ctx, b.ID, StatusPending, status)
		if err != nil {
			return err
		}
		if !updated {
			return ErrInvalidStatusTransition
		}

		out, err = s.repo.GetView(ctx, b.ID)
		if err != nil {
			return err
		}
		if out == nil {
			return ErrBookingNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.LogInfo(ctx, "booking responded", "booking_id", out.ID, "status", string(out.Status))
	s.notify(ctx, out.ClientID, EventResponded, out)
	return out, nil
}

// Release would return a booked date to the pilot's calendar. Bookings are
// final, so it always fails with ErrReleaseUnsupported.
func (s *Service) Release(ctx context.Context, userID, bookingID uuid.UUID) error {
	return ErrReleaseUnsupported
}

// ListForUser returns the caller's bookings in creation order.
// Clients see bookings they made; pilots see bookings of their profile.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*View, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if u.IsPilot() {
		p, err := s.profiles.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return []*View{}, nil
		}
		return s.repo.ListByProfile(ctx, p.ID)
	}
	return s.repo.ListByClient(ctx, userID)
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, eventType string, v *View) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, eventType, ResponseFromView(v))
}
