package profile

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/domain/user"
	"github.com/skyhire/skyhire-api/internal/pkg/database"
	"github.com/skyhire/skyhire-api/internal/pkg/imaging"
	"github.com/skyhire/skyhire-api/internal/pkg/logger"
	"github.com/skyhire/skyhire-api/internal/pkg/storage"
)

// Service handles pilot profile business logic
type Service struct {
	repo     Repository
	userRepo user.Repository
	tx       database.Transactor
	files    storage.Storage
	images   *imaging.Processor
}

// NewService creates profile service. files may be nil, which disables portfolio uploads.
func NewService(repo Repository, userRepo user.Repository, tx database.Transactor, files storage.Storage, images *imaging.Processor) *Service {
	if images == nil {
		images = imaging.NewProcessor(imaging.DefaultConfig())
	}
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		tx:       tx,
		files:    files,
		images:   images,
	}
}

// Ensure returns the pilot's profile, creating it on first use.
// The profile is named after the username.
func (s *Service) Ensure(ctx context.Context, userID uuid.UUID) (*PilotProfile, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if !u.IsPilot() {
		return nil, ErrNotPilot
	}

	name := strings.TrimSpace(u.Username)
	if name == "" {
		name = DefaultName
	}
	return s.repo.Ensure(ctx, userID, name)
}

// Update applies the non-nil fields of req to the caller's profile
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*PilotProfile, error) {
	var out *PilotProfile
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.Ensure(ctx, userID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.Tagline != nil {
			p.Tagline = strings.TrimSpace(*req.Tagline)
		}
		if req.Location != nil {
			p.Location = strings.TrimSpace(*req.Location)
		}
		if req.Bio != nil {
			p.Bio = strings.TrimSpace(*req.Bio)
		}

		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddService creates a service package on the caller's profile.
// A lazily created profile is rolled back together with a failed insert.
func (s *Service) AddService(ctx context.Context, userID uuid.UUID, req *CreateServiceRequest) (*ServicePackage, error) {
	var svc *ServicePackage
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.Ensure(ctx, userID)
		if err != nil {
			return err
		}

		svc = &ServicePackage{
			ID:          uuid.New(),
			ProfileID:   p.ID,
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			Price:       req.Price,
		}
		return s.repo.CreateService(ctx, svc)
	})
	if err != nil {
		return nil, err
	}

	logger.LogInfo(ctx, "service package created", "profile_id", svc.ProfileID, "service_id", svc.ID)
	return svc, nil
}

// AddPortfolioItem validates and stores an image and its thumbnail, then records the item.
// Stored objects are removed again when the item cannot be recorded.
func (s *Service) AddPortfolioItem(ctx context.Context, userID uuid.UUID, file io.Reader, caption string) (*PortfolioItem, error) {
	if s.files == nil {
		return nil, ErrStorageUnavailable
	}

	data, _, err := storage.ValidateUpload(file, storage.CategoryPortfolio)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	processed, err := s.images.Process(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}

	var item *PortfolioItem
	var stored []string
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.Ensure(ctx, userID)
		if err != nil {
			return err
		}

		itemID := uuid.New()
		originalKey, thumbKey := imaging.PortfolioKeys(p.ID.String(), itemID.String(), imaging.Extension(processed.ContentType))

		if err := s.files.Put(ctx, originalKey, storage.NewBytesReadSeeker(processed.Original), processed.ContentType); err != nil {
			return fmt.Errorf("store original: %w", err)
		}
		stored = append(stored, originalKey)
		if err := s.files.Put(ctx, thumbKey, storage.NewBytesReadSeeker(processed.Thumbnail), processed.ContentType); err != nil {
			return fmt.Errorf("store thumbnail: %w", err)
		}
		stored = append(stored, thumbKey)

		item = &PortfolioItem{
			ID:           itemID,
			ProfileID:    p.ID,
			ImageKey:     originalKey,
			ImageURL:     s.files.GetURL(originalKey),
			ThumbnailURL: s.files.GetURL(thumbKey),
			Caption:      strings.TrimSpace(caption),
			MimeType:     processed.ContentType,
			SizeBytes:    int64(len(processed.Original)),
		}
		return s.repo.CreatePortfolioItem(ctx, item)
	})
	if err != nil {
		for _, key := range stored {
			if delErr := s.files.Delete(context.WithoutCancel(ctx), key); delErr != nil {
				logger.LogWarn(ctx, "failed to clean up portfolio object", "key", key, "error", delErr.Error())
			}
		}
		return nil, err
	}

	logger.LogInfo(ctx, "portfolio item uploaded", "profile_id", item.ProfileID, "item_id", item.ID, "size", item.SizeBytes)
	return item, nil
}

// List returns all pilot profiles
func (s *Service) List(ctx context.Context) ([]*Summary, error) {
	return s.repo.List(ctx)
}

// GetByID returns a profile, or ErrProfileNotFound
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*PilotProfile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// GetDetail returns a profile with its services and portfolio
func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	services, err := s.repo.ListServices(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	portfolio, err := s.repo.ListPortfolio(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return &Detail{Profile: p, Services: services, Portfolio: portfolio}, nil
}
