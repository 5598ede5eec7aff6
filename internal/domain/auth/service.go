package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/domain/profile"
	"github.com/skyhire/skyhire-api/internal/domain/user"
	"github.com/skyhire/skyhire-api/internal/pkg/database"
	"github.com/skyhire/skyhire-api/internal/pkg/jwt"
	"github.com/skyhire/skyhire-api/internal/pkg/logger"
	"github.com/skyhire/skyhire-api/internal/pkg/password"
)

// ProfileCreator creates the pilot profile that belongs to a new account
type ProfileCreator interface {
	Ensure(ctx context.Context, userID uuid.UUID) (*profile.PilotProfile, error)
}

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	profiles   ProfileCreator
	tx         database.Transactor
	jwtService *jwt.Service
	refresh    RefreshStore
	hash       func(string) (string, error)
}

// NewService creates auth service
func NewService(userRepo user.Repository, profiles ProfileCreator, tx database.Transactor, jwtService *jwt.Service, refresh RefreshStore) *Service {
	return &Service{
		userRepo:   userRepo,
		profiles:   profiles,
		tx:         tx,
		jwtService: jwtService,
		refresh:    refresh,
		hash:       password.Hash,
	}
}

// Register creates new user account; pilots get their profile in the same transaction
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = normalizeUsername(req.Username)

	if !user.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	// email is checked first so a duplicate email wins over a duplicate username
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}
	existing, err = s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameAlreadyExists
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.Role(req.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// tokens are issued inside the transaction so a failing refresh store
	// rolls the account back and the client can retry the same registration
	var resp *AuthResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, u); err != nil {
			return err
		}
		var profileID *uuid.UUID
		if u.IsPilot() {
			p, err := s.profiles.Ensure(ctx, u.ID)
			if err != nil {
				return err
			}
			profileID = &p.ID
		}
		tokens, err := s.generateTokens(ctx, u)
		if err != nil {
			return err
		}
		tokens.User.ProfileID = profileID
		resp = tokens
		return nil
	})
	if err != nil {
		if resp != nil {
			// commit failed after the refresh token was stored
			hash := jwt.HashRefreshToken(resp.Tokens.RefreshToken)
			if delErr := s.refresh.Delete(context.WithoutCancel(ctx), hash); delErr != nil {
				logger.LogWarn(ctx, "failed to drop refresh token of rolled back registration", "error", delErr.Error())
			}
		}
		switch {
		case errors.Is(err, user.ErrEmailAlreadyExists):
			return nil, ErrEmailAlreadyExists
		case errors.Is(err, user.ErrUsernameAlreadyExists):
			return nil, ErrUsernameAlreadyExists
		}
		return nil, err
	}

	logger.LogInfo(ctx, "user registered", "user_id", u.ID.String(), "role", req.Role)
	return resp, nil
}

// Login authenticates user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if u == nil || !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, u)
}

// Refresh rotates refresh token and issues a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	userID, err := s.refresh.Take(ctx, jwt.HashRefreshToken(refreshToken))
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	return s.generateTokens(ctx, u)
}

// Logout invalidates refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refresh.Delete(ctx, jwt.HashRefreshToken(refreshToken))
}

// GetCurrentUser returns current user by ID
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	resp := NewUserResponse(u)
	return &resp, nil
}

func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := s.refresh.Save(ctx, jwt.HashRefreshToken(refreshToken), u.ID, s.jwtService.GetRefreshTTL()); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: NewUserResponse(u),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}
