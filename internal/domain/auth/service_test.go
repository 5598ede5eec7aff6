package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/skyhire/skyhire-api/internal/domain/profile"
	"github.com/skyhire/skyhire-api/internal/domain/user"
	"github.com/skyhire/skyhire-api/internal/pkg/jwt"
	"github.com/skyhire/skyhire-api/internal/pkg/password"
)

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[uuid.UUID]*user.User{}}
}

func (m *memUsers) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return user.ErrEmailAlreadyExists
		}
		if existing.Username == u.Username {
			return user.ErrUsernameAlreadyExists
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

// rollbackTx restores the user map when fn fails
type rollbackTx struct {
	users *memUsers
}

func (tx rollbackTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.users.mu.Lock()
	snapshot := make(map[uuid.UUID]*user.User, len(tx.users.users))
	for k, v := range tx.users.users {
		snapshot[k] = v
	}
	tx.users.mu.Unlock()

	if err := fn(ctx); err != nil {
		tx.users.mu.Lock()
		tx.users.users = snapshot
		tx.users.mu.Unlock()
		return err
	}
	return nil
}

// failingCommitTx runs fn and then fails the commit
type failingCommitTx struct {
	inner rollbackTx
}

func (tx failingCommitTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return tx.inner.WithinTx(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return errors.New("commit: connection reset")
	})
}

type fakeProfiles struct {
	err     error
	created []uuid.UUID
}

func (f *fakeProfiles) Ensure(ctx context.Context, userID uuid.UUID) (*profile.PilotProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, userID)
	return &profile.PilotProfile{ID: uuid.New(), UserID: userID, Name: profile.DefaultName}, nil
}

type memRefresh struct {
	mu      sync.Mutex
	tokens  map[string]uuid.UUID
	saveErr error
}

func newMemRefresh() *memRefresh {
	return &memRefresh{tokens: map[string]uuid.UUID{}}
}

func (m *memRefresh) Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tokens[tokenHash] = userID
	return nil
}

func (m *memRefresh) Take(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[tokenHash]
	if !ok {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	delete(m.tokens, tokenHash)
	return id, nil
}

func (m *memRefresh) Delete(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, tokenHash)
	return nil
}

type fixture struct {
	svc      *Service
	users    *memUsers
	profiles *fakeProfiles
	refresh  *memRefresh
}

func newFixture() *fixture {
	users := newMemUsers()
	profiles := &fakeProfiles{}
	refresh := newMemRefresh()
	svc := NewService(users, profiles, rollbackTx{users: users}, jwt.NewService("secret", time.Minute, time.Hour), refresh)
	svc.hash = func(p string) (string, error) { return password.HashWithCost(p, bcrypt.MinCost) }
	return &fixture{svc: svc, users: users, profiles: profiles, refresh: refresh}
}

func registerReq(username, email, role string) *RegisterRequest {
	return &RegisterRequest{
		Username:        username,
		Email:           email,
		Password:        "password123",
		PasswordConfirm: "password123",
		Role:            role,
	}
}

func TestRegisterPilotCreatesProfile(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Register(context.Background(), registerReq("piloto_test", "Piloto@Test.com ", "pilot"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Email != "piloto@test.com" {
		t.Fatalf("email must be normalized, got %q", resp.User.Email)
	}
	if resp.User.ProfileID == nil || len(f.profiles.created) != 1 || f.profiles.created[0] != resp.User.ID {
		t.Fatalf("expected pilot profile for %s, got %+v", resp.User.ID, f.profiles.created)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" || resp.Tokens.TokenType != "Bearer" {
		t.Fatalf("unexpected tokens %+v", resp.Tokens)
	}
}

func TestRegisterClientHasNoProfile(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Register(context.Background(), registerReq("cliente_test", "cliente@test.com", "client"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.ProfileID != nil || len(f.profiles.created) != 0 {
		t.Fatal("clients must not get a pilot profile")
	}
}

func TestRegisterDuplicateEmailRegardlessOfUsername(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, registerReq("first", "dup@test.com", "client")); err != nil {
		t.Fatalf("register: %v", err)
	}

	// same email and same username: email conflict reported
	if _, err := f.svc.Register(ctx, registerReq("first", "dup@test.com", "pilot")); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
	if _, err := f.svc.Register(ctx, registerReq("second", "DUP@test.com", "client")); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
	if _, err := f.svc.Register(ctx, registerReq("first", "other@test.com", "client")); !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
	if n, _ := f.users.Count(ctx); n != 1 {
		t.Fatalf("expected 1 user, got %d", n)
	}
}

func TestRegisterRollsBackUserWhenProfileFails(t *testing.T) {
	f := newFixture()
	f.profiles.err = errors.New("profile insert failed")

	if _, err := f.svc.Register(context.Background(), registerReq("piloto", "p@test.com", "pilot")); err == nil {
		t.Fatal("expected error")
	}
	if n, _ := f.users.Count(context.Background()); n != 0 {
		t.Fatalf("user row must be rolled back, got %d users", n)
	}
}

func TestRegisterRollsBackWhenRefreshStoreFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.refresh.saveErr = errors.New("redis: connection refused")

	if _, err := f.svc.Register(ctx, registerReq("piloto", "p@test.com", "pilot")); err == nil {
		t.Fatal("expected error")
	}
	if n, _ := f.users.Count(ctx); n != 0 {
		t.Fatalf("user row must be rolled back, got %d users", n)
	}

	// same registration goes through once the store is back
	f.refresh.saveErr = nil
	resp, err := f.svc.Register(ctx, registerReq("piloto", "p@test.com", "pilot"))
	if err != nil {
		t.Fatalf("retry must succeed, got %v", err)
	}
	if resp.User.ProfileID == nil || resp.Tokens.RefreshToken == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if n, _ := f.users.Count(ctx); n != 1 {
		t.Fatalf("expected 1 user, got %d", n)
	}
}

func TestRegisterDropsRefreshTokenWhenCommitFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.svc.tx = failingCommitTx{inner: rollbackTx{users: f.users}}

	if _, err := f.svc.Register(ctx, registerReq("cliente", "c@test.com", "client")); err == nil {
		t.Fatal("expected commit error")
	}
	if n, _ := f.users.Count(ctx); n != 0 {
		t.Fatalf("user row must be rolled back, got %d users", n)
	}
	f.refresh.mu.Lock()
	left := len(f.refresh.tokens)
	f.refresh.mu.Unlock()
	if left != 0 {
		t.Fatalf("refresh token of a rolled back account must be dropped, %d left", left)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, registerReq("cliente", "c@test.com", "client")); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := f.svc.Login(ctx, &LoginRequest{Email: "c@test.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.svc.Login(ctx, &LoginRequest{Email: "nobody@test.com", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like a wrong password, got %v", err)
	}

	resp, err := f.svc.Login(ctx, &LoginRequest{Email: " C@test.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.Username != "cliente" || resp.User.Role != "client" {
		t.Fatalf("unexpected user %+v", resp.User)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, registerReq("cliente", "c@test.com", "client"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	rotated, err := f.svc.Refresh(ctx, reg.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.Tokens.RefreshToken == reg.Tokens.RefreshToken {
		t.Fatal("refresh token must rotate")
	}
	if _, err := f.svc.Refresh(ctx, reg.Tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("old refresh token must be rejected, got %v", err)
	}

	if err := f.svc.Logout(ctx, rotated.Tokens.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.svc.Refresh(ctx, rotated.Tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("logged out token must be rejected, got %v", err)
	}
	if _, err := f.svc.Refresh(ctx, ""); !errors.Is(err, ErrRefreshTokenRequired) {
		t.Fatalf("expected ErrRefreshTokenRequired, got %v", err)
	}
}

func TestRedisRefreshStoreWithoutClient(t *testing.T) {
	s := NewRedisRefreshStore(nil)
	ctx := context.Background()
	if err := s.Save(ctx, "h", uuid.New(), time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Take(ctx, "h"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}
