package users

import (
	"context"
	"time"

	"musicman/internal/auth"
	"musicman/internal/store"
)

// Store captures the persistence needs for user and session workflows.
type Store interface {
	CreateUser(ctx context.Context, user store.User, passwordHash []byte, profile *store.ManagerProfile) (store.User, error)
	UserByID(ctx context.Context, id int64) (store.User, error)
	Users(ctx context.Context) ([]store.User, error)
	UpdateUser(ctx context.Context, id int64, patch store.UserPatch) (store.User, error)
	DeleteUser(ctx context.Context, id int64) error
	CredentialsByUsername(ctx context.Context, username string) (int64, []byte, error)
	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	UserForToken(ctx context.Context, token string) (store.User, error)
}

// Service exposes manager-user administration and session workflows. The
// admin operations require the caller to be staff.
type Service interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (store.User, error)

	Create(ctx context.Context, caller store.User, user store.User, password string, profile *store.ManagerProfile) (store.User, error)
	Get(ctx context.Context, caller store.User, id int64) (store.User, error)
	List(ctx context.Context, caller store.User) ([]store.User, error)
	Update(ctx context.Context, caller store.User, id int64, patch store.UserPatch, password string) (store.User, error)
	Delete(ctx context.Context, caller store.User, id int64) error
}

type service struct {
	store  Store
	tokens *auth.TokenManager
}

// New wires a Service backed by the provided Store and token manager.
func New(store Store, tokens *auth.TokenManager) Service {
	return &service{store: store, tokens: tokens}
}

func (s *service) Authenticate(ctx context.Context, username, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	userID, hash, err := s.store.CredentialsByUsername(ctx, username)
	if err != nil {
		// Burn a bcrypt compare on unknown usernames as well.
		_ = auth.VerifyPassword(password, nil)
		return "", err
	}
	if err := auth.VerifyPassword(password, hash); err != nil {
		return "", store.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(userID)
	if err != nil {
		return "", err
	}
	if err := s.store.CreateSession(ctx, token, userID, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

func (s *service) CurrentUser(ctx context.Context, token string) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.UserForToken(ctx, token)
}

func (s *service) Create(ctx context.Context, caller store.User, user store.User, password string, profile *store.ManagerProfile) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	if !caller.IsStaff {
		return store.User{}, store.ErrForbidden
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return store.User{}, err
	}
	return s.store.CreateUser(ctx, user, hash, profile)
}

func (s *service) Get(ctx context.Context, caller store.User, id int64) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	if !caller.IsStaff {
		return store.User{}, store.ErrForbidden
	}
	return s.store.UserByID(ctx, id)
}

func (s *service) List(ctx context.Context, caller store.User) ([]store.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !caller.IsStaff {
		return nil, store.ErrForbidden
	}
	return s.store.Users(ctx)
}

func (s *service) Update(ctx context.Context, caller store.User, id int64, patch store.UserPatch, password string) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	if !caller.IsStaff {
		return store.User{}, store.ErrForbidden
	}
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return store.User{}, err
		}
		patch.PasswordHash = hash
	}
	return s.store.UpdateUser(ctx, id, patch)
}

func (s *service) Delete(ctx context.Context, caller store.User, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !caller.IsStaff {
		return store.ErrForbidden
	}
	return s.store.DeleteUser(ctx, id)
}
