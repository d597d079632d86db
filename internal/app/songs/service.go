package songs

import (
	"context"

	"musicman/internal/policy"
	"musicman/internal/store"
)

// Store captures the persistence needs for song workflows.
type Store interface {
	CreateSong(ctx context.Context, song store.Song) (store.Song, error)
	SongByID(ctx context.Context, id int64) (store.Song, error)
	Songs(ctx context.Context) ([]store.Song, error)
	UpdateSong(ctx context.Context, id int64, patch store.SongPatch) (store.Song, error)
	DeleteSong(ctx context.Context, id int64) error
}

// Service coordinates song workflows. Songs carry no owner, so mutation is
// editor-only while any manager profile may read.
type Service interface {
	Create(ctx context.Context, profile *store.ManagerProfile, song store.Song) (store.Song, error)
	Get(ctx context.Context, profile *store.ManagerProfile, id int64) (store.Song, error)
	List(ctx context.Context, profile *store.ManagerProfile) ([]store.Song, error)
	Update(ctx context.Context, profile *store.ManagerProfile, id int64, patch store.SongPatch) (store.Song, error)
	Delete(ctx context.Context, profile *store.ManagerProfile, id int64) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, profile *store.ManagerProfile, song store.Song) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	if !policy.CanManageSongs(profile) {
		return store.Song{}, store.ErrForbidden
	}
	return s.store.CreateSong(ctx, song)
}

func (s *service) Get(ctx context.Context, profile *store.ManagerProfile, id int64) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	if profile == nil {
		return store.Song{}, store.ErrForbidden
	}
	return s.store.SongByID(ctx, id)
}

func (s *service) List(ctx context.Context, profile *store.ManagerProfile) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, store.ErrForbidden
	}
	return s.store.Songs(ctx)
}

func (s *service) Update(ctx context.Context, profile *store.ManagerProfile, id int64, patch store.SongPatch) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	if !policy.CanManageSongs(profile) {
		return store.Song{}, store.ErrForbidden
	}
	return s.store.UpdateSong(ctx, id, patch)
}

func (s *service) Delete(ctx context.Context, profile *store.ManagerProfile, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !policy.CanManageSongs(profile) {
		return store.ErrForbidden
	}
	return s.store.DeleteSong(ctx, id)
}
