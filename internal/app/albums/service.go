package albums

import (
	"context"

	"musicman/internal/policy"
	"musicman/internal/store"
)

// Store captures the persistence needs for album workflows.
type Store interface {
	CreateAlbum(ctx context.Context, album store.Album) (store.Album, error)
	AlbumByID(ctx context.Context, id int64) (store.Album, error)
	AlbumByIDSlug(ctx context.Context, id int64, slug string) (store.Album, error)
	Albums(ctx context.Context, filter store.AlbumFilter) ([]store.Album, error)
	UpdateAlbum(ctx context.Context, id int64, patch store.AlbumPatch) (store.Album, error)
	DeleteAlbum(ctx context.Context, id int64) error
	TracksForAlbum(ctx context.Context, albumID int64) ([]store.TracklistEntry, error)
}

// Service coordinates album workflows. Every operation takes the caller's
// manager profile explicitly and applies the authorization policy before
// touching the store.
type Service interface {
	Create(ctx context.Context, profile *store.ManagerProfile, album store.Album) (store.Album, error)
	Get(ctx context.Context, profile *store.ManagerProfile, id int64) (store.Album, error)
	List(ctx context.Context, profile *store.ManagerProfile) ([]store.Album, error)
	Update(ctx context.Context, profile *store.ManagerProfile, id int64, patch store.AlbumPatch) (store.Album, error)
	Delete(ctx context.Context, profile *store.ManagerProfile, id int64) error
	Tracks(ctx context.Context, albumID int64) ([]store.TracklistEntry, error)

	// Public reads back the unauthenticated catalogue listing.
	GetPublic(ctx context.Context, id int64) (store.Album, error)
	GetPublicBySlug(ctx context.Context, id int64, slug string) (store.Album, error)
	ListPublic(ctx context.Context) ([]store.Album, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, profile *store.ManagerProfile, album store.Album) (store.Album, error) {
	if err := ctx.Err(); err != nil {
		return store.Album{}, err
	}
	if !policy.CanCreate(profile) {
		return store.Album{}, store.ErrForbidden
	}
	return s.store.CreateAlbum(ctx, album)
}

func (s *service) Get(ctx context.Context, profile *store.ManagerProfile, id int64) (store.Album, error) {
	if err := ctx.Err(); err != nil {
		return store.Album{}, err
	}
	album, err := s.store.AlbumByID(ctx, id)
	if err != nil {
		return store.Album{}, err
	}
	if !policy.CanView(profile, album) {
		return store.Album{}, store.ErrForbidden
	}
	return album, nil
}

func (s *service) List(ctx context.Context, profile *store.ManagerProfile) ([]store.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter, visible := policy.AlbumScope(profile)
	if !visible {
		return nil, nil
	}
	return s.store.Albums(ctx, filter)
}

func (s *service) Update(ctx context.Context, profile *store.ManagerProfile, id int64, patch store.AlbumPatch) (store.Album, error) {
	if err := ctx.Err(); err != nil {
		return store.Album{}, err
	}
	album, err := s.store.AlbumByID(ctx, id)
	if err != nil {
		return store.Album{}, err
	}
	if !policy.CanEdit(profile, album) {
		return store.Album{}, store.ErrForbidden
	}
	return s.store.UpdateAlbum(ctx, id, patch)
}

func (s *service) Delete(ctx context.Context, profile *store.ManagerProfile, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	album, err := s.store.AlbumByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDelete(profile, album) {
		return store.ErrForbidden
	}
	return s.store.DeleteAlbum(ctx, id)
}

func (s *service) Tracks(ctx context.Context, albumID int64) ([]store.TracklistEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.TracksForAlbum(ctx, albumID)
}

func (s *service) GetPublic(ctx context.Context, id int64) (store.Album, error) {
	if err := ctx.Err(); err != nil {
		return store.Album{}, err
	}
	return s.store.AlbumByID(ctx, id)
}

func (s *service) GetPublicBySlug(ctx context.Context, id int64, slug string) (store.Album, error) {
	if err := ctx.Err(); err != nil {
		return store.Album{}, err
	}
	return s.store.AlbumByIDSlug(ctx, id, slug)
}

func (s *service) ListPublic(ctx context.Context) ([]store.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Albums(ctx, store.AlbumFilter{})
}
