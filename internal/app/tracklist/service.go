package tracklist

import (
	"context"

	"musicman/internal/policy"
	"musicman/internal/store"
)

// Store captures the persistence needs for tracklist workflows.
type Store interface {
	AddTrack(ctx context.Context, albumID, songID int64, position *int) (store.TracklistItem, error)
	TrackByID(ctx context.Context, id int64) (store.TracklistEntry, error)
	Tracklist(ctx context.Context) ([]store.TracklistEntry, error)
	UpdateTrack(ctx context.Context, id int64, patch store.TrackPatch) (store.TracklistEntry, error)
	RemoveTrack(ctx context.Context, id int64) error
	AlbumByID(ctx context.Context, id int64) (store.Album, error)
}

// Service coordinates tracklist workflows. Mutation rights follow the owning
// album: whoever may edit the album may manage its tracklist.
type Service interface {
	Add(ctx context.Context, profile *store.ManagerProfile, albumID, songID int64, position *int) (store.TracklistItem, error)
	Get(ctx context.Context, profile *store.ManagerProfile, id int64) (store.TracklistEntry, error)
	List(ctx context.Context, profile *store.ManagerProfile) ([]store.TracklistEntry, error)
	Update(ctx context.Context, profile *store.ManagerProfile, id int64, patch store.TrackPatch) (store.TracklistEntry, error)
	Remove(ctx context.Context, profile *store.ManagerProfile, id int64) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Add(ctx context.Context, profile *store.ManagerProfile, albumID, songID int64, position *int) (store.TracklistItem, error) {
	if err := ctx.Err(); err != nil {
		return store.TracklistItem{}, err
	}
	album, err := s.store.AlbumByID(ctx, albumID)
	if err != nil {
		return store.TracklistItem{}, err
	}
	if !policy.CanEdit(profile, album) {
		return store.TracklistItem{}, store.ErrForbidden
	}
	return s.store.AddTrack(ctx, albumID, songID, position)
}

func (s *service) Get(ctx context.Context, profile *store.ManagerProfile, id int64) (store.TracklistEntry, error) {
	if err := ctx.Err(); err != nil {
		return store.TracklistEntry{}, err
	}
	entry, err := s.store.TrackByID(ctx, id)
	if err != nil {
		return store.TracklistEntry{}, err
	}
	if !policy.CanView(profile, store.Album{Artist: entry.AlbumArtist}) {
		return store.TracklistEntry{}, store.ErrForbidden
	}
	return entry, nil
}

func (s *service) List(ctx context.Context, profile *store.ManagerProfile) ([]store.TracklistEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}
	entries, err := s.store.Tracklist(ctx)
	if err != nil {
		return nil, err
	}

	visible := entries[:0]
	for _, entry := range entries {
		if policy.CanView(profile, store.Album{Artist: entry.AlbumArtist}) {
			visible = append(visible, entry)
		}
	}
	return visible, nil
}

func (s *service) Update(ctx context.Context, profile *store.ManagerProfile, id int64, patch store.TrackPatch) (store.TracklistEntry, error) {
	if err := ctx.Err(); err != nil {
		return store.TracklistEntry{}, err
	}
	entry, err := s.store.TrackByID(ctx, id)
	if err != nil {
		return store.TracklistEntry{}, err
	}
	if !policy.CanEdit(profile, store.Album{Artist: entry.AlbumArtist}) {
		return store.TracklistEntry{}, store.ErrForbidden
	}
	if patch.AlbumID != nil && *patch.AlbumID != entry.AlbumID {
		// Moving the entry also needs edit rights on the target album.
		target, err := s.store.AlbumByID(ctx, *patch.AlbumID)
		if err != nil {
			return store.TracklistEntry{}, err
		}
		if !policy.CanEdit(profile, target) {
			return store.TracklistEntry{}, store.ErrForbidden
		}
	}
	return s.store.UpdateTrack(ctx, id, patch)
}

func (s *service) Remove(ctx context.Context, profile *store.ManagerProfile, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry, err := s.store.TrackByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanEdit(profile, store.Album{Artist: entry.AlbumArtist}) {
		return store.ErrForbidden
	}
	return s.store.RemoveTrack(ctx, id)
}
