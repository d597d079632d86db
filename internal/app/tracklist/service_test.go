package tracklist

import (
	"context"
	"errors"
	"testing"

	"musicman/internal/store"
)

type fakeStore struct {
	albums  map[int64]store.Album
	entries map[int64]store.TracklistEntry

	added     bool
	updatedID int64
	removedID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		albums:  make(map[int64]store.Album),
		entries: make(map[int64]store.TracklistEntry),
	}
}

func (f *fakeStore) AddTrack(ctx context.Context, albumID, songID int64, position *int) (store.TracklistItem, error) {
	f.added = true
	return store.TracklistItem{ID: 1, AlbumID: albumID, SongID: songID, Position: position}, nil
}

func (f *fakeStore) TrackByID(ctx context.Context, id int64) (store.TracklistEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return store.TracklistEntry{}, store.ErrTrackNotFound
	}
	return entry, nil
}

func (f *fakeStore) Tracklist(ctx context.Context) ([]store.TracklistEntry, error) {
	var entries []store.TracklistEntry
	for _, entry := range f.entries {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (f *fakeStore) UpdateTrack(ctx context.Context, id int64, patch store.TrackPatch) (store.TracklistEntry, error) {
	f.updatedID = id
	return f.entries[id], nil
}

func (f *fakeStore) RemoveTrack(ctx context.Context, id int64) error {
	f.removedID = id
	return nil
}

func (f *fakeStore) AlbumByID(ctx context.Context, id int64) (store.Album, error) {
	album, ok := f.albums[id]
	if !ok {
		return store.Album{}, store.ErrAlbumNotFound
	}
	return album, nil
}

func artist(name string) *store.ManagerProfile {
	return &store.ManagerProfile{DisplayName: name, Permission: store.PermissionArtist}
}

func editor() *store.ManagerProfile {
	return &store.ManagerProfile{DisplayName: "Edith Moore", Permission: store.PermissionEditor}
}

func TestAddFollowsAlbumEditRights(t *testing.T) {
	fake := newFakeStore()
	fake.albums[1] = store.Album{ID: 1, Title: "Blonde", Artist: "Frank Ocean"}
	svc := New(fake)

	if _, err := svc.Add(context.Background(), artist("Thom Yorke"), 1, 2, nil); !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign artist, got %v", err)
	}
	if fake.added {
		t.Fatalf("store must not be touched on denial")
	}

	if _, err := svc.Add(context.Background(), artist("Frank Ocean"), 1, 2, nil); err != nil {
		t.Fatalf("owning artist should add tracks: %v", err)
	}
	if !fake.added {
		t.Fatalf("expected AddTrack call")
	}
}

func TestAddMissingAlbum(t *testing.T) {
	svc := New(newFakeStore())

	if _, err := svc.Add(context.Background(), editor(), 42, 2, nil); !errors.Is(err, store.ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound, got %v", err)
	}
}

func TestListFiltersByAlbumVisibility(t *testing.T) {
	fake := newFakeStore()
	fake.entries[1] = store.TracklistEntry{
		TracklistItem: store.TracklistItem{ID: 1, AlbumID: 1, SongID: 2},
		AlbumArtist:   "Frank Ocean",
		SongTitle:     "Nikes",
	}
	fake.entries[2] = store.TracklistEntry{
		TracklistItem: store.TracklistItem{ID: 2, AlbumID: 2, SongID: 3},
		AlbumArtist:   "Radiohead",
		SongTitle:     "Nude",
	}
	svc := New(fake)

	entries, err := svc.List(context.Background(), artist("Frank Ocean"))
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(entries) != 1 || entries[0].AlbumArtist != "Frank Ocean" {
		t.Fatalf("expected only own entries, got %+v", entries)
	}

	entries, err = svc.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if entries != nil {
		t.Fatalf("expected no entries for nil profile, got %+v", entries)
	}
}

func TestUpdateMovingChecksTargetAlbum(t *testing.T) {
	fake := newFakeStore()
	fake.albums[1] = store.Album{ID: 1, Title: "Blonde", Artist: "Frank Ocean"}
	fake.albums[2] = store.Album{ID: 2, Title: "In Rainbows", Artist: "Radiohead"}
	fake.entries[7] = store.TracklistEntry{
		TracklistItem: store.TracklistItem{ID: 7, AlbumID: 1, SongID: 2},
		AlbumArtist:   "Frank Ocean",
	}
	svc := New(fake)

	target := int64(2)
	patch := store.TrackPatch{AlbumID: &target}

	// An artist may edit their own album's tracklist but cannot move an entry
	// onto someone else's album.
	if _, err := svc.Update(context.Background(), artist("Frank Ocean"), 7, patch); !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("expected ErrForbidden when moving to foreign album, got %v", err)
	}

	if _, err := svc.Update(context.Background(), editor(), 7, patch); err != nil {
		t.Fatalf("editor should move entries: %v", err)
	}
	if fake.updatedID != 7 {
		t.Fatalf("expected update of entry 7, got %d", fake.updatedID)
	}
}

func TestRemoveFollowsAlbumEditRights(t *testing.T) {
	fake := newFakeStore()
	fake.entries[7] = store.TracklistEntry{
		TracklistItem: store.TracklistItem{ID: 7, AlbumID: 1, SongID: 2},
		AlbumArtist:   "Frank Ocean",
	}
	svc := New(fake)

	if err := svc.Remove(context.Background(), artist("Thom Yorke"), 7); !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Remove(context.Background(), artist("Frank Ocean"), 7); err != nil {
		t.Fatalf("owning artist should remove tracks: %v", err)
	}
	if fake.removedID != 7 {
		t.Fatalf("expected removal of entry 7, got %d", fake.removedID)
	}
}
