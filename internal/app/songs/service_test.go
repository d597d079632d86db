package songs

import (
	"context"
	"errors"
	"testing"

	"musicman/internal/store"
)

type fakeStore struct {
	created   store.Song
	deletedID int64
}

func (f *fakeStore) CreateSong(ctx context.Context, song store.Song) (store.Song, error) {
	f.created = song
	song.ID = 5
	return song, nil
}

func (f *fakeStore) SongByID(ctx context.Context, id int64) (store.Song, error) {
	return store.Song{ID: id, Title: "Teardrop", Duration: 330}, nil
}

func (f *fakeStore) Songs(ctx context.Context) ([]store.Song, error) {
	return []store.Song{{ID: 1, Title: "Teardrop", Duration: 330}}, nil
}

func (f *fakeStore) UpdateSong(ctx context.Context, id int64, patch store.SongPatch) (store.Song, error) {
	return store.Song{ID: id}, nil
}

func (f *fakeStore) DeleteSong(ctx context.Context, id int64) error {
	f.deletedID = id
	return nil
}

func profileWith(permission store.Permission) *store.ManagerProfile {
	return &store.ManagerProfile{DisplayName: "Someone", Permission: permission}
}

func TestMutationsAreEditorOnly(t *testing.T) {
	fake := &fakeStore{}
	svc := New(fake)
	song := store.Song{Title: "Teardrop", Duration: 330}

	for _, profile := range []*store.ManagerProfile{
		nil,
		profileWith(store.PermissionViewer),
		profileWith(store.PermissionArtist),
	} {
		if _, err := svc.Create(context.Background(), profile, song); !errors.Is(err, store.ErrForbidden) {
			t.Fatalf("expected ErrForbidden on create for %+v, got %v", profile, err)
		}
		if _, err := svc.Update(context.Background(), profile, 1, store.SongPatch{}); !errors.Is(err, store.ErrForbidden) {
			t.Fatalf("expected ErrForbidden on update for %+v, got %v", profile, err)
		}
		if err := svc.Delete(context.Background(), profile, 1); !errors.Is(err, store.ErrForbidden) {
			t.Fatalf("expected ErrForbidden on delete for %+v, got %v", profile, err)
		}
	}

	if _, err := svc.Create(context.Background(), profileWith(store.PermissionEditor), song); err != nil {
		t.Fatalf("Create as editor: %v", err)
	}
	if err := svc.Delete(context.Background(), profileWith(store.PermissionEditor), 1); err != nil {
		t.Fatalf("Delete as editor: %v", err)
	}
	if fake.deletedID != 1 {
		t.Fatalf("expected delete of song 1, got %d", fake.deletedID)
	}
}

func TestReadsNeedAnyProfile(t *testing.T) {
	svc := New(&fakeStore{})

	if _, err := svc.List(context.Background(), nil); !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for nil profile, got %v", err)
	}
	if _, err := svc.Get(context.Background(), nil, 1); !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for nil profile, got %v", err)
	}

	for _, permission := range []store.Permission{store.PermissionViewer, store.PermissionEditor, store.PermissionArtist} {
		if _, err := svc.List(context.Background(), profileWith(permission)); err != nil {
			t.Fatalf("List as %s: %v", permission, err)
		}
		if _, err := svc.Get(context.Background(), profileWith(permission), 1); err != nil {
			t.Fatalf("Get as %s: %v", permission, err)
		}
	}
}
