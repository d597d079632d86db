package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestValidateSong(t *testing.T) {
	tests := []struct {
		name    string
		song    Song
		wantErr bool
	}{
		{
			name: "valid song",
			song: Song{Title: "Teardrop", Artist: "Massive Attack", Duration: 330},
		},
		{
			name:    "missing title",
			song:    Song{Artist: "Massive Attack", Duration: 330},
			wantErr: true,
		},
		{
			name:    "duration below minimum",
			song:    Song{Title: "Intro", Duration: 9},
			wantErr: true,
		},
		{
			name: "duration at minimum",
			song: Song{Title: "Intro", Duration: MinSongDuration},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := validateSong(tc.song)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error but got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected nil error but got %v", err)
			}
		})
	}
}

func TestCreateSongSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO songs (title, artist, duration)
		VALUES ($1, $2, $3)
		RETURNING id
	`)).
		WithArgs("Teardrop", "Massive Attack", 330).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	got, err := s.CreateSong(context.Background(), Song{
		Title:    " Teardrop ",
		Artist:   "Massive Attack",
		Duration: 330,
	})
	if err != nil {
		t.Fatalf("CreateSong error: %v", err)
	}
	if got.ID != 5 {
		t.Fatalf("expected song ID 5, got %d", got.ID)
	}
	if got.Title != "Teardrop" {
		t.Fatalf("expected trimmed title, got %q", got.Title)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSongTooShort(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	_, err = s.CreateSong(context.Background(), Song{Title: "Blip", Duration: 3})
	if !errors.Is(err, ErrInvalidSong) {
		t.Fatalf("expected ErrInvalidSong, got %v", err)
	}
}

func TestUpdateSongRevalidates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, title, artist, duration
		FROM songs
		WHERE id = $1
	`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "artist", "duration"}).
			AddRow(int64(5), "Teardrop", "Massive Attack", 330))

	short := 4
	_, err = s.UpdateSong(context.Background(), 5, SongPatch{Duration: &short})
	if !errors.Is(err, ErrInvalidSong) {
		t.Fatalf("expected ErrInvalidSong, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteSongNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM songs
		WHERE id = $1
	`)).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteSong(context.Background(), 42); !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
