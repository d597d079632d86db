package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSong indicates validation failure for song data.
	ErrInvalidSong = errors.New("invalid song")
	// ErrSongNotFound signals a missing song record.
	ErrSongNotFound = errors.New("song not found")
)

// MinSongDuration is the shortest allowed song length in seconds.
const MinSongDuration = 10

// Song models a single track in the catalogue.
type Song struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration int    `json:"duration"`
}

// SongPatch describes a partial update to a song. Nil fields are unchanged.
type SongPatch struct {
	Title    *string
	Artist   *string
	Duration *int
}

// CreateSong inserts a new song after validating it.
func (s *Store) CreateSong(ctx context.Context, song Song) (Song, error) {
	song.Title = strings.TrimSpace(song.Title)
	if err := validateSong(song); err != nil {
		return Song{}, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO songs (title, artist, duration)
		VALUES ($1, $2, $3)
		RETURNING id
	`, song.Title, song.Artist, song.Duration).Scan(&id)
	if err != nil {
		return Song{}, fmt.Errorf("insert song: %w", err)
	}

	song.ID = id
	return song, nil
}

// SongByID returns a single song by its identifier.
func (s *Store) SongByID(ctx context.Context, id int64) (Song, error) {
	var song Song
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, artist, duration
		FROM songs
		WHERE id = $1
	`, id).Scan(&song.ID, &song.Title, &song.Artist, &song.Duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Song{}, ErrSongNotFound
		}
		return Song{}, fmt.Errorf("select song: %w", err)
	}
	return song, nil
}

// Songs lists every song in the catalogue.
func (s *Store) Songs(ctx context.Context) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, artist, duration
		FROM songs
		ORDER BY title ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select songs: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.Duration); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}

	return songs, nil
}

// UpdateSong applies a partial update and re-validates the full record.
func (s *Store) UpdateSong(ctx context.Context, id int64, patch SongPatch) (Song, error) {
	song, err := s.SongByID(ctx, id)
	if err != nil {
		return Song{}, err
	}

	if patch.Title != nil {
		song.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Artist != nil {
		song.Artist = *patch.Artist
	}
	if patch.Duration != nil {
		song.Duration = *patch.Duration
	}

	if err := validateSong(song); err != nil {
		return Song{}, err
	}

	if _, err := s.db.ExecContext(ctx, `
		UPDATE songs
		SET title = $1, artist = $2, duration = $3
		WHERE id = $4
	`, song.Title, song.Artist, song.Duration, id); err != nil {
		return Song{}, fmt.Errorf("update song: %w", err)
	}

	return song, nil
}

// DeleteSong removes a song. Tracklist entries referencing it cascade away.
func (s *Store) DeleteSong(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM songs
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	if affected == 0 {
		return ErrSongNotFound
	}
	return nil
}

func validateSong(song Song) error {
	switch {
	case strings.TrimSpace(song.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidSong)
	case song.Duration < MinSongDuration:
		return fmt.Errorf("%w: duration must be at least %d seconds", ErrInvalidSong, MinSongDuration)
	}
	return nil
}
