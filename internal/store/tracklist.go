package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrTrackNotFound signals a missing tracklist entry.
	ErrTrackNotFound = errors.New("tracklist entry not found")
	// ErrTrackExists signals the song is already on the album.
	ErrTrackExists = errors.New("song is already in this album")
)

// TracklistItem associates a song with an album at an optional position.
type TracklistItem struct {
	ID       int64 `json:"id"`
	AlbumID  int64 `json:"albumId"`
	SongID   int64 `json:"songId"`
	Position *int  `json:"position"`
}

// TracklistEntry is a tracklist item joined with its album and song.
type TracklistEntry struct {
	TracklistItem
	AlbumTitle  string `json:"albumTitle"`
	AlbumArtist string `json:"albumArtist"`
	SongTitle   string `json:"songTitle"`
	Duration    int    `json:"duration"`
}

// TrackPatch describes a partial update to a tracklist entry. Nil fields are
// unchanged.
type TrackPatch struct {
	AlbumID  *int64
	SongID   *int64
	Position *int
}

// AddTrack places a song on an album. Both sides must exist, and a song can
// appear on an album at most once.
func (s *Store) AddTrack(ctx context.Context, albumID, songID int64, position *int) (TracklistItem, error) {
	if _, err := s.AlbumByID(ctx, albumID); err != nil {
		return TracklistItem{}, err
	}
	if _, err := s.SongByID(ctx, songID); err != nil {
		return TracklistItem{}, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO album_tracklist_items (album_id, song_id, position)
		VALUES ($1, $2, $3)
		RETURNING id
	`, albumID, songID, position).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return TracklistItem{}, ErrTrackExists
		}
		return TracklistItem{}, fmt.Errorf("insert tracklist entry: %w", err)
	}

	return TracklistItem{ID: id, AlbumID: albumID, SongID: songID, Position: position}, nil
}

// TrackByID returns a tracklist entry with its album and song details.
func (s *Store) TrackByID(ctx context.Context, id int64) (TracklistEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.album_id, t.song_id, t.position, a.title, a.artist, s.title, s.duration
		FROM album_tracklist_items t
		JOIN albums a ON a.id = t.album_id
		JOIN songs s ON s.id = t.song_id
		WHERE t.id = $1
	`, id)
	return scanTrackRow(row)
}

// Tracklist lists every tracklist entry across all albums.
func (s *Store) Tracklist(ctx context.Context) ([]TracklistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.album_id, t.song_id, t.position, a.title, a.artist, s.title, s.duration
		FROM album_tracklist_items t
		JOIN albums a ON a.id = t.album_id
		JOIN songs s ON s.id = t.song_id
		ORDER BY t.position ASC NULLS LAST, t.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select tracklist: %w", err)
	}
	defer rows.Close()

	return collectTrackRows(rows)
}

// TracksForAlbum returns an album's tracklist ordered by position, missing
// positions last, ties broken by insertion order.
func (s *Store) TracksForAlbum(ctx context.Context, albumID int64) ([]TracklistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.album_id, t.song_id, t.position, a.title, a.artist, s.title, s.duration
		FROM album_tracklist_items t
		JOIN albums a ON a.id = t.album_id
		JOIN songs s ON s.id = t.song_id
		WHERE t.album_id = $1
		ORDER BY t.position ASC NULLS LAST, t.id ASC
	`, albumID)
	if err != nil {
		return nil, fmt.Errorf("select album tracklist: %w", err)
	}
	defer rows.Close()

	return collectTrackRows(rows)
}

// UpdateTrack applies a partial update to a tracklist entry. Re-pointing the
// entry at another album or song re-checks that the target exists and that
// the (album, song) pair stays unique.
func (s *Store) UpdateTrack(ctx context.Context, id int64, patch TrackPatch) (TracklistEntry, error) {
	entry, err := s.TrackByID(ctx, id)
	if err != nil {
		return TracklistEntry{}, err
	}

	if patch.AlbumID != nil {
		if _, err := s.AlbumByID(ctx, *patch.AlbumID); err != nil {
			return TracklistEntry{}, err
		}
		entry.AlbumID = *patch.AlbumID
	}
	if patch.SongID != nil {
		if _, err := s.SongByID(ctx, *patch.SongID); err != nil {
			return TracklistEntry{}, err
		}
		entry.SongID = *patch.SongID
	}
	if patch.Position != nil {
		entry.Position = patch.Position
	}

	if _, err := s.db.ExecContext(ctx, `
		UPDATE album_tracklist_items
		SET album_id = $1, song_id = $2, position = $3
		WHERE id = $4
	`, entry.AlbumID, entry.SongID, entry.Position, id); err != nil {
		if isUniqueViolation(err) {
			return TracklistEntry{}, ErrTrackExists
		}
		return TracklistEntry{}, fmt.Errorf("update tracklist entry: %w", err)
	}

	return s.TrackByID(ctx, id)
}

// RemoveTrack deletes a tracklist entry. The song itself remains.
func (s *Store) RemoveTrack(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM album_tracklist_items
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete tracklist entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tracklist entry: %w", err)
	}
	if affected == 0 {
		return ErrTrackNotFound
	}
	return nil
}

type trackScanner interface {
	Scan(dest ...any) error
}

func scanTrackRow(scanner trackScanner) (TracklistEntry, error) {
	var (
		entry    TracklistEntry
		position sql.NullInt64
	)
	err := scanner.Scan(
		&entry.ID,
		&entry.AlbumID,
		&entry.SongID,
		&position,
		&entry.AlbumTitle,
		&entry.AlbumArtist,
		&entry.SongTitle,
		&entry.Duration,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TracklistEntry{}, ErrTrackNotFound
		}
		return TracklistEntry{}, fmt.Errorf("scan tracklist entry: %w", err)
	}
	if position.Valid {
		value := int(position.Int64)
		entry.Position = &value
	}
	return entry, nil
}

func collectTrackRows(rows *sql.Rows) ([]TracklistEntry, error) {
	var entries []TracklistEntry
	for rows.Next() {
		entry, err := scanTrackRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracklist: %w", err)
	}
	return entries, nil
}
