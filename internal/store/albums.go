package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAlbum indicates validation failure for album data.
	ErrInvalidAlbum = errors.New("invalid album")
	// ErrAlbumNotFound signals a missing album record.
	ErrAlbumNotFound = errors.New("album not found")
	// ErrAlbumExists signals a (title, artist, format) collision.
	ErrAlbumExists = errors.New("album already exists")
)

// Format enumerates the media an album is sold on.
type Format string

// Album formats.
const (
	FormatDigitalDownload Format = "DIGITAL_DOWNLOAD"
	FormatCD              Format = "CD"
	FormatVinyl           Format = "VINYL"
)

// Valid reports whether the format is one of the known choices.
func (f Format) Valid() bool {
	switch f {
	case FormatDigitalDownload, FormatCD, FormatVinyl:
		return true
	}
	return false
}

var (
	maxAlbumPrice = decimal.NewFromFloat(999.99)

	// Release dates may sit at most three years ahead of today.
	maxReleaseLead = 3 * 365 * 24 * time.Hour
)

// Album models a record in the catalogue. Artist doubles as the owner
// identity matched against manager profiles.
type Album struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Artist      string          `json:"artist"`
	Price       decimal.Decimal `json:"price"`
	Format      Format          `json:"format"`
	ReleaseDate time.Time       `json:"releaseDate"`
	CoverImage  string          `json:"coverImage"`
	Slug        string          `json:"slug"`
}

// AlbumPatch describes a partial update to an album. Nil fields are
// unchanged. The slug is set once at creation and never patched.
type AlbumPatch struct {
	Title       *string
	Description *string
	Artist      *string
	Price       *decimal.Decimal
	Format      *Format
	ReleaseDate *time.Time
	CoverImage  *string
}

// AlbumFilter constrains the results returned by Albums.
type AlbumFilter struct {
	// Artist restricts the listing to an exact owner match.
	Artist string
}

// CreateAlbum inserts a new album, deriving the slug from the title when
// absent. The (title, artist, format) triple must be unique.
func (s *Store) CreateAlbum(ctx context.Context, album Album) (Album, error) {
	album.Title = strings.TrimSpace(album.Title)
	album.Artist = strings.TrimSpace(album.Artist)

	if err := validateAlbum(album); err != nil {
		return Album{}, err
	}
	if album.Slug == "" {
		album.Slug = slug.Make(album.Title)
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO albums (title, description, artist, price, format, release_date, cover_image, slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, album.Title, album.Description, album.Artist, album.Price, string(album.Format),
		album.ReleaseDate, album.CoverImage, album.Slug).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return Album{}, fmt.Errorf("%w: an album with this title, artist and format already exists", ErrAlbumExists)
		}
		return Album{}, fmt.Errorf("insert album: %w", err)
	}

	album.ID = id
	return album, nil
}

// AlbumByID returns a single album by its identifier.
func (s *Store) AlbumByID(ctx context.Context, id int64) (Album, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, artist, price, format, release_date, cover_image, slug
		FROM albums
		WHERE id = $1
	`, id)
	return scanAlbumRow(row)
}

// AlbumByIDSlug returns an album only when both id and slug match.
func (s *Store) AlbumByIDSlug(ctx context.Context, id int64, slugValue string) (Album, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, artist, price, format, release_date, cover_image, slug
		FROM albums
		WHERE id = $1 AND slug = $2
	`, id, slugValue)
	return scanAlbumRow(row)
}

// Albums returns albums matching the provided filter.
func (s *Store) Albums(ctx context.Context, filter AlbumFilter) ([]Album, error) {
	query := `
		SELECT id, title, description, artist, price, format, release_date, cover_image, slug
		FROM albums
	`
	var args []any
	if artist := strings.TrimSpace(filter.Artist); artist != "" {
		args = append(args, artist)
		query += " WHERE artist = $1"
	}
	query += " ORDER BY title ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select albums: %w", err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		album, err := scanAlbumRow(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}

	return albums, nil
}

// UpdateAlbum applies a partial update and re-validates the full resulting
// record. Uniqueness is re-checked excluding the album's own id. The slug is
// left untouched even when the title changes.
func (s *Store) UpdateAlbum(ctx context.Context, id int64, patch AlbumPatch) (Album, error) {
	album, err := s.AlbumByID(ctx, id)
	if err != nil {
		return Album{}, err
	}

	if patch.Title != nil {
		album.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		album.Description = *patch.Description
	}
	if patch.Artist != nil {
		album.Artist = strings.TrimSpace(*patch.Artist)
	}
	if patch.Price != nil {
		album.Price = *patch.Price
	}
	if patch.Format != nil {
		album.Format = *patch.Format
	}
	if patch.ReleaseDate != nil {
		album.ReleaseDate = *patch.ReleaseDate
	}
	if patch.CoverImage != nil {
		album.CoverImage = *patch.CoverImage
	}

	if err := validateAlbum(album); err != nil {
		return Album{}, err
	}

	if _, err := s.db.ExecContext(ctx, `
		UPDATE albums
		SET title = $1, description = $2, artist = $3, price = $4, format = $5, release_date = $6, cover_image = $7
		WHERE id = $8
	`, album.Title, album.Description, album.Artist, album.Price, string(album.Format),
		album.ReleaseDate, album.CoverImage, id); err != nil {
		if isUniqueViolation(err) {
			return Album{}, fmt.Errorf("%w: an album with this title, artist and format already exists", ErrAlbumExists)
		}
		return Album{}, fmt.Errorf("update album: %w", err)
	}

	return album, nil
}

// DeleteAlbum removes an album. Its tracklist entries cascade away while the
// referenced songs remain.
func (s *Store) DeleteAlbum(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM albums
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	if affected == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

func validateAlbum(album Album) error {
	maxReleaseDate := time.Now().Add(maxReleaseLead)

	switch {
	case album.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidAlbum)
	case album.Artist == "":
		return fmt.Errorf("%w: artist is required", ErrInvalidAlbum)
	case album.Price.IsNegative() || album.Price.GreaterThan(maxAlbumPrice):
		return fmt.Errorf("%w: price must be between 0.00 and 999.99", ErrInvalidAlbum)
	case !album.Format.Valid():
		return fmt.Errorf("%w: format must be one of DIGITAL_DOWNLOAD, CD, VINYL", ErrInvalidAlbum)
	case album.ReleaseDate.IsZero():
		return fmt.Errorf("%w: release date is required", ErrInvalidAlbum)
	case album.ReleaseDate.After(maxReleaseDate):
		return fmt.Errorf("%w: release date cannot be more than 3 years in the future", ErrInvalidAlbum)
	}
	return nil
}

type albumScanner interface {
	Scan(dest ...any) error
}

func scanAlbumRow(scanner albumScanner) (Album, error) {
	var (
		album  Album
		format string
	)
	err := scanner.Scan(
		&album.ID,
		&album.Title,
		&album.Description,
		&album.Artist,
		&album.Price,
		&format,
		&album.ReleaseDate,
		&album.CoverImage,
		&album.Slug,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Album{}, ErrAlbumNotFound
		}
		return Album{}, fmt.Errorf("scan album: %w", err)
	}
	album.Format = Format(format)
	return album, nil
}
