package httpapi

import (
	"strconv"

	"musicman/internal/store"
)

// Wire shapes for the JSON API. Computed fields (total_playtime,
// description_short) are derived here at serialization time and never
// stored. Missing optionals become null or the empty string; serialization
// itself cannot fail.

type songJSON struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration int    `json:"duration"`
}

func newSongJSON(song store.Song) songJSON {
	return songJSON{
		ID:       song.ID,
		Title:    song.Title,
		Artist:   song.Artist,
		Duration: song.Duration,
	}
}

type albumTrackJSON struct {
	ID        int64  `json:"id"`
	Position  *int   `json:"position"`
	SongID    int64  `json:"song_id"`
	SongTitle string `json:"song_title"`
	Duration  int    `json:"duration"`
}

type albumJSON struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Artist           string           `json:"artist"`
	Price            string           `json:"price"`
	Format           string           `json:"format"`
	ReleaseDate      *string          `json:"release_date"`
	Slug             string           `json:"slug"`
	CoverImage       string           `json:"cover_image"`
	Tracklist        []albumTrackJSON `json:"tracklist"`
	TotalPlaytime    int              `json:"total_playtime"`
	DescriptionShort string           `json:"description_short"`
}

func (s *Server) newAlbumJSON(album store.Album, tracks []store.TracklistEntry) albumJSON {
	out := albumJSON{
		ID:               album.ID,
		Title:            album.Title,
		Description:      album.Description,
		Artist:           album.Artist,
		Price:            album.Price.StringFixed(2),
		Format:           string(album.Format),
		Slug:             album.Slug,
		CoverImage:       s.coverImageURL(album.CoverImage),
		Tracklist:        make([]albumTrackJSON, 0, len(tracks)),
		DescriptionShort: shorten(album.Description, 100),
	}

	if !album.ReleaseDate.IsZero() {
		date := album.ReleaseDate.Format("2006-01-02")
		out.ReleaseDate = &date
	}

	for _, track := range tracks {
		out.TotalPlaytime += track.Duration
		out.Tracklist = append(out.Tracklist, albumTrackJSON{
			ID:        track.ID,
			Position:  track.Position,
			SongID:    track.SongID,
			SongTitle: track.SongTitle,
			Duration:  track.Duration,
		})
	}

	return out
}

type trackJSON struct {
	ID         int64  `json:"id"`
	AlbumID    int64  `json:"album_id"`
	AlbumTitle string `json:"album_title"`
	SongID     int64  `json:"song_id"`
	SongTitle  string `json:"song_title"`
	Duration   int    `json:"duration"`
	Position   *int   `json:"position"`
}

func newTrackJSON(entry store.TracklistEntry) trackJSON {
	return trackJSON{
		ID:         entry.ID,
		AlbumID:    entry.AlbumID,
		AlbumTitle: entry.AlbumTitle,
		SongID:     entry.SongID,
		SongTitle:  entry.SongTitle,
		Duration:   entry.Duration,
		Position:   entry.Position,
	}
}

type profileJSON struct {
	DisplayName string `json:"display_name"`
	Permission  string `json:"permission"`
}

type userJSON struct {
	ID          int64        `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	IsStaff     bool         `json:"is_staff"`
	IsSuperuser bool         `json:"is_superuser"`
	Profile     *profileJSON `json:"profile"`
}

func newUserJSON(user store.User) userJSON {
	out := userJSON{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
	if user.Profile != nil {
		out.Profile = &profileJSON{
			DisplayName: user.Profile.DisplayName,
			Permission:  string(user.Profile.Permission),
		}
	}
	return out
}

func (s *Server) coverImageURL(path string) string {
	if path == "" || s.mediaBaseURL == "" {
		return ""
	}
	return s.mediaBaseURL + "/" + path
}

func shorten(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
