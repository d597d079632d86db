package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"musicman/internal/policy"
	"musicman/internal/store"
)

func (s *Server) handleAlbumList(w http.ResponseWriter, r *http.Request) {
	profile := s.currentProfile(r)

	albums, err := s.albums.List(r.Context(), profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type listEntry struct {
		Album     store.Album
		CanEdit   bool
		CanDelete bool
	}
	entries := make([]listEntry, 0, len(albums))
	for _, album := range albums {
		entries = append(entries, listEntry{
			Album:     album,
			CanEdit:   policy.CanEdit(profile, album),
			CanDelete: policy.CanDelete(profile, album),
		})
	}

	s.render(w, "album_list", map[string]any{
		"albums":     entries,
		"can_create": policy.CanCreate(profile),
	})
}

func (s *Server) handleAlbumDetail(w http.ResponseWriter, r *http.Request) {
	profile := s.currentProfile(r)

	id, ok := pathInt64(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	album, err := s.albums.Get(r.Context(), profile, id)
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	tracks, err := s.albums.Tracks(r.Context(), album.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.render(w, "album_detail", map[string]any{
		"album":      album,
		"tracklist":  tracks,
		"can_edit":   policy.CanEdit(profile, album),
		"can_delete": policy.CanDelete(profile, album),
	})
}

func (s *Server) handleAlbumDetailSlug(w http.ResponseWriter, r *http.Request) {
	profile := s.currentProfile(r)

	id, ok := pathInt64(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	album, err := s.albums.GetPublicBySlug(r.Context(), id, r.PathValue("slug"))
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	if !policy.CanView(profile, album) {
		forbidden(w)
		return
	}
	http.Redirect(w, r, "/albums/"+strconv.FormatInt(album.ID, 10)+"/", http.StatusSeeOther)
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	profile := s.currentProfile(r)
	if !policy.CanCreate(profile) {
		forbidden(w)
		return
	}

	if r.Method == http.MethodGet {
		s.render(w, "album_form", map[string]any{"is_create": true})
		return
	}

	album, formErr := parseAlbumForm(r)
	if formErr == "" {
		created, err := s.albums.Create(r.Context(), profile, album)
		if err == nil {
			http.Redirect(w, r, "/albums/"+strconv.FormatInt(created.ID, 10)+"/", http.StatusSeeOther)
			return
		}
		formErr = err.Error()
	}

	s.render(w, "album_form", map[string]any{
		"is_create": true,
		"album":     album,
		"error":     formErr,
	})
}

func (s *Server) handleEditAlbum(w http.ResponseWriter, r *http.Request) {
	profile := s.currentProfile(r)

	id, ok := pathInt64(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	album, err := s.albums.Get(r.Context(), profile, id)
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	if !policy.CanEdit(profile, album) {
		forbidden(w)
		return
	}

	if r.Method == http.MethodGet {
		s.render(w, "album_form", map[string]any{"is_edit": true, "album": album})
		return
	}

	patch, formErr := parseAlbumPatchForm(r)
	if formErr == "" {
		updated, err := s.albums.Update(r.Context(), profile, id, patch)
		if err == nil {
			http.Redirect(w, r, "/albums/"+strconv.FormatInt(updated.ID, 10)+"/", http.StatusSeeOther)
			return
		}
		formErr = err.Error()
	}

	s.render(w, "album_form", map[string]any{
		"is_edit": true,
		"album":   album,
		"error":   formErr,
	})
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	profile := s.currentProfile(r)

	id, ok := pathInt64(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	album, err := s.albums.Get(r.Context(), profile, id)
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	if !policy.CanDelete(profile, album) {
		forbidden(w)
		return
	}

	if r.Method == http.MethodGet {
		s.render(w, "album_confirm_delete", map[string]any{"album": album})
		return
	}

	if err := s.albums.Delete(r.Context(), profile, id); err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAddTrack(w http.ResponseWriter, r *http.Request) {
	profile := s.currentProfile(r)

	id, ok := pathInt64(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	album, err := s.albums.Get(r.Context(), profile, id)
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	if !policy.CanEdit(profile, album) {
		forbidden(w)
		return
	}

	if r.Method == http.MethodGet {
		s.renderTrackForm(w, r, "track_add", profile, album, "")
		return
	}

	songID, position, formErr := parseTrackForm(r)
	if formErr == "" {
		_, err := s.tracklist.Add(r.Context(), profile, album.ID, songID, position)
		if err == nil {
			http.Redirect(w, r, "/albums/"+strconv.FormatInt(album.ID, 10)+"/", http.StatusSeeOther)
			return
		}
		formErr = err.Error()
	}
	s.renderTrackForm(w, r, "track_add", profile, album, formErr)
}

func (s *Server) handleEditTrack(w http.ResponseWriter, r *http.Request) {
	profile := s.currentProfile(r)

	albumID, okAlbum := pathInt64(r, "albumID")
	trackID, okTrack := pathInt64(r, "trackID")
	if !okAlbum || !okTrack {
		http.NotFound(w, r)
		return
	}

	album, entry, err := s.trackWithAlbum(r, profile, albumID, trackID)
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	if !policy.CanEdit(profile, album) {
		forbidden(w)
		return
	}

	if r.Method == http.MethodGet {
		s.renderTrackForm(w, r, "track_edit", profile, album, "", entry)
		return
	}

	songID, position, formErr := parseTrackForm(r)
	if formErr == "" {
		patch := store.TrackPatch{SongID: &songID, Position: position}
		_, err := s.tracklist.Update(r.Context(), profile, trackID, patch)
		if err == nil {
			http.Redirect(w, r, "/albums/"+strconv.FormatInt(album.ID, 10)+"/", http.StatusSeeOther)
			return
		}
		formErr = err.Error()
	}
	s.renderTrackForm(w, r, "track_edit", profile, album, formErr, entry)
}

func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	profile := s.currentProfile(r)

	albumID, okAlbum := pathInt64(r, "albumID")
	trackID, okTrack := pathInt64(r, "trackID")
	if !okAlbum || !okTrack {
		http.NotFound(w, r)
		return
	}

	album, entry, err := s.trackWithAlbum(r, profile, albumID, trackID)
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	if !policy.CanEdit(profile, album) {
		forbidden(w)
		return
	}

	if r.Method == http.MethodGet {
		s.render(w, "track_confirm_delete", map[string]any{"album": album, "track": entry})
		return
	}

	if err := s.tracklist.Remove(r.Context(), profile, trackID); err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	http.Redirect(w, r, "/albums/"+strconv.FormatInt(album.ID, 10)+"/", http.StatusSeeOther)
}

func (s *Server) handlePublicList(w http.ResponseWriter, r *http.Request) {
	albums, err := s.albums.ListPublic(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.render(w, "catalogue_list", map[string]any{"albums": albums})
}

func (s *Server) handlePublicDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	album, err := s.albums.GetPublic(r.Context(), id)
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	tracks, err := s.albums.Tracks(r.Context(), album.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.render(w, "catalogue_detail", map[string]any{"album": album, "tracklist": tracks})
}

func (s *Server) trackWithAlbum(r *http.Request, profile *store.ManagerProfile, albumID, trackID int64) (store.Album, store.TracklistEntry, error) {
	album, err := s.albums.Get(r.Context(), profile, albumID)
	if err != nil {
		return store.Album{}, store.TracklistEntry{}, err
	}
	entry, err := s.tracklist.Get(r.Context(), profile, trackID)
	if err != nil {
		return store.Album{}, store.TracklistEntry{}, err
	}
	if entry.AlbumID != album.ID {
		return store.Album{}, store.TracklistEntry{}, store.ErrTrackNotFound
	}
	return album, entry, nil
}

func (s *Server) renderTrackForm(w http.ResponseWriter, r *http.Request, name string, profile *store.ManagerProfile, album store.Album, formErr string, entry ...store.TracklistEntry) {
	songs, err := s.songs.List(r.Context(), profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data := map[string]any{"album": album, "songs": songs, "error": formErr}
	if len(entry) > 0 {
		data["track"] = entry[0]
	}
	s.render(w, name, data)
}

func (s *Server) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrForbidden), errors.Is(err, store.ErrUnauthorized):
		forbidden(w)
	case errors.Is(err, store.ErrAlbumNotFound),
		errors.Is(err, store.ErrSongNotFound),
		errors.Is(err, store.ErrTrackNotFound):
		http.NotFound(w, r)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func pathInt64(r *http.Request, key string) (int64, bool) {
	value, err := strconv.ParseInt(r.PathValue(key), 10, 64)
	return value, err == nil
}

func parseAlbumForm(r *http.Request) (store.Album, string) {
	if err := r.ParseForm(); err != nil {
		return store.Album{}, "invalid form submission"
	}

	album := store.Album{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Artist:      r.PostFormValue("artist"),
		Format:      store.Format(r.PostFormValue("format")),
		CoverImage:  r.PostFormValue("cover_image"),
	}

	if raw := strings.TrimSpace(r.PostFormValue("price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return album, "price must be a decimal number"
		}
		album.Price = price
	}
	if raw := strings.TrimSpace(r.PostFormValue("release_date")); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return album, "release date must be YYYY-MM-DD"
		}
		album.ReleaseDate = date
	}
	return album, ""
}

func parseAlbumPatchForm(r *http.Request) (store.AlbumPatch, string) {
	album, formErr := parseAlbumForm(r)
	if formErr != "" {
		return store.AlbumPatch{}, formErr
	}
	return store.AlbumPatch{
		Title:       &album.Title,
		Description: &album.Description,
		Artist:      &album.Artist,
		Price:       &album.Price,
		Format:      &album.Format,
		ReleaseDate: &album.ReleaseDate,
		CoverImage:  &album.CoverImage,
	}, ""
}

func parseTrackForm(r *http.Request) (int64, *int, string) {
	if err := r.ParseForm(); err != nil {
		return 0, nil, "invalid form submission"
	}

	songID, err := strconv.ParseInt(r.PostFormValue("song"), 10, 64)
	if err != nil {
		return 0, nil, "a song must be selected"
	}

	var position *int
	if raw := strings.TrimSpace(r.PostFormValue("position")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return 0, nil, "position must be a whole number"
		}
		position = &value
	}
	return songID, position, ""
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
