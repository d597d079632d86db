package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"musicman/internal/store"
)

type albumRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Artist      *string          `json:"artist"`
	Price       *decimal.Decimal `json:"price"`
	Format      *string          `json:"format"`
	ReleaseDate *string          `json:"release_date"`
	CoverImage  *string          `json:"cover_image"`
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	albums, err := s.albums.List(r.Context(), profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out, err := s.albumListJSON(r, albums)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	album := store.Album{}
	if req.Title != nil {
		album.Title = *req.Title
	}
	if req.Description != nil {
		album.Description = *req.Description
	}
	if req.Artist != nil {
		album.Artist = *req.Artist
	}
	if req.Price != nil {
		album.Price = *req.Price
	}
	if req.Format != nil {
		album.Format = store.Format(*req.Format)
	}
	if req.CoverImage != nil {
		album.CoverImage = *req.CoverImage
	}
	if req.ReleaseDate != nil {
		date, err := parseDate(*req.ReleaseDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "release_date must be YYYY-MM-DD"})
			return
		}
		album.ReleaseDate = date
	}

	created, err := s.albums.Create(r.Context(), profile, album)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.newAlbumJSON(created, nil))
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid album id"})
		return
	}

	album, err := s.albums.Get(r.Context(), profile, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	tracks, err := s.albums.Tracks(r.Context(), album.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.newAlbumJSON(album, tracks))
}

func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid album id"})
		return
	}

	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	patch := store.AlbumPatch{
		Title:       req.Title,
		Description: req.Description,
		Artist:      req.Artist,
		Price:       req.Price,
		CoverImage:  req.CoverImage,
	}
	if req.Format != nil {
		format := store.Format(*req.Format)
		patch.Format = &format
	}
	if req.ReleaseDate != nil {
		date, err := parseDate(*req.ReleaseDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "release_date must be YYYY-MM-DD"})
			return
		}
		patch.ReleaseDate = &date
	}

	updated, err := s.albums.Update(r.Context(), profile, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	tracks, err := s.albums.Tracks(r.Context(), updated.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.newAlbumJSON(updated, tracks))
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid album id"})
		return
	}

	if err := s.albums.Delete(r.Context(), profile, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePublicCatalogue(w http.ResponseWriter, r *http.Request) {
	albums, err := s.albums.ListPublic(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out, err := s.albumListJSON(r, albums)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePublicAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid album id"})
		return
	}

	album, err := s.albums.GetPublic(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	tracks, err := s.albums.Tracks(r.Context(), album.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.newAlbumJSON(album, tracks))
}

func (s *Server) albumListJSON(r *http.Request, albums []store.Album) ([]albumJSON, error) {
	out := make([]albumJSON, 0, len(albums))
	for _, album := range albums {
		tracks, err := s.albums.Tracks(r.Context(), album.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, s.newAlbumJSON(album, tracks))
	}
	return out, nil
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
