package httpapi

import (
	"encoding/json"
	"net/http"

	"musicman/internal/store"
)

type trackRequest struct {
	Album    *int64 `json:"album"`
	Song     *int64 `json:"song"`
	Position *int   `json:"position"`
}

func (s *Server) handleListTracklist(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	entries, err := s.tracklist.List(r.Context(), profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]trackJSON, 0, len(entries))
	for _, entry := range entries {
		out = append(out, newTrackJSON(entry))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddTrack(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if req.Album == nil || req.Song == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "album and song are required"})
		return
	}

	created, err := s.tracklist.Add(r.Context(), profile, *req.Album, *req.Song, req.Position)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		ID       int64 `json:"id"`
		AlbumID  int64 `json:"album_id"`
		SongID   int64 `json:"song_id"`
		Position *int  `json:"position"`
	}{
		ID:       created.ID,
		AlbumID:  created.AlbumID,
		SongID:   created.SongID,
		Position: created.Position,
	})
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid tracklist id"})
		return
	}

	entry, err := s.tracklist.Get(r.Context(), profile, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTrackJSON(entry))
}

func (s *Server) handleUpdateTrack(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid tracklist id"})
		return
	}

	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.tracklist.Update(r.Context(), profile, id, store.TrackPatch{
		AlbumID:  req.Album,
		SongID:   req.Song,
		Position: req.Position,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTrackJSON(updated))
}

func (s *Server) handleRemoveTrack(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid tracklist id"})
		return
	}

	if err := s.tracklist.Remove(r.Context(), profile, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
