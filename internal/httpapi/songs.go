package httpapi

import (
	"encoding/json"
	"net/http"

	"musicman/internal/store"
)

type songRequest struct {
	Title    *string `json:"title"`
	Artist   *string `json:"artist"`
	Duration *int    `json:"duration"`
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	songs, err := s.songs.List(r.Context(), profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]songJSON, 0, len(songs))
	for _, song := range songs {
		out = append(out, newSongJSON(song))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	song := store.Song{}
	if req.Title != nil {
		song.Title = *req.Title
	}
	if req.Artist != nil {
		song.Artist = *req.Artist
	}
	if req.Duration != nil {
		song.Duration = *req.Duration
	}

	created, err := s.songs.Create(r.Context(), profile, song)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSongJSON(created))
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	song, err := s.songs.Get(r.Context(), profile, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSongJSON(song))
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.songs.Update(r.Context(), profile, id, store.SongPatch{
		Title:    req.Title,
		Artist:   req.Artist,
		Duration: req.Duration,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSongJSON(updated))
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentProfile(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	if err := s.songs.Delete(r.Context(), profile, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
