package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"musicman/internal/store"
)

// UserService captures session and manager-user administration workflows.
type UserService interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (store.User, error)
	Create(ctx context.Context, caller store.User, user store.User, password string, profile *store.ManagerProfile) (store.User, error)
	Get(ctx context.Context, caller store.User, id int64) (store.User, error)
	List(ctx context.Context, caller store.User) ([]store.User, error)
	Update(ctx context.Context, caller store.User, id int64, patch store.UserPatch, password string) (store.User, error)
	Delete(ctx context.Context, caller store.User, id int64) error
}

// AlbumService exposes album-specific workflows.
type AlbumService interface {
	Create(ctx context.Context, profile *store.ManagerProfile, album store.Album) (store.Album, error)
	Get(ctx context.Context, profile *store.ManagerProfile, id int64) (store.Album, error)
	List(ctx context.Context, profile *store.ManagerProfile) ([]store.Album, error)
	Update(ctx context.Context, profile *store.ManagerProfile, id int64, patch store.AlbumPatch) (store.Album, error)
	Delete(ctx context.Context, profile *store.ManagerProfile, id int64) error
	Tracks(ctx context.Context, albumID int64) ([]store.TracklistEntry, error)
	GetPublic(ctx context.Context, id int64) (store.Album, error)
	ListPublic(ctx context.Context) ([]store.Album, error)
}

// SongService coordinates track-level operations.
type SongService interface {
	Create(ctx context.Context, profile *store.ManagerProfile, song store.Song) (store.Song, error)
	Get(ctx context.Context, profile *store.ManagerProfile, id int64) (store.Song, error)
	List(ctx context.Context, profile *store.ManagerProfile) ([]store.Song, error)
	Update(ctx context.Context, profile *store.ManagerProfile, id int64, patch store.SongPatch) (store.Song, error)
	Delete(ctx context.Context, profile *store.ManagerProfile, id int64) error
}

// TracklistService coordinates album/song association workflows.
type TracklistService interface {
	Add(ctx context.Context, profile *store.ManagerProfile, albumID, songID int64, position *int) (store.TracklistItem, error)
	Get(ctx context.Context, profile *store.ManagerProfile, id int64) (store.TracklistEntry, error)
	List(ctx context.Context, profile *store.ManagerProfile) ([]store.TracklistEntry, error)
	Update(ctx context.Context, profile *store.ManagerProfile, id int64, patch store.TrackPatch) (store.TracklistEntry, error)
	Remove(ctx context.Context, profile *store.ManagerProfile, id int64) error
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	albums    AlbumService
	songs     SongService
	tracklist TracklistService

	// mediaBaseURL prefixes stored cover image paths into absolute URLs.
	mediaBaseURL string
}

// New configures a Server with the given services.
func New(users UserService, albums AlbumService, songs SongService, tracklist TracklistService, mediaBaseURL string) *Server {
	return &Server{
		users:        users,
		albums:       albums,
		songs:        songs,
		tracklist:    tracklist,
		mediaBaseURL: strings.TrimRight(mediaBaseURL, "/"),
	}
}

// Routes exposes the JSON API handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/", s.handleDiscovery)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.HandleFunc("GET /api/songs/", s.handleListSongs)
	mux.HandleFunc("POST /api/songs/", s.handleCreateSong)
	mux.HandleFunc("GET /api/songs/{id}/", s.handleGetSong)
	mux.HandleFunc("PUT /api/songs/{id}/", s.handleUpdateSong)
	mux.HandleFunc("PATCH /api/songs/{id}/", s.handleUpdateSong)
	mux.HandleFunc("DELETE /api/songs/{id}/", s.handleDeleteSong)

	mux.HandleFunc("GET /api/albums/", s.handleListAlbums)
	mux.HandleFunc("POST /api/albums/", s.handleCreateAlbum)
	mux.HandleFunc("GET /api/albums/{id}/", s.handleGetAlbum)
	mux.HandleFunc("PUT /api/albums/{id}/", s.handleUpdateAlbum)
	mux.HandleFunc("PATCH /api/albums/{id}/", s.handleUpdateAlbum)
	mux.HandleFunc("DELETE /api/albums/{id}/", s.handleDeleteAlbum)

	mux.HandleFunc("GET /api/tracklist/", s.handleListTracklist)
	mux.HandleFunc("POST /api/tracklist/", s.handleAddTrack)
	mux.HandleFunc("GET /api/tracklist/{id}/", s.handleGetTrack)
	mux.HandleFunc("PUT /api/tracklist/{id}/", s.handleUpdateTrack)
	mux.HandleFunc("PATCH /api/tracklist/{id}/", s.handleUpdateTrack)
	mux.HandleFunc("DELETE /api/tracklist/{id}/", s.handleRemoveTrack)

	mux.HandleFunc("GET /api/users/", s.handleListUsers)
	mux.HandleFunc("POST /api/users/", s.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}/", s.handleGetUser)
	mux.HandleFunc("PUT /api/users/{id}/", s.handleUpdateUser)
	mux.HandleFunc("PATCH /api/users/{id}/", s.handleUpdateUser)
	mux.HandleFunc("DELETE /api/users/{id}/", s.handleDeleteUser)

	// Public read-only catalogue, deliberately outside the policy scoping.
	mux.HandleFunc("GET /api/catalogue/", s.handlePublicCatalogue)
	mux.HandleFunc("GET /api/catalogue/{id}/", s.handlePublicAlbum)

	return mux
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Music Manager API",
		"songs":     "/api/songs/",
		"albums":    "/api/albums/",
		"tracklist": "/api/tracklist/",
		"users":     "/api/users/",
		"catalogue": "/api/catalogue/",
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

// currentUser resolves the bearer token into the calling user. A missing
// token yields ErrUnauthorized so callers fail closed.
func (s *Server) currentUser(r *http.Request) (store.User, error) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return store.User{}, store.ErrUnauthorized
	}
	return s.users.CurrentUser(r.Context(), token)
}

// currentProfile resolves the caller's manager profile; nil when the user
// has none attached.
func (s *Server) currentProfile(r *http.Request) (*store.ManagerProfile, error) {
	user, err := s.currentUser(r)
	if err != nil {
		return nil, err
	}
	return user.Profile, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrUnauthorized), errors.Is(err, store.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "you do not have permission for this action"})
	case errors.Is(err, store.ErrAlbumNotFound),
		errors.Is(err, store.ErrSongNotFound),
		errors.Is(err, store.ErrTrackNotFound),
		errors.Is(err, store.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrInvalidAlbum),
		errors.Is(err, store.ErrInvalidSong),
		errors.Is(err, store.ErrInvalidUser),
		errors.Is(err, store.ErrAlbumExists),
		errors.Is(err, store.ErrTrackExists),
		errors.Is(err, store.ErrUserExists):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := parseID(r.PathValue("id"))
	return id, err == nil
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
