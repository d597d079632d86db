// Package web serves the session-authenticated management surface. Handlers
// run the authorization policy before rendering mutating forms or applying
// mutations; the actual HTML templating sits behind the Renderer interface.
package web

import (
	"context"
	"net/http"

	"musicman/internal/store"
)

// SessionCookie names the cookie carrying the session token. Issuing the
// cookie (login/logout) is handled by the hosting layer.
const SessionCookie = "musicman_session"

// Renderer turns a template name and context into an HTML response.
type Renderer interface {
	Render(w http.ResponseWriter, name string, data map[string]any) error
}

// UserService resolves session tokens into users.
type UserService interface {
	CurrentUser(ctx context.Context, token string) (store.User, error)
}

// AlbumService exposes the album workflows the web views need.
type AlbumService interface {
	Create(ctx context.Context, profile *store.ManagerProfile, album store.Album) (store.Album, error)
	Get(ctx context.Context, profile *store.ManagerProfile, id int64) (store.Album, error)
	List(ctx context.Context, profile *store.ManagerProfile) ([]store.Album, error)
	Update(ctx context.Context, profile *store.ManagerProfile, id int64, patch store.AlbumPatch) (store.Album, error)
	Delete(ctx context.Context, profile *store.ManagerProfile, id int64) error
	Tracks(ctx context.Context, albumID int64) ([]store.TracklistEntry, error)
	GetPublic(ctx context.Context, id int64) (store.Album, error)
	GetPublicBySlug(ctx context.Context, id int64, slug string) (store.Album, error)
	ListPublic(ctx context.Context) ([]store.Album, error)
}

// SongService lists songs for the track forms.
type SongService interface {
	List(ctx context.Context, profile *store.ManagerProfile) ([]store.Song, error)
}

// TracklistService exposes the tracklist workflows the web views need.
type TracklistService interface {
	Add(ctx context.Context, profile *store.ManagerProfile, albumID, songID int64, position *int) (store.TracklistItem, error)
	Get(ctx context.Context, profile *store.ManagerProfile, id int64) (store.TracklistEntry, error)
	Update(ctx context.Context, profile *store.ManagerProfile, id int64, patch store.TrackPatch) (store.TracklistEntry, error)
	Remove(ctx context.Context, profile *store.ManagerProfile, id int64) error
}

// Server wires the management views to the underlying services.
type Server struct {
	users     UserService
	albums    AlbumService
	songs     SongService
	tracklist TracklistService
	renderer  Renderer
}

// New configures a web Server.
func New(users UserService, albums AlbumService, songs SongService, tracklist TracklistService, renderer Renderer) *Server {
	return &Server{
		users:     users,
		albums:    albums,
		songs:     songs,
		tracklist: tracklist,
		renderer:  renderer,
	}
}

// Routes exposes the management and public catalogue pages.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleAlbumList)

	mux.HandleFunc("GET /albums/new/", s.handleCreateAlbum)
	mux.HandleFunc("POST /albums/new/", s.handleCreateAlbum)
	mux.HandleFunc("GET /albums/{id}/", s.handleAlbumDetail)
	mux.HandleFunc("GET /albums/{id}/edit/", s.handleEditAlbum)
	mux.HandleFunc("POST /albums/{id}/edit/", s.handleEditAlbum)
	mux.HandleFunc("GET /albums/{id}/delete/", s.handleDeleteAlbum)
	mux.HandleFunc("POST /albums/{id}/delete/", s.handleDeleteAlbum)
	mux.HandleFunc("GET /albums/{id}/{slug}/", s.handleAlbumDetailSlug)

	mux.HandleFunc("GET /albums/{id}/tracklist/add/", s.handleAddTrack)
	mux.HandleFunc("POST /albums/{id}/tracklist/add/", s.handleAddTrack)
	mux.HandleFunc("GET /albums/{albumID}/tracklist/{trackID}/edit/", s.handleEditTrack)
	mux.HandleFunc("POST /albums/{albumID}/tracklist/{trackID}/edit/", s.handleEditTrack)
	mux.HandleFunc("GET /albums/{albumID}/tracklist/{trackID}/delete/", s.handleDeleteTrack)
	mux.HandleFunc("POST /albums/{albumID}/tracklist/{trackID}/delete/", s.handleDeleteTrack)

	// Public catalogue browsing, the one unauthenticated read path.
	mux.HandleFunc("GET /catalogue/", s.handlePublicList)
	mux.HandleFunc("GET /catalogue/{id}/", s.handlePublicDetail)

	return mux
}

// currentProfile resolves the session cookie into a manager profile. Any
// failure resolves to nil, which the policy treats as deny.
func (s *Server) currentProfile(r *http.Request) *store.ManagerProfile {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	user, err := s.users.CurrentUser(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return user.Profile
}

func (s *Server) render(w http.ResponseWriter, name string, data map[string]any) {
	if err := s.renderer.Render(w, name, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func forbidden(w http.ResponseWriter) {
	http.Error(w, "You do not have permission for this action", http.StatusForbidden)
}
