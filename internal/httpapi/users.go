package httpapi

import (
	"encoding/json"
	"net/http"

	"musicman/internal/store"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type profileRequest struct {
	DisplayName *string `json:"display_name"`
	Permission  *string `json:"permission"`
}

type userRequest struct {
	Username    *string         `json:"username"`
	Email       *string         `json:"email"`
	Password    *string         `json:"password"`
	IsStaff     *bool           `json:"is_staff"`
	IsSuperuser *bool           `json:"is_superuser"`
	Profile     *profileRequest `json:"profile"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	token, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	caller, err := s.currentUser(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	users, err := s.users.List(r.Context(), caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]userJSON, 0, len(users))
	for _, user := range users {
		out = append(out, newUserJSON(user))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := s.currentUser(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	user := store.User{}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		user.IsSuperuser = *req.IsSuperuser
	}

	var password string
	if req.Password != nil {
		password = *req.Password
	}

	var profile *store.ManagerProfile
	if req.Profile != nil {
		profile = &store.ManagerProfile{Permission: store.PermissionViewer}
		if req.Profile.DisplayName != nil {
			profile.DisplayName = *req.Profile.DisplayName
		}
		if req.Profile.Permission != nil {
			profile.Permission = store.Permission(*req.Profile.Permission)
		}
	}

	created, err := s.users.Create(r.Context(), caller, user, password, profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newUserJSON(created))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	caller, err := s.currentUser(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	user, err := s.users.Get(r.Context(), caller, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserJSON(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := s.currentUser(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	patch := store.UserPatch{
		Username:    req.Username,
		Email:       req.Email,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	}
	if req.Profile != nil {
		patch.Profile = &store.ProfilePatch{
			DisplayName: req.Profile.DisplayName,
		}
		if req.Profile.Permission != nil {
			permission := store.Permission(*req.Profile.Permission)
			patch.Profile.Permission = &permission
		}
	}

	var password string
	if req.Password != nil {
		password = *req.Password
	}

	updated, err := s.users.Update(r.Context(), caller, id, patch, password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserJSON(updated))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, err := s.currentUser(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	if err := s.users.Delete(r.Context(), caller, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
