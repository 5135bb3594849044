package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/zalaj/garderoba/internal/model"
	"github.com/zalaj/garderoba/internal/store"
)

// ActorsHandler handles actor administration endpoints.
type ActorsHandler struct {
	DB *sql.DB
}

type createActorRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

type updateActorRequest struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// List handles GET /api/actors. Any authenticated actor may list members
// (checkout needs to pick a borrower); contact details stay in the response
// because the same listing feeds the reviewer views.
func (h *ActorsHandler) List(w http.ResponseWriter, r *http.Request) {
	actors, err := store.ListActors(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list actors")
		return
	}
	if actors == nil {
		actors = []model.Actor{}
	}
	jsonResponse(w, http.StatusOK, actors)
}

// Create handles POST /api/actors.
func (h *ActorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createActorRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.FullName == "" {
		jsonError(w, http.StatusBadRequest, "username and full_name required")
		return
	}
	if req.Role == "" {
		req.Role = model.RoleMember
	}
	if !model.ValidRole(req.Role) {
		jsonError(w, http.StatusBadRequest, "unknown role")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	actor, err := store.CreateActor(r.Context(), h.DB, req.Username, string(hash), req.FullName, req.PhoneNumber, req.Role)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to create actor (username taken?)")
		return
	}

	slog.Info("actor created", "actor", actor.Username, "role", actor.Role)
	jsonResponse(w, http.StatusCreated, actor)
}

// Get handles GET /api/actors/{id}.
func (h *ActorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid actor id")
		return
	}

	actor, err := store.GetActor(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, actor)
}

// Update handles PUT /api/actors/{id}.
func (h *ActorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid actor id")
		return
	}

	var req updateActorRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.FullName == "" {
		jsonError(w, http.StatusBadRequest, "full_name required")
		return
	}
	if !model.ValidRole(req.Role) {
		jsonError(w, http.StatusBadRequest, "unknown role")
		return
	}

	if err := store.UpdateActor(r.Context(), h.DB, id, req.FullName, req.PhoneNumber, req.Role); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update actor")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "actor updated"})
}

// ResetPassword handles PUT /api/actors/{id}/password.
func (h *ActorsHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid actor id")
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := store.UpdateActorPassword(r.Context(), h.DB, id, string(hash)); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "password reset"})
}

// Delete handles DELETE /api/actors/{id}.
func (h *ActorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid actor id")
		return
	}

	claims := GetClaims(r.Context())
	if claims != nil && claims.ActorID == id {
		jsonError(w, http.StatusBadRequest, "cannot delete own account")
		return
	}

	if err := store.DeleteActor(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete actor")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "actor deleted"})
}
