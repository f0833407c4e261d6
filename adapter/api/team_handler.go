package api

import (
	"log/slog"
	"net/http"

	teamApp "github.com/felixgeelhaar/hireflow/internal/team/application"
	"github.com/felixgeelhaar/hireflow/internal/team/domain"
)

// TeamHandler manages employer interviewer rosters.
type TeamHandler struct {
	roster *teamApp.RosterService
	logger *slog.Logger
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(roster *teamApp.RosterService, logger *slog.Logger) *TeamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamHandler{roster: roster, logger: logger}
}

type memberDTO struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// List handles GET /api/v1/employers/{employerID}/team
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	members, err := h.roster.ListMembers(r.Context(), actor, r.PathValue("employerID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]memberDTO, 0, len(members))
	for _, m := range members {
		out = append(out, memberDTO{UserID: m.UserID, Name: m.Name, Email: m.Email})
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": out})
}

// Add handles POST /api/v1/employers/{employerID}/team
func (h *TeamHandler) Add(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req memberDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	member := domain.Member{EmployerID: r.PathValue("employerID"), UserID: req.UserID, Name: req.Name, Email: req.Email}
	if err := h.roster.AddMember(r.Context(), actor, member); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// Remove handles DELETE /api/v1/employers/{employerID}/team/{userID}
func (h *TeamHandler) Remove(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.roster.RemoveMember(r.Context(), actor, r.PathValue("employerID"), r.PathValue("userID")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
