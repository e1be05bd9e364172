package server

import (
	"encoding/json"
	"net/http"

	"github.com/abimdanu/openmusic-api/logger"
)

// CollaborationRequest represents a collaboration grant/revoke body.
type CollaborationRequest struct {
	PlaylistID string `json:"playlistId"`
	UserID     string `json:"userId"`
}

// AddCollaborationHandler handles POST /collaborations. Owner only.
func (h *APIHandler) AddCollaborationHandler(w http.ResponseWriter, r *http.Request) {
	var req CollaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if req.PlaylistID == "" || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "playlistId and userId are required"})
		return
	}

	actorID := userIDFromContext(r.Context())
	collaborationID, err := h.playlists.AddCollaboration(r.Context(), req.PlaylistID, req.UserID, actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("collaboration added",
		logger.String("playlistId", req.PlaylistID),
		logger.String("userId", req.UserID))
	writeData(w, http.StatusCreated, map[string]interface{}{"collaborationId": collaborationID})
}

// DeleteCollaborationHandler handles DELETE /collaborations. Owner only.
func (h *APIHandler) DeleteCollaborationHandler(w http.ResponseWriter, r *http.Request) {
	var req CollaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if req.PlaylistID == "" || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "playlistId and userId are required"})
		return
	}

	actorID := userIDFromContext(r.Context())
	if err := h.playlists.DeleteCollaboration(r.Context(), req.PlaylistID, req.UserID, actorID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "collaboration deleted")
}
