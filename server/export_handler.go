package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/abimdanu/openmusic-api/logger"

	"github.com/gorilla/mux"
)

// ExportRequest represents an export request body.
type ExportRequest struct {
	TargetEmail string `json:"targetEmail"`
}

// ExportPlaylistHandler handles POST /export/playlists/{id}. Owner
// only; the job is queued and processed by a separate consumer.
func (h *APIHandler) ExportPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlistID := mux.Vars(r)["id"]
	userID := userIDFromContext(r.Context())

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if req.TargetEmail == "" || !strings.Contains(req.TargetEmail, "@") {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "a valid targetEmail is required"})
		return
	}

	if err := h.exports.RequestExport(r.Context(), playlistID, userID, req.TargetEmail); err != nil {
		writeError(w, err)
		return
	}

	logger.Info("export queued",
		logger.String("playlistId", playlistID),
		logger.String("targetEmail", req.TargetEmail))
	writeMessage(w, http.StatusCreated, "your request is being processed")
}
