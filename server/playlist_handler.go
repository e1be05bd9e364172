package server

import (
	"encoding/json"
	"net/http"

	"github.com/abimdanu/openmusic-api/logger"

	"github.com/gorilla/mux"
)

// PlaylistRequest represents a playlist create body.
type PlaylistRequest struct {
	Name string `json:"name"`
}

// PlaylistSongRequest represents a playlist membership change body.
type PlaylistSongRequest struct {
	SongID string `json:"songId"`
}

// CreatePlaylistHandler handles POST /playlists.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "name is required"})
		return
	}

	userID := userIDFromContext(r.Context())
	playlistID, err := h.playlists.Create(r.Context(), req.Name, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("playlist created",
		logger.String("playlistId", playlistID),
		logger.String("owner", userID))
	writeData(w, http.StatusCreated, map[string]interface{}{"playlistId": playlistID})
}

// ListPlaylistsHandler handles GET /playlists.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	playlists, err := h.playlists.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{"playlists": playlists})
}

// DeletePlaylistHandler handles DELETE /playlists/{id}. Owner only.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlistID := mux.Vars(r)["id"]
	userID := userIDFromContext(r.Context())

	if err := h.playlists.Delete(r.Context(), playlistID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "playlist deleted")
}

// AddPlaylistSongHandler handles POST /playlists/{id}/songs. Owner or
// collaborator.
func (h *APIHandler) AddPlaylistSongHandler(w http.ResponseWriter, r *http.Request) {
	playlistID := mux.Vars(r)["id"]
	userID := userIDFromContext(r.Context())

	var req PlaylistSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if req.SongID == "" {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "songId is required"})
		return
	}

	if err := h.playlists.AddSong(r.Context(), playlistID, req.SongID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "song added to playlist")
}

// GetPlaylistSongsHandler handles GET /playlists/{id}/songs. Owner or
// collaborator.
func (h *APIHandler) GetPlaylistSongsHandler(w http.ResponseWriter, r *http.Request) {
	playlistID := mux.Vars(r)["id"]
	userID := userIDFromContext(r.Context())

	playlist, err := h.playlists.GetSongs(r.Context(), playlistID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{"playlist": playlist})
}

// RemovePlaylistSongHandler handles DELETE /playlists/{id}/songs. Owner
// or collaborator.
func (h *APIHandler) RemovePlaylistSongHandler(w http.ResponseWriter, r *http.Request) {
	playlistID := mux.Vars(r)["id"]
	userID := userIDFromContext(r.Context())

	var req PlaylistSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if req.SongID == "" {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "songId is required"})
		return
	}

	if err := h.playlists.RemoveSong(r.Context(), playlistID, req.SongID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "song removed from playlist")
}

// GetPlaylistActivitiesHandler handles GET /playlists/{id}/activities.
// Owner or collaborator.
func (h *APIHandler) GetPlaylistActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	playlistID := mux.Vars(r)["id"]
	userID := userIDFromContext(r.Context())

	activities, err := h.playlists.Activities(r.Context(), playlistID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"playlistId": playlistID,
		"activities": activities,
	})
}
