package server

import (
	"encoding/json"
	"net/http"

	"github.com/abimdanu/openmusic-api/core/catalog"
	"github.com/abimdanu/openmusic-api/logger"

	"github.com/gorilla/mux"
)

// SongRequest represents a song create/update body.
type SongRequest struct {
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Performer string  `json:"performer"`
	Genre     string  `json:"genre"`
	Duration  *int    `json:"duration"`
	AlbumID   *string `json:"albumId"`
}

func (req *SongRequest) validate() string {
	if req.Title == "" || req.Year == 0 || req.Performer == "" || req.Genre == "" {
		return "title, year, performer and genre are required"
	}
	return ""
}

func (req *SongRequest) toInput() catalog.SongInput {
	return catalog.SongInput{
		Title:     req.Title,
		Year:      req.Year,
		Performer: req.Performer,
		Genre:     req.Genre,
		Duration:  req.Duration,
		AlbumID:   req.AlbumID,
	}
}

// CreateSongHandler handles POST /songs.
func (h *APIHandler) CreateSongHandler(w http.ResponseWriter, r *http.Request) {
	var req SongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: msg})
		return
	}

	songID, err := h.songs.Create(r.Context(), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("song created", logger.String("songId", songID))
	writeData(w, http.StatusCreated, map[string]interface{}{"songId": songID})
}

// ListSongsHandler handles GET /songs with optional title and performer
// filters. Always served from the database.
func (h *APIHandler) ListSongsHandler(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	performer := r.URL.Query().Get("performer")

	songs, err := h.songs.List(r.Context(), title, performer)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{"songs": songs})
}

// GetSongHandler handles GET /songs/{id}.
func (h *APIHandler) GetSongHandler(w http.ResponseWriter, r *http.Request) {
	songID := mux.Vars(r)["id"]

	song, err := h.songs.Get(r.Context(), songID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{"song": song})
}

// UpdateSongHandler handles PUT /songs/{id}.
func (h *APIHandler) UpdateSongHandler(w http.ResponseWriter, r *http.Request) {
	songID := mux.Vars(r)["id"]

	var req SongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: msg})
		return
	}

	if err := h.songs.Update(r.Context(), songID, req.toInput()); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "song updated")
}

// DeleteSongHandler handles DELETE /songs/{id}.
func (h *APIHandler) DeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	songID := mux.Vars(r)["id"]

	if err := h.songs.Delete(r.Context(), songID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "song deleted")
}
