package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/abimdanu/openmusic-api/logger"

	"github.com/gorilla/mux"
)

// AlbumRequest represents an album create/update body.
type AlbumRequest struct {
	Name string `json:"name"`
	Year int    `json:"year"`
}

// CreateAlbumHandler handles POST /albums.
func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	var req AlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if req.Name == "" || req.Year == 0 {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "name and year are required"})
		return
	}

	albumID, err := h.albums.Create(r.Context(), req.Name, req.Year)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("album created", logger.String("albumId", albumID))
	writeData(w, http.StatusCreated, map[string]interface{}{"albumId": albumID})
}

// GetAlbumHandler handles GET /albums/{id}. The X-Data-Source header
// reports whether the aggregate came from the cache or the database.
func (h *APIHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	albumID := mux.Vars(r)["id"]

	album, source, err := h.albums.Get(r.Context(), albumID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSource(w, source)
	writeData(w, http.StatusOK, map[string]interface{}{"album": album})
}

// UpdateAlbumHandler handles PUT /albums/{id}.
func (h *APIHandler) UpdateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	albumID := mux.Vars(r)["id"]

	var req AlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if req.Name == "" || req.Year == 0 {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "name and year are required"})
		return
	}

	if err := h.albums.Update(r.Context(), albumID, req.Name, req.Year); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "album updated")
}

// DeleteAlbumHandler handles DELETE /albums/{id}.
func (h *APIHandler) DeleteAlbumHandler(w http.ResponseWriter, r *http.Request) {
	albumID := mux.Vars(r)["id"]

	if err := h.albums.Delete(r.Context(), albumID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "album deleted")
}

// UploadAlbumCoverHandler handles POST /albums/{id}/covers. The image
// goes to object storage; only its URL is written to the catalog.
func (h *APIHandler) UploadAlbumCoverHandler(w http.ResponseWriter, r *http.Request) {
	albumID := mux.Vars(r)["id"]

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "failed to parse form"})
		return
	}

	file, header, err := r.FormFile("cover")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "missing 'cover' in form"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "cover must be an image"})
		return
	}

	coverURL, err := h.covers.UploadCover(r.Context(), albumID, file, header.Size, contentType)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.albums.SetCover(r.Context(), albumID, coverURL); err != nil {
		writeError(w, err)
		return
	}

	logger.Info("album cover uploaded",
		logger.String("albumId", albumID),
		logger.String("coverUrl", coverURL))
	writeMessage(w, http.StatusCreated, "cover uploaded")
}

// LikeAlbumHandler handles POST /albums/{id}/likes.
func (h *APIHandler) LikeAlbumHandler(w http.ResponseWriter, r *http.Request) {
	albumID := mux.Vars(r)["id"]
	userID := userIDFromContext(r.Context())

	if err := h.albums.Like(r.Context(), albumID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "album liked")
}

// UnlikeAlbumHandler handles DELETE /albums/{id}/likes.
func (h *APIHandler) UnlikeAlbumHandler(w http.ResponseWriter, r *http.Request) {
	albumID := mux.Vars(r)["id"]
	userID := userIDFromContext(r.Context())

	if err := h.albums.Unlike(r.Context(), albumID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "album unliked")
}

// GetAlbumLikesHandler handles GET /albums/{id}/likes.
func (h *APIHandler) GetAlbumLikesHandler(w http.ResponseWriter, r *http.Request) {
	albumID := mux.Vars(r)["id"]

	count, source, err := h.albums.LikeCount(r.Context(), albumID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSource(w, source)
	writeData(w, http.StatusOK, map[string]interface{}{"likes": count})
}
