package server

import (
	"encoding/json"
	"net/http"

	"github.com/abimdanu/openmusic-api/apperr"
	"github.com/abimdanu/openmusic-api/cache"
	"github.com/abimdanu/openmusic-api/logger"
)

// sourceHeader exposes where a cache-aside read was served from, so
// external behavior tests and operators can tell cache hits from
// database reads.
const sourceHeader = "X-Data-Source"

type successBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type failBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeJSON writes a response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeData writes a success envelope carrying data.
func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, successBody{Status: "success", Data: data})
}

// writeMessage writes a success envelope carrying only a message.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, successBody{Status: "success", Message: message})
}

// writeSource sets the data source header for cache-aside reads.
func writeSource(w http.ResponseWriter, source cache.Source) {
	w.Header().Set(sourceHeader, string(source))
}

// writeError maps the service error taxonomy to HTTP statuses. Errors
// outside the taxonomy are infrastructure faults: logged and reported
// as a generic server error.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, failBody{Status: "fail", Message: err.Error()})
	case apperr.IsInvariant(err):
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: err.Error()})
	case apperr.IsAuthorization(err):
		writeJSON(w, http.StatusForbidden, failBody{Status: "fail", Message: err.Error()})
	default:
		logger.Error("internal error", logger.ErrorField(err))
		writeJSON(w, http.StatusInternalServerError, failBody{Status: "error", Message: "internal server error"})
	}
}
