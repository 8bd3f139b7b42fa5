package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-dashboard/oauthmodel"
)

const contentTypeJSON = "application/json; charset=utf-8"

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeMessage writes the {message} error envelope.
func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, oauthmodel.ErrorResponse{Message: message})
}

// writeLoginError writes the {error} envelope used by /login.
func writeLoginError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, oauthmodel.ErrorResponse{Error: message})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
