package api

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON shape for all API errors.
type errorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, fields []string) {
	writeJSON(w, status, errorBody{Error: msg, Fields: fields})
}
