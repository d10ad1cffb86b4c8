package api

import (
	"encoding/json"
	"net/http"
)

// Enveloppe d'erreur unique pour 400/404/500 sur tous les endpoints.
type errorEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Status: status, Message: message})
}
