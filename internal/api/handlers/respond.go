package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/alfredhq/alfred/pkg/errors"
)

// APIResponse is the JSON envelope every handler responds with
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// respondWithJSON writes a success envelope
func respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	respondEnvelope(w, statusCode, APIResponse{Success: true, Data: data})
}

// respondWithMessage writes a success envelope carrying a message alongside data
func respondWithMessage(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	respondEnvelope(w, statusCode, APIResponse{Success: true, Data: data, Message: message})
}

// respondWithError writes a failure envelope
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondEnvelope(w, statusCode, APIResponse{Success: false, Error: message})
}

// respondWithAppError maps an application error onto the HTTP taxonomy:
// validation 400, not-found 404, rate-limited 429, everything else 500
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeRateLimited:
			respondWithError(w, http.StatusTooManyRequests, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, err.Error())
}

// respondRaw writes a bare payload without the envelope
func respondRaw(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondEnvelope(w http.ResponseWriter, statusCode int, envelope APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
