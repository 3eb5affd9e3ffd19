package api

import (
	"encoding/json"
	"net/http"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// ErrorResponse represents a standard JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
}

// WriteJSONError writes a JSON error response with the given status code and message
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeErrorResponse(w, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// WriteDomainError writes err with the status code its kind maps to
func WriteDomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	statusCode := StatusForKind(kind)
	writeErrorResponse(w, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: err.Error(),
		Code:    statusCode,
		Kind:    string(kind),
	})
}

// StatusForKind maps an error kind to an HTTP status code
func StatusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidArgument, domain.KindInvalidEndpoint,
		domain.KindInvalidDirection, domain.KindMissingSessionID:
		return http.StatusBadRequest
	case domain.KindUnknownMethod:
		return http.StatusNotFound
	case domain.KindNoCurrentDatabase, domain.KindReplicatorNotConfigured,
		domain.KindAlreadyRunning:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeErrorResponse(w http.ResponseWriter, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.Code)
	json.NewEncoder(w).Encode(response)
}
