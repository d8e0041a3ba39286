package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	customerrors "github.com/anthill-platform/profile-service/internal/system/errors"
	"github.com/anthill-platform/profile-service/internal/system/log"
)

// HandleError sends an HTTP error response based on the provided error.
func HandleError(w http.ResponseWriter, err error) {
	var clientError *customerrors.ClientError
	w.Header().Set("Content-Type", "application/json")
	if ok := errors.As(err, &clientError); ok {
		w.WriteHeader(clientError.StatusCode)
		_ = json.NewEncoder(w).Encode(struct {
			Code        string `json:"code"`
			Message     string `json:"message"`
			Description string `json:"description"`
			TraceID     string `json:"trace_id,omitempty"`
		}{
			Code:        clientError.ErrorMessage.Code,
			Message:     clientError.ErrorMessage.Message,
			Description: clientError.ErrorMessage.Description,
			TraceID:     clientError.ErrorMessage.TraceID,
		})
		return
	}

	logger := log.GetLogger()
	logger.Error(err.Error())
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "Internal server error",
	})
}

// WriteJSON writes the given value as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// ParsePath splits a slash-delimited profile path into its segments,
// discarding empty ones. "stats//wins/" becomes ["stats", "wins"].
func ParsePath(raw string) []string {
	if raw == "" {
		return nil
	}
	var segments []string
	for _, part := range strings.Split(raw, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
