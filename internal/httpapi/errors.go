package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"convertd/internal/pipeline"
	"convertd/internal/remote"
	"convertd/pkg/types"
)

// Messages returned to clients. Internal detail is only logged.
const (
	msgInternal        = "An internal server error occurred."
	msgConversionError = "An error occurred during conversion: "
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeJSON encodes v with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// conversionStatus maps a convert-and-load failure to a status code and the
// message the client sees.
func conversionStatus(err error) (int, string) {
	switch {
	case pipeline.IsInvalidInput(err):
		return http.StatusBadRequest, err.Error()
	case pipeline.IsNotFound(err):
		return http.StatusNotFound, err.Error()
	case pipeline.IsCommandError(err), pipeline.IsTimeout(err), remote.IsServiceNotFound(err):
		return http.StatusInternalServerError, msgConversionError + err.Error()
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode(), he.Error()
	}
	return http.StatusInternalServerError, msgInternal
}
