package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jobly-api/jobly/pkg/engine"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// BadRequestError is returned for malformed query strings, ids and bodies
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }
func (e *BadRequestError) Code() string  { return "BAD_REQUEST" }

func badRequest(format string, args ...any) error {
	if len(args) == 0 {
		return &BadRequestError{Message: format}
	}
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

// statusFor maps an engine error onto an HTTP status
func statusFor(err error) int {
	var (
		bad    *BadRequestError
		unique *engine.UniqueConstraintError
	)
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case engine.IsNotFound(err):
		return http.StatusNotFound
	case errors.As(err, &unique):
		return http.StatusConflict
	case engine.IsInvalidInput(err), engine.IsConstraintError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError renders err. Internal errors are logged and hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	detail := ErrorDetail{
		Code:    engine.ErrorCode(err),
		Message: err.Error(),
		Status:  status,
	}
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", RequestID(r.Context())),
			slog.Any("error", err),
		)
		detail.Code = "INTERNAL_ERROR"
		detail.Message = http.StatusText(status)
	}

	writeJSON(w, status, ErrorBody{Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
