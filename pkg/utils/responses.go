package utils

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type Response struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Errors    any       `json:"errors,omitempty"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ResponseJSON writes the envelope with a custom status code. The request id
// is taken from the response header set by the RequestID middleware.
func ResponseJSON(w http.ResponseWriter, code int, resp Response) {
	resp.RequestID = w.Header().Get(RequestIDHeader)
	if resp.RequestID == "" {
		resp.RequestID = uuid.NewString()
	}
	resp.Timestamp = time.Now().UTC()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// ------------- Error responses -------------

// ResponseError writes {"success":false,"error":code,"message":message}.
func ResponseError(w http.ResponseWriter, status int, code, message string, details any) {
	ResponseJSON(w, status, Response{Error: code, Message: message, Errors: details})
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseError(w, http.StatusBadRequest, "ValidationError", message, errors)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, code, message string) {
	ResponseError(w, http.StatusUnauthorized, code, message, nil)
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, code, message string) {
	ResponseError(w, http.StatusForbidden, code, message, nil)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, "NotFound", message, nil)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, "InternalError", message, nil)
}
