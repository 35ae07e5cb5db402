// Package response provides the response envelope written by every JSON
// endpoint of apodserver. Successful responses carry a data payload and a
// null error; failed responses carry a null data field and a message.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/agentstation/apodserver/pkg/constants"
)

// Response is the envelope returned by all JSON endpoints.
// Exactly one of Data and Error is non-null once a request has completed.
type Response struct {
	Data  any     `json:"data"`
	Error *string `json:"error"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{
		Data:  data,
		Error: nil,
	}
}

// Fail creates an error response with the given message.
func Fail(message string) Response {
	return Response{
		Data:  nil,
		Error: &message,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are ignored as headers are already sent (best effort)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// Error writes a failed response with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Fail(message))
}

// NotFound writes the 404 response used when no route matches.
func NotFound(w http.ResponseWriter, method, path string) {
	Error(w, http.StatusNotFound, "Cannot "+method+" "+path)
}

// InternalError writes a 500 response. The message is fixed so internal
// details never reach the caller.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, constants.MessageInternalServerError)
}

// Binary writes raw bytes with the given content type.
func Binary(w http.ResponseWriter, contentType string, body []byte) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
