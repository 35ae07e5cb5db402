package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/agentstation/apodserver/internal/route"
	"github.com/agentstation/apodserver/internal/server/response"
	"github.com/agentstation/apodserver/pkg/constants"
	"github.com/agentstation/apodserver/pkg/errors"
)

// ErrorBoundary must be the first engine stage. After the rest of the
// chain has run it inspects the error recorded by route.Wrap, if any, and
// writes exactly one failure envelope. Internal errors are logged; the
// caller only ever sees the fixed internal message for them.
func ErrorBoundary(logger *zerolog.Logger) gin.HandlerFunc {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return func(c *gin.Context) {
		c.Next()

		err := route.LastError(c)
		if err == nil {
			return
		}

		status, message := Normalize(err)

		if status == http.StatusInternalServerError {
			event := logger.Error().
				Err(err).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path)
			if f, ok := errors.AsFailure(err); ok && len(f.Stack) > 0 {
				event = event.Str("stack", string(f.Stack))
			}
			switch {
			case errors.IsRateLimited(err):
				event = event.Str("upstream_status", "rate_limited")
			case errors.IsUpstreamUnavailable(err):
				event = event.Str("upstream_status", "unavailable")
			}
			event.Msg("Request failed")
		}

		if c.Writer.Written() {
			if status == http.StatusInternalServerError {
				logger.Warn().
					Str("path", c.Request.URL.Path).
					Int("status", c.Writer.Status()).
					Msg("Handler failed after the response started")
			}
			return
		}

		response.Error(c.Writer, status, message)
	}
}

// Normalize maps a handler error to the status and message sent to the
// caller. Failures keep their status (500 when absent or out of range) and
// their message. A 500 or an empty message yields the generic internal
// message. Validation errors map to 400 and anything else, undecodable
// upstream data included, to 500.
func Normalize(err error) (int, string) {
	if f, ok := errors.AsFailure(err); ok {
		status := f.StatusCode()
		if status == http.StatusInternalServerError || f.Message == "" {
			return status, constants.MessageInternalServerError
		}
		return status, f.Message
	}

	var ve *errors.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	return http.StatusInternalServerError, constants.MessageInternalServerError
}
