package route

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/apodserver/pkg/errors"
)

// Wrap adapts a HandlerFunc to the engine. A returned error, or a panic
// raised by the handler, is recorded on the context and the chain is
// aborted; nothing is written to the response here. The error boundary
// further out in the chain decides what the caller sees.
func Wrap(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				// net/http uses this value to abort the connection on purpose.
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				Fail(c, &errors.Failure{
					Err:   fmt.Errorf("panic: %v", rec),
					Stack: debug.Stack(),
				})
			}
		}()

		if err := h(c); err != nil {
			Fail(c, err)
		}
	}
}

// Fail records err on the request and stops the remaining handlers.
func Fail(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// LastError returns the most recent error recorded on the request, or nil.
func LastError(c *gin.Context) error {
	last := c.Errors.Last()
	if last == nil {
		return nil
	}
	return last.Err
}
