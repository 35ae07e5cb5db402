package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/apodserver/internal/route"
	"github.com/agentstation/apodserver/pkg/constants"
	"github.com/agentstation/apodserver/pkg/errors"
)

// BodyParser decodes JSON and URL-encoded request bodies into a map that
// handlers read with route.Body. Other content types are left untouched.
// A body that cannot be decoded fails the request with 400.
func BodyParser(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = constants.MaxBodyBytes
	}

	return func(c *gin.Context) {
		body, err := parseBody(c, maxBytes)
		if err != nil {
			route.Fail(c, err)
			return
		}
		route.SetBody(c, body)
		c.Next()
	}
}

func parseBody(c *gin.Context, maxBytes int64) (map[string]any, error) {
	req := c.Request
	if req.Body == nil || req.Body == http.NoBody {
		return map[string]any{}, nil
	}

	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil {
		return map[string]any{}, nil
	}

	isJSON := mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
	isForm := mediaType == "application/x-www-form-urlencoded"
	if !isJSON && !isForm {
		return map[string]any{}, nil
	}

	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, req.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.NewFailure(http.StatusRequestEntityTooLarge, "Request body too large.")
		}
		return nil, &errors.Failure{
			Status:  http.StatusBadRequest,
			Message: constants.MessageInvalidBody,
			Err:     errors.WrapIO("read", "request body", err),
		}
	}
	// handlers that want the raw bytes can still read them
	req.Body = io.NopCloser(bytes.NewReader(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	if isJSON {
		return decodeJSON(raw)
	}
	return decodeForm(raw)
}

func decodeJSON(raw []byte) (map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, invalidBody("json", err)
	}
	if body == nil {
		// a literal null
		return map[string]any{}, nil
	}
	return body, nil
}

func decodeForm(raw []byte) (map[string]any, error) {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, invalidBody("form", err)
	}

	body := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 1 {
			body[key] = vals[0]
			continue
		}
		list := make([]any, len(vals))
		for i, v := range vals {
			list[i] = v
		}
		body[key] = list
	}
	return body, nil
}

func invalidBody(format string, err error) error {
	return &errors.Failure{
		Status:  http.StatusBadRequest,
		Message: constants.MessageInvalidBody,
		Err:     errors.WrapParse(format, "request body", err),
	}
}
