package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/agentstation/apodserver/pkg/errors"
	"github.com/agentstation/apodserver/pkg/logging"
)

// CheckStatus returns an APIError for any non-2xx response. The message is
// the reason phrase of the status line.
func CheckStatus(provider string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg := http.StatusText(resp.StatusCode)
	if msg == "" {
		msg = resp.Status
	}
	endpoint := ""
	if resp.Request != nil {
		endpoint = redact(resp.Request.URL)
	}
	apiErr := errors.NewAPIError(provider, resp.StatusCode, msg)
	apiErr.Endpoint = endpoint
	return apiErr
}

// DecodeResponse checks the status and decodes a JSON body into target.
// The body is always closed.
func DecodeResponse(provider string, resp *http.Response, target any) error {
	defer closeBody(resp)

	if err := CheckStatus(provider, resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", provider+" response", err)
	}
	return nil
}

// ReadBody checks the status and returns at most limit bytes of the body.
// Bodies larger than limit are an error rather than being truncated.
func ReadBody(provider string, resp *http.Response, limit int64) ([]byte, error) {
	defer closeBody(resp)

	if err := CheckStatus(provider, resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	if int64(len(body)) > limit {
		return nil, &errors.IOError{
			Operation: "read",
			Path:      "response body",
			Message:   "body exceeds size limit",
		}
	}
	return body, nil
}

// redact drops the query, which may carry the API key.
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	clean := *u
	clean.RawQuery = ""
	return clean.Redacted()
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logging.Default().Warn().Err(err).Msg("Failed to close response body")
	}
}
