package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/stylerack/stylerack/pkg/errors"
	"github.com/stylerack/stylerack/pkg/logging"
)

// DecodeResponse decodes a JSON response into the target structure.
// Non-2xx responses become APIErrors carrying the status code and body.
func DecodeResponse(resp *http.Response, endpoint string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errors.APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    apiMessage(body, resp.Status),
		}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.NewIOError("decode", endpoint, err)
	}

	return nil
}

// apiMessage extracts the host's error field from a response body, falling
// back to the HTTP status line.
func apiMessage(body []byte, status string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return status
}
