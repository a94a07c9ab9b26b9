package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/mapreview/pkg/errors"
)

// maxErrorBody caps how much of an error response ends up in an APIError.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into the target structure. Any
// non-2xx status is returned as an *errors.APIError for service.
func DecodeResponse(resp *http.Response, service string, target any) error {
	body, err := ReadBody(resp, service)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint(resp), err)
	}
	return nil
}

// ReadBody reads and closes the response body. Any non-2xx status is
// returned as an *errors.APIError for service.
func ReadBody(resp *http.Response, service string) ([]byte, error) {
	defer drain(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	if err := statusError(resp, service, body); err != nil {
		return nil, err
	}
	return body, nil
}

// CheckResponse closes the body and reports only whether the status was 2xx.
func CheckResponse(resp *http.Response, service string) error {
	defer drain(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return statusError(resp, service, body)
}

func statusError(resp *http.Response, service string, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	apiErr := errors.NewAPIError(service, resp.StatusCode, msg)
	apiErr.Endpoint = endpoint(resp)
	return apiErr
}

func endpoint(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.Path
}
