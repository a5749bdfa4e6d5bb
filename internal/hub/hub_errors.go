package hub

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/imroc/req/v3"
)

var (
	// hub common
	ErrNoToken    = errors.New("hub: access token missing")
	ErrNoEndpoint = errors.New("hub: endpoint url missing")

	// error taxonomy surfaced to callers
	ErrAuth        = errors.New("hub: authentication failed")
	ErrInvalidName = errors.New("hub: invalid repo name")
	ErrNotFound    = errors.New("hub: not found")
	ErrTransient   = errors.New("hub: transient network error")
)

// HubError carries the Hub's structured error payload.
type HubError struct {
	Code    string `json:"-"` // from the X-Error-Code header
	Message string `json:"error"`
	Status  int    `json:"-"`
}

func (e *HubError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("hub error: %s - %s", e.Code, e.Message)
	}
	return fmt.Sprintf("hub error: %s", e.Message)
}

// handleAPIError is a helper function that handles the common error pattern.
// Network-level failures and 5xx responses map to ErrTransient, auth failures
// to ErrAuth, missing resources to ErrNotFound, and bad request payloads to
// ErrInvalidName.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("%w: %s: %v", ErrTransient, operation, requestErr)
	}

	// got a response, but api returned an error
	if resp.IsErrorState() {
		hubErr, _ := resp.ErrorResult().(*HubError)
		if hubErr == nil {
			hubErr = &HubError{Message: resp.String()}
		}
		hubErr.Status = resp.StatusCode
		if code := resp.Header.Get(HeaderErrorCode); code != "" {
			hubErr.Code = code
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %s: %s", ErrAuth, operation, hubErr)
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s: %s", ErrNotFound, operation, hubErr)
		case resp.StatusCode == http.StatusBadRequest:
			return fmt.Errorf("%w: %s: %s", ErrInvalidName, operation, hubErr)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("%w: %s: %s", ErrTransient, operation, hubErr)
		default:
			return fmt.Errorf("%s: %w", operation, hubErr)
		}
	}

	return nil
}
