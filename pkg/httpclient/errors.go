package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

// StatusNetworkError is the status carried by a TransportError when no
// response was obtained.
const StatusNetworkError = 0

const defaultNetworkMessage = "Network error occurred"

// TransportError is the normalized failure of an HTTP exchange.
type TransportError struct {
	Message    string
	StatusCode int
	// Response is the raw response, nil for network failures.
	Response *resty.Response
	// Err is the underlying cause for network failures.
	Err error
}

func (e *TransportError) Error() string { return e.Message }

func (e *TransportError) Unwrap() error { return e.Err }

// IsNetwork reports whether the exchange failed before a response arrived.
func (e *TransportError) IsNetwork() bool { return e.StatusCode == StatusNetworkError }

// AsTransportError unwraps err into a *TransportError if it carries one.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// messageFields are the error body fields consulted for a message, in order.
var messageFields = []string{"message", "error", "details"}

// statusError builds the TransportError for a non-2xx response.
func statusError(resp *resty.Response) *TransportError {
	status := resp.StatusCode()
	return &TransportError{
		Message:    errorMessage(status, resp.Status(), resp.Body()),
		StatusCode: status,
		Response:   resp,
	}
}

// errorMessage picks message, error, details in that order, then the reason
// phrase of statusLine, then the standard status text. Fields of other types
// in the body do not prevent a string field from being used.
func errorMessage(status int, statusLine string, body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, name := range messageFields {
			var msg string
			if json.Unmarshal(fields[name], &msg) != nil {
				continue
			}
			if msg = strings.TrimSpace(msg); msg != "" {
				return msg
			}
		}
	}
	if text := reasonPhrase(status, statusLine); text != "" {
		return text
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d Error", status)
}

// reasonPhrase strips the status code from a status line such as
// "499 Client Closed Request".
func reasonPhrase(status int, statusLine string) string {
	line := strings.TrimSpace(statusLine)
	if rest, ok := strings.CutPrefix(line, strconv.Itoa(status)); ok {
		line = rest
	}
	return strings.TrimSpace(line)
}

// networkError normalizes a failure that happened before any response.
// An error that is already a TransportError is returned as is.
func networkError(err error) *TransportError {
	if te, ok := AsTransportError(err); ok {
		return te
	}
	msg := defaultNetworkMessage
	if err != nil {
		if desc := strings.TrimSpace(err.Error()); desc != "" {
			msg = desc
		}
	}
	return &TransportError{Message: msg, StatusCode: StatusNetworkError, Err: err}
}
