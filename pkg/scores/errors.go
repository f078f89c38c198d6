package scores

import (
	"errors"
	"net/http"

	"github.com/samvad-hq/scoreboard/pkg/httpclient"
)

// Kind classifies an accessor failure.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindServer
	KindNetwork
	KindRequest
	// KindNoData means the exchange succeeded but carried no body.
	KindNoData
	// KindInvalidResponse means the exchange succeeded but the envelope was malformed.
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindRequest:
		return "request"
	case KindNoData:
		return "no_data"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

const (
	MsgServerError     = "Server error. Please try again later."
	MsgNetworkError    = "Network error. Please check your connection and try again."
	MsgInvalidResponse = "Invalid response format from server"
)

var (
	// ErrNoData is wrapped by errors of KindNoData.
	ErrNoData = errors.New("no data received")
	// ErrInvalidResponse is wrapped by errors of KindInvalidResponse.
	ErrInvalidResponse = errors.New("invalid response format")
	// ErrEmptyRegistrationNumber is returned by Score before any request is made.
	ErrEmptyRegistrationNumber = errors.New("registration number is required")
)

// Error is a user-facing accessor failure. StatusCode is the status of the
// exchange that caused it, 0 for network failures.
type Error struct {
	Resource   string
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an accessor not-found failure.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}

// mapError relabels a transport failure for res. Errors that are not
// transport failures are returned unchanged.
func mapError(res Resource, err error) error {
	te, ok := httpclient.AsTransportError(err)
	if !ok {
		return err
	}

	out := &Error{Resource: res.Name, StatusCode: te.StatusCode, Err: te}
	switch {
	case te.StatusCode == http.StatusNotFound:
		out.Kind, out.Message = KindNotFound, res.NotFound
	case te.StatusCode >= http.StatusInternalServerError:
		out.Kind, out.Message = KindServer, MsgServerError
	case te.StatusCode == httpclient.StatusNetworkError:
		out.Kind, out.Message = KindNetwork, MsgNetworkError
	default:
		out.Kind, out.Message = KindRequest, res.Failure
	}
	return out
}

func noDataError(res Resource, status int) error {
	return &Error{Resource: res.Name, Kind: KindNoData, Message: res.NoData, StatusCode: status, Err: ErrNoData}
}

func invalidResponseError(res Resource, status int) error {
	return &Error{Resource: res.Name, Kind: KindInvalidResponse, Message: MsgInvalidResponse, StatusCode: status, Err: ErrInvalidResponse}
}
