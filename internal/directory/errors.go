package directory

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// ErrMissingCredential is returned when no forwarded access token accompanies
// a request.
var ErrMissingCredential = errors.New("no access token found in request, expected the X-Forwarded-Access-Token header")

// InvalidArgumentError reports a tool argument that failed validation.
// It is always raised before any remote call is attempted.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("argument `%s` %s", e.Argument, e.Reason)
}

// NewInvalidArgument creates an InvalidArgumentError.
func NewInvalidArgument(argument, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Argument: argument, Reason: reason}
}

// ClientConstructionError reports that a directory client could not be built
// from the forwarded access token.
type ClientConstructionError struct {
	Err error
}

func (e *ClientConstructionError) Error() string {
	return fmt.Sprintf("failed to build Google Directory API client: %v", e.Err)
}

func (e *ClientConstructionError) Unwrap() error {
	return e.Err
}

// RemoteServiceError reports that the Directory API answered a call with an
// error. Code and Message carry the original diagnostics.
type RemoteServiceError struct {
	Code    int
	Message string
	// Operation is the Directory API method that failed, e.g. "groups.get".
	Operation string
	Err       error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("RemoteServiceError: %v", e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// UnexpectedError reports any failure of a remote call that was not an error
// answer from the Directory API: transport failures, decoding failures or a
// recovered panic.
type UnexpectedError struct {
	Operation string
	Err       error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("UnexpectedError: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// Error kinds, used as metric labels and log attributes.
const (
	KindMissingCredential  = "missing_credential"
	KindInvalidArgument    = "invalid_argument"
	KindClientConstruction = "client_construction"
	KindRemoteService      = "remote_service"
	KindUnexpected         = "unexpected"
)

// Classify maps the failure of a remote call onto RemoteServiceError or
// UnexpectedError. Errors that are already classified are returned unchanged.
// Classify returns nil for a nil error.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var remoteErr *RemoteServiceError
	var unexpectedErr *UnexpectedError
	if errors.As(err, &remoteErr) || errors.As(err, &unexpectedErr) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &RemoteServiceError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Err:     err,
		}
	}

	return &UnexpectedError{Err: err}
}

// FailedOperation returns the Directory API method recorded on a remote or
// unexpected error, or "".
func FailedOperation(err error) string {
	var remoteErr *RemoteServiceError
	if errors.As(err, &remoteErr) {
		return remoteErr.Operation
	}
	var unexpectedErr *UnexpectedError
	if errors.As(err, &unexpectedErr) {
		return unexpectedErr.Operation
	}
	return ""
}

// Kind returns the error kind of err, or the empty string for nil.
func Kind(err error) string {
	var (
		invalidArgErr   *InvalidArgumentError
		constructionErr *ClientConstructionError
		remoteErr       *RemoteServiceError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return KindMissingCredential
	case errors.As(err, &invalidArgErr):
		return KindInvalidArgument
	case errors.As(err, &constructionErr):
		return KindClientConstruction
	case errors.As(err, &remoteErr):
		return KindRemoteService
	default:
		return KindUnexpected
	}
}
