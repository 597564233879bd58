package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teemow/groupsmcp/internal/directory"
	"github.com/teemow/groupsmcp/internal/instrumentation"
	"github.com/teemow/groupsmcp/internal/server"
)

// CallRemote runs one Directory API call and normalizes its outcome.
//
// The call gets its own client span and an entry in the Google API metrics.
// Errors come back classified as *directory.RemoteServiceError or
// *directory.UnexpectedError; a panic inside fn becomes an UnexpectedError.
// CallRemote does not log; the tool handler logs the failure once.
func CallRemote[T any](ctx context.Context, sc *server.ServerContext, operation string, fn func(ctx context.Context) (T, error)) (result T, err error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDirectory, operation)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = &directory.UnexpectedError{Err: fmt.Errorf("panic in %s: %v", operation, r)}
		}

		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err, directory.Kind(err))
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		span.End()
		sc.Metrics().RecordGoogleAPIOperation(ctx, instrumentation.ServiceDirectory, operation, status, time.Since(start))
	}()

	result, err = fn(ctx)
	if err != nil {
		var zero T
		return zero, withOperation(directory.Classify(err), operation)
	}
	return result, nil
}

// CallRemoteObject is CallRemote for calls that answer with a resource.
// A nil resource without an error is reported as an UnexpectedError.
func CallRemoteObject[T any](ctx context.Context, sc *server.ServerContext, operation string, fn func(ctx context.Context) (*T, error)) (*T, error) {
	return CallRemote(ctx, sc, operation, func(ctx context.Context) (*T, error) {
		res, err := fn(ctx)
		if err == nil && res == nil {
			return nil, &directory.UnexpectedError{Err: fmt.Errorf("%s returned an empty response", operation)}
		}
		return res, err
	})
}

// withOperation records operation on a classified error that has none yet.
func withOperation(err error, operation string) error {
	var remoteErr *directory.RemoteServiceError
	if errors.As(err, &remoteErr) {
		if remoteErr.Operation == "" {
			remoteErr.Operation = operation
		}
		return err
	}
	var unexpectedErr *directory.UnexpectedError
	if errors.As(err, &unexpectedErr) && unexpectedErr.Operation == "" {
		unexpectedErr.Operation = operation
	}
	return err
}
