package directory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	apiErr := &googleapi.Error{Code: 403, Message: "Not Authorized to access this resource/api"}

	tests := []struct {
		name     string
		err      error
		wantKind string
	}{
		{name: "nil", err: nil, wantKind: ""},
		{name: "googleapi error", err: apiErr, wantKind: KindRemoteService},
		{name: "wrapped googleapi error", err: fmt.Errorf("call failed: %w", apiErr), wantKind: KindRemoteService},
		{name: "plain error", err: errors.New("connection reset by peer"), wantKind: KindUnexpected},
		{name: "already unexpected", err: &UnexpectedError{Err: errors.New("boom")}, wantKind: KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.wantKind, Kind(got))
		})
	}
}

func TestClassify_PreservesRemoteDiagnostics(t *testing.T) {
	apiErr := &googleapi.Error{Code: 409, Message: "Entity already exists."}

	err := Classify(apiErr)

	var remoteErr *RemoteServiceError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 409, remoteErr.Code)
	assert.Equal(t, "Entity already exists.", remoteErr.Message)
	assert.Contains(t, err.Error(), "Entity already exists.")
	assert.True(t, errors.Is(err, apiErr), "original error must stay reachable")
}

func TestClassify_Idempotent(t *testing.T) {
	first := Classify(&googleapi.Error{Code: 500, Message: "backend error"})
	assert.Same(t, first, Classify(first))
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindMissingCredential, Kind(ErrMissingCredential))
	assert.Equal(t, KindMissingCredential, Kind(fmt.Errorf("dispatch: %w", ErrMissingCredential)))
	assert.Equal(t, KindInvalidArgument, Kind(NewInvalidArgument("group_email", "can't be empty")))
	assert.Equal(t, KindClientConstruction, Kind(&ClientConstructionError{Err: errors.New("bad token")}))
	assert.Equal(t, KindRemoteService, Kind(&RemoteServiceError{Err: errors.New("404")}))
	assert.Equal(t, KindUnexpected, Kind(errors.New("anything else")))
}

func TestInvalidArgumentError_Message(t *testing.T) {
	err := NewInvalidArgument("member_email", "can't be empty")
	assert.Equal(t, "argument `member_email` can't be empty", err.Error())
}

func TestFailedOperation(t *testing.T) {
	assert.Equal(t, "groups.get", FailedOperation(&RemoteServiceError{Operation: "groups.get", Err: errors.New("404")}))
	assert.Equal(t, "members.list", FailedOperation(fmt.Errorf("wrapped: %w", &UnexpectedError{Operation: "members.list", Err: errors.New("EOF")})))
	assert.Empty(t, FailedOperation(NewInvalidArgument("group_email", "can't be empty")))
	assert.Empty(t, FailedOperation(nil))
}
