package athena

import "context"

// Engine is the collaborator contract for the remote query service.
// The AWS implementation lives in pkg/athena/awsathena; tests supply
// in-memory fakes.
type Engine interface {
	// Submit starts an asynchronous execution and returns its opaque
	// execution identifier. A *SubmissionError indicates the engine
	// rejected the request outright (bad SQL, unknown database,
	// authorization failure).
	Submit(ctx context.Context, req Request, resultLocation string) (string, error)

	// ExecutionStatus returns the current status of an execution.
	ExecutionStatus(ctx context.Context, executionID string) (*Status, error)

	// FetchResults retrieves a single bounded page of results for a
	// succeeded execution.
	FetchResults(ctx context.Context, executionID string, maxRows int32) (*RawResultSet, error)

	// CancelExecution requests the engine stop the named execution.
	CancelExecution(ctx context.Context, executionID string) error

	// Close releases resources.
	Close() error
}

// IdentityResolver looks up the caller's account identity. The lookup
// may fail; callers treat failure as "use the default result location".
type IdentityResolver interface {
	AccountID(ctx context.Context) (string, error)
}

// SubmissionError indicates the remote engine rejected the query at
// submission time. It is surfaced verbatim as a failure reason and is
// never retried.
type SubmissionError struct {
	Message string
}

// Error returns the engine-reported rejection message.
func (e *SubmissionError) Error() string {
	return e.Message
}
