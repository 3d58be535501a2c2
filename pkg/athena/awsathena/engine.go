// Package awsathena provides the AWS implementation of the athena.Engine
// and athena.IdentityResolver collaborator contracts.
package awsathena

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	athenasdk "github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"

	"github.com/txn2/mcp-athena/pkg/athena"
)

// Config holds AWS client configuration. Static credentials are
// optional; the SDK default chain is used when they are absent.
type Config struct {
	Region          string
	Profile         string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// AthenaClient defines the Athena SDK operations used by the engine.
// This interface allows for mocking in tests.
type AthenaClient interface {
	StartQueryExecution(ctx context.Context, params *athenasdk.StartQueryExecutionInput, optFns ...func(*athenasdk.Options)) (*athenasdk.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athenasdk.GetQueryExecutionInput, optFns ...func(*athenasdk.Options)) (*athenasdk.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athenasdk.GetQueryResultsInput, optFns ...func(*athenasdk.Options)) (*athenasdk.GetQueryResultsOutput, error)
	StopQueryExecution(ctx context.Context, params *athenasdk.StopQueryExecutionInput, optFns ...func(*athenasdk.Options)) (*athenasdk.StopQueryExecutionOutput, error)
}

// Engine implements athena.Engine using the AWS Athena SDK.
type Engine struct {
	client AthenaClient
}

// New creates an engine with an existing client.
func New(client AthenaClient) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("athena client is required")
	}
	return &Engine{client: client}, nil
}

// NewFromConfig creates an engine with a new SDK client from config.
func NewFromConfig(ctx context.Context, cfg Config) (*Engine, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{client: athenasdk.NewFromConfig(awsCfg)}, nil
}

// LoadAWSConfig builds an aws.Config from the adapter configuration.
// Shared by the sibling Glue and STS client constructors.
func LoadAWSConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading aws config: %w", err)
	}
	return awsCfg, nil
}

// Submit starts an asynchronous query execution. SQL, database and
// workgroup pass through unmodified. A rejected request is returned as
// an *athena.SubmissionError.
func (e *Engine) Submit(ctx context.Context, req athena.Request, resultLocation string) (string, error) {
	input := &athenasdk.StartQueryExecutionInput{
		QueryString: aws.String(req.SQL),
		QueryExecutionContext: &athenatypes.QueryExecutionContext{
			Database: aws.String(req.Database),
		},
		ResultConfiguration: &athenatypes.ResultConfiguration{
			OutputLocation: aws.String(resultLocation),
		},
	}
	if req.Workgroup != "" {
		input.WorkGroup = aws.String(req.Workgroup)
	}

	out, err := e.client.StartQueryExecution(ctx, input)
	if err != nil {
		return "", &athena.SubmissionError{Message: err.Error()}
	}
	return aws.ToString(out.QueryExecutionId), nil
}

// ExecutionStatus observes the current execution state and statistics.
func (e *Engine) ExecutionStatus(ctx context.Context, executionID string) (*athena.Status, error) {
	out, err := e.client.GetQueryExecution(ctx, &athenasdk.GetQueryExecutionInput{
		QueryExecutionId: aws.String(executionID),
	})
	if err != nil {
		return nil, fmt.Errorf("getting query execution: %w", err)
	}

	execution := out.QueryExecution
	if execution == nil || execution.Status == nil {
		return nil, fmt.Errorf("query execution %s has no status", executionID)
	}

	status := &athena.Status{
		State:  mapState(execution.Status.State),
		Reason: aws.ToString(execution.Status.StateChangeReason),
	}
	if stats := execution.Statistics; stats != nil {
		status.Stats = athena.Stats{
			DataScannedBytes: aws.ToInt64(stats.DataScannedInBytes),
			ExecutionTimeMS:  aws.ToInt64(stats.EngineExecutionTimeInMillis),
			QueueTimeMS:      aws.ToInt64(stats.QueryQueueTimeInMillis),
			PlanningTimeMS:   aws.ToInt64(stats.QueryPlanningTimeInMillis),
		}
	}
	return status, nil
}

// mapState converts an SDK execution state to the engine-neutral enum.
func mapState(state athenatypes.QueryExecutionState) athena.ExecutionState {
	switch state {
	case athenatypes.QueryExecutionStateQueued:
		return athena.StateQueued
	case athenatypes.QueryExecutionStateRunning:
		return athena.StateRunning
	case athenatypes.QueryExecutionStateSucceeded:
		return athena.StateSucceeded
	case athenatypes.QueryExecutionStateFailed:
		return athena.StateFailed
	case athenatypes.QueryExecutionStateCancelled:
		return athena.StateCancelled
	default:
		return athena.ExecutionState(state)
	}
}

// FetchResults retrieves a single bounded page of results.
func (e *Engine) FetchResults(ctx context.Context, executionID string, maxRows int32) (*athena.RawResultSet, error) {
	out, err := e.client.GetQueryResults(ctx, &athenasdk.GetQueryResultsInput{
		QueryExecutionId: aws.String(executionID),
		MaxResults:       aws.Int32(maxRows),
	})
	if err != nil {
		return nil, fmt.Errorf("getting query results: %w", err)
	}

	raw := &athena.RawResultSet{}
	resultSet := out.ResultSet
	if resultSet == nil {
		return raw, nil
	}

	if meta := resultSet.ResultSetMetadata; meta != nil {
		for _, col := range meta.ColumnInfo {
			raw.Columns = append(raw.Columns, athena.ColumnInfo{
				Name:  aws.ToString(col.Name),
				Type:  aws.ToString(col.Type),
				Label: aws.ToString(col.Label),
			})
		}
	}

	for _, row := range resultSet.Rows {
		cells := make([]*string, 0, len(row.Data))
		for _, datum := range row.Data {
			cells = append(cells, datum.VarCharValue)
		}
		raw.Rows = append(raw.Rows, cells)
	}
	return raw, nil
}

// CancelExecution requests the engine stop an execution.
func (e *Engine) CancelExecution(ctx context.Context, executionID string) error {
	_, err := e.client.StopQueryExecution(ctx, &athenasdk.StopQueryExecutionInput{
		QueryExecutionId: aws.String(executionID),
	})
	if err != nil {
		return fmt.Errorf("stopping query execution: %w", err)
	}
	return nil
}

// Close releases resources. The SDK client holds no connections that
// need explicit shutdown.
func (*Engine) Close() error {
	return nil
}

// Verify interface compliance.
var _ athena.Engine = (*Engine)(nil)
