package athena

import (
	"context"
	"testing"
)

// staticIdentity returns a fixed account ID.
type staticIdentity struct {
	account string
}

func (s staticIdentity) AccountID(_ context.Context) (string, error) {
	return s.account, nil
}

func TestResolveResultLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("account scoped", func(t *testing.T) {
		got := ResolveResultLocation(ctx, "us-east-1", staticIdentity{account: "123456789012"})
		want := "s3://aws-athena-query-results-us-east-1-123456789012/"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("lookup failure falls back to default", func(t *testing.T) {
		got := ResolveResultLocation(ctx, "us-east-1", failingIdentity{})
		want := "s3://aws-athena-query-results-us-east-1-default/"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("empty account falls back to default", func(t *testing.T) {
		got := ResolveResultLocation(ctx, "eu-west-1", staticIdentity{})
		want := "s3://aws-athena-query-results-eu-west-1-default/"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("nil resolver uses default", func(t *testing.T) {
		got := ResolveResultLocation(ctx, "ap-south-1", nil)
		want := "s3://aws-athena-query-results-ap-south-1-default/"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestExecutionStateTerminal(t *testing.T) {
	tests := []struct {
		state ExecutionState
		want  bool
	}{
		{StateQueued, false},
		{StateRunning, false},
		{StateSucceeded, true},
		{StateFailed, true},
		{StateCancelled, true},
	}

	for _, tt := range tests {
		if got := tt.state.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
