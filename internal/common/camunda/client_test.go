package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "sponsor-insights/internal/common/errors"
)

func newTestClient(maxRetries int) *Client {
	return &Client{config: &ClientConfig{
		RequestTimeout: time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	}}
}

// ==========================
// ExecuteWithRetry
// ==========================

func TestExecuteWithRetry(t *testing.T) {
	tests := []struct {
		name         string
		errs         []error
		wantAttempts int
		wantCode     commonerrors.ErrorCode
	}{
		{"first try succeeds", nil, 1, ""},
		{"transient then success", []error{errors.New("rpc error: Unavailable")}, 2, ""},
		{"non retryable stops", []error{errors.New("invalid BPMN")}, 1, "EXTERNAL_SERVICE_ERROR"},
		{
			"retries exhausted",
			[]error{errors.New("deadline exceeded"), errors.New("deadline exceeded"), errors.New("deadline exceeded")},
			3,
			"TIMEOUT_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(2)
			attempts := 0
			res, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
				attempts++
				if attempts <= len(tt.errs) {
					return nil, tt.errs[attempts-1]
				}
				return "ok", nil
			}, "test")

			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, commonerrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ok", res)
		})
	}
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	c := newTestClient(5)
	c.config.RetryConfig.BaseDelay = time.Hour
	c.config.RetryConfig.MaxDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ExecuteWithRetry(ctx, func(context.Context) (interface{}, error) {
		return nil, errors.New("connection refused")
	}, "test")
	assert.ErrorIs(t, err, context.Canceled)
}

// ==========================
// Process deployment
// ==========================

func TestDeployProcesses_EmptyDir(t *testing.T) {
	ids, err := newTestClient(0).DeployProcesses(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeployedProcessIDs(t *testing.T) {
	res := &pb.DeployResourceResponse{Deployments: []*pb.Deployment{
		{Metadata: &pb.Deployment_Process{Process: &pb.ProcessMetadata{BpmnProcessId: "sponsorship-answer"}}},
		{},
		{Metadata: &pb.Deployment_Process{Process: &pb.ProcessMetadata{BpmnProcessId: "company-profile"}}},
	}}

	assert.Equal(t, []string{"sponsorship-answer", "company-profile"}, deployedProcessIDs(res))
	assert.Nil(t, deployedProcessIDs(nil))
	assert.Nil(t, deployedProcessIDs("not a response"))
}
