package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "sponsor-insights/internal/common/errors"
	"sponsor-insights/internal/models"
)

func TestAsStandardError(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name      string
		err       error
		wantCode  commonerrors.ErrorCode
		retryable bool
	}{
		{
			name:      "backend failure",
			err:       &StoreError{Dataset: models.DatasetLCA, Filter: "city~austin", Err: cause},
			wantCode:  commonerrors.ErrCodeStoreQueryFailed,
			retryable: true,
		},
		{
			name:     "unknown dataset",
			err:      &StoreError{Dataset: "visas", Err: ErrInvalidDataset},
			wantCode: commonerrors.ErrCodeInvalidDataset,
		},
		{
			name:     "bad filter",
			err:      &StoreError{Dataset: models.DatasetPERM, Err: ErrInvalidFilter},
			wantCode: commonerrors.ErrCodeInvalidFilter,
		},
		{
			name:      "deadline",
			err:       &StoreError{Dataset: models.DatasetLCA, Err: context.DeadlineExceeded},
			wantCode:  commonerrors.ErrCodeStoreTimeout,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdErr *commonerrors.StandardError
			require.ErrorAs(t, AsStandardError(tt.err), &stdErr)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestAsStandardError_PassesOtherErrorsThrough(t *testing.T) {
	err := errors.New("not from the store")
	assert.Same(t, err, AsStandardError(err))
}

func TestAsStandardError_KeepsConnectionFailureCode(t *testing.T) {
	conn := commonerrors.NewDatabaseConnectionFailedError(errors.New("dial tcp: connection refused"))
	err := &StoreError{Dataset: models.DatasetLCA, Err: conn}

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, AsStandardError(err), &stdErr)
	assert.Equal(t, commonerrors.ErrCodeDatabaseConnectionFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
