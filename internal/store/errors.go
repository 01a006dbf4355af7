// internal/store/errors.go
package store

import (
	"context"
	"errors"

	commonerrors "sponsor-insights/internal/common/errors"
)

// AsStandardError maps a store failure onto the worker error codes. A backend that
// already failed with a coded error (a connection failure) keeps its code. Errors
// that did not come from the store are returned unchanged.
func AsStandardError(err error) error {
	var se *StoreError
	if !errors.As(err, &se) {
		return err
	}
	var coded *commonerrors.StandardError
	if errors.As(se.Err, &coded) {
		return coded
	}
	switch {
	case errors.Is(se.Err, ErrInvalidDataset):
		return commonerrors.NewInvalidDatasetError(string(se.Dataset))
	case errors.Is(se.Err, ErrInvalidFilter):
		return commonerrors.NewInvalidFilterError(se.Err.Error())
	case errors.Is(se.Err, context.DeadlineExceeded):
		return commonerrors.NewStoreTimeoutError(string(se.Dataset))
	}
	return commonerrors.NewStoreQueryFailedError(string(se.Dataset), se.Filter, se.Err)
}
