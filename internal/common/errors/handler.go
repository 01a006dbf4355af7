// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"sponsor-insights/internal/common/metrics"
)

const (
	DecisionRetry    = "retry"
	DecisionEscalate = "escalate"
)

// ErrorHandler reports a failed sponsorship job back to the broker: transient
// store and agent failures are failed with a shrinking retry budget and a
// per-code backoff, everything else becomes a BPMN error for the process to route.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Outcome is what HandleJobError does with one failed job.
type Outcome struct {
	Decision string
	// Retries is the budget left on the job after this failure.
	Retries int32
	Backoff time.Duration
}

// Decide picks the outcome for job failing with stdErr. A job whose remaining
// budget would drop to zero escalates instead of raising an incident, so the
// process's error boundary sees the final failure.
func Decide(job entities.Job, stdErr *StandardError) Outcome {
	policy := PolicyFor(stdErr.Code)
	if !stdErr.Retryable || policy.Retries == 0 {
		return Outcome{Decision: DecisionEscalate}
	}

	left := job.Retries - 1
	if left > int32(policy.Retries) {
		left = int32(policy.Retries)
	}
	if left <= 0 {
		return Outcome{Decision: DecisionEscalate}
	}
	return Outcome{Decision: DecisionRetry, Retries: left, Backoff: policy.Backoff}
}

// HandleJobError handles any error in a worker job
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := h.normalizeError(err)
	bpmnErr := ConvertToBPMNError(stdErr)
	outcome := Decide(job, stdErr)
	h.logError(job, stdErr, bpmnErr, outcome)
	metrics.WorkerJobRetryDecisions.WithLabelValues(job.Type, string(stdErr.Code), outcome.Decision).Inc()

	if outcome.Decision == DecisionRetry {
		h.failJob(ctx, client, job, bpmnErr, outcome)
		return
	}
	h.throwBPMNError(ctx, client, job, bpmnErr)
}

// normalizeError ensures we always have a StandardError, looking through wrapped chains.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &StandardError{
			Code:      ErrCodeStoreTimeout,
			Message:   "Deadline exceeded",
			Details:   err.Error(),
			Retryable: true,
			Timestamp: time.Now().UTC(),
		}
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, outcome Outcome) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(outcome.Retries).
		RetryBackoff(outcome.Backoff).
		ErrorMessage(bpmnErr.Message)

	if vars, ok := errorVariables(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			_, _ = withVars.Send(ctx)
			return
		}
	}
	_, _ = cmd.Send(ctx)
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if vars, ok := errorVariables(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			_, _ = withVars.Send(ctx)
			return
		}
	}
	_, _ = cmd.Send(ctx)
}

// errorVariables renders the variables the process reads after a failure
// (errorCode, errorMessage, retryable and the original code).
func errorVariables(bpmnErr *BPMNError) (string, bool) {
	vars := bpmnErr.ToErrorVariables()
	if len(vars) == 0 {
		return "", false
	}
	raw, err := json.Marshal(vars)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError, outcome Outcome) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"decision":         outcome.Decision,
		"retriesLeft":      outcome.Retries,
		"retryBackoff":     outcome.Backoff.String(),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
