// internal/workers/data-access/query-filings/handler.go
package queryfilings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "sponsor-insights/internal/common/errors"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/common/metrics"
	"sponsor-insights/internal/models"
	"sponsor-insights/internal/store"
	"sponsor-insights/internal/workers/data-access/query-filings/queries"
)

const (
	TaskType = "query-filings"
)

type Handler struct {
	config *Config
	store  queries.FilingStore
	errors *commonerrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, s queries.FilingStore, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  s,
		errors: commonerrors.NewErrorHandler(log),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	vars, err := job.GetVariablesAsMap()
	if err != nil {
		h.failJob(ctx, client, job, commonerrors.NewInputValidationFailedError("parse variables: "+err.Error()))
		return
	}
	input, err := Validate(vars)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func Validate(vars map[string]interface{}) (*Input, error) {
	if result := inputSchema.Validate(vars); !result.Valid {
		return nil, commonerrors.NewInputValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}
	raw, err := json.Marshal(vars)
	if err != nil {
		return nil, commonerrors.NewInputValidationFailedError(err.Error())
	}
	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, commonerrors.NewInputValidationFailedError(err.Error())
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, commonerrors.NewInputValidationFailedError("input cannot be nil")
	}

	params := make(map[string]interface{})
	if input.Dataset != "" {
		params["dataset"] = input.Dataset
	}
	if input.City != "" {
		params["city"] = input.City
	}
	if input.Company != "" {
		params["company"] = input.Company
	}
	if input.Title != "" {
		params["title"] = input.Title
	}
	if input.MinWage > 0 {
		params["minWage"] = input.MinWage
	}
	if input.Limit > 0 {
		params["limit"] = input.Limit
	}

	data, rowCount, execTime, err := queries.Execute(ctx, h.store, models.QueryType(input.QueryType), params)
	if err != nil {
		return nil, h.classify(ctx, input, err)
	}

	h.logger.Debug("filing query executed", map[string]interface{}{
		"queryType": input.QueryType,
		"rowCount":  rowCount,
		"execMs":    execTime,
	})

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: execTime,
	}, nil
}

func (h *Handler) classify(ctx context.Context, input *Input, err error) error {
	switch {
	case errors.Is(err, queries.ErrUnknownQueryType), errors.Is(err, queries.ErrMissingParam):
		return commonerrors.NewInputValidationFailedError(err.Error())
	case errors.Is(err, queries.ErrUnknownDataset):
		return commonerrors.NewInvalidDatasetError(input.Dataset)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return commonerrors.NewStoreTimeoutError(input.Dataset)
	}
	if mapped := store.AsStandardError(err); mapped != err {
		return mapped
	}
	return fmt.Errorf("query %s: %w", input.QueryType, err)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(commonerrors.CodeOf(err))).Inc()
	h.errors.HandleJobError(ctx, client, job, err)
}
