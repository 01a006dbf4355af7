// internal/workers/sponsorship/answer-query/handler.go
package answerquery

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	commonerrors "sponsor-insights/internal/common/errors"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/common/metrics"
	"sponsor-insights/internal/models"
)

const (
	TaskType = "answer-visa-query"
)

// Answerer is the part of the engine this worker needs.
type Answerer interface {
	Resolve(query string) (models.Intent, bool)
	Answer(ctx context.Context, query string) string
}

type Handler struct {
	config *Config
	engine Answerer
	errors *commonerrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, engine Answerer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		engine: engine,
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

	input, err := parseInput(job)
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

func parseInput(job entities.Job) (*Input, error) {
	vars, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, commonerrors.NewInputValidationFailedError("parse variables: " + err.Error())
	}
	return Validate(vars)
}

// Validate checks raw process variables against the input schema and decodes them.
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
	input.Query = strings.TrimSpace(input.Query)
	if input.Query == "" {
		return nil, commonerrors.NewInputValidationFailedError("query: must not be blank")
	}
	return &input, nil
}

// Execute answers one query. The engine never fails a query outright, so the
// only error is running out of time.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	kind := "unmatched"
	in, matched := h.engine.Resolve(input.Query)
	if matched {
		kind = in.Kind()
	}

	answer := h.engine.Answer(ctx, input.Query)
	if err := ctx.Err(); err != nil {
		return nil, commonerrors.NewTimeoutError("engine", err)
	}

	requestID := input.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	h.logger.Debug("query answered", map[string]interface{}{
		"intent":    kind,
		"requestId": requestID,
		"length":    len(answer),
	})

	return &Output{
		Answer:      answer,
		Intent:      kind,
		Matched:     matched,
		RequestID:   requestID,
		ProcessedAt: time.Now().UTC(),
	}, nil
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
