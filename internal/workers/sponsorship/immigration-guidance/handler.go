// internal/workers/sponsorship/immigration-guidance/handler.go
package immigrationguidance

import (
	"context"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "sponsor-insights/internal/common/errors"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/common/metrics"
	"sponsor-insights/internal/intent"
)

const (
	TaskType = "immigration-guidance"
)

type Advisor interface {
	Guidance(ctx context.Context, query string) string
}

type Handler struct {
	config  *Config
	advisor Advisor
	errors  *commonerrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, advisor Advisor, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		advisor: advisor,
		errors:  commonerrors.NewErrorHandler(log),
		logger:  log,
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
	query, _ := vars["query"].(string)
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, commonerrors.NewInputValidationFailedError("query: must not be blank")
	}
	return &Input{Query: query}, nil
}

// Execute always produces guidance; missing data renders as a notice in the text.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	q := intent.AnalyzeGuidance(intent.Normalize(input.Query))
	text := h.advisor.Guidance(ctx, input.Query)
	if err := ctx.Err(); err != nil {
		return nil, commonerrors.NewTimeoutError("guidance", err)
	}

	return &Output{
		Stage:           string(q.Stage),
		Location:        q.Location,
		Company:         q.Company,
		Industry:        q.Industry,
		SalaryConcern:   q.SalaryConcern,
		TimelineConcern: q.TimelineConcern,
		Guidance:        text,
		ProcessedAt:     time.Now().UTC(),
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
