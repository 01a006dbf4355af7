// internal/workers/sponsorship/company-profile/handler.go
package companyprofile

import (
	"context"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "sponsor-insights/internal/common/errors"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/common/metrics"
	"sponsor-insights/internal/store"
)

const (
	TaskType = "company-immigration-profile"
)

type Profiler interface {
	CompanyProfile(ctx context.Context, company string) (string, error)
}

type Handler struct {
	config   *Config
	profiler Profiler
	errors   *commonerrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, profiler Profiler, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		profiler: profiler,
		errors:   commonerrors.NewErrorHandler(log),
		logger:   log,
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
	company, _ := vars["company"].(string)
	return &Input{Company: strings.TrimSpace(company)}, nil
}

// Execute renders the profile. Store failures on both datasets surface as
// retryable store errors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := h.profiler.CompanyProfile(ctx, input.Company)
	if err != nil {
		return nil, store.AsStandardError(err)
	}
	return &Output{
		Company:     input.Company,
		Profile:     profile,
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
