// internal/workers/sponsorship/classify-intent/handler.go
package classifyintent

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "sponsor-insights/internal/common/errors"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/common/metrics"
	"sponsor-insights/internal/models"
)

const (
	TaskType = "classify-sponsorship-intent"

	IntentUnmatched = "unmatched"
)

// Resolver maps a question onto a structured intent without touching the store.
type Resolver interface {
	Resolve(query string) (models.Intent, bool)
}

type Handler struct {
	config   *Config
	resolver Resolver
	errors   *commonerrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, resolver Resolver, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		resolver: resolver,
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

	h.completeJob(client, job, h.Execute(input))
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
	input.Question = strings.TrimSpace(input.Question)
	if input.Question == "" {
		return nil, commonerrors.NewInputValidationFailedError("question: must not be blank")
	}
	return &input, nil
}

// Execute classifies one question. An unmatched question is a valid result:
// the process routes it to the free-text answer path.
func (h *Handler) Execute(input *Input) *Output {
	in, matched := h.resolver.Resolve(input.Question)
	if !matched {
		return &Output{
			IntentAnalysis: IntentAnalysis{PrimaryIntent: IntentUnmatched},
			DataSources:    []string{},
			Entities:       []Entity{},
		}
	}

	out := &Output{
		IntentAnalysis: IntentAnalysis{PrimaryIntent: in.Kind(), Matched: true},
		DataSources:    dataSources(in),
		Entities:       extractEntities(in),
	}
	h.logger.Debug("intent classified", map[string]interface{}{
		"intent":   out.IntentAnalysis.PrimaryIntent,
		"entities": len(out.Entities),
	})
	return out
}

var bothDatasets = []string{string(models.DatasetLCA), string(models.DatasetPERM)}

func dataSources(in models.Intent) []string {
	switch v := in.(type) {
	case models.VisaFilter:
		if v.Class == models.VisaClassPERM {
			return []string{string(models.DatasetPERM)}
		}
		return []string{string(models.DatasetLCA)}
	case models.SampleQuery:
		return []string{string(models.DatasetLCA)}
	}
	return append([]string(nil), bothDatasets...)
}

func extractEntities(in models.Intent) []Entity {
	var out []Entity
	add := func(typ, value string) {
		if value != "" {
			out = append(out, Entity{Type: typ, Value: value})
		}
	}

	switch v := in.(type) {
	case models.WageThreshold:
		add("wage", strconv.FormatFloat(v.Amount, 'f', -1, 64))
		add("wage_direction", v.Direction.String())
	case models.VisaFilter:
		add("visa_class", v.Class)
	case models.CityQuery:
		add("city", v.City)
	case models.CompanyQuery:
		add("company", v.Company)
	case models.TitleQuery:
		add("job_title", v.Title)
	case models.CompanyProfileQuery:
		add("company", v.Company)
	case models.FaqQuery:
		add("faq_topic", string(v.Topic))
		keys := make([]string, 0, len(v.Args))
		for k := range v.Args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			add(k, v.Args[k])
		}
	case models.GuidanceQuery:
		add("stage", string(v.Stage))
		add("city", v.Location)
		add("company", v.Company)
		add("industry", v.Industry)
	case models.SampleQuery:
		add("limit", strconv.Itoa(v.Limit))
	}

	if out == nil {
		out = []Entity{}
	}
	return out
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
