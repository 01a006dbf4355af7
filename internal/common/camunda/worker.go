// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"sponsor-insights/internal/common/config"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/common/metrics"
)

// Recorder receives a duration sample for every handled job. The
// observability package's OpenTelemetry instruments satisfy it.
type Recorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string)
}

type WorkerOption func(*workerOptions)

type workerOptions struct {
	recorder Recorder
}

func WithRecorder(r Recorder) WorkerOption {
	return func(o *workerOptions) { o.recorder = r }
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType. Every job is counted in the
// active gauge and timed; completion and failure are reported by the handler.
func NewWorker(
	client zbc.Client,
	taskType string,
	cfg config.WorkerConfig,
	handler worker.JobHandler,
	log logger.Logger,
	opts ...WorkerOption,
) *CamundaWorker {
	var o workerOptions
	for _, opt := range opts {
		opt(&o)
	}
	log = log.WithFields(map[string]interface{}{"taskType": taskType})

	maxJobs := cfg.MaxJobsActive
	if maxJobs <= 0 {
		maxJobs = 5
	}

	step := client.NewJobWorker().
		JobType(taskType).
		Handler(instrument(taskType, handler, o.recorder)).
		MaxJobsActive(maxJobs)
	if cfg.Timeout > 0 {
		step = step.Timeout(config.GetDuration(cfg.Timeout))
	}

	w := &CamundaWorker{
		worker:   step.Open(),
		logger:   log,
		taskType: taskType,
	}
	log.Info("worker started", map[string]interface{}{"maxJobsActive": maxJobs})
	return w
}

func instrument(taskType string, handler worker.JobHandler, rec Recorder) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer func() {
			elapsed := time.Since(start)
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			if rec != nil {
				rec.RecordJobProcessed(context.Background(), taskType, "handled")
				rec.RecordJobDuration(context.Background(), taskType, elapsed, "handled")
			}
		}()
		handler(client, job)
	}
}

// Stop drains in-flight jobs. The shared zbc.Client is closed by the caller.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
