// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sponsor-insights/internal/bootstrap"
	"sponsor-insights/internal/common/camunda"
	"sponsor-insights/internal/common/config"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/common/observability"

	qf "sponsor-insights/internal/workers/data-access/query-filings"
	aq "sponsor-insights/internal/workers/sponsorship/answer-query"
	ci "sponsor-insights/internal/workers/sponsorship/classify-intent"
	cp "sponsor-insights/internal/workers/sponsorship/company-profile"
	ig "sponsor-insights/internal/workers/sponsorship/immigration-guidance"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type registration struct {
	taskType string
	handler  worker.JobHandler
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if err := config.ValidateForWorkers(cfg); err != nil {
		zapLog.Fatal("invalid worker configuration", zap.Error(err))
	}
	zapLog.Info("Starting worker manager...", zap.String("version", cfg.App.Version))

	obs, err := observability.New("worker-manager")
	if err != nil {
		zapLog.Warn("otel instruments disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	if dir := cfg.Camunda.ProcessDir; dir != "" {
		ids, err := zeebe.DeployProcesses(ctx, dir)
		if err != nil {
			zapLog.Fatal("process deployment failed", zap.String("dir", dir), zap.Error(err))
		}
		zapLog.Info("processes deployed", zap.Strings("processIds", ids))
	}

	rt, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("runtime init failed", zap.Error(err))
	}
	defer rt.Close()

	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	registrations := []registration{
		{ci.TaskType, ci.NewHandler(&ci.Config{Timeout: timeout(ci.TaskType)}, rt.Engine, log).Handle},
		{aq.TaskType, aq.NewHandler(&aq.Config{Timeout: timeout(aq.TaskType)}, rt.Engine, log).Handle},
		{cp.TaskType, cp.NewHandler(&cp.Config{Timeout: timeout(cp.TaskType)}, rt.Engine, log).Handle},
		{ig.TaskType, ig.NewHandler(&ig.Config{Timeout: timeout(ig.TaskType)}, rt.Engine, log).Handle},
		{qf.TaskType, qf.NewHandler(&qf.Config{Timeout: timeout(qf.TaskType)}, rt.Store, log).Handle},
	}

	var workers []*camunda.CamundaWorker
	for _, r := range registrations {
		if !config.IsWorkerEnabled(cfg, r.taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", r.taskType))
			continue
		}
		workers = append(workers, camunda.NewWorker(
			zeebe.GetClient(), r.taskType, config.GetWorkerConfig(cfg, r.taskType), r.handler, log,
			camunda.WithRecorder(obs),
		))
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
