package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *metric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestWorkerGroup(t *testing.T) {
	tests := map[string]string{
		"query-filings":               "data-access",
		"answer-visa-query":           "sponsorship",
		"classify-sponsorship-intent": "sponsorship",
		"company-immigration-profile": "sponsorship",
		"":                            "unknown",
	}
	for taskType, want := range tests {
		assert.Equal(t, want, workerGroup(taskType), taskType)
	}
}

func TestRecordJob(t *testing.T) {
	reader := metric.NewManualReader()
	o, err := newWithReader("sponsor-insights-test", reader)
	require.NoError(t, err)
	defer o.Shutdown()

	ctx := context.Background()
	o.RecordJobProcessed(ctx, "query-filings", "handled")
	o.RecordJobProcessed(ctx, "query-filings", "handled")
	o.RecordJobDuration(ctx, "answer-visa-query", 250*time.Millisecond, "handled")

	got := collect(t, reader)

	sum, ok := got["sponsorship.jobs.processed"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	group, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("worker_group"))
	assert.Equal(t, "data-access", group.AsString())

	hist, ok := got["sponsorship.jobs.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, 250.0, hist.DataPoints[0].Sum)
	group, _ = hist.DataPoints[0].Attributes.Value(attribute.Key("worker_group"))
	assert.Equal(t, "sponsorship", group.AsString())
}

func TestZeroValueRecordsNothing(t *testing.T) {
	var o Observability
	o.RecordJobProcessed(context.Background(), "query-filings", "handled")
	o.RecordJobDuration(context.Background(), "query-filings", time.Second, "handled")
	o.Shutdown()
}
