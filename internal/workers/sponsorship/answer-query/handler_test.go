package answerquery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	commonerrors "sponsor-insights/internal/common/errors"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

type fakeEngine struct {
	intent  models.Intent
	matched bool
	answer  string
	delay   time.Duration
	asked   []string
}

func (f *fakeEngine) Resolve(string) (models.Intent, bool) { return f.intent, f.matched }

func (f *fakeEngine) Answer(ctx context.Context, query string) string {
	f.asked = append(f.asked, query)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
		}
	}
	return f.answer
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name       string
		engine     *fakeEngine
		input      *Input
		wantIntent string
		wantMatch  bool
	}{
		{
			name:       "matched intent",
			engine:     &fakeEngine{intent: models.CityQuery{City: "Austin"}, matched: true, answer: "2 jobs"},
			input:      &Input{Query: "jobs in austin", RequestID: "req-1"},
			wantIntent: "city",
			wantMatch:  true,
		},
		{
			name:       "unmatched goes through fallback",
			engine:     &fakeEngine{answer: "Sorry"},
			input:      &Input{Query: "hello there"},
			wantIntent: "unmatched",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(), tt.engine, createTestLogger(t))

			out, err := h.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.engine.answer, out.Answer)
			assert.Equal(t, tt.wantIntent, out.Intent)
			assert.Equal(t, tt.wantMatch, out.Matched)
			assert.Equal(t, []string{tt.input.Query}, tt.engine.asked)
			assert.False(t, out.ProcessedAt.IsZero())
			if tt.input.RequestID != "" {
				assert.Equal(t, tt.input.RequestID, out.RequestID)
			} else {
				assert.Len(t, out.RequestID, 36)
			}
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	h := NewHandler(createTestConfig(), &fakeEngine{answer: "late", delay: time.Second}, createTestLogger(t))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := h.Execute(ctx, &Input{Query: "jobs in austin"})

	require.Error(t, err)
	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrorCode("TIMEOUT_ERROR"), stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

// ==========================
// Input Validation
// ==========================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]interface{}
		want    *Input
		wantErr bool
	}{
		{
			name: "query only",
			vars: map[string]interface{}{"query": "  jobs in austin "},
			want: &Input{Query: "jobs in austin"},
		},
		{
			name: "extra process variables allowed",
			vars: map[string]interface{}{"query": "sample", "requestId": "r-9", "tenant": "acme"},
			want: &Input{Query: "sample", RequestID: "r-9"},
		},
		{name: "missing query", vars: map[string]interface{}{}, wantErr: true},
		{name: "empty query", vars: map[string]interface{}{"query": ""}, wantErr: true},
		{name: "blank query", vars: map[string]interface{}{"query": "   "}, wantErr: true},
		{name: "wrong type", vars: map[string]interface{}{"query": 42}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.vars)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, commonerrors.ErrCodeInputValidationFailed, commonerrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
