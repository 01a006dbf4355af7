package immigrationguidance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	commonerrors "sponsor-insights/internal/common/errors"
	"sponsor-insights/internal/common/logger"
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

type fakeAdvisor struct {
	text  string
	delay time.Duration
}

func (f fakeAdvisor) Guidance(ctx context.Context, _ string) string {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
		}
	}
	return f.text
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(createTestConfig(), fakeAdvisor{text: "rendered guidance"}, createTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Query: "How long is the green card process at Google?"})

	require.NoError(t, err)
	assert.Equal(t, "green_card_stage", out.Stage)
	assert.Equal(t, "Google", out.Company)
	assert.Equal(t, "tech", out.Industry)
	assert.Empty(t, out.Location)
	assert.True(t, out.TimelineConcern)
	assert.False(t, out.SalaryConcern)
	assert.Equal(t, "rendered guidance", out.Guidance)
	assert.False(t, out.ProcessedAt.IsZero())
}

func TestHandler_Execute_Timeout(t *testing.T) {
	h := NewHandler(createTestConfig(), fakeAdvisor{delay: time.Second}, createTestLogger(t))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := h.Execute(ctx, &Input{Query: "opt timeline"})

	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrorCode("TIMEOUT_ERROR"), commonerrors.CodeOf(err))
}

// ==========================
// Input Validation
// ==========================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]interface{}
		want    string
		wantErr bool
	}{
		{name: "trimmed", vars: map[string]interface{}{"query": " opt advice "}, want: "opt advice"},
		{name: "missing", vars: map[string]interface{}{}, wantErr: true},
		{name: "blank", vars: map[string]interface{}{"query": "  "}, wantErr: true},
		{name: "not a string", vars: map[string]interface{}{"query": true}, wantErr: true},
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
			assert.Equal(t, tt.want, got.Query)
		})
	}
}
