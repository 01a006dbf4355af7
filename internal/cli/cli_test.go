package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/delegate"
	"sponsor-insights/internal/models"
)

// ============================================================================
// Fakes
// ============================================================================

type fakeBackend struct {
	dispatched []models.Intent
	profileErr error
}

func (f *fakeBackend) Answer(_ context.Context, q string) string { return "answer: " + q }

func (f *fakeBackend) Dispatch(_ context.Context, in models.Intent) (string, error) {
	f.dispatched = append(f.dispatched, in)
	return "dispatched: " + in.Kind(), nil
}

func (f *fakeBackend) CompanyProfile(_ context.Context, company string) (string, error) {
	if f.profileErr != nil {
		return "", f.profileErr
	}
	return "profile: " + company, nil
}

func (f *fakeBackend) Guidance(_ context.Context, q string) string { return "guidance: " + q }

func (f *fakeBackend) Tools() delegate.Toolbox { return nil }

func run(t *testing.T, b *fakeBackend, args ...string) (string, int, error) {
	t.Helper()
	opened := 0
	open := func(context.Context, *Options) (Backend, logger.Logger, func(), error) {
		opened++
		return b, logger.NewTestLogger(t), func() {}, nil
	}

	root := NewRootCmd("test", open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), opened, err
}

// ============================================================================
// Commands
// ============================================================================

func TestAsk_FreeText(t *testing.T) {
	b := &fakeBackend{}
	out, opened, err := run(t, b, "ask", "jobs", "in", "austin")
	require.NoError(t, err)
	assert.Equal(t, 1, opened)
	assert.Equal(t, "answer: jobs in austin\n", out)
	assert.Empty(t, b.dispatched)
}

func TestAsk_StructuredFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want models.Intent
	}{
		{"city", []string{"ask", "--city", "Austin"}, models.CityQuery{City: "Austin"}},
		{"company", []string{"ask", "--company", "Acme Corp"}, models.CompanyQuery{Company: "Acme Corp"}},
		{"title", []string{"ask", "--title", "Data Scientist"}, models.TitleQuery{Title: "Data Scientist"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{}
			out, _, err := run(t, b, tt.args...)
			require.NoError(t, err)
			require.Len(t, b.dispatched, 1)
			assert.Equal(t, tt.want, b.dispatched[0])
			assert.Equal(t, "dispatched: "+tt.want.Kind()+"\n", out)
		})
	}
}

func TestAsk_RejectsAmbiguousInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"nothing", []string{"ask"}},
		{"blank question", []string{"ask", "  "}},
		{"question and flag", []string{"ask", "--city", "Austin", "jobs"}},
		{"two flags", []string{"ask", "--city", "Austin", "--title", "Engineer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, opened, err := run(t, &fakeBackend{}, tt.args...)
			assert.ErrorIs(t, err, errQueryOrFilter)
			assert.Zero(t, opened)
		})
	}
}

func TestProfile(t *testing.T) {
	out, _, err := run(t, &fakeBackend{}, "profile", "Acme", "Corp")
	require.NoError(t, err)
	assert.Equal(t, "profile: Acme Corp\n", out)

	_, _, err = run(t, &fakeBackend{profileErr: errors.New("store down")}, "profile", "Acme")
	assert.EqualError(t, err, "store down")

	_, opened, err := run(t, &fakeBackend{}, "profile")
	assert.Error(t, err)
	assert.Zero(t, opened)
}

func TestGuidance(t *testing.T) {
	out, _, err := run(t, &fakeBackend{}, "guidance", "I'm", "on", "OPT")
	require.NoError(t, err)
	assert.Equal(t, "guidance: I'm on OPT\n", out)
}

func TestVersion(t *testing.T) {
	out, opened, err := run(t, &fakeBackend{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
	assert.Zero(t, opened)
}

// ============================================================================
// Chat
// ============================================================================

func TestChatTurn(t *testing.T) {
	tests := []struct {
		line     string
		wantOut  string
		wantQuit bool
	}{
		{"", "", false},
		{"   ", "", false},
		{"jobs in austin", "answer: jobs in austin", false},
		{"/profile Microsoft", "profile: Microsoft", false},
		{"/profile", "usage: /profile <company>", false},
		{"/guidance what next after OPT", "guidance: what next after OPT", false},
		{"/guidance", "usage: /guidance <question>", false},
		{"/help", "/profile <company>", false},
		{"/quit", "Goodbye!", true},
		{"/exit", "Goodbye!", true},
		{"EXIT", "Goodbye!", true},
		{"quit my job and switch employers", "answer: quit my job and switch employers", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var out bytes.Buffer
			quit := chatTurn(context.Background(), &fakeBackend{}, &out, tt.line)
			assert.Equal(t, tt.wantQuit, quit)
			if tt.wantOut == "" {
				assert.Empty(t, out.String())
				return
			}
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestChatTurn_ProfileError(t *testing.T) {
	var out bytes.Buffer
	quit := chatTurn(context.Background(), &fakeBackend{profileErr: errors.New("store down")}, &out, "/profile Acme")
	assert.False(t, quit)
	assert.True(t, strings.HasPrefix(out.String(), "Error: store down"))
}
