package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/jd-match/internal/employee"
	"github.com/spigell/jd-match/internal/view"
)

type stubAnalyzer struct {
	mu       sync.Mutex
	requests []*employee.AnalysisRequest
	release  chan struct{}
	result   *employee.AnalysisResult
	err      error
}

func (s *stubAnalyzer) AnalyzeCV(_ context.Context, req *employee.AnalysisRequest) (*employee.AnalysisResult, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.release != nil {
		<-s.release
	}
	return s.result, s.err
}

func (s *stubAnalyzer) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type recordingDisplay struct {
	mu     sync.Mutex
	states []State
}

func (d *recordingDisplay) Show(s State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.states = append(d.states, s)
}

func (d *recordingDisplay) phases() []Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	phases := make([]Phase, 0, len(d.states))
	for _, s := range d.states {
		phases = append(phases, s.Phase)
	}
	return phases
}

func waitOutcome(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for outcome")
		return Outcome{}
	}
}

func cv() *employee.File {
	return &employee.File{Name: "cv.pdf", Data: []byte("%PDF-1.4")}
}

func TestInitialState(t *testing.T) {
	display := &recordingDisplay{}
	c := New(&stubAnalyzer{}, display, zap.NewNop())

	s := c.State()
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.False(t, s.ErrorVisible)
	assert.False(t, s.LoadingVisible)
	assert.True(t, s.SubmitEnabled)
	assert.False(t, s.ResultsVisible)
	assert.Equal(t, []Phase{PhaseIdle}, display.phases())
}

func TestSubmitLocalValidation(t *testing.T) {
	tests := []struct {
		name    string
		inputs  Inputs
		message string
	}{
		{
			name:    "missing cv",
			inputs:  Inputs{JDText: "Go developer"},
			message: employee.MessageCVRequired,
		},
		{
			name:    "missing job description",
			inputs:  Inputs{CVFile: cv()},
			message: employee.MessageJDRequired,
		},
		{
			name:    "whitespace only job description",
			inputs:  Inputs{CVFile: cv(), JDText: "  \n\t "},
			message: employee.MessageJDRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &stubAnalyzer{}
			c := New(analyzer, nil, zap.NewNop())

			ch := c.Submit(context.Background(), tt.inputs)

			// local errors are decided synchronously
			select {
			case o := <-ch:
				var validationErr *employee.ValidationError
				require.ErrorAs(t, o.Err, &validationErr)
			default:
				t.Fatal("expected outcome to be ready when Submit returns")
			}

			s := c.State()
			assert.Equal(t, PhaseError, s.Phase)
			assert.True(t, s.ErrorVisible)
			assert.Equal(t, tt.message, s.ErrorMessage)
			assert.False(t, s.LoadingVisible)
			assert.True(t, s.SubmitEnabled)
			assert.Zero(t, analyzer.calls())
		})
	}
}

func TestSubmitSuccess(t *testing.T) {
	analyzer := &stubAnalyzer{
		release: make(chan struct{}),
		result: &employee.AnalysisResult{
			Match:          72,
			ProfileSummary: "Good fit",
			MissingSkills:  []string{"Docker", "Kubernetes"},
		},
	}
	display := &recordingDisplay{}
	c := New(analyzer, display, zap.NewNop())

	ch := c.Submit(context.Background(), Inputs{CVFile: cv(), JDText: "  Go developer  "})

	s := c.State()
	assert.Equal(t, PhaseSubmitting, s.Phase)
	assert.True(t, s.LoadingVisible)
	assert.False(t, s.SubmitEnabled)
	assert.False(t, s.ResultsVisible)

	close(analyzer.release)
	o := waitOutcome(t, ch)
	require.NoError(t, o.Err)
	assert.Same(t, analyzer.result, o.Result)

	require.Equal(t, 1, analyzer.calls())
	assert.Equal(t, "Go developer", analyzer.requests[0].JDText)
	assert.Nil(t, analyzer.requests[0].JDFile)

	s = c.State()
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.False(t, s.LoadingVisible)
	assert.True(t, s.SubmitEnabled)
	assert.True(t, s.ResultsVisible)
	assert.False(t, s.ErrorVisible)
	require.NotNil(t, s.Results)
	assert.Equal(t, "72%", s.Results.Score.Text)
	assert.Len(t, s.Results.Skills.Items, 2)

	assert.Equal(t, []Phase{PhaseIdle, PhaseValidating, PhaseSubmitting, PhaseRendering, PhaseIdle}, display.phases())
}

func TestSubmitEmptyMissingSkills(t *testing.T) {
	analyzer := &stubAnalyzer{result: &employee.AnalysisResult{Match: 95, MissingSkills: []string{}}}
	c := New(analyzer, nil, zap.NewNop())

	o := waitOutcome(t, c.Submit(context.Background(), Inputs{CVFile: cv(), JDFile: &employee.File{Name: "jd.pdf"}}))
	require.NoError(t, o.Err)

	s := c.State()
	assert.Empty(t, s.Results.Skills.Items)
	assert.Equal(t, view.NoMissingSkills, s.Results.Skills.EmptyText)
}

func TestSubmitRemoteError(t *testing.T) {
	analyzer := &stubAnalyzer{err: &employee.RemoteError{StatusCode: 400, Message: "Unsupported file type"}}
	display := &recordingDisplay{}
	c := New(analyzer, display, zap.NewNop())

	o := waitOutcome(t, c.Submit(context.Background(), Inputs{CVFile: cv(), JDText: "jd"}))
	require.Error(t, o.Err)

	s := c.State()
	assert.Equal(t, PhaseError, s.Phase)
	assert.True(t, s.ErrorVisible)
	assert.Equal(t, "Unsupported file type", s.ErrorMessage)
	assert.False(t, s.LoadingVisible)
	assert.True(t, s.SubmitEnabled)
	assert.False(t, s.ResultsVisible)

	assert.Equal(t, []Phase{PhaseIdle, PhaseValidating, PhaseSubmitting, PhaseError, PhaseError}, display.phases())
}

func TestResubmitAfterError(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("dial tcp: connection refused")}
	c := New(analyzer, nil, zap.NewNop())

	waitOutcome(t, c.Submit(context.Background(), Inputs{CVFile: cv(), JDText: "jd"}))
	assert.Equal(t, "dial tcp: connection refused", c.State().ErrorMessage)

	analyzer.err = nil
	analyzer.result = &employee.AnalysisResult{Match: 40}

	o := waitOutcome(t, c.Submit(context.Background(), Inputs{CVFile: cv(), JDText: "jd"}))
	require.NoError(t, o.Err)

	s := c.State()
	assert.False(t, s.ErrorVisible)
	assert.Empty(t, s.ErrorMessage)
	assert.Equal(t, "40%", s.Results.Score.Text)
	assert.Equal(t, 2, analyzer.calls())
}

func TestSubmitWhileInFlight(t *testing.T) {
	analyzer := &stubAnalyzer{release: make(chan struct{}), result: &employee.AnalysisResult{}}
	c := New(analyzer, nil, zap.NewNop())

	first := c.Submit(context.Background(), Inputs{CVFile: cv(), JDText: "jd"})

	second := waitOutcome(t, c.Submit(context.Background(), Inputs{CVFile: cv(), JDText: "jd"}))
	assert.ErrorIs(t, second.Err, ErrSubmitDisabled)
	assert.Equal(t, PhaseSubmitting, c.State().Phase)

	close(analyzer.release)
	require.NoError(t, waitOutcome(t, first).Err)
	assert.Equal(t, 1, analyzer.calls())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "submitting", PhaseSubmitting.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
