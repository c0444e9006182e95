package form

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/jd-match/internal/employee"
	"github.com/spigell/jd-match/internal/logger"
	"github.com/spigell/jd-match/internal/view"
)

// ErrSubmitDisabled is returned for a submission made while another one is in flight.
var ErrSubmitDisabled = errors.New("submit is disabled while an analysis is in progress")

// Analyzer performs the remote analysis.
type Analyzer interface {
	AnalyzeCV(ctx context.Context, req *employee.AnalysisRequest) (*employee.AnalysisResult, error)
}

// Inputs are the current values of the form fields.
type Inputs struct {
	CVFile *employee.File
	JDText string
	JDFile *employee.File
}

// Outcome is the terminal result of one submission.
type Outcome struct {
	Result *employee.AnalysisResult
	Err    error
}

// Controller drives the form through its phases. The Display is called with
// the controller lock held and must not call back into the Controller.
type Controller struct {
	analyzer Analyzer
	display  Display
	logger   *zap.Logger

	mu    sync.Mutex
	state State
}

func New(analyzer Analyzer, display Display, log *zap.Logger) *Controller {
	if display == nil {
		display = DisplayFunc(func(State) {})
	}

	c := &Controller{
		analyzer: analyzer,
		display:  display,
		logger:   logger.WithFields(log),
		state:    initialState(),
	}
	c.display.Show(c.state)

	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit validates the inputs and dispatches the analysis. It does not wait for
// the server: the returned channel yields a single Outcome once the submission
// reaches a terminal phase and is then closed. Input errors are decided before
// Submit returns and never reach the network.
func (c *Controller) Submit(ctx context.Context, in Inputs) <-chan Outcome {
	out := make(chan Outcome, 1)

	c.mu.Lock()
	if !c.state.SubmitEnabled {
		c.mu.Unlock()
		c.logger.Warn("ignoring submit", zap.Error(ErrSubmitDisabled))
		out <- Outcome{Err: ErrSubmitDisabled}
		close(out)
		return out
	}

	c.state.Phase = PhaseValidating
	c.state.ErrorVisible = false
	c.state.ErrorMessage = ""
	c.publishLocked()

	req := &employee.AnalysisRequest{
		CV:     in.CVFile,
		JDText: strings.TrimSpace(in.JDText),
		JDFile: in.JDFile,
	}

	if err := req.Validate(); err != nil {
		c.logger.Warn("invalid form input", zap.Error(err))
		c.failLocked(err)
		c.mu.Unlock()

		out <- Outcome{Err: err}
		close(out)
		return out
	}

	c.state.Phase = PhaseSubmitting
	c.state.LoadingVisible = true
	c.state.SubmitEnabled = false
	c.state.ResultsVisible = false
	c.publishLocked()
	c.mu.Unlock()

	log := logger.WithSubmission(c.logger, "", req.CV.Name, req.JDFile.FileName())
	log.Info("submitting cv for analysis")

	go func() {
		defer close(out)

		result, err := c.analyzer.AnalyzeCV(ctx, req)

		c.mu.Lock()
		if err != nil {
			log.Warn("analysis failed", zap.Error(err))
			c.failLocked(err)
		} else {
			c.renderLocked(result)
			log.Info("analysis received", zap.String("match", c.state.Results.Score.Text))
		}
		c.finishLocked()
		c.mu.Unlock()

		out <- Outcome{Result: result, Err: err}
	}()

	return out
}

func (c *Controller) failLocked(err error) {
	c.state.Phase = PhaseError
	c.state.ErrorVisible = true
	c.state.ErrorMessage = err.Error()
	c.publishLocked()
}

func (c *Controller) renderLocked(result *employee.AnalysisResult) {
	c.state.Phase = PhaseRendering
	c.state.Results = view.Build(result)
	c.state.ResultsVisible = true
	c.publishLocked()
}

// finishLocked runs after every remote outcome.
func (c *Controller) finishLocked() {
	c.state.LoadingVisible = false
	c.state.SubmitEnabled = true
	if c.state.Phase != PhaseError {
		c.state.Phase = PhaseIdle
	}
	c.publishLocked()
}

func (c *Controller) publishLocked() {
	c.display.Show(c.state)
}
