package employee

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jd-match/internal/logger"
	"github.com/spigell/jd-match/internal/utils"
)

const (
	apiURL       = "http://127.0.0.1:8000/api"
	employeePath = "/employee"
	userAgent    = "spigell/jd-match (spigelly@gmail.com)"
	// Max length of free text values written to debug logs.
	maxLogLength = 200
)

// Client talks to the CV analysis API.
type Client struct {
	token        string
	logger       *zap.Logger
	newRequestID func() string
	HTTPClient   *http.Client
	UserAgent    string
	APIURL       string
}

// New returns a client for the default local API. An empty token disables the
// Authorization header. The underlying http.Client has no timeout: an analysis
// runs until the server answers or the transport fails.
func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:        strings.TrimSpace(token),
		logger:       logger,
		newRequestID: uuid.NewString,
		HTTPClient:   &http.Client{},
		UserAgent:    userAgent,
		APIURL:       apiURL,
	}
}

// AnalyzeCV uploads the CV and the job description and returns the parsed
// analysis. It issues exactly one request and never retries. A failed presence
// check is returned as *ValidationError before any network I/O; remote and
// transport failures are *RemoteError.
func (c *Client) AnalyzeCV(ctx context.Context, req *AnalysisRequest) (*AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	parts := []formPart{{name: "file", file: req.CV}}
	if req.JDText != "" {
		parts = append(parts, formPart{name: "jd_text", value: req.JDText})
	}
	if req.JDFile != nil {
		parts = append(parts, formPart{name: "jd_file", file: req.JDFile})
	}

	requestID := c.newRequestID()
	log := logger.WithSubmission(c.logger, requestID, req.CV.Name, req.JDFile.FileName())

	log.Debug("submitting cv for analysis",
		zap.Int("parts", len(parts)),
		zap.Int("jd_text_length", len([]rune(req.JDText))),
	)

	status, data, err := c.postMultipart(ctx, c.endpoint(employeePath), requestID, parts)
	if err != nil {
		log.Debug("analysis request failed", zap.Error(err))
		return nil, err
	}

	result, err := decodeResult(data)
	if err != nil {
		log.Debug("decoding analysis result failed",
			zap.Error(err),
			zap.String("body_preview", utils.Preview(string(data), maxLogLength)),
		)
		return nil, &RemoteError{StatusCode: status, Message: err.Error(), Err: err}
	}

	log.Debug("got analysis result",
		zap.Float64("match", result.Match),
		zap.Int("missing_skills", len(result.MissingSkills)),
		zap.String("summary_preview", utils.Preview(result.ProfileSummary, maxLogLength)),
	)

	return result, nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.APIURL, "/") + path
}
