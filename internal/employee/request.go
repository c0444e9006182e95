package employee

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const (
	contentEncoding = "gzip"
	requestIDHeader = "X-Request-ID"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// formPart is a single multipart field. A part carries either a file or a plain value.
type formPart struct {
	name  string
	value string
	file  *File
}

func (p formPart) writeTo(w *multipart.Writer) error {
	if p.file == nil {
		return w.WriteField(p.name, p.value)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(p.name), quoteEscaper.Replace(p.file.Name)))
	h.Set("Content-Type", mimetype.Detect(p.file.Data).String())

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}

	_, err = io.Copy(part, bytes.NewReader(p.file.Data))
	return err
}

// postMultipart sends the parts and returns the status code and the decoded
// body of a successful (2xx) response.
func (c *Client) postMultipart(ctx context.Context, url, requestID string, parts []formPart) (int, []byte, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	for _, p := range parts {
		if err := p.writeTo(w); err != nil {
			return 0, nil, fmt.Errorf("writing %s form part: %w", p.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return 0, nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &b)
	if err != nil {
		return 0, nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(requestIDHeader, requestID)

	resp, err := c.request(req)
	if err != nil {
		return 0, nil, &RemoteError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, readErr := readBody(resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// an unreadable error body degrades to the generic status message
		return resp.StatusCode, nil, newStatusError(resp.StatusCode, data)
	}

	if readErr != nil {
		return resp.StatusCode, nil, &RemoteError{StatusCode: resp.StatusCode, Message: readErr.Error(), Err: readErr}
	}

	return resp.StatusCode, data, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("Accept", "application/json")

	return req
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}

// newStatusError builds the error for a non-2xx response. The server message
// is taken from a string "detail" field; anything else falls back to the status code.
func newStatusError(status int, body []byte) *RemoteError {
	message := fmt.Sprintf("Server error: %d", status)

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if detail, ok := payload["detail"].(string); ok && strings.TrimSpace(detail) != "" {
			message = detail
		}
	}

	return &RemoteError{StatusCode: status, Message: message}
}
