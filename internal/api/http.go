package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// defaultTimeout bounds every request; lecture syncs move whole answer
// queues and question banks, so it is generous.
const defaultTimeout = 60 * time.Second

// HTTPClient talks JSON to a tutor-web server.
type HTTPClient struct {
	base   *url.URL
	client *http.Client
	retry  Retry
	log    *slog.Logger
}

var _ Client = (*HTTPClient)(nil)

// HTTPOption adjusts an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient substitutes the underlying http.Client, usually to
// carry session cookies or a test transport.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.client = c }
}

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) HTTPOption {
	return func(h *HTTPClient) { h.log = log }
}

// WithRetry re-runs requests that fail with network errors. The zero
// value means a single attempt.
func WithRetry(r Retry) HTTPOption {
	return func(h *HTTPClient) { h.retry = r }
}

// NewHTTPClient returns a client for the server at baseURL.
func NewHTTPClient(baseURL string, opts ...HTTPOption) (*HTTPClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	h := &HTTPClient{
		base:   base,
		client: &http.Client{Timeout: defaultTimeout},
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// SyncLecture implements Client.
func (h *HTTPClient) SyncLecture(ctx context.Context, lec *lecture.Lecture) (*lecture.Lecture, error) {
	var out lecture.Lecture
	if err := h.postJSON(ctx, lec.URI, lec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQuestion implements Client.
func (h *HTTPClient) GetQuestion(ctx context.Context, lec *lecture.Lecture, questionURI string) (*lecture.Question, error) {
	path := "/api/stage/material?path=" + url.QueryEscape(lec.Path) +
		"&id=" + url.QueryEscape(questionURI)

	var bundle QuestionBundle
	if err := h.getJSON(ctx, path, &bundle); err != nil {
		return nil, err
	}
	qn, ok := bundle.Data[questionURI]
	if !ok {
		return nil, lecture.Errorf(lecture.KindNotFound, "question %s not in response", questionURI).
			WithContext("question", questionURI)
	}
	if qn.URI == "" {
		qn.URI = questionURI
	}
	return qn, nil
}

// GetQuestions implements Client.
func (h *HTTPClient) GetQuestions(ctx context.Context, lec *lecture.Lecture) (*QuestionBundle, error) {
	path := lec.QuestionURI
	if path == "" {
		path = "/api/stage/material?path=" + url.QueryEscape(lec.Path)
	}
	var bundle QuestionBundle
	if err := h.getJSON(ctx, path, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// AddSubscription implements Client.
func (h *HTTPClient) AddSubscription(ctx context.Context, path string) error {
	return h.postJSON(ctx, "/api/subscriptions/add?path="+url.QueryEscape(path), struct{}{}, nil)
}

// RemoveSubscription implements Client.
func (h *HTTPClient) RemoveSubscription(ctx context.Context, path string) error {
	return h.postJSON(ctx, "/api/subscriptions/remove?path="+url.QueryEscape(path), struct{}{}, nil)
}

// ListSubscriptions implements Client.
func (h *HTTPClient) ListSubscriptions(ctx context.Context) (*lecture.SubscriptionNode, error) {
	var out lecture.SubscriptionNode
	if err := h.postJSON(ctx, "/api/subscriptions/list", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	return h.do(ctx, http.MethodGet, path, nil, out)
}

func (h *HTTPClient) postJSON(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return h.do(ctx, http.MethodPost, path, encoded, out)
}

func (h *HTTPClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	return h.retry.Do(ctx, func(ctx context.Context) error {
		return h.doOnce(ctx, method, path, body, out)
	})
}

func (h *HTTPClient) doOnce(ctx context.Context, method, path string, body []byte, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse path %q: %w", path, err)
	}
	target := h.base.ResolveReference(ref).String()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	h.log.Debug("server request", "method", method, "url", target)
	resp, err := h.client.Do(req)
	if err != nil {
		return lecture.Errorf(lecture.KindNetwork, "request failed: %v", err).
			WithContext("url", target)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return serverError(resp.StatusCode, errorMessage(resp.Body), target)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return lecture.Errorf(lecture.KindRemote, "malformed response: %v", err).
			WithContext("url", target)
	}
	return nil
}

// errorMessage digs the server's message out of a failed response body.
// Bodies are either {"error": "..."} JSON or a bare string.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var structured struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil {
		if structured.Error != "" {
			return structured.Error
		}
		if structured.Message != "" {
			return structured.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
