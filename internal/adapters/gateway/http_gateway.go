package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/taskmaster/tasksync/internal/domain/entities"
	"github.com/taskmaster/tasksync/internal/infrastructure/config"
	"github.com/taskmaster/tasksync/internal/infrastructure/logger"
	"github.com/taskmaster/tasksync/internal/ports"
)

// HeaderRequestID carries the per-call request id
const HeaderRequestID = "X-Request-ID"

// Compile-time check to ensure HTTPGateway implements TaskGateway
var _ ports.TaskGateway = (*HTTPGateway)(nil)

// HTTPGateway talks to the remote task service over its REST API
type HTTPGateway struct {
	baseURL *url.URL
	client  *http.Client
	signer  *TokenSigner
	limiter *rate.Limiter
	logger  *logger.Logger
}

// Option customizes an HTTPGateway
type Option func(*HTTPGateway)

// WithHTTPClient replaces the default client; its timeout is kept as is
func WithHTTPClient(client *http.Client) Option {
	return func(g *HTTPGateway) {
		g.client = client
	}
}

// NewHTTPGateway creates a gateway for the configured service
func NewHTTPGateway(cfg config.GatewayConfig, log *logger.Logger, opts ...Option) (*HTTPGateway, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway base url: %w", err)
	}

	g := &HTTPGateway{
		baseURL: base,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  log.WithComponent("gateway"),
	}

	if cfg.AuthSecret != "" {
		g.signer = NewTokenSigner(cfg.AuthSecret, cfg.AuthIssuer, cfg.AuthSubject, cfg.TokenTTL)
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// FetchAll calls GET /task/all
func (g *HTTPGateway) FetchAll(ctx context.Context) ([]entities.Task, error) {
	var tasks []entities.Task
	if _, err := g.do(ctx, http.MethodGet, "task/all", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FetchSummary calls GET /task/summary/{employeeId}/{date}
func (g *HTTPGateway) FetchSummary(ctx context.Context, employeeID, date string) (*ports.TaskSummary, error) {
	path := "task/summary/" + url.PathEscape(employeeID) + "/" + url.PathEscape(date)

	var summary ports.TaskSummary
	if _, err := g.do(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Create calls POST /task/
func (g *HTTPGateway) Create(ctx context.Context, task entities.Task) (*entities.Task, error) {
	var created entities.Task
	status, err := g.do(ctx, http.MethodPost, "task/", task, &created)
	if err != nil {
		return nil, err
	}
	if !created.HasID() {
		return nil, missingID(http.MethodPost, "task/", status)
	}
	return &created, nil
}

// Update calls PATCH /task/{id}
func (g *HTTPGateway) Update(ctx context.Context, req ports.UpdateTaskRequest) (*entities.Task, error) {
	path := "task/" + strconv.Itoa(req.TaskID)

	var updated entities.Task
	status, err := g.do(ctx, http.MethodPatch, path, req, &updated)
	if err != nil {
		return nil, err
	}
	if !updated.HasID() {
		return nil, missingID(http.MethodPatch, path, status)
	}
	return &updated, nil
}

// Delete calls DELETE /task/{id}; the response body is ignored
func (g *HTTPGateway) Delete(ctx context.Context, id int) error {
	_, err := g.do(ctx, http.MethodDelete, "task/"+strconv.Itoa(id), nil, nil)
	return err
}

// do performs one round trip. A non-nil out is filled from the response body.
func (g *HTTPGateway) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	start := time.Now()
	requestID := uuid.NewString()

	status, err := g.roundTrip(ctx, method, path, requestID, body, out)

	g.logger.LogGatewayCall(method, "/"+path, requestID, status,
		float64(time.Since(start).Nanoseconds())/1000000, err)

	return status, err
}

func (g *HTTPGateway) roundTrip(ctx context.Context, method, path, requestID string, body, out interface{}) (int, error) {
	fail := func(status int, message string, cause error) error {
		return &ports.GatewayError{Method: method, Path: "/" + path, StatusCode: status, Message: message, Err: cause}
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return 0, fail(0, err.Error(), err)
		}
	}

	rel, err := url.Parse(path)
	if err != nil {
		return 0, fail(0, err.Error(), err)
	}
	endpoint := g.baseURL.ResolveReference(rel).String()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fail(0, err.Error(), err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, fail(0, err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)

	if g.signer != nil {
		token, err := g.signer.Sign()
		if err != nil {
			return 0, fail(0, err.Error(), err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, fail(0, err.Error(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fail(resp.StatusCode, err.Error(), err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		gwErr := &ports.GatewayError{
			Method:     method,
			Path:       "/" + path,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("request failed with status code %d", resp.StatusCode),
		}
		var errBody ports.ErrorBody
		if json.Unmarshal(data, &errBody) == nil {
			gwErr.Reason = errBody.Error
		}
		return resp.StatusCode, gwErr
	}

	if out == nil {
		return resp.StatusCode, nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fail(resp.StatusCode, fmt.Sprintf("invalid response body: %v", err), err)
	}

	return resp.StatusCode, nil
}

func missingID(method, path string, status int) error {
	return &ports.GatewayError{
		Method:     method,
		Path:       "/" + path,
		StatusCode: status,
		Message:    ports.ErrMissingID.Error(),
		Err:        ports.ErrMissingID,
	}
}
