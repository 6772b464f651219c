package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hance08/banktech/internal/config"
	"github.com/hance08/banktech/internal/model"
	"go.uber.org/zap"
)

// StatusError carries a non-2xx response from the backend.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Status)
}

type HTTPGateway struct {
	client    *http.Client
	endpoints map[string]string
	retries   int
	backoff   time.Duration
	logger    *zap.Logger
}

func NewHTTPGateway(cfg config.APIConfig, logger *zap.Logger) *HTTPGateway {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	endpoint := func(override, resource string) string {
		if override != "" {
			return strings.TrimRight(override, "/")
		}
		return base + "/" + resource
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPGateway{
		client: &http.Client{Timeout: timeout},
		endpoints: map[string]string{
			ResourceUsers:        endpoint(cfg.UsersURL, ResourceUsers),
			ResourceAccounts:     endpoint(cfg.AccountsURL, ResourceAccounts),
			ResourceCategories:   endpoint(cfg.CategoriesURL, ResourceCategories),
			ResourceTransactions: endpoint(cfg.TransactionsURL, ResourceTransactions),
		},
		retries: cfg.Retries,
		backoff: 200 * time.Millisecond,
		logger:  logger.With(zap.String("component", "gateway")),
	}
}

func (g *HTTPGateway) ListUsers(ctx context.Context, q Query) ([]model.User, error) {
	return list[model.User](ctx, g, ResourceUsers, q)
}

func (g *HTTPGateway) CreateUser(ctx context.Context, u model.User) (*model.User, error) {
	return send[model.User](ctx, g, http.MethodPost, g.collectionURL(ResourceUsers), u)
}

func (g *HTTPGateway) UpdateUser(ctx context.Context, u model.User) (*model.User, error) {
	return send[model.User](ctx, g, http.MethodPut, g.itemURL(ResourceUsers, u.ID), u)
}

func (g *HTTPGateway) ListAccounts(ctx context.Context, q Query) ([]model.Account, error) {
	return list[model.Account](ctx, g, ResourceAccounts, q)
}

func (g *HTTPGateway) CreateAccount(ctx context.Context, a model.Account) (*model.Account, error) {
	return send[model.Account](ctx, g, http.MethodPost, g.collectionURL(ResourceAccounts), a)
}

func (g *HTTPGateway) UpdateAccount(ctx context.Context, a model.Account) (*model.Account, error) {
	return send[model.Account](ctx, g, http.MethodPut, g.itemURL(ResourceAccounts, a.ID), a)
}

func (g *HTTPGateway) DeleteAccount(ctx context.Context, id string) error {
	return g.delete(ctx, ResourceAccounts, id)
}

func (g *HTTPGateway) ListCategories(ctx context.Context) ([]model.Category, error) {
	return list[model.Category](ctx, g, ResourceCategories, nil)
}

func (g *HTTPGateway) ListTransactions(ctx context.Context, q Query) ([]model.Transaction, error) {
	return list[model.Transaction](ctx, g, ResourceTransactions, q)
}

func (g *HTTPGateway) CreateTransaction(ctx context.Context, t model.Transaction) (*model.Transaction, error) {
	return send[model.Transaction](ctx, g, http.MethodPost, g.collectionURL(ResourceTransactions), t)
}

func (g *HTTPGateway) UpdateTransaction(ctx context.Context, t model.Transaction) (*model.Transaction, error) {
	return send[model.Transaction](ctx, g, http.MethodPut, g.itemURL(ResourceTransactions, t.ID), t)
}

func (g *HTTPGateway) DeleteTransaction(ctx context.Context, id string) error {
	return g.delete(ctx, ResourceTransactions, id)
}

func (g *HTTPGateway) collectionURL(resource string) string {
	return g.endpoints[resource]
}

func (g *HTTPGateway) itemURL(resource, id string) string {
	return g.endpoints[resource] + "/" + id
}

func (g *HTTPGateway) delete(ctx context.Context, resource, id string) error {
	_, err := g.do(ctx, http.MethodDelete, g.itemURL(resource, id), nil)
	return err
}

// list treats a 404 as an empty collection: the mock backend answers a
// filter with no matches that way.
func list[T any](ctx context.Context, g *HTTPGateway, resource string, q Query) ([]T, error) {
	target := g.collectionURL(resource)
	if encoded := q.values().Encode(); encoded != "" {
		target += "?" + encoded
	}

	body, err := g.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []T{}, nil
		}
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", resource, err)
	}
	return items, nil
}

func send[T any](ctx context.Context, g *HTTPGateway, method, target string, payload T) (*T, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	body, err := g.do(ctx, method, target, raw)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// do runs one request. GET, PUT and DELETE are retried on transport errors
// and 5xx responses; POST is never retried.
func (g *HTTPGateway) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	attempts := 1
	if method != http.MethodPost && g.retries > 0 {
		attempts += g.retries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.backoff * time.Duration(attempt-1)):
			}
		}

		body, retry, err := g.roundTrip(ctx, method, target, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}

		g.logger.Warn("request failed, retrying",
			zap.String("method", method),
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	return nil, lastErr
}

func (g *HTTPGateway) roundTrip(ctx context.Context, method, target string, payload []byte) ([]byte, bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	g.logger.Debug("request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: %s %s", ErrNotFound, method, target)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: %w", ErrUnavailable, &StatusError{Method: method, URL: target, Status: resp.StatusCode, Body: string(body)})
	case resp.StatusCode >= 300:
		return nil, false, &StatusError{Method: method, URL: target, Status: resp.StatusCode, Body: string(body)}
	}

	return body, false, nil
}
