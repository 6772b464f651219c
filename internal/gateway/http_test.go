package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hance08/banktech/internal/config"
	"github.com/hance08/banktech/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *HTTPGateway {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := NewHTTPGateway(config.APIConfig{BaseURL: srv.URL + "/api/v1", Timeout: time.Second, Retries: 2}, nil)
	g.backoff = time.Millisecond
	return g
}

func TestHTTPGateway_ListAccountsWithQuery(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/accounts", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("userId"))
		io.WriteString(w, `[{"id":"1","userId":"7","accountType":"Savings Account","accountNumber":"12345678","balance":"100.50","createdAt":"2025-01-01T00:00:00Z"}]`)
	})

	accounts, err := g.ListAccounts(context.Background(), Query{"userId": "7"})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "12345678", accounts[0].AccountNumber)
	assert.True(t, accounts[0].Balance.Equal(decimal.RequireFromString("100.5")), "numeric strings decode into balances")
}

func TestHTTPGateway_ListNotFoundIsEmpty(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `"Not found"`, http.StatusNotFound)
	})

	accounts, err := g.ListAccounts(context.Background(), Query{"accountNumber": "00000000"})
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestHTTPGateway_DeleteNotFound(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/accounts/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	err := g.DeleteAccount(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPGateway_RetriesIdempotentRequests(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	})

	updated, err := g.UpdateAccount(context.Background(), model.Account{ID: "3", Balance: decimal.RequireFromString("60")})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(60)))
}

func TestHTTPGateway_DoesNotRetryPost(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := g.CreateTransaction(context.Background(), model.Transaction{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPGateway_ResourceOverrideAndNumericAmounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/other/transactions", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, 40.0, payload["amount"], "amounts go out as JSON numbers")

		payload["id"] = "9"
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	g := NewHTTPGateway(config.APIConfig{
		BaseURL:         "http://unused.invalid",
		TransactionsURL: srv.URL + "/other/transactions/",
	}, nil)

	created, err := g.CreateTransaction(context.Background(), model.Transaction{Amount: decimal.RequireFromString("40.00")})
	require.NoError(t, err)
	assert.Equal(t, "9", created.ID)
}

func TestHTTPGateway_ClientErrorIsStatusError(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, "bad payload")
	})

	_, err := g.CreateUser(context.Background(), model.User{Name: "x"})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)
	assert.Equal(t, "bad payload", statusErr.Body)
}
