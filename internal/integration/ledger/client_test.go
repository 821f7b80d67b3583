package ledger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pedidos/internal/config"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

type fakeLedger struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeLedger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
	f.mu.Unlock()

	f.handler(w, r)
}

func (f *fakeLedger) calls() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newFakeLedger(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*fakeLedger, string) {
	t.Helper()
	f := &fakeLedger{handler: handler}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv.URL
}

func newTestClient(baseURL string, enabled bool) *Client {
	return NewClient(config.IntegrationConfig{BaseURL: baseURL, Enabled: enabled, Timeout: 2 * time.Second}, zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestFormatDate(t *testing.T) {
	assert.Nil(t, FormatDate(nil))

	d := time.Date(2025, 9, 30, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-09-30", *FormatDate(&d))
}

func TestCreate_PostsPayload(t *testing.T) {
	fake, url := newFakeLedger(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"id":1}`)
	})
	client := newTestClient(url, true)

	due := "2025-09-30"
	client.Create(context.Background(), TransactionRequest{
		Description: "Pedido PED-1 (#10)",
		Type:        "Receita",
		Amount:      json.Number("100.00"),
		Paid:        false,
		DueDate:     &due,
		OrderID:     10,
	})

	calls := fake.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/transacao", calls[0].Path)

	body := calls[0].Body
	assert.Equal(t, "Pedido PED-1 (#10)", body["descricao"])
	assert.Equal(t, "Receita", body["tipo_transacao"])
	assert.Equal(t, 100.0, body["valor"])
	assert.Equal(t, false, body["pago"])
	assert.Equal(t, "2025-09-30", body["data_vencimento"])
	assert.Contains(t, body, "data_pagamento")
	assert.Nil(t, body["data_pagamento"])
	assert.Equal(t, 10.0, body["pedido_id"])
}

func TestCreate_ServerErrorIsSwallowed(t *testing.T) {
	fake, url := newFakeLedger(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newTestClient(url, true)

	assert.NotPanics(t, func() {
		client.Create(context.Background(), TransactionRequest{Amount: "1", OrderID: 1})
	})
	assert.Len(t, fake.calls(), 1)
}

func TestCreate_TransportErrorIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := newTestClient(url, true)

	assert.NotPanics(t, func() {
		client.Create(context.Background(), TransactionRequest{Amount: "1", OrderID: 1})
	})
}

func TestDisabled_NoNetwork(t *testing.T) {
	fake, url := newFakeLedger(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":1}`)
	})
	client := newTestClient(url, false)

	client.Create(context.Background(), TransactionRequest{Amount: "1", OrderID: 1})
	ok := client.UpdateByOrderID(context.Background(), 1, map[string]any{FieldDescription: "x"})

	assert.False(t, ok)
	assert.Empty(t, fake.calls())
}

func TestUpdateByOrderID_LookupThenPut(t *testing.T) {
	fake, url := newFakeLedger(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/transacoes/pedido/42":
			writeJSON(w, http.StatusOK, `{"id":900,"pedido_id":42}`)
		case r.Method == http.MethodPut && r.URL.Path == "/transacao/900":
			writeJSON(w, http.StatusOK, `{"id":900}`)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	})
	client := newTestClient(url, true)

	ok := client.UpdateByOrderID(context.Background(), 42, map[string]any{
		FieldDescription: "Pedido PED-42 (#42)",
		FieldAmount:      json.Number("10.50"),
		FieldPaid:        true,
	})

	require.True(t, ok)
	calls := fake.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPut, calls[1].Method)
	assert.Equal(t, "Pedido PED-42 (#42)", calls[1].Body["descricao"])
	assert.Equal(t, 10.5, calls[1].Body["valor"])
	assert.Equal(t, true, calls[1].Body["pago"])
	assert.NotContains(t, calls[1].Body, "data_vencimento")
}

func TestUpdateByOrderID_Failures(t *testing.T) {
	tests := []struct {
		name      string
		handler   func(w http.ResponseWriter, r *http.Request)
		wantCalls int
	}{
		{
			name: "lookup not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantCalls: 1,
		},
		{
			name: "lookup without id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{}`)
			},
			wantCalls: 1,
		},
		{
			name: "lookup server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantCalls: 1,
		},
		{
			name: "put rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodGet {
					writeJSON(w, http.StatusOK, `{"id":3}`)
					return
				}
				w.WriteHeader(http.StatusBadRequest)
			},
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, url := newFakeLedger(t, tt.handler)
			client := newTestClient(url, true)

			ok := client.UpdateByOrderID(context.Background(), 7, map[string]any{FieldDescription: "x"})

			assert.False(t, ok)
			assert.Len(t, fake.calls(), tt.wantCalls)
		})
	}
}
