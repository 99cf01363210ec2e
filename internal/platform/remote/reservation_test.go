package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReservationClient(t *testing.T, handler http.HandlerFunc, maxRetries int) *ReservationClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewReservationClient(ClientConfig{
		BaseURL:    server.URL + "/reservas",
		Timeout:    time.Second,
		MaxRetries: maxRetries,
		RetryBase:  time.Millisecond,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestReservationClient_Get(t *testing.T) {
	client := newTestReservationClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/reservas/15", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"idReserva":15,"idUsuario":7,"idLivro":42,"statusReserva":"Ativa","prazoEmprestimo":"2024-01-08"}`))
	}, 0)

	res, err := client.Get(context.Background(), 15, "token-abc")
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.ID)
	assert.Equal(t, int64(7), res.UserID)
	assert.Equal(t, int64(42), res.BookID)
	assert.Equal(t, ReservationStatusActive, res.Status)
	assert.Equal(t, "2024-01-08", res.DueHint)
}

func TestReservationClient_GetErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{name: "not found", status: http.StatusNotFound, target: ErrNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, target: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, target: ErrUnauthorized},
		{name: "missing user", status: http.StatusOK, body: `{"idLivro":42,"statusReserva":"Ativa"}`, target: ErrInvalidResponse},
		{name: "missing status", status: http.StatusOK, body: `{"idUsuario":7,"idLivro":42}`, target: ErrInvalidResponse},
		{name: "malformed body", status: http.StatusOK, body: `{"idUsuario":`, target: ErrInvalidResponse},
		{name: "empty body", status: http.StatusOK, body: ``, target: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestReservationClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, 0)

			_, err := client.Get(context.Background(), 1, "token")
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestReservationClient_GetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestReservationClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"idReserva":1,"idUsuario":7,"idLivro":42,"statusReserva":"Ativa"}`))
	}, 2)

	res, err := client.Get(context.Background(), 1, "token")
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.UserID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestReservationClient_GetGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestReservationClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, 2)

	_, err := client.Get(context.Background(), 1, "token")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestReservationClient_GetDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	client := newTestReservationClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, 3)

	_, err := client.Get(context.Background(), 1, "token")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestReservationClient_Update(t *testing.T) {
	pickup := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	var got ReservationUpdate
	client := newTestReservationClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/reservas/15", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}, 0)

	err := client.Update(context.Background(), 15, "token-abc", ReservationUpdate{
		Status:     ReservationStatusConcluded,
		PickupDate: &pickup,
	})
	require.NoError(t, err)
	assert.Equal(t, ReservationStatusConcluded, got.Status)
	require.NotNil(t, got.PickupDate)
	assert.True(t, pickup.Equal(*got.PickupDate))
}

func TestReservationClient_UpdateIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestReservationClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, 3)

	err := client.Update(context.Background(), 15, "token", ReservationUpdate{Status: ReservationStatusConcluded})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, int32(1), calls.Load())
}

func TestReservationClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewReservationClient(ClientConfig{BaseURL: baseURL, Timeout: time.Second}, nil)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), 1, "token")
	assert.ErrorIs(t, err, ErrUnavailable)

	err = client.Update(context.Background(), 1, "token", ReservationUpdate{Status: ReservationStatusConcluded})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewClientRejectsInvalidBaseURL(t *testing.T) {
	_, err := NewReservationClient(ClientConfig{BaseURL: "not-a-url"}, nil)
	assert.Error(t, err)
	_, err = NewCatalogClient(ClientConfig{BaseURL: ""}, nil)
	assert.Error(t, err)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(ErrUnavailable))
	assert.True(t, isRetryable(&StatusError{StatusCode: 503}))
	assert.False(t, isRetryable(&StatusError{StatusCode: 409}))
	assert.False(t, isRetryable(ErrNotFound))
	assert.False(t, isRetryable(errors.New("other")))
}
