package sivi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design-campaign-backend/internal/sivi"
)

func TestClient_CustomKeyHeader(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"status":200,"body":{}}`))
	}))
	defer srv.Close()

	client := sivi.NewClient(srv.URL, "k", "x-api-key", time.Second)
	resp, err := client.GetRequestStatus(context.Background(), "req-1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "k", got.Get("x-api-key"))
	assert.Empty(t, got.Get(sivi.DefaultKeyHeader))
}

func TestClient_KeepsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":429,"body":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	resp, err := sivi.NewClient(srv.URL, "k", "", time.Second).SubmitDesign(context.Background(), []byte(`{"prompt":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"status":429,"body":{"message":"slow down"}}`, string(resp.Body))
}

func TestClient_RejectsNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`upstream exploded`))
	}))
	defer srv.Close()

	_, err := sivi.NewClient(srv.URL, "k", "", time.Second).GetDesignVariants(context.Background(), "d-1")
	assert.Error(t, err)
}
