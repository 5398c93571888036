package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design-campaign-backend/internal/handlers"
	"design-campaign-backend/internal/logger"
	"design-campaign-backend/internal/sivi"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

type recorder struct {
	mu   sync.Mutex
	reqs []capturedRequest
}

func (r *recorder) all() []capturedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]capturedRequest(nil), r.reqs...)
}

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query().Get("queryParams"),
			Header: r.Header.Clone(),
			Body:   string(data),
		})
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newRouter(upstreamURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	client := sivi.NewClient(upstreamURL, "test-key", "", 5*time.Second)
	return handlers.NewRouter(handlers.RouterConfig{
		Designs: handlers.NewDesignsHandler(client, logger.Nop()),
		Logger:  logger.Nop(),
	})
}

func TestSubmitDesign_ForwardsBodyAndInjectsKey(t *testing.T) {
	upstreamBody := `{"status":200,"body":{"requestId":"req-123","queueWaitTime":4}}`
	upstream, seen := newUpstream(t, http.StatusOK, upstreamBody)
	router := newRouter(upstream.URL)

	payload := `{"type":"amazon","subtype":"amazon-square","prompt":"hello","numOfVariants":3}`
	req := httptest.NewRequest(http.MethodPost, "/designs-from-prompt", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, upstreamBody, w.Body.String())

	reqs := seen.all()
	require.Len(t, reqs, 1)
	got := reqs[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/general/designs-from-prompt", got.Path)
	assert.Equal(t, "test-key", got.Header.Get("sivi-api-key"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, payload, got.Body)
}

func TestSubmitDesign_EmptyBodyForwardedAsObject(t *testing.T) {
	upstream, seen := newUpstream(t, http.StatusOK, `{"status":400,"body":{}}`)
	router := newRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/designs-from-prompt", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	reqs := seen.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "{}", reqs[0].Body)
}

func TestSubmitDesign_MirrorsUpstreamStatus(t *testing.T) {
	upstreamBody := `{"status":422,"body":{"message":"prompt is required"}}`
	upstream, _ := newUpstream(t, http.StatusUnprocessableEntity, upstreamBody)
	router := newRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/designs-from-prompt", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, upstreamBody, w.Body.String())
}

func TestSubmitDesign_TransportFailure(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusOK, `{}`)
	upstream.Close()
	router := newRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/designs-from-prompt", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestSubmitDesign_NonJSONUpstream(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	router := newRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/designs-from-prompt", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestGetRequestStatus_EncodesQueryParams(t *testing.T) {
	upstreamBody := `{"status":200,"body":{"status":"queued"}}`
	upstream, seen := newUpstream(t, http.StatusOK, upstreamBody)
	router := newRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/get-request-status?requestId=req-123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, upstreamBody, w.Body.String())

	reqs := seen.all()
	require.Len(t, reqs, 1)
	got := reqs[0]
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/general/get-request-status", got.Path)
	assert.Equal(t, "test-key", got.Header.Get("sivi-api-key"))

	var params map[string]string
	require.NoError(t, json.Unmarshal([]byte(got.Query), &params))
	assert.Equal(t, map[string]string{"requestId": "req-123"}, params)
}

func TestGetDesignVariants_EncodesQueryParams(t *testing.T) {
	upstream, seen := newUpstream(t, http.StatusOK, `{"status":200,"body":{"variants":[]}}`)
	router := newRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/get-design-variants?designId=d-9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	reqs := seen.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/general/get-design-variants", reqs[0].Path)
	assert.JSONEq(t, `{"designId":"d-9"}`, reqs[0].Query)
}

func TestGetRequestStatus_TransportFailure(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusOK, `{}`)
	upstream.Close()
	router := newRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/get-request-status?requestId=req-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestGetDesignVariants_TransportFailure(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusOK, `{}`)
	upstream.Close()
	router := newRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/get-design-variants?designId=d-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestRouter_CORSEchoesRequestedHeaders(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusOK, `{}`)
	router := newRouter(upstream.URL)

	for _, requested := range []string{"X-Client-Version", "Authorization, X-Client-Version"} {
		req := httptest.NewRequest(http.MethodOptions, "/designs-from-prompt", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", requested)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, requested, w.Header().Get("Access-Control-Allow-Headers"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	}
}

func TestRouter_CORSOpenToAnyOrigin(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusOK, `{}`)
	router := newRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodOptions, "/designs-from-prompt", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_AssignsRequestID(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusOK, `{}`)
	router := newRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-Id"))
}
