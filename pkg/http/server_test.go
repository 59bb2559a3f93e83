package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type routes map[string]echo.HandlerFunc

func (r routes) RegisterRoutes(e *echo.Echo) {
	for path, h := range r {
		e.GET(path, h)
	}
}

func newTestServer() *Server {
	return NewServer([]Handler{
		routes{
			"/ok":    func(c echo.Context) error { return SuccessResponse(c, "pong") },
			"/boom":  func(c echo.Context) error { panic("kaboom") },
			"/gone":  func(c echo.Context) error { return AppErrorResponse(c, NotFoundError("no such snapshot")) },
			"/limit": func(c echo.Context) error { return PlainErrorResponse(c, TooManyRequestsError("slow down")) },
		},
		nil,
	})
}

func do(s *Server, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServer_RoutesAndEnvelope(t *testing.T) {
	rec := do(newTestServer(), http.MethodGet, "/ok", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"message":"OK","data":"pong"}`, rec.Body.String())
}

func TestServer_RecoversPanics(t *testing.T) {
	rec := do(newTestServer(), http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_ErrorResponses(t *testing.T) {
	s := newTestServer()

	rec := do(s, http.MethodGet, "/gone", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(s, http.MethodGet, "/limit", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"slow down"}`, rec.Body.String())
}

func TestServer_MetricsEndpoint(t *testing.T) {
	s := newTestServer()
	do(s, http.MethodGet, "/ok", nil)

	rec := do(s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "macropulse_http_requests_total")
}

func TestServer_CORSPreflight(t *testing.T) {
	rec := do(newTestServer(), http.MethodOptions, "/ok", map[string]string{
		echo.HeaderOrigin:                     "https://dashboard.example",
		echo.HeaderAccessControlRequestMethod: http.MethodGet,
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dashboard.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))
}
