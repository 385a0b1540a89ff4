package http_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/finance"
	finhttp "github.com/MrJamesThe3rd/finboard/internal/http"
	httpexport "github.com/MrJamesThe3rd/finboard/internal/http/export"
	httpfinance "github.com/MrJamesThe3rd/finboard/internal/http/finance"
	"github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	httprules "github.com/MrJamesThe3rd/finboard/internal/http/rules"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/kv"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
	"github.com/MrJamesThe3rd/finboard/internal/rules"
	rulestore "github.com/MrJamesThe3rd/finboard/internal/rules/store"
)

func newRouter(t *testing.T, opts finhttp.Options) http.Handler {
	t.Helper()

	store := kv.NewMemory()

	engine, err := finance.New(context.Background(), store,
		finance.WithLogger(slog.New(slog.DiscardHandler)),
		finance.WithClock(func() time.Time { return time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)

	ruleSvc := rules.NewService(rulestore.New(store))

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return finhttp.New(opts,
		httpfinance.NewHandler(engine),
		importcsv.NewHandler(importer.NewService(ruleSvc), engine),
		httprules.NewHandler(ruleSvc),
		httpexport.NewHandler(export.NewService(engine)),
	)
}

func defaultOptions() finhttp.Options {
	return finhttp.Options{CORSOrigins: []string{"*"}, RateLimitRPS: 100, RateLimitBurst: 100}
}

func TestRouter_Routes(t *testing.T) {
	type testCase struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}

	tests := []testCase{
		{name: "summary", method: http.MethodGet, target: "/api/v1/summary", wantStatus: http.StatusOK},
		{name: "expenses", method: http.MethodGet, target: "/api/v1/expenses", wantStatus: http.StatusOK},
		{name: "history", method: http.MethodGet, target: "/api/v1/history", wantStatus: http.StatusOK},
		{name: "rules", method: http.MethodGet, target: "/api/v1/rules", wantStatus: http.StatusOK},
		{name: "export", method: http.MethodGet, target: "/api/v1/export/income.csv", wantStatus: http.StatusOK},
		{name: "unknown", method: http.MethodGet, target: "/api/v2/summary", wantStatus: http.StatusNotFound},
		{
			name:       "json only",
			method:     http.MethodPost,
			target:     "/api/v1/income",
			body:       "label=Salary",
			wantStatus: http.StatusUnsupportedMediaType,
		},
	}

	srv := newRouter(t, defaultOptions())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	srv := newRouter(t, finhttp.Options{
		CORSOrigins:    []string{"http://localhost:3000"},
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	srv := newRouter(t, finhttp.Options{CORSOrigins: []string{"*"}, RateLimitRPS: 0.001, RateLimitBurst: 2})

	codes := make([]int, 0, 3)

	for range 3 {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer

	l := slog.New(slog.NewTextHandler(&buf, nil))

	h := finhttp.RequestLogger(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handled")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), "msg=handled")
	assert.Contains(t, buf.String(), "request_id=")
}
