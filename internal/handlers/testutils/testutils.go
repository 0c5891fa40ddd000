// Package testutils - помощники для тестов HTTP-обработчиков.
package testutils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

// WithChiURLParams подставляет параметры пути (tenderId, bidId, version)
// в контекст chi, как это сделал бы маршрутизатор.
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// PathRequest собирает запрос к обработчику с параметрами пути.
// Для запроса с телом выставляется Content-Type: application/json.
func PathRequest(method, target string, body io.Reader, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return WithChiURLParams(req, params)
}

// Reason достает поле reason из ответа с ошибкой.
func Reason(t testing.TB, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response %q: %v", w.Body.String(), err)
	}
	return resp.Reason
}
