package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/quotelab/premia/pkg/controller/http"
	"github.com/quotelab/premia/pkg/service/pricing"
	"github.com/quotelab/premia/pkg/usecase"
)

func newServer(t *testing.T) *httpctrl.Server {
	t.Helper()
	calc, err := pricing.NewCalculator(pricing.DefaultMatrix())
	gt.NoError(t, err).Required()
	return httpctrl.New(usecase.New(calc))
}

func TestHealthEndpoint(t *testing.T) {
	server := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var body map[string]string
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.Value(t, body["status"]).Equal("ok")
}

func TestQuoteEndpoint(t *testing.T) {
	server := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/quote",
		strings.NewReader(`{"age": 30, "gender": "Male", "sumInsured": 500000}`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Header().Get("Content-Type")).Equal("application/json")

	var resp usecase.QuoteResponse
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Number(t, resp.TotalPayableINR).Equal(9000.0)
	gt.Number(t, resp.MonthlyINR).Equal(750.0)
}

func TestQuoteEndpointEmptyBody(t *testing.T) {
	server := newServer(t)

	// All fields are optional, so an empty body quotes the default profile
	req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(""))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var resp usecase.QuoteResponse
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Number(t, resp.TotalPayableINR).Equal(9000.0)
}

func TestQuoteEndpointEmptyObject(t *testing.T) {
	server := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var resp usecase.QuoteResponse
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Number(t, resp.TotalPayableINR).Equal(9000.0)
}

func TestQuoteEndpointInvalidBody(t *testing.T) {
	server := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestQuoteEndpointPaymentMode(t *testing.T) {
	server := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/quote",
		strings.NewReader(`{"premiumPaymentMode": "Monthly"}`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var resp usecase.QuoteResponse
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Number(t, resp.TotalPayableINR).Equal(resp.MonthlyINR)
}

func TestRagStatusEndpoint(t *testing.T) {
	server := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rag/status", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var status struct {
		Loaded bool   `json:"loaded"`
		Reason string `json:"reason"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status)).Required()
	gt.Bool(t, status.Loaded).False()
	gt.Value(t, status.Reason).NotEqual("")
}

func TestUnknownRoute(t *testing.T) {
	server := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.Number(t, rec.Code).Equal(http.StatusNotFound)
}
