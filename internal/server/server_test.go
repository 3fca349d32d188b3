package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blackwell-systems/spendscope/internal/alerts"
	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/commentary"
	"github.com/blackwell-systems/spendscope/internal/ingest"
	"github.com/blackwell-systems/spendscope/internal/store"
	"github.com/blackwell-systems/spendscope/internal/trends"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeCommentator struct {
	reply     string
	cards     *commentary.CardSet
	err       error
	contracts []commentary.Contract
}

func (f *fakeCommentator) Configured() bool { return f.err == nil }
func (f *fakeCommentator) Model() string    { return "test-model" }
func (f *fakeCommentator) URL() string      { return "http://upstream.test/api/chat/completions" }

func (f *fakeCommentator) Summarize(context.Context, *analyzer.AnalysisResult) (string, error) {
	return f.reply, f.err
}

func (f *fakeCommentator) InsightCards(context.Context, *analyzer.AnalysisResult) (*commentary.CardSet, error) {
	return f.cards, f.err
}

func (f *fakeCommentator) Chat(_ context.Context, question string, _ any) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply + ": " + question, nil
}

func (f *fakeCommentator) Ping(context.Context) (string, error) {
	return f.reply, f.err
}

func (f *fakeCommentator) ExtractContracts(context.Context, []analyzer.Record) ([]commentary.Contract, error) {
	return f.contracts, f.err
}

func newTestServer(t *testing.T, fc *fakeCommentator, maxBody int64) *Server {
	t.Helper()

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	clock := func() time.Time { return testNow }
	return New(Config{
		Analyzer:     analyzer.NewDefault(),
		Trends:       trends.NewManager(st, trends.WithClock(clock)),
		Alerts:       alerts.NewManager(st, fc, alerts.WithClock(clock)),
		Commentary:   fc,
		MaxBodyBytes: maxBody,
		Now:          clock,
	})
}

func do(t *testing.T, s *Server, method, path, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return serve(t, s, req)
}

func serve(t *testing.T, s *Server, req *http.Request) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: invalid json response %q: %v", req.Method, req.URL.Path, rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func sampleBody(t *testing.T, analysisType string) string {
	t.Helper()
	body := map[string]any{"data": ingest.SampleRecords()}
	if analysisType != "" {
		body["analysisType"] = analysisType
	}
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 0)

	code, body := do(t, s, http.MethodGet, "/health", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestAnalyze_FullRecordsTrend(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 0)

	code, body := do(t, s, http.MethodPost, "/analyze", sampleBody(t, ""))
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, body)
	}
	if body["success"] != true || body["analysisType"] != "full" {
		t.Errorf("unexpected envelope: %v", body)
	}
	results := body["results"].(map[string]any)
	summary := results["summary"].(map[string]any)
	if summary["recordsAnalyzed"].(float64) != 12 {
		t.Errorf("recordsAnalyzed = %v, want 12", summary["recordsAnalyzed"])
	}
	if summary["totalSavings"].(float64) <= 0 {
		t.Errorf("totalSavings = %v, want > 0", summary["totalSavings"])
	}

	_, trendsBody := do(t, s, http.MethodGet, "/trends", "")
	if got := len(trendsBody["trends"].([]any)); got != 1 {
		t.Errorf("trend snapshots = %d, want 1", got)
	}
}

func TestAnalyze_DetectorModeDoesNotRecord(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 0)

	code, body := do(t, s, http.MethodPost, "/analyze", sampleBody(t, "duplicateVendors"))
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, body)
	}
	results := body["results"].(map[string]any)
	if results["analysisType"] != "duplicateVendors" {
		t.Errorf("results.analysisType = %v", results["analysisType"])
	}
	if len(results["insights"].([]any)) == 0 {
		t.Error("expected duplicate vendor insights for sample data")
	}

	_, trendsBody := do(t, s, http.MethodGet, "/trends", "")
	if got := len(trendsBody["trends"].([]any)); got != 0 {
		t.Errorf("trend snapshots = %d, want 0", got)
	}
}

func TestAnalyze_InvalidData(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 0)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing data", `{"analysisType": "full"}`},
		{"data not array", `{"data": {"vendor": "x"}}`},
		{"null data", `{"data": null}`},
		{"malformed json", `{"data": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, s, http.MethodPost, "/analyze", tt.body)
			if code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", code)
			}
			if body["success"] != false || body["error"] != msgInvalidData {
				t.Errorf("unexpected body: %v", body)
			}
		})
	}
}

func TestAnalyze_EmptyBatch(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 0)

	code, body := do(t, s, http.MethodPost, "/analyze", `{"data": []}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	results := body["results"].(map[string]any)
	if len(results["insights"].([]any)) != 0 {
		t.Errorf("expected no insights, got %v", results["insights"])
	}
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 64)

	code, _ := do(t, s, http.MethodPost, "/analyze", sampleBody(t, ""))
	if code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", code)
	}
}

func multipartRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte(content))
	} else {
		w.WriteField("other", "value")
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 0)

	csv := "Supplier,Cost,PO Number\nAcme,\"$1,500\",PO-1\nBeta,20,\n"
	code, body := serve(t, s, multipartRequest(t, "spend.csv", csv))
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, body)
	}
	if body["recordCount"].(float64) != 2 {
		t.Errorf("recordCount = %v, want 2", body["recordCount"])
	}
	first := body["data"].([]any)[0].(map[string]any)
	if first["vendor"] != "Acme" || first["amount"].(float64) != 1500 || first["category"] != "Uncategorized" {
		t.Errorf("first record = %v", first)
	}
	if first["date"] != "2025-01-01" {
		t.Errorf("date = %v, want server date 2025-01-01", first["date"])
	}
}

func TestUpload_Errors(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 0)

	tests := []struct {
		name      string
		filename  string
		content   string
		wantError string
	}{
		{"no file", "", "", "No file uploaded"},
		{"unsupported", "notes.txt", "hello", "File processing failed"},
		{"header only", "empty.csv", "vendor,amount\n", "File processing failed"},
		{"blank rows only", "blank.csv", "vendor,amount\n,\n , \n", "File processing failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serve(t, s, multipartRequest(t, tt.filename, tt.content))
			if code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %v)", code, body)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %v, want %q", body["error"], tt.wantError)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 0)

	code, body := do(t, s, http.MethodPost, "/categorize-spend", sampleBody(t, ""))
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	cat := body["categorization"].(map[string]any)
	summary := cat["summary"].(map[string]any)
	if summary["topCategory"] != "IT Hardware" {
		t.Errorf("topCategory = %v, want IT Hardware", summary["topCategory"])
	}
	if summary["totalSpend"].(float64) != 482770 {
		t.Errorf("totalSpend = %v, want 482770", summary["totalSpend"])
	}
}

func TestSampleData(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 0)

	code, body := do(t, s, http.MethodGet, "/sample-data", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["recordCount"].(float64) != 12 || len(body["data"].([]any)) != 12 {
		t.Errorf("unexpected sample payload: %v", body["recordCount"])
	}
}

func TestInsights(t *testing.T) {
	t.Run("upstream reply", func(t *testing.T) {
		s := newTestServer(t, &fakeCommentator{reply: "narrative"}, 0)
		code, body := do(t, s, http.MethodPost, "/insights", sampleBody(t, ""))
		if code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if body["aiCommentary"] != "narrative" || body["aiAvailable"] != true {
			t.Errorf("unexpected body: %v", body)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		s := newTestServer(t, &fakeCommentator{err: commentary.ErrNotConfigured}, 0)
		code, body := do(t, s, http.MethodPost, "/insights", sampleBody(t, ""))
		if code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if body["aiCommentary"] != commentary.FallbackSummary || body["aiAvailable"] != false {
			t.Errorf("unexpected body: %v", body)
		}
		if _, ok := body["analysis"].(map[string]any); !ok {
			t.Error("analysis missing from fallback response")
		}
	})
}

func TestInsightCards_Fallback(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{err: &commentary.UpstreamError{Status: 500}}, 0)

	code, body := do(t, s, http.MethodPost, "/insight-cards", sampleBody(t, ""))
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	data := body["data"].(map[string]any)
	if data["parseError"] == nil || data["parseError"] == "" {
		t.Error("expected parseError on fallback cards")
	}
	raw := body["rawAnalysis"].(map[string]any)
	if len(data["insightCards"].([]any)) != len(raw["insights"].([]any)) {
		t.Error("fallback should carry one card per insight")
	}
}

func TestChat(t *testing.T) {
	t.Run("reply", func(t *testing.T) {
		s := newTestServer(t, &fakeCommentator{reply: "answer"}, 0)
		code, body := do(t, s, http.MethodPost, "/chat", `{"message": "hi", "context": {"summary": {"totalSavings": 5}}}`)
		if code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if body["response"] != "answer: hi" {
			t.Errorf("response = %v", body["response"])
		}
	})

	t.Run("missing message", func(t *testing.T) {
		s := newTestServer(t, &fakeCommentator{}, 0)
		code, _ := do(t, s, http.MethodPost, "/chat", `{"context": {}}`)
		if code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		s := newTestServer(t, &fakeCommentator{err: &commentary.UpstreamError{Status: 503}}, 0)
		code, body := do(t, s, http.MethodPost, "/chat", `{"message": "hi"}`)
		if code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", code)
		}
		if body["success"] != false || body["fallback"] != commentary.FallbackChat {
			t.Errorf("unexpected body: %v", body)
		}
	})
}

func TestTestAI(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{err: commentary.ErrNotConfigured}, 0)

	code, body := do(t, s, http.MethodGet, "/test-ai", "")
	if code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", code)
	}
	cfg := body["config"].(map[string]any)
	if cfg["model"] != "test-model" {
		t.Errorf("config.model = %v", cfg["model"])
	}
}

func TestTrendsRecord(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 0)

	code, _ := do(t, s, http.MethodPost, "/trends/record", `{"recordCount": 3}`)
	if code != http.StatusBadRequest {
		t.Errorf("missing analysisResults: status = %d, want 400", code)
	}

	result := analyzer.NewDefault().Analyze(ingest.SampleRecords())
	payload, err := json.Marshal(map[string]any{"analysisResults": result, "recordCount": 12})
	if err != nil {
		t.Fatal(err)
	}
	code, body := do(t, s, http.MethodPost, "/trends/record", string(payload))
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, body)
	}
	snap := body["trendData"].(map[string]any)
	if snap["recordsProcessed"].(float64) != 12 {
		t.Errorf("recordsProcessed = %v, want 12", snap["recordsProcessed"])
	}
	metrics := snap["metrics"].(map[string]any)
	if metrics["nonCompliantSpend"].(float64) != 0 {
		t.Errorf("nonCompliantSpend = %v, want 0 without batch data", metrics["nonCompliantSpend"])
	}

	_, trendsBody := do(t, s, http.MethodGet, "/trends?months=3", "")
	if got := len(trendsBody["trends"].([]any)); got != 1 {
		t.Errorf("trend snapshots = %d, want 1", got)
	}
}

func TestContractAlertLifecycle(t *testing.T) {
	fc := &fakeCommentator{contracts: []commentary.Contract{
		{Vendor: "Acme", ContractType: "annual_contract", RenewalDate: "2025-01-20", AnnualValue: 12000, Confidence: 0.8},
		{Vendor: "Beta", ContractType: "license_renewal", RenewalDate: "2025-04-15", AnnualValue: 5000, Confidence: 0.6},
		{Vendor: "Gamma", ContractType: "service_agreement", RenewalDate: "2026-01-01", AnnualValue: 1000, Confidence: 0.5},
	}}
	s := newTestServer(t, fc, 0)

	code, body := do(t, s, http.MethodPost, "/detect-contracts", sampleBody(t, ""))
	if code != http.StatusOK {
		t.Fatalf("detect status = %d, body = %v", code, body)
	}
	if body["contractsFound"].(float64) != 3 || body["activeAlerts"].(float64) != 2 {
		t.Fatalf("contractsFound = %v, activeAlerts = %v", body["contractsFound"], body["activeAlerts"])
	}

	code, body = do(t, s, http.MethodGet, "/contract-alerts", "")
	if code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	summary := body["summary"].(map[string]any)
	if summary["high"].(float64) != 1 || summary["low"].(float64) != 1 {
		t.Errorf("summary = %v, want 1 high and 1 low", summary)
	}
	list := body["alerts"].([]any)
	first := list[0].(map[string]any)
	second := list[1].(map[string]any)
	if first["vendor"] != "Acme" {
		t.Errorf("first alert vendor = %v, want soonest renewal Acme", first["vendor"])
	}

	code, body = do(t, s, http.MethodPost, "/contract-alerts/"+first["id"].(string)+"/dismiss", "")
	if code != http.StatusOK || body["message"] != "Alert dismissed successfully" {
		t.Errorf("dismiss: status = %d, body = %v", code, body)
	}

	code, body = do(t, s, http.MethodPost, "/contract-alerts/"+second["id"].(string)+"/snooze", "")
	if code != http.StatusOK || body["message"] != "Alert snoozed for 7 days" {
		t.Errorf("snooze: status = %d, body = %v", code, body)
	}

	_, body = do(t, s, http.MethodGet, "/contract-alerts", "")
	if body["alertCount"].(float64) != 0 {
		t.Errorf("alertCount = %v, want 0 after dismiss and snooze", body["alertCount"])
	}
}

func TestContractAlertErrors(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{}, 0)

	code, _ := do(t, s, http.MethodPost, "/contract-alerts/missing/dismiss", "")
	if code != http.StatusNotFound {
		t.Errorf("dismiss unknown: status = %d, want 404", code)
	}

	code, _ = do(t, s, http.MethodPost, "/contract-alerts/missing/snooze", `{"days": 0}`)
	if code != http.StatusBadRequest {
		t.Errorf("snooze zero days: status = %d, want 400", code)
	}

	code, _ = do(t, s, http.MethodPost, "/contract-alerts/missing/snooze", `{"days": 3}`)
	if code != http.StatusNotFound {
		t.Errorf("snooze unknown: status = %d, want 404", code)
	}
}

func TestDetectContracts_CommentaryFailure(t *testing.T) {
	s := newTestServer(t, &fakeCommentator{err: commentary.ErrNotConfigured}, 0)

	code, body := do(t, s, http.MethodPost, "/detect-contracts", sampleBody(t, ""))
	if code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", code)
	}
	if body["error"] != "Contract detection failed" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestCommentaryStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{commentary.ErrNotConfigured, http.StatusServiceUnavailable},
		{&commentary.UpstreamError{Status: 401}, http.StatusBadGateway},
		{commentary.ErrEmptyResponse, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := commentaryStatus(tt.err); got != tt.want {
			t.Errorf("commentaryStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
