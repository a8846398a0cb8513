package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finadvisor/internal/cache"
	"finadvisor/internal/config"
	"finadvisor/internal/log"
	"finadvisor/internal/services"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:               "8081",
		APIPrefix:          "/api/v1",
		MaxRequestBytes:    1 << 20,
		MaxUploadBytes:     10 << 20,
		RateLimitPerMinute: 1000,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	planner := services.NewPlannerService(cache.NewLRUCache[string](100, time.Minute), nil)
	logger := log.New(log.DefaultConfig())
	s := NewServer(cfg, planner, logger)
	t.Cleanup(func() { s.limiter.Stop() })
	return s
}

func doJSON(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(s, http.MethodGet, "/health", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestDebtPlan(t *testing.T) {
	s := newTestServer(t, nil)

	body := `{
		"debts": [
			{"name": "Card A", "balance": 5000, "apr": 22, "minimum_payment": 100},
			{"name": "Card B", "balance": 2000, "apr": 15, "minimum_payment": 50}
		],
		"extra_payment": 150,
		"strategy": "avalanche"
	}`

	rec := doJSON(s, http.MethodPost, "/api/v1/debt/plan", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}

	var result struct {
		Summary struct {
			StrategyUsed string `json:"strategy_used"`
			DebtCount    int    `json:"debt_count"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Summary.StrategyUsed != "avalanche" {
		t.Errorf("strategy = %q, want avalanche", result.Summary.StrategyUsed)
	}
	if result.Summary.DebtCount != 2 {
		t.Errorf("debt count = %d, want 2", result.Summary.DebtCount)
	}

	// Identical request is served from cache.
	rec = doJSON(s, http.MethodPost, "/api/v1/debt/plan", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("repeat X-Cache = %q, want HIT", got)
	}
}

func TestDebtPlan_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid JSON", `{"debts": [`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"unknown strategy", `{"debts": [], "strategy": "yolo"}`, http.StatusBadRequest},
		{"missing strategy", `{"debts": []}`, http.StatusBadRequest},
		{"trailing data", `{"debts": [], "strategy": "snowball"} {}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(s, http.MethodPost, "/api/v1/debt/plan", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal error body: %v", err)
			}
			if resp.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestDebtPlan_StrategyNormalization(t *testing.T) {
	s := newTestServer(t, nil)

	body := `{
		"debts": [{"name": "Card", "balance": 1000, "apr": 20, "minimum_payment": 50}],
		"strategy": "  Snowball "
	}`
	rec := doJSON(s, http.MethodPost, "/api/v1/debt/plan", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Summary struct {
			StrategyUsed string `json:"strategy_used"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Summary.StrategyUsed != "snowball" {
		t.Errorf("strategy = %q, want snowball", result.Summary.StrategyUsed)
	}
}

func TestGoalPlan(t *testing.T) {
	s := newTestServer(t, nil)

	body := `{
		"goals": [{"name": "Emergency Fund", "target_amount": 12000, "timeline_months": 12, "priority": 1}],
		"monthly_income": 5000,
		"monthly_expenses": 3000
	}`

	rec := doJSON(s, http.MethodPost, "/api/v1/goals/plan", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var result struct {
		GoalAnalysis struct {
			TotalGoals int `json:"total_goals"`
		} `json:"goal_analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.GoalAnalysis.TotalGoals != 1 {
		t.Errorf("total goals = %d, want 1", result.GoalAnalysis.TotalGoals)
	}
}

func TestGoalPlan_InvalidIncome(t *testing.T) {
	s := newTestServer(t, nil)

	body := `{"goals": [], "monthly_income": 0, "monthly_expenses": 100}`
	rec := doJSON(s, http.MethodPost, "/api/v1/goals/plan", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetAnalyze(t *testing.T) {
	s := newTestServer(t, nil)

	body := `{
		"transactions": [
			{"date": "2026-06-01", "description": "Rent payment", "amount": 1200},
			{"date": "2026-06-03", "description": "Whole Foods Market", "amount": 150},
			{"date": "not-a-date", "description": "Mystery", "amount": 10}
		]
	}`

	rec := doJSON(s, http.MethodPost, "/api/v1/budget/analyze", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Summary struct {
			TotalSpending float64 `json:"total_spending"`
		} `json:"summary"`
		SkippedRecords []struct {
			Reason string `json:"reason"`
		} `json:"skipped_records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Summary.TotalSpending != 1350 {
		t.Errorf("total spending = %v, want 1350", result.Summary.TotalSpending)
	}
	if len(result.SkippedRecords) != 1 {
		t.Errorf("skipped records = %d, want 1 (row with bad date)", len(result.SkippedRecords))
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(s, http.MethodGet, "/api/v1/debt/plan", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(s, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRequestBodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRequestBytes = 64
	s := newTestServer(t, cfg)

	body := fmt.Sprintf(`{"debts": [], "strategy": "avalanche", "pad": %q}`, strings.Repeat("x", 200))
	rec := doJSON(s, http.MethodPost, "/api/v1/debt/plan", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2
	s := newTestServer(t, cfg)

	body := `{"debts": [], "strategy": "avalanche"}`
	for i := 0; i < 2; i++ {
		if rec := doJSON(s, http.MethodPost, "/api/v1/debt/plan", body); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := doJSON(s, http.MethodPost, "/api/v1/debt/plan", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
}

func TestRateLimit_DoesNotCoverHealth(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 1
	s := newTestServer(t, cfg)

	for i := 0; i < 5; i++ {
		if rec := doJSON(s, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
			t.Fatalf("health request %d status = %d, want 200", i+1, rec.Code)
		}
	}
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/transactions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadTransactions(t *testing.T) {
	s := newTestServer(t, nil)

	csv := "date,description,amount\n" +
		"2026-06-01,Rent payment,1200\n" +
		"2026-06-02,Starbucks Coffee,8.50\n" +
		"bad-date,Mystery,10\n"

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, uploadRequest(t, "statement.csv", csv))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Summary struct {
			TotalSpending float64 `json:"total_spending"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Summary.TotalSpending != 1208.5 {
		t.Errorf("total spending = %v, want 1208.5", result.Summary.TotalSpending)
	}
}

func TestUploadTransactions_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name     string
		filename string
		content  string
		wantMsg  string
	}{
		{"wrong extension", "statement.xlsx", "date,description,amount\n2026-06-01,Rent,100\n", "only CSV files are supported"},
		{"missing columns", "statement.csv", "when,what,much\n2026-06-01,Rent,100\n", "csv must contain columns"},
		{"no valid rows", "statement.csv", "date,description,amount\nbad,Rent,oops\n", "no valid transactions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler.ServeHTTP(rec, uploadRequest(t, tt.filename, tt.content))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal error body: %v", err)
			}
			if !strings.Contains(resp.Error, tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", resp.Error, tt.wantMsg)
			}
		})
	}
}

func TestUploadTransactions_MissingFile(t *testing.T) {
	s := newTestServer(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("note", "no file here")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/transactions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
