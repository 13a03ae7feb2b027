package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kiln-shell-audit/internal/models"
)

func scenarioRequest() analyzeRequest {
	return analyzeRequest{
		Config: models.KilnParams{
			DiameterM:        4.75,
			AmbientVelocity:  1,
			AmbientTemp:      302,
			TempUnit:         models.UnitKelvin,
			Emissivity:       0.77,
			IntervalM:        1,
			ClinkerKgPerHour: 290000,
		},
		Readings: [][]float64{{400}, {405}, {410}, {500}, {415}},
	}
}

func postAnalyze(t *testing.T, s *Server, req analyzeRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(body)))
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	s := NewServer()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAnalyzeAndFetchRun(t *testing.T) {
	s := NewServer()

	rec := postAnalyze(t, s, scenarioRequest())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}

	var run storedRun
	raw, _ := json.Marshal(resp.Data)
	if err := json.Unmarshal(raw, &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected a run ID")
	}
	if len(run.Result.Outliers.High) != 1 || run.Result.Outliers.High[0] != 3 {
		t.Errorf("expected high outlier at index 3, got %v", run.Result.Outliers.High)
	}

	// Fetch it back.
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs/"+run.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET run: expected 200, got %d", rec.Code)
	}

	// And it appears in the list.
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs", nil))
	resp = decodeResponse(t, rec)
	if resp.Meta == nil || resp.Meta.Total != 1 {
		t.Errorf("expected one run in the list, got %+v", resp.Meta)
	}
}

func TestAnalyzeInvalidConfig(t *testing.T) {
	s := NewServer()
	req := scenarioRequest()
	req.Config.Emissivity = 2

	rec := postAnalyze(t, s, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid config, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || !strings.Contains(resp.Error, "emissivity") {
		t.Errorf("expected emissivity error, got %q", resp.Error)
	}
}

func TestAnalyzeDomainError(t *testing.T) {
	s := NewServer()
	req := scenarioRequest()
	// A reading below ambient under natural convection has no real-valued loss.
	req.Readings = [][]float64{{400}, {290}}

	rec := postAnalyze(t, s, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for domain error, got %d", rec.Code)
	}
}

func TestAnalyzeBadJSON(t *testing.T) {
	s := NewServer()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetUnknownRun(t *testing.T) {
	s := NewServer()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs/does-not-exist", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestExportRunCSV(t *testing.T) {
	s := NewServer()

	rec := postAnalyze(t, s, scenarioRequest())
	resp := decodeResponse(t, rec)
	var run storedRun
	raw, _ := json.Marshal(resp.Data)
	if err := json.Unmarshal(raw, &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs/"+run.ID+"/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 6 { // header + 5 locations
		t.Fatalf("expected 6 CSV lines, got %d", len(lines))
	}
	if lines[0] != "length_m,temp_k,radiation_per_kg,convection_per_kg,total_per_kg" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	// Export is the pre-repair table: the damaged location keeps 500K.
	if !strings.HasPrefix(lines[4], "4,500,") {
		t.Errorf("expected original temperature in row 4, got %q", lines[4])
	}
}

func TestConstants(t *testing.T) {
	s := NewServer()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/constants", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	raw, _ := json.Marshal(resp.Data)
	var consts map[string]float64
	if err := json.Unmarshal(raw, &consts); err != nil {
		t.Fatalf("decode constants: %v", err)
	}
	if consts["working_days_per_year"] != 330 || consts["brick_cost_rupees"] != 100 {
		t.Errorf("unexpected constants: %v", consts)
	}
}
