package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"kiln-shell-audit/internal/analysis"
	"kiln-shell-audit/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Server represents the API server
type Server struct {
	runs   *runStore
	router *mux.Router
}

// NewServer creates a new API server
func NewServer() *Server {
	s := &Server{
		runs:   newRunStore(),
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Analysis endpoints
	s.router.HandleFunc("/api/v1/analyze", s.handleAnalyze).Methods("POST")
	s.router.HandleFunc("/api/v1/runs", s.handleListRuns).Methods("GET")
	s.router.HandleFunc("/api/v1/runs/{id}", s.handleGetRun).Methods("GET")
	s.router.HandleFunc("/api/v1/runs/{id}/export", s.handleExportRun).Methods("GET")

	// Policy constants
	s.router.HandleFunc("/api/v1/constants", s.handleConstants).Methods("GET")

	s.router.Use(jsonMiddleware)
}

// Router returns the configured router
func (s *Server) Router() *mux.Router {
	return s.router
}

// Handler wraps the router with request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	return handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(s.router))
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// runStore keeps completed analysis runs for the lifetime of the process.
// Nothing is written to disk; restarting the server forgets all runs.
type runStore struct {
	mu   sync.RWMutex
	runs map[string]*storedRun
}

type storedRun struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Result    *models.AnalysisResult `json:"result"`
}

func newRunStore() *runStore {
	return &runStore{runs: make(map[string]*storedRun)}
}

func (st *runStore) add(res *models.AnalysisResult) *storedRun {
	run := &storedRun{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Result:    res,
	}
	st.mu.Lock()
	st.runs[run.ID] = run
	st.mu.Unlock()
	return run
}

func (st *runStore) get(id string) (*storedRun, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	run, ok := st.runs[id]
	return run, ok
}

func (st *runStore) list() []*storedRun {
	st.mu.RLock()
	defer st.mu.RUnlock()
	runs := make([]*storedRun, 0, len(st.runs))
	for _, run := range st.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.Before(runs[j].CreatedAt) })
	return runs
}

// Response helpers
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *meta       `json:"meta,omitempty"`
}

type meta struct {
	Total   int   `json:"total,omitempty"`
	QueryMs int64 `json:"query_ms,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Error: message})
}

func respondWithMeta(w http.ResponseWriter, data interface{}, m *meta) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data, Meta: m})
}

// analyzeRequest is the POST /api/v1/analyze body: validated-elsewhere kiln
// parameters plus the raw reading matrix (rows = locations, columns =
// repeat sensor passes).
type analyzeRequest struct {
	Config   models.KilnParams `json:"config"`
	Readings [][]float64       `json:"readings"`
}

// runInfo is the list-view projection of a stored run.
type runInfo struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Summary   models.Summary `json:"summary"`
}

// Handlers
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res, err := analysis.Run(req.Config, req.Readings)
	if err != nil {
		var cfgErr *models.ConfigError
		var domErr *models.DomainError
		switch {
		case errors.As(err, &cfgErr):
			respondError(w, http.StatusBadRequest, cfgErr.Error())
		case errors.As(err, &domErr):
			respondError(w, http.StatusUnprocessableEntity, domErr.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	run := s.runs.add(res)
	queryMs := time.Since(start).Milliseconds()
	respondWithMeta(w, run, &meta{QueryMs: queryMs})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs := s.runs.list()
	infos := make([]runInfo, len(runs))
	for i, run := range runs {
		infos[i] = runInfo{ID: run.ID, CreatedAt: run.CreatedAt, Summary: run.Result.Summary}
	}
	respondWithMeta(w, infos, &meta{Total: len(infos)})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	run, ok := s.runs.get(vars["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// handleExportRun streams the pre-repair calculation table as a CSV
// download, one row per kiln location.
func (s *Server) handleExportRun(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	run, ok := s.runs.get(vars["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="calculations-%s.csv"`, run.ID))

	writer := csv.NewWriter(w)
	writer.Write([]string{"length_m", "temp_k", "radiation_per_kg", "convection_per_kg", "total_per_kg"})
	for _, row := range analysis.ExportRows(run.Result) {
		writer.Write([]string{
			strconv.FormatFloat(row.LengthM, 'f', -1, 64),
			strconv.FormatFloat(row.TempK, 'f', -1, 64),
			strconv.FormatFloat(row.RadiationPerKg, 'f', -1, 64),
			strconv.FormatFloat(row.ConvectionPerKg, 'f', -1, 64),
			strconv.FormatFloat(row.TotalPerKg, 'f', -1, 64),
		})
	}
	writer.Flush()
}

func (s *Server) handleConstants(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, analysis.DefaultRepairConstants())
}
