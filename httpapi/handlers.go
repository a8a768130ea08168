// Package httpapi exposes the sandbox service's HTTP surface: the health
// check, Prometheus scrape endpoint, and the execution endpoint, built as
// chi handlers over orchestrator.Orchestrator.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cretz/sandboxd/orchestrator"
	"github.com/cretz/sandboxd/runtime"
)

// Server holds the dependencies behind the HTTP handlers.
type Server struct {
	orch     *orchestrator.Orchestrator
	registry *runtime.Registry
}

// NewServer builds a Server; Router builds its chi router.
func NewServer(orch *orchestrator.Orchestrator, reg *runtime.Registry) *Server {
	return &Server{orch: orch, registry: reg}
}

// Router builds the chi.Mux for this Server with a standard
// request-ID/real-IP/logging/recovery middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/v1/sandbox/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/sandbox/run", s.handleRun)
	return r
}

type healthResponse struct {
	Status   string                 `json:"status"`
	Runtimes map[string]runtimeInfo `json:"runtimes"`
}

type runtimeInfo struct {
	Command         string   `json:"command"`
	Enabled         bool     `json:"enabled"`
	AllowedPackages []string `json:"allowed_packages"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	runtimes := make(map[string]runtimeInfo)
	for name, d := range s.registry.All() {
		allowed := make([]string, 0, len(d.AllowedModules))
		for pkg := range d.AllowedModules {
			allowed = append(allowed, pkg)
		}
		sort.Strings(allowed)
		runtimes[name] = runtimeInfo{Command: d.Command, Enabled: d.Enabled, AllowedPackages: allowed}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Runtimes: runtimes})
}

type runRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Obj      string `json:"obj,omitempty"`
}

type envelope struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Data    envelopeData `json:"data"`
}

type envelopeData struct {
	Stdout string `json:"stdout"`
	Error  string `json:"error"`
}

type tooManyRequestsBody struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, envelope{
			Code:    400,
			Message: "bad request",
			Data:    envelopeData{Error: "Malformed request body"},
		})
		return
	}

	result, err := s.orch.Run(r.Context(), orchestrator.Submission{
		Language: req.Language,
		Code:     req.Code,
		Obj:      req.Obj,
	})
	if err != nil {
		if err == orchestrator.ErrQueueFull {
			writeJSON(w, http.StatusTooManyRequests, tooManyRequestsBody{Detail: "Too Many Requests: Queue Full"})
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			Code:    500,
			Message: "internal error",
			Data:    envelopeData{Error: err.Error()},
		})
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Code:    int(result.Code),
		Message: result.Message,
		Data:    envelopeData{Stdout: result.Stdout, Error: result.Error},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
