package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

const maxRequestBytes = 1 << 20

// Handler returns the daemon's HTTP routes.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/v1/plan/{kind}", s.handlePlan).Methods(http.MethodGet)
	r.HandleFunc("/v1/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/v1/stream", s.handleStream).Methods(http.MethodGet)

	sim := r.PathPrefix("/v1/simulate").Subrouter()
	sim.Use(RateLimitMiddleware(s.limiter))
	sim.HandleFunc("/debt", s.handleSimulateDebt).Methods(http.MethodPost)
	sim.HandleFunc("/fire", s.handleSimulateFIRE).Methods(http.MethodPost)
	return r
}

// DebtRequest is the body of POST /v1/simulate/debt.
type DebtRequest struct {
	Liabilities         []model.Liability `json:"liabilities"`
	ExtraMonthlyPayment float64           `json:"extraMonthlyPayment"`

	// Strategy is avalanche, snowball or compare (the default).
	Strategy   string `json:"strategy,omitempty"`
	// StartMonth is YYYY-MM and defaults to the current month.
	StartMonth string `json:"startMonth,omitempty"`
}

// FIRERequest is the body of POST /v1/simulate/fire.
type FIRERequest struct {
	Inputs         model.FIREInputs `json:"inputs"`
	MonthlySavings float64          `json:"monthlySavings"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handlePlan(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]

	s.mu.RLock()
	plan := s.plan
	s.mu.RUnlock()
	if plan == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("plan not computed yet"))
		return
	}

	var (
		section any
		err     error
	)
	switch kind {
	case "debt":
		section, err = plan.Debt, plan.DebtErr
	case "fire":
		section, err = plan.FIRE, plan.FIREErr
	case "cashflow":
		section, err = plan.CashFlow, plan.CashFlowErr
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown plan kind %q", kind))
		return
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (s *Service) handleSimulateDebt(w http.ResponseWriter, r *http.Request) {
	var req DebtRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	start := time.Now()
	if req.StartMonth != "" {
		t, err := time.ParseInLocation("2006-01", req.StartMonth, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, &forecast.ValidationError{Field: "startMonth", Reason: "must be YYYY-MM"})
			return
		}
		start = t
	}
	strategy := strings.ToLower(strings.TrimSpace(req.Strategy))
	req.Strategy = strategy
	req.StartMonth = start.Format("2006-01")

	s.cachedSimulation(w, r, "debt", req, func() (any, error) {
		if strategy == "" || strategy == "compare" {
			return forecast.Compare(req.Liabilities, req.ExtraMonthlyPayment, start)
		}
		policy, err := forecast.ParsePolicy(strategy)
		if err != nil {
			return nil, err
		}
		return forecast.Simulate(req.Liabilities, req.ExtraMonthlyPayment, policy, start)
	})
}

func (s *Service) handleSimulateFIRE(w http.ResponseWriter, r *http.Request) {
	var req FIRERequest
	if !decodeRequest(w, r, &req) {
		return
	}
	s.cachedSimulation(w, r, "fire", req, func() (any, error) {
		return forecast.CalculateFIRE(req.Inputs, req.MonthlySavings)
	})
}

// cachedSimulation serves a simulation result keyed by the normalized
// request, computing and caching it on a miss.
func (s *Service) cachedSimulation(w http.ResponseWriter, r *http.Request, kind string, req any, run func() (any, error)) {
	body, err := json.Marshal(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	key := simulationKey(kind, body)

	if cached, ok := s.cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write([]byte(cached))
		return
	}

	result, err := run()
	if err != nil {
		status := http.StatusInternalServerError
		if forecast.IsValidation(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.cache.Set(r.Context(), key, string(data)); err != nil {
		s.log.WithError(err).WithField("kind", kind).Warn("caching simulation")
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(append(data, '\n'))
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var ve *forecast.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	writeJSON(w, status, resp)
}

// planKey namespaces published plan sections by ledger so daemons sharing
// one Redis never overwrite each other.
func planKey(ledgerDir, kind string) string {
	if abs, err := filepath.Abs(ledgerDir); err == nil {
		ledgerDir = abs
	}
	return "fcast:plan:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(ledgerDir)).String() + ":" + kind
}

// simulationKey derives a stable cache key from the normalized request body.
func simulationKey(kind string, body []byte) string {
	return "fcast:sim:" + kind + ":" + uuid.NewSHA1(uuid.NameSpaceURL, body).String()
}
