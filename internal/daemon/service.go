// Package daemon provides the long-running plan recompute service and its
// HTTP API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/pipeline"
	"github.com/theirongolddev/fcast/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	LedgerDir    string
	UseCache     bool
	Schedule     string // robfig/cron spec
	Addr         string
	EventsBuffer int
	Plan         pipeline.PlanOptions

	// RedisAddr selects the Redis result cache. Empty keeps results in memory.
	RedisAddr string

	RateLimitBurst  int
	RateLimitWindow time.Duration

	Logger *logrus.Logger
}

// Snapshot is a compact plan state for status/event payloads.
type Snapshot struct {
	At             time.Time `json:"at"`
	Records        int       `json:"records"`
	Liabilities    int       `json:"liabilities"`
	TotalDebt      float64   `json:"total_debt"`
	DebtFreeDate   time.Time `json:"debt_free_date"`
	DebtFreeMonths int       `json:"debt_free_months"`
	FIRENumber     float64   `json:"fire_number"`
	FIREProgress   float64   `json:"fire_progress"`
	YearsToFIRE    float64   `json:"years_to_fire"`
	MonthlyNet     float64   `json:"monthly_net"`
	YearEndBalance float64   `json:"year_end_balance"`
}

// Delta captures snapshot deltas between recomputes.
type Delta struct {
	Records        int     `json:"records"`
	TotalDebt      float64 `json:"total_debt"`
	FIREProgress   float64 `json:"fire_progress"`
	YearEndBalance float64 `json:"year_end_balance"`
}

func (d Delta) isZero() bool {
	return d.Records == 0 &&
		d.TotalDebt == 0 &&
		d.FIREProgress == 0 &&
		d.YearEndBalance == 0
}

// Event is emitted whenever the plan snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastRunAt       time.Time `json:"last_run_at"`
	Schedule        string    `json:"schedule"`
	RunCount        int64     `json:"run_count"`
	LedgerDir       string    `json:"ledger_dir"`
	Cache           string    `json:"cache"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	log     *logrus.Logger
	cache   ResultCache
	limiter *RateLimiter

	mu          sync.RWMutex
	startedAt   time.Time
	lastRunAt   time.Time
	runCount    int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	plan        *pipeline.Plan
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 15m"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.RateLimitBurst < 1 {
		cfg.RateLimitBurst = 20
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return &Service{
		cfg:       cfg,
		log:       logger,
		cache:     NewResultCache(cfg.RedisAddr, logger),
		limiter:   NewRateLimiter(cfg.RateLimitBurst, cfg.RateLimitWindow),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and the recompute schedule until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	defer s.Close()

	sched := cron.New()
	if _, err := sched.AddFunc(s.cfg.Schedule, s.recompute); err != nil {
		return fmt.Errorf("daemon schedule %q: %w", s.cfg.Schedule, err)
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial plan so status is useful immediately.
	s.recompute()

	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	s.log.WithFields(logrus.Fields{
		"addr":     s.cfg.Addr,
		"schedule": s.cfg.Schedule,
		"ledger":   s.cfg.LedgerDir,
		"cache":    s.cache.Name(),
	}).Info("daemon started")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// Close releases the rate limiter and result cache.
func (s *Service) Close() {
	s.limiter.Stop()
	if err := s.cache.Close(); err != nil {
		s.log.WithError(err).Warn("closing result cache")
	}
}

func (s *Service) recompute() {
	start := time.Now()
	led, err := s.loadLedger()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastRunAt = time.Now()
		s.runCount++
		s.mu.Unlock()
		s.log.WithError(err).Error("ledger load failed")
		return
	}

	opts := s.cfg.Plan
	now := time.Now()
	if opts.AsOf.IsZero() {
		opts.AsOf = now
	}
	plan := pipeline.BuildPlan(led, opts)
	snap := snapshotFromPlan(plan, led, now)

	s.storePlan(context.Background(), plan)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.plan = &plan
	s.lastRunAt = now
	s.runCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "plan_delta",
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}

	entry := s.log.WithFields(logrus.Fields{
		"records":     snap.Records,
		"duration_ms": time.Since(start).Milliseconds(),
		"published":   publish,
	})
	if plan.CashFlowErr != nil {
		entry = entry.WithField("cashflow_error", plan.CashFlowErr.Error())
	}
	entry.Debug("plan recomputed")
}

func (s *Service) loadLedger() (model.Ledger, error) {
	if s.cfg.UseCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			cr, loadErr := pipeline.LoadWithCache(s.cfg.LedgerDir, cache, nil)
			if loadErr == nil {
				return cr.Ledger, nil
			}
			s.log.WithError(loadErr).Warn("cached load failed, reparsing")
		}
	}

	result, err := pipeline.Load(s.cfg.LedgerDir, nil)
	if err != nil {
		return model.Ledger{}, err
	}
	return result.Ledger, nil
}

// storePlan publishes each computed plan section to the result cache under
// this ledger's namespace.
func (s *Service) storePlan(ctx context.Context, p pipeline.Plan) {
	sections := map[string]struct {
		v   any
		err error
	}{
		"debt":     {p.Debt, p.DebtErr},
		"fire":     {p.FIRE, p.FIREErr},
		"cashflow": {p.CashFlow, p.CashFlowErr},
	}
	for kind, sec := range sections {
		if sec.err != nil {
			continue
		}
		data, err := json.Marshal(sec.v)
		if err != nil {
			continue
		}
		if err := s.cache.Set(ctx, planKey(s.cfg.LedgerDir, kind), string(data)); err != nil {
			s.log.WithError(err).WithField("kind", kind).Warn("caching plan section")
		}
	}
}

func snapshotFromPlan(p pipeline.Plan, led model.Ledger, at time.Time) Snapshot {
	best := p.Debt.RecommendedStrategy()
	return Snapshot{
		At:             at,
		Records:        led.Len(),
		Liabilities:    len(led.Liabilities),
		TotalDebt:      p.Summary.TotalDebt,
		DebtFreeDate:   best.DebtFreeDate,
		DebtFreeMonths: best.TotalMonths,
		FIRENumber:     p.FIRE.FIRENumber,
		FIREProgress:   p.FIRE.ProgressPercentage,
		YearsToFIRE:    p.FIRE.YearsToFIRE,
		MonthlyNet:     p.Summary.IncomePerMonth - p.Summary.ExpensesPerMonth,
		YearEndBalance: p.CashFlow.Insights.EndOfYearBalance,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Records:        curr.Records - prev.Records,
		TotalDebt:      curr.TotalDebt - prev.TotalDebt,
		FIREProgress:   curr.FIREProgress - prev.FIREProgress,
		YearEndBalance: curr.YearEndBalance - prev.YearEndBalance,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastRunAt:       s.lastRunAt,
		Schedule:        s.cfg.Schedule,
		RunCount:        s.runCount,
		LedgerDir:       s.cfg.LedgerDir,
		Cache:           s.cache.Name(),
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
