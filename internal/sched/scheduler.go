// Package sched coordinates the dashboard's refresh jobs around the
// shared current symbol. Each job is an independently failing unit: a
// failed run is reported on the results channel (and logged), never
// propagated, and never stops the job's timer.
package sched

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Job names one refresh unit.
type Job string

const (
	JobTicker   Job = "ticker"
	JobNews     Job = "news"
	JobInsights Job = "insights"
	JobMovers   Job = "movers"
	JobCalendar Job = "calendar"
	JobMacro    Job = "macro"
)

// RunFunc performs one fetch for a job. Symbol is the current symbol
// captured at invocation time ("" for global jobs).
type RunFunc func(ctx context.Context, symbol string) (any, error)

// Result is one completed job run. Symbol is the symbol the run was
// invoked with, so renders for superseded symbols can be discarded.
type Result struct {
	Job    Job
	Symbol string
	Data   any
	Err    error
}

// Ok reports whether the run produced data.
func (r Result) Ok() bool { return r.Err == nil }

// Config holds scheduler settings.
type Config struct {
	// Intervals arms a recurring timer per job; jobs without an entry
	// run only when triggered.
	Intervals map[Job]time.Duration
	// ResultBuffer is the capacity of the results channel. Results are
	// dropped (and logged) when the consumer falls behind.
	ResultBuffer int
}

func (c Config) withDefaults() Config {
	if c.ResultBuffer <= 0 {
		c.ResultBuffer = 64
	}
	return c
}

type registration struct {
	fn    RunFunc
	bound bool // true when the job is scoped to the current symbol
}

// Scheduler owns the current symbol, the per-job timers, and the
// results channel consumed by the UI.
type Scheduler struct {
	cfg      Config
	onSelect func(symbol string)

	mu     sync.RWMutex
	symbol string
	jobs   map[Job]registration

	results chan Result

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a scheduler. onSelect runs synchronously inside
// SelectSymbol, before any fetch is triggered — it is where the chart
// retarget and label updates happen (may be nil).
func New(cfg Config, onSelect func(symbol string)) *Scheduler {
	if onSelect == nil {
		onSelect = func(string) {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cfg = cfg.withDefaults()
	return &Scheduler{
		cfg:      cfg,
		onSelect: onSelect,
		jobs:     make(map[Job]registration),
		results:  make(chan Result, cfg.ResultBuffer),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Register adds a job. bound jobs capture the current symbol on each
// invocation and have stale results discarded at delivery.
func (s *Scheduler) Register(job Job, bound bool, fn RunFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job] = registration{fn: fn, bound: bound}
}

// Results is the channel of completed runs.
func (s *Scheduler) Results() <-chan Result { return s.results }

// CurrentSymbol returns the shared current symbol.
func (s *Scheduler) CurrentSymbol() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.symbol
}

// SelectSymbol is the single entry point for all symbol changes. It
// normalizes and stores the symbol, runs onSelect synchronously, then
// triggers the news and insights jobs for the new symbol.
func (s *Scheduler) SelectSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return s.CurrentSymbol()
	}
	s.mu.Lock()
	s.symbol = symbol
	s.mu.Unlock()

	s.onSelect(symbol)

	s.Trigger(JobNews)
	s.Trigger(JobInsights)
	return symbol
}

// Trigger runs a job once, asynchronously.
func (s *Scheduler) Trigger(job Job) {
	s.mu.RLock()
	reg, ok := s.jobs[job]
	s.mu.RUnlock()
	if !ok {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(job, reg)
	}()
}

// Start runs every registered job once, then arms the recurring
// timers. Timers are never reset on symbol change; each firing reads
// the symbol current at that moment.
func (s *Scheduler) Start() {
	s.mu.RLock()
	jobs := make(map[Job]registration, len(s.jobs))
	for j, r := range s.jobs {
		jobs[j] = r
	}
	s.mu.RUnlock()

	for job, reg := range jobs {
		s.wg.Add(1)
		go func(job Job, reg registration) {
			defer s.wg.Done()
			s.run(job, reg)
		}(job, reg)

		interval, ok := s.cfg.Intervals[job]
		if !ok || interval <= 0 {
			continue
		}
		s.wg.Add(1)
		go func(job Job, reg registration, interval time.Duration) {
			defer s.wg.Done()
			t := time.NewTicker(interval)
			defer t.Stop()
			for {
				select {
				case <-s.ctx.Done():
					return
				case <-t.C:
					s.run(job, reg)
				}
			}
		}(job, reg, interval)
	}
}

// run executes one invocation, capturing the symbol it was invoked
// with. Failures are logged and delivered as error results; they never
// escape, so one bad run cannot take down a timer loop.
func (s *Scheduler) run(job Job, reg registration) {
	symbol := ""
	if reg.bound {
		symbol = s.CurrentSymbol()
	}

	data, err := reg.fn(s.ctx, symbol)
	if err != nil {
		slog.Warn("refresh failed", "job", string(job), "symbol", symbol, "err", err)
	}
	s.deliver(Result{Job: job, Symbol: symbol, Data: data, Err: err})
}

// deliver hands a result to the UI. A bound result whose symbol no
// longer matches the current one is discarded: a slow fetch for a
// superseded symbol must not overwrite the newer panel content.
func (s *Scheduler) deliver(r Result) {
	if r.Symbol != "" && r.Symbol != s.CurrentSymbol() {
		slog.Debug("stale result discarded", "job", string(r.Job), "symbol", r.Symbol)
		return
	}
	select {
	case s.results <- r:
	case <-s.ctx.Done():
	default:
		slog.Warn("result dropped, consumer behind", "job", string(r.Job))
	}
}

// Close stops the timers and waits for in-flight runs.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
	})
	s.wg.Wait()
}
