package sched

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func collect(t *testing.T, s *Scheduler, job Job) Result {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case r := <-s.Results():
			if job == "" || r.Job == job {
				return r
			}
		case <-deadline:
			t.Fatalf("no %s result arrived", job)
		}
	}
}

func TestSelectSymbolNormalizesAndTriggers(t *testing.T) {
	var selected atomic.Value
	s := New(Config{}, func(sym string) { selected.Store(sym) })
	defer s.Close()

	s.Register(JobNews, true, func(_ context.Context, symbol string) (any, error) {
		return "news:" + symbol, nil
	})
	s.Register(JobInsights, true, func(_ context.Context, symbol string) (any, error) {
		return "insights:" + symbol, nil
	})

	if got := s.SelectSymbol("  aapl "); got != "AAPL" {
		t.Fatalf("expected AAPL, got %q", got)
	}
	if selected.Load() != "AAPL" {
		t.Errorf("onSelect saw %v, want AAPL", selected.Load())
	}

	seen := map[Job]bool{}
	for len(seen) < 2 {
		r := collect(t, s, "")
		seen[r.Job] = true
		if r.Symbol != "AAPL" {
			t.Errorf("%s result bound to %q, want AAPL", r.Job, r.Symbol)
		}
	}
	if !seen[JobNews] || !seen[JobInsights] {
		t.Errorf("expected news and insights triggered, got %v", seen)
	}
}

func TestSelectSymbolEmptyIsNoop(t *testing.T) {
	s := New(Config{}, nil)
	defer s.Close()

	s.SelectSymbol("MSFT")
	if got := s.SelectSymbol("   "); got != "MSFT" {
		t.Errorf("blank select should keep MSFT, got %q", got)
	}
}

func TestFailureIsIsolated(t *testing.T) {
	s := New(Config{}, nil)
	defer s.Close()

	s.Register(JobMovers, false, func(context.Context, string) (any, error) {
		return nil, errors.New("upstream down")
	})
	s.Trigger(JobMovers)

	r := collect(t, s, JobMovers)
	if r.Ok() {
		t.Fatal("expected an error result")
	}
	// the job stays registered and runnable after a failure
	s.Register(JobMovers, false, func(context.Context, string) (any, error) {
		return "recovered", nil
	})
	s.Trigger(JobMovers)
	r = collect(t, s, JobMovers)
	if !r.Ok() || r.Data != "recovered" {
		t.Errorf("expected recovery run, got %+v", r)
	}
}

func TestStaleBoundResultDiscarded(t *testing.T) {
	s := New(Config{}, nil)
	defer s.Close()

	release := make(chan struct{})
	s.Register(JobNews, true, func(_ context.Context, symbol string) (any, error) {
		if symbol == "AAPL" {
			<-release // slow fetch for the first symbol
		}
		return symbol, nil
	})
	s.Register(JobInsights, true, func(_ context.Context, symbol string) (any, error) {
		return symbol, nil
	})

	s.SelectSymbol("AAPL")
	s.SelectSymbol("MSFT")
	close(release)

	// every delivered news result must carry the surviving symbol
	deadline := time.After(2 * time.Second)
	got := 0
	for got < 1 {
		select {
		case r := <-s.Results():
			if r.Job != JobNews {
				continue
			}
			if r.Symbol != "MSFT" {
				t.Fatalf("stale %q news result leaked through", r.Symbol)
			}
			got++
		case <-deadline:
			t.Fatal("no news result for MSFT")
		}
	}
}

func TestRecurringJobReadsSymbolAtFireTime(t *testing.T) {
	s := New(Config{
		Intervals: map[Job]time.Duration{JobTicker: 5 * time.Millisecond},
	}, nil)
	defer s.Close()

	s.Register(JobTicker, true, func(_ context.Context, symbol string) (any, error) {
		return symbol, nil
	})
	s.SelectSymbol("NVDA")
	s.Start()

	r := collect(t, s, JobTicker)
	if r.Symbol != "NVDA" {
		t.Errorf("timer fire read %q, want NVDA", r.Symbol)
	}
}

func TestTriggerUnknownJobIsNoop(t *testing.T) {
	s := New(Config{}, nil)
	defer s.Close()

	s.Trigger(JobMacro) // nothing registered; must not panic or emit
	select {
	case r := <-s.Results():
		t.Fatalf("unexpected result %+v", r)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestCloseStopsTimers(t *testing.T) {
	var runs atomic.Int64
	s := New(Config{
		Intervals: map[Job]time.Duration{JobMovers: time.Millisecond},
	}, nil)
	s.Register(JobMovers, false, func(context.Context, string) (any, error) {
		runs.Add(1)
		return nil, nil
	})
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Close()

	after := runs.Load()
	time.Sleep(10 * time.Millisecond)
	if runs.Load() != after {
		t.Error("job ran after Close")
	}
}
