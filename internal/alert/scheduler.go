package alert

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/lox/weatheralert/internal/metrics"
	"github.com/lox/weatheralert/internal/models"
	"github.com/lox/weatheralert/internal/notify"
	"github.com/lox/weatheralert/internal/store"
	"github.com/lox/weatheralert/internal/weather"
)

const DefaultTickInterval = 60 * time.Second

// Scheduler periodically evaluates every active alert against the current
// weather for a fixed reference location. Each alert is handled in its own
// goroutine: it resolves weather independently, evaluates, and on trigger
// persists a notification before handing it to the transport. A failure in
// one alert never aborts the others.
//
// Overlapping ticks are skipped, not queued: if a tick is still running
// when the next is due, the new tick is dropped and counted.
//
// There is no notification de-duplication across ticks — an alert that
// stays triggered produces a fresh notification every tick.
type Scheduler struct {
	store     *store.Store
	resolver  *weather.Resolver
	transport notify.Transport
	clock     clockwork.Clock
	location  string
	interval  time.Duration

	mu       sync.Mutex
	inFlight bool
	lastRun  time.Time
}

func NewScheduler(st *store.Store, resolver *weather.Resolver, transport notify.Transport, clock clockwork.Clock, location string, interval time.Duration) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Scheduler{
		store:     st,
		resolver:  resolver,
		transport: transport,
		clock:     clock,
		location:  location,
		interval:  interval,
	}
}

// LastRun reports when the previous tick started, zero before the first.
func (s *Scheduler) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// Run ticks on a fixed period until ctx is cancelled. The first tick fires
// after one full interval.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: shutting down")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one evaluation pass over all active alerts. Returns false when
// the pass was skipped because a previous tick is still in flight.
func (s *Scheduler) Tick(ctx context.Context) bool {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		log.Println("scheduler: previous tick still running, skipping")
		metrics.SchedulerTicksTotal.WithLabelValues("skipped").Inc()
		return false
	}
	s.inFlight = true
	s.lastRun = s.clock.Now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	metrics.SchedulerTicksTotal.WithLabelValues("run").Inc()

	alerts, err := s.store.ListActiveAlerts()
	if err != nil {
		log.Printf("scheduler: list active alerts: %v", err)
		return true
	}
	if len(alerts) == 0 {
		return true
	}

	today := models.DateOf(s.clock.Now())

	var wg sync.WaitGroup
	for _, a := range alerts {
		wg.Add(1)
		go func(a models.Alert) {
			defer wg.Done()
			s.evaluateAlert(ctx, a, today)
		}(a)
	}
	wg.Wait()
	return true
}

func (s *Scheduler) evaluateAlert(ctx context.Context, a models.Alert, today models.Date) {
	report, err := s.resolver.Resolve(ctx, s.location, today)
	if err != nil {
		// Retried at the next tick, never synchronously.
		log.Printf("scheduler: weather unavailable for alert %s: %v", a.ID, err)
		metrics.AlertsEvaluatedTotal.WithLabelValues("skipped").Inc()
		return
	}

	triggered, _ := Evaluate(a.Conditions, a.Combinator, report)
	if !triggered {
		metrics.AlertsEvaluatedTotal.WithLabelValues("not_triggered").Inc()
		return
	}
	metrics.AlertsEvaluatedTotal.WithLabelValues("triggered").Inc()

	notification := models.AlertNotification{
		ID:           uuid.NewString(),
		AlertID:      a.ID,
		Message:      FormatMessage(a.Conditions, a.Combinator, report),
		Timestamp:    s.clock.Now().UTC(),
		Acknowledged: false,
	}

	if err := s.store.PutNotification(notification); err != nil {
		// The trigger is lost for this tick; the alert re-evaluates next tick.
		log.Printf("scheduler: persist notification for alert %s: %v", a.ID, err)
		metrics.AlertsEvaluatedTotal.WithLabelValues("failed").Inc()
		return
	}
	metrics.NotificationsCreatedTotal.Inc()

	s.transport.Publish(notification)
	log.Printf("scheduler: alert %s triggered: %s", a.ID, notification.Message)
}
