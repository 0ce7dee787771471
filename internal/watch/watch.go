// Package watch re-runs the balance pipeline whenever a trip's data changes.
//
// Write operations publish a change signal to the Hub; a Watcher subscribed
// to a trip reloads a full snapshot and re-runs aggregate -> simplify ->
// filter end-to-end, then publishes the derived Report. There is no
// incremental recomputation: each run works on the complete current snapshot.
// When a newer change arrives while a computation is in flight, the in-flight
// run is cancelled and superseded (latest wins).
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tripsplit/internal/ledger"
	"tripsplit/internal/models"
)

var (
	recomputeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsplit_pipeline_recomputes_total",
			Help: "Balance pipeline runs by result.",
		},
		[]string{"result"},
	)

	recomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tripsplit_pipeline_recompute_duration_seconds",
			Help:    "Balance pipeline run latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Loader is the slice of the store the pipeline reads from.
type Loader interface {
	ListMembers(ctx context.Context, tripID string) ([]models.Member, error)
	ListExpensesByTrip(ctx context.Context, tripID string) ([]models.Expense, error)
	ListSettlementsByTrip(ctx context.Context, tripID string) ([]models.Settlement, error)
}

// Report is the derived output of one pipeline run over one snapshot.
type Report struct {
	TripID      string
	Balances    []models.Balance
	Debts       []models.SimplifiedDebt
	ActiveDebts []models.SimplifiedDebt
	Settlements []models.Settlement
	ComputedAt  time.Time
}

// Hub fans trip-change signals out to subscribers. Signals coalesce: a
// subscriber that has not consumed a pending signal will see the burst as one.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan struct{}]struct{})}
}

// Notify signals that a trip's data changed. Never blocks.
func (h *Hub) Notify(tripID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[tripID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe returns a channel that receives a signal after each change to the
// trip, and a cancel function that must be called when done.
func (h *Hub) Subscribe(tripID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.subs[tripID] == nil {
		h.subs[tripID] = make(map[chan struct{}]struct{})
	}
	h.subs[tripID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs[tripID], ch)
		if len(h.subs[tripID]) == 0 {
			delete(h.subs, tripID)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Compute loads a consistent snapshot for the trip and runs the full
// pipeline over it.
func Compute(ctx context.Context, loader Loader, tripID string) (*Report, error) {
	start := time.Now()

	report, err := compute(ctx, loader, tripID)

	recomputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		recomputeTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	recomputeTotal.WithLabelValues("ok").Inc()
	return report, nil
}

func compute(ctx context.Context, loader Loader, tripID string) (*Report, error) {
	memberList, err := loader.ListMembers(ctx, tripID)
	if err != nil {
		return nil, err
	}
	expenses, err := loader.ListExpensesByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	settlements, err := loader.ListSettlementsByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	balances, err := ledger.ComputeBalances(memberList, expenses, settlements)
	if err != nil {
		return nil, err
	}
	debts := ledger.SimplifyDebts(balances)
	active := ledger.FilterActiveDebts(debts, settlements)

	return &Report{
		TripID:      tripID,
		Balances:    balances,
		Debts:       debts,
		ActiveDebts: active,
		Settlements: settlements,
		ComputedAt:  time.Now(),
	}, nil
}

// Watcher drives the pipeline reactively for one trip.
type Watcher struct {
	loader Loader
	hub    *Hub
	logger *slog.Logger
}

// NewWatcher creates a watcher over the given loader and hub.
func NewWatcher(loader Loader, hub *Hub, logger *slog.Logger) *Watcher {
	return &Watcher{loader: loader, hub: hub, logger: logger}
}

// Run computes an initial report, then recomputes after every change signal
// until ctx is cancelled. Reports are delivered on the returned channel; a
// change arriving mid-computation cancels the in-flight run, and a report the
// consumer has not picked up yet is replaced by the newer one.
func (w *Watcher) Run(ctx context.Context, tripID string) <-chan *Report {
	out := make(chan *Report, 1)
	changes, unsubscribe := w.hub.Subscribe(tripID)

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			report := w.computeCancellable(ctx, tripID, changes)
			if report != nil {
				// Latest wins: drop an unconsumed stale report.
				select {
				case out <- report:
				default:
					select {
					case <-out:
					default:
					}
					out <- report
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-changes:
			}
		}
	}()
	return out
}

// computeCancellable runs one pipeline pass, restarting it if a change signal
// arrives before it finishes. Returns nil when ctx is cancelled or the
// snapshot fails integrity checks (logged, next change retries).
func (w *Watcher) computeCancellable(ctx context.Context, tripID string, changes <-chan struct{}) *Report {
	for {
		runCtx, cancel := context.WithCancel(ctx)

		type outcome struct {
			report *Report
			err    error
		}
		done := make(chan outcome, 1)
		go func() {
			report, err := Compute(runCtx, w.loader, tripID)
			done <- outcome{report, err}
		}()

		select {
		case <-ctx.Done():
			cancel()
			return nil
		case <-changes:
			// Superseded: abandon this run and start over on the new snapshot.
			cancel()
			<-done
			continue
		case result := <-done:
			cancel()
			if result.err != nil {
				if ctx.Err() == nil {
					w.logger.Error("Pipeline recompute failed", "trip_id", tripID, "error", result.err)
				}
				return nil
			}
			return result.report
		}
	}
}
