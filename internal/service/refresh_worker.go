package service

import (
	"context"
	"sync"
	"time"

	"countryvote/internal/repository"
	"countryvote/pkg/logger"

	"go.uber.org/zap"
)

const (
	refreshQueueSize   = 64
	refreshCallTimeout = 10 * time.Second
)

// RefreshWorker re-populates the metadata cache for country codes on a
// background goroutine. It is best-effort by design: per-code failures
// are logged and never propagated, because stale metadata is an
// acceptable degraded state. Submitters never wait on it.
type RefreshWorker struct {
	gateway CountryGateway
	ledger  repository.VoteLedger
	logger  *logger.Logger

	jobs      chan []string
	stop      chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewRefreshWorker creates a new metadata refresh worker
func NewRefreshWorker(gateway CountryGateway, ledger repository.VoteLedger, logger *logger.Logger) *RefreshWorker {
	return &RefreshWorker{
		gateway: gateway,
		ledger:  ledger,
		logger:  logger,
		jobs:    make(chan []string, refreshQueueSize),
		stop:    make(chan struct{}),
	}
}

// Start launches the worker goroutine
func (w *RefreshWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return
	}
	w.isRunning = true

	w.wg.Add(1)
	go w.run()

	w.logger.Info("Metadata refresh worker started")
}

// Stop drains the worker. It blocks until the in-flight batch finishes
// or ctx expires.
func (w *RefreshWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	close(w.stop)
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("Metadata refresh worker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue submits country codes for asynchronous refresh. It never
// blocks the caller: when the queue is full the batch is dropped, which
// only delays a best-effort refresh until the next TTL expiry.
func (w *RefreshWorker) Enqueue(codes []string) {
	if len(codes) == 0 {
		return
	}
	select {
	case w.jobs <- codes:
	default:
		w.logger.Logger.Warn("Refresh queue full, dropping batch",
			zap.Strings("codes", codes))
	}
}

// RefreshAll refreshes every country that has at least one vote. Used
// for cache warm-up at startup; an empty ledger is a no-op.
func (w *RefreshWorker) RefreshAll(ctx context.Context) error {
	codes, err := w.ledger.DistinctCountryCodes(ctx)
	if err != nil {
		return err
	}
	if len(codes) == 0 {
		w.logger.Info("No voted countries found, skipping cache warm-up")
		return nil
	}

	w.logger.WithField("countries", len(codes)).Info("Warming country metadata cache")
	w.refreshBatch(codes)
	return nil
}

func (w *RefreshWorker) run() {
	defer w.wg.Done()

	for {
		select {
		case codes := <-w.jobs:
			w.refreshBatch(codes)
		case <-w.stop:
			return
		}
	}
}

// refreshBatch refreshes each distinct code independently. One failing
// code never prevents the others from refreshing.
func (w *RefreshWorker) refreshBatch(codes []string) {
	seen := make(map[string]struct{}, len(codes))
	succeeded, failed := 0, 0

	for _, code := range codes {
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		ctx, cancel := context.WithTimeout(context.Background(), refreshCallTimeout)
		_, err := w.gateway.Refresh(ctx, code)
		cancel()

		if err != nil {
			failed++
			w.logger.Logger.Error("Failed to refresh country metadata",
				zap.String("country_code", code),
				zap.Error(err))
			continue
		}
		succeeded++
	}

	if succeeded+failed > 0 {
		w.logger.Logger.Info("Metadata refresh batch complete",
			zap.Int("succeeded", succeeded),
			zap.Int("failed", failed))
	}
}
