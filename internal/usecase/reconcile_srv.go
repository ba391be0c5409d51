package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"be-fest/internal/data/entity"
	"be-fest/internal/data/repository"
	"be-fest/internal/pricing"
	"be-fest/pkg/broker"
	"be-fest/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const EventTypeSnapshotCorrected = "pricing.snapshot_corrected"

type ReconcileService interface {
	// ReconcileAll scans every priced snapshot and rewrites stale totals.
	// Per-record failures end up in the report; the error return is only
	// for failing to list snapshots at all.
	ReconcileAll(ctx context.Context, dryRun bool) (*pricing.CorrectionReport, error)
}

type reconcileService struct {
	repo        *repository.Repository
	concurrency int
	timeout     time.Duration
	publisher   broker.Publisher
	topic       string
	log         *zap.Logger
}

func NewReconcileService(repo *repository.Repository, cfg utils.ReconcileConfig, publisher broker.Publisher, topic string, log *zap.Logger) ReconcileService {
	if publisher == nil {
		publisher = broker.Noop{}
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &reconcileService{
		repo:        repo,
		concurrency: concurrency,
		timeout:     cfg.Timeout,
		publisher:   publisher,
		topic:       topic,
		log:         log.With(zap.String("service", "reconcile")),
	}
}

type snapshotCorrectedEvent struct {
	EventServiceID string    `json:"event_services_id"`
	EventID        string    `json:"event_id"`
	ServiceID      string    `json:"service_id"`
	OldValue       float64   `json:"old_value"`
	NewValue       float64   `json:"new_value"`
	Delta          float64   `json:"delta"`
	CorrectedAt    time.Time `json:"corrected_at"`
}

func (s *reconcileService) ReconcileAll(ctx context.Context, dryRun bool) (*pricing.CorrectionReport, error) {
	actor, _ := utils.GetActorFromContext(ctx)
	started := time.Now()

	snapshots, err := s.repo.EventService.ListForReconciliation(ctx)
	if err != nil {
		s.log.Error("Failed to list snapshots for reconciliation", zap.Error(err))
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	s.log.Info("Reconciliation started",
		zap.Int("snapshots", len(snapshots)),
		zap.Int("concurrency", s.concurrency),
		zap.Bool("dry_run", dryRun),
		zap.String("actor", actor),
	)

	report := pricing.NewCorrectionReport(dryRun)
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, snapshot := range snapshots {
		g.Go(func() error {
			item := s.reconcileOne(ctx, snapshot, dryRun)
			mu.Lock()
			report.Add(item)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	report.Sort()

	s.log.Info("Reconciliation finished",
		zap.Int("checked", report.TotalChecked),
		zap.Int("corrected", report.CorrectedCount),
		zap.Int("pending", report.PendingCount),
		zap.Int("locked", report.LockedCount),
		zap.Int("failed", len(report.Failures)),
		zap.Float64("total_delta", report.TotalDelta),
		zap.Duration("duration", time.Since(started)),
	)

	return report, nil
}

// reconcileOne runs read, compare and conditional write for one snapshot
// under its own timeout.
func (s *reconcileService) reconcileOne(ctx context.Context, snapshot *entity.EventService, dryRun bool) pricing.ItemResult {
	item := pricing.ItemResult{
		ID:       snapshot.ID,
		EventID:  snapshot.EventID,
		OldValue: snapshot.TotalEstimatedPrice,
		NewValue: snapshot.TotalEstimatedPrice,
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	event, err := s.repo.Event.FindByID(ctx, snapshot.EventID)
	if err != nil {
		return s.fail(item, fmt.Errorf("get event: %w", err))
	}
	if event == nil {
		return s.fail(item, &pricing.NotFoundError{Resource: "event", ID: snapshot.EventID.String()})
	}
	guests, ok := event.Guests()
	if !ok {
		return s.fail(item, &pricing.NotFoundError{Resource: "guest data for event", ID: snapshot.EventID.String()})
	}

	correction, stale, err := pricing.Audit(snapshot, guests)
	if err != nil {
		return s.fail(item, err)
	}
	if !stale {
		item.Outcome = pricing.OutcomeOK
		return item
	}

	item.NewValue = correction.NewValue
	item.Delta = correction.Delta

	if snapshot.BookingStatus.Locked() {
		s.log.Warn("Stale price on locked booking left untouched",
			zap.String("event_service_id", snapshot.ID.String()),
			zap.String("booking_status", string(snapshot.BookingStatus)),
			zap.Float64("old_value", correction.OldValue),
			zap.Float64("new_value", correction.NewValue),
		)
		item.Outcome = pricing.OutcomeLocked
		return item
	}

	if dryRun {
		item.Outcome = pricing.OutcomeWouldCorrect
		return item
	}

	correctedAt, err := s.repo.EventService.UpdateTotal(ctx, snapshot.ID, correction.NewValue, snapshot.UpdatedAt)
	if err != nil {
		return s.fail(item, err)
	}

	item.Outcome = pricing.OutcomeCorrected
	s.log.Info("Snapshot price corrected",
		zap.String("event_service_id", snapshot.ID.String()),
		zap.String("event_id", snapshot.EventID.String()),
		zap.Float64("old_value", correction.OldValue),
		zap.Float64("new_value", correction.NewValue),
		zap.Float64("delta", correction.Delta),
	)

	s.publishCorrection(ctx, correction, correctedAt)
	return item
}

// publishCorrection announces an applied correction. The write already
// happened, so a publish failure is logged and not reported as a failure.
func (s *reconcileService) publishCorrection(ctx context.Context, c pricing.Correction, correctedAt time.Time) {
	payload, err := json.Marshal(snapshotCorrectedEvent{
		EventServiceID: c.ID.String(),
		EventID:        c.EventID.String(),
		ServiceID:      c.ServiceID.String(),
		OldValue:       c.OldValue,
		NewValue:       c.NewValue,
		Delta:          c.Delta,
		CorrectedAt:    correctedAt,
	})
	if err != nil {
		s.log.Error("Failed to encode correction event", zap.Error(err))
		return
	}

	headers := map[string]string{"type": EventTypeSnapshotCorrected}
	if err := s.publisher.Publish(ctx, s.topic, c.ID.String(), payload, headers); err != nil {
		s.log.Warn("Failed to publish correction event",
			zap.Error(err),
			zap.String("event_service_id", c.ID.String()),
			zap.String("topic", s.topic),
		)
	}
}

func (s *reconcileService) fail(item pricing.ItemResult, err error) pricing.ItemResult {
	s.log.Error("Snapshot reconciliation failed",
		zap.Error(err),
		zap.String("event_service_id", item.ID.String()),
		zap.String("event_id", item.EventID.String()),
	)
	item.Outcome = pricing.OutcomeFailed
	item.Error = err.Error()
	return item
}
