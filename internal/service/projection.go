package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/metrics"
	"github.com/kingrain94/tenant-user-sync/internal/repository"
	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

const defaultCascadeConcurrency = 8

// EventProcessor consumes one delivered envelope. Returning nil acknowledges
// the delivery; errors wrapping ErrInvalidEvent will never succeed on retry.
type EventProcessor interface {
	Process(ctx context.Context, envelope domain.Envelope) error
}

// TenantProjection keeps the user service's tenant shadows in line with the
// tenant service and deletes the users of deleted tenants. It holds no state
// between deliveries, so redelivered and concurrent events are safe.
type TenantProjection struct {
	repo        repository.UserServiceRepository
	reporter    CascadeReporter
	logger      *logger.Logger
	metrics     metrics.Recorder
	validate    *validator.Validate
	concurrency int
}

func NewTenantProjection(
	repo repository.UserServiceRepository,
	reporter CascadeReporter,
	logger *logger.Logger,
	recorder metrics.Recorder,
	concurrency int,
) *TenantProjection {
	if concurrency <= 0 {
		concurrency = defaultCascadeConcurrency
	}
	return &TenantProjection{
		repo:        repo,
		reporter:    reporter,
		logger:      logger,
		metrics:     recorder,
		validate:    domain.NewValidator(),
		concurrency: concurrency,
	}
}

// Process decodes the envelope payload and dispatches on its topic.
func (p *TenantProjection) Process(ctx context.Context, envelope domain.Envelope) error {
	switch envelope.Topic {
	case domain.TopicTenantCreated:
		var event domain.TenantCreated
		if err := p.decodePayload(envelope, &event); err != nil {
			return err
		}
		return p.HandleTenantCreated(ctx, event)
	case domain.TopicTenantDeleted:
		var event domain.TenantDeleted
		if err := p.decodePayload(envelope, &event); err != nil {
			return err
		}
		_, err := p.handleTenantDeleted(ctx, event, envelope.ID)
		return err
	default:
		p.metrics.RecordEventProcessed(envelope.Topic, metrics.OutcomeInvalid)
		return fmt.Errorf("%w: unknown topic %q", ErrInvalidEvent, envelope.Topic)
	}
}

// HandleTenantCreated upserts the shadow. Redelivery writes the same record again.
func (p *TenantProjection) HandleTenantCreated(ctx context.Context, event domain.TenantCreated) error {
	p.logger.Info("Handling event", zap.String("topic", domain.TopicTenantCreated), zap.String("tenant_id", event.ID))

	if err := p.validateEvent(domain.TopicTenantCreated, event); err != nil {
		return err
	}

	if err := p.repo.TenantShadow().Save(ctx, &domain.TenantShadow{ID: event.ID}); err != nil {
		p.metrics.RecordEventProcessed(domain.TopicTenantCreated, metrics.OutcomeFailure)
		return fmt.Errorf("failed to store tenant shadow %s: %w", event.ID, err)
	}

	p.metrics.RecordEventProcessed(domain.TopicTenantCreated, metrics.OutcomeSuccess)
	return nil
}

// HandleTenantDeleted removes the shadow, then scans every user and deletes
// those referencing the tenant one by one. A failed user deletion is reported
// and does not stop the others, nor does it fail the event. Only a failure to
// remove the shadow or to scan the users is returned, so the bus redelivers.
func (p *TenantProjection) HandleTenantDeleted(ctx context.Context, event domain.TenantDeleted) (*CascadeReport, error) {
	return p.handleTenantDeleted(ctx, event, "")
}

func (p *TenantProjection) handleTenantDeleted(ctx context.Context, event domain.TenantDeleted, eventID string) (*CascadeReport, error) {
	p.logger.Info("Handling event", zap.String("topic", domain.TopicTenantDeleted), zap.String("tenant_id", event.ID))

	if err := p.validateEvent(domain.TopicTenantDeleted, event); err != nil {
		return nil, err
	}

	report := &CascadeReport{
		TenantID:  event.ID,
		EventID:   eventID,
		Deleted:   []string{},
		Failed:    []CascadeFailure{},
		StartedAt: time.Now().UTC(),
	}

	if err := p.repo.TenantShadow().Delete(ctx, event.ID); err != nil {
		p.metrics.RecordEventProcessed(domain.TopicTenantDeleted, metrics.OutcomeFailure)
		return nil, fmt.Errorf("failed to delete tenant shadow %s: %w", event.ID, err)
	}

	// The store has no usable filtered query, so filter after a full scan.
	users, err := p.repo.User().List(ctx)
	if err != nil {
		p.metrics.RecordEventProcessed(domain.TopicTenantDeleted, metrics.OutcomeFailure)
		return nil, fmt.Errorf("failed to list users of tenant %s: %w", event.ID, err)
	}
	report.Scanned = len(users)

	var userIDs []string
	for _, user := range users {
		if user.TenantID == event.ID {
			userIDs = append(userIDs, user.ID)
		}
	}
	report.Matched = len(userIDs)

	p.deleteUsers(ctx, userIDs, report)
	report.FinishedAt = time.Now().UTC()

	p.metrics.RecordCascade(report.Matched, len(report.Deleted), len(report.Failed))
	p.metrics.RecordEventProcessed(domain.TopicTenantDeleted, metrics.OutcomeSuccess)

	if err := report.Err(); err != nil {
		p.logger.Error("Cascade left users behind", err,
			zap.String("tenant_id", event.ID),
			zap.Int("failed", len(report.Failed)))
	}

	if err := p.reporter.Report(ctx, report); err != nil {
		p.logger.Error("Failed to report cascade", err, zap.String("tenant_id", event.ID))
	}

	return report, nil
}

// deleteUsers issues every deletion and waits for all of them. Deletions
// already issued are not undone if ctx is cancelled.
func (p *TenantProjection) deleteUsers(ctx context.Context, userIDs []string, report *CascadeReport) {
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(p.concurrency)

	for _, id := range userIDs {
		g.Go(func() error {
			err := p.repo.User().Delete(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, CascadeFailure{
					UserID: id,
					Reason: err.Error(),
					err:    fmt.Errorf("user %s: %w", id, err),
				})
				return nil
			}
			report.Deleted = append(report.Deleted, id)
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.Deleted)
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].UserID < report.Failed[j].UserID })
}

func (p *TenantProjection) validateEvent(topic string, event any) error {
	if err := p.validate.Struct(event); err != nil {
		p.metrics.RecordEventProcessed(topic, metrics.OutcomeInvalid)
		return fmt.Errorf("%w: %s: %v", ErrInvalidEvent, topic, err)
	}
	return nil
}

func (p *TenantProjection) decodePayload(envelope domain.Envelope, event any) error {
	if err := json.Unmarshal(envelope.Payload, event); err != nil {
		p.metrics.RecordEventProcessed(envelope.Topic, metrics.OutcomeInvalid)
		return fmt.Errorf("%w: %s payload: %v", ErrInvalidEvent, envelope.Topic, err)
	}
	return nil
}
