package quota

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
	"github.com/postlane/postlane-backend/pkg/logger"
	"github.com/postlane/postlane-backend/pkg/outbox"
	"github.com/postlane/postlane-backend/pkg/outbox/payloads"
)

// maxSwapRetries bounds the optimistic-write loop under contention.
const maxSwapRetries = 8

type usageRepository interface {
	GetUsage(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource) (*models.SubscriptionUsage, error)
	ListUsage(ctx context.Context, accountID uuid.UUID) ([]models.SubscriptionUsage, error)
	CompareAndSwapUsed(ctx context.Context, usageID uuid.UUID, expectedVersion, newUsed int64) (bool, error)
	SeedUsage(ctx context.Context, rows []models.SubscriptionUsage) error
	FindPlan(ctx context.Context, planID string) (*models.SubscriptionPlan, error)
}

// Service gates mutations against the owning account's subscription limits.
// Consume reserves quota before the gated action runs; Release returns it
// when the action fails downstream.
type Service interface {
	Check(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error
	Consume(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error
	Release(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error
	Usage(ctx context.Context, accountID uuid.UUID) ([]ResourceUsage, error)
	ApplyPlanLimits(ctx context.Context, accountID uuid.UUID, planID string) error
}

// ResourceUsage is the read-side view of one counter.
type ResourceUsage struct {
	Resource  enums.QuotaResource `json:"resource"`
	Used      int64               `json:"used"`
	Limit     int64               `json:"limit"`
	Remaining int64               `json:"remaining"`
	Unlimited bool                `json:"unlimited"`
}

type quotaExceededDetails struct {
	Resource enums.QuotaResource `json:"resource"`
	Used     int64               `json:"used"`
	Limit    int64               `json:"limit"`
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the quota service. Events and
// TransactionRunner are optional; without them limit events are not emitted.
type ServiceParams struct {
	Repo              usageRepository
	Events            eventEmitter
	TransactionRunner txRunner
	Logger            *logger.Logger
}

type service struct {
	repo     usageRepository
	events   eventEmitter
	txRunner txRunner
	logg     *logger.Logger
}

// NewService builds a quota service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("usage repo required")
	}
	return &service{
		repo:     params.Repo,
		events:   params.Events,
		txRunner: params.TransactionRunner,
		logg:     params.Logger,
	}, nil
}

// Check reports whether amount units fit under the limit without reserving
// anything. A passing check is advisory only; Consume is the authority.
func (s *service) Check(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error {
	if err := validateArgs(accountID, resource, amount); err != nil {
		return err
	}
	usage, err := s.loadUsage(ctx, accountID, resource)
	if err != nil {
		return err
	}
	if !usage.Unlimited() && usage.Used+amount > usage.LimitValue {
		return quotaExceeded(usage)
	}
	return nil
}

// Consume atomically reserves amount units. The read and the conditional
// write race under a version check, so two callers can never both land inside
// the last free slot.
func (s *service) Consume(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error {
	if err := validateArgs(accountID, resource, amount); err != nil {
		return err
	}

	for attempt := 0; attempt < maxSwapRetries; attempt++ {
		usage, err := s.loadUsage(ctx, accountID, resource)
		if err != nil {
			return err
		}
		if !usage.Unlimited() && usage.Used+amount > usage.LimitValue {
			s.emitExhausted(ctx, usage)
			return quotaExceeded(usage)
		}

		ok, err := s.repo.CompareAndSwapUsed(ctx, usage.ID, usage.Version, usage.Used+amount)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write usage counter")
		}
		if ok {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeDependency, "usage counter contention, retry")
}

// Release returns amount units previously reserved. The counter floors at
// zero so a stray double-release can never open negative headroom.
func (s *service) Release(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error {
	if err := validateArgs(accountID, resource, amount); err != nil {
		return err
	}

	for attempt := 0; attempt < maxSwapRetries; attempt++ {
		usage, err := s.loadUsage(ctx, accountID, resource)
		if err != nil {
			return err
		}
		newUsed := usage.Used - amount
		if newUsed < 0 {
			newUsed = 0
		}
		if newUsed == usage.Used {
			return nil
		}

		ok, err := s.repo.CompareAndSwapUsed(ctx, usage.ID, usage.Version, newUsed)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write usage counter")
		}
		if ok {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeDependency, "usage counter contention, retry")
}

// Usage returns every counter for the account.
func (s *service) Usage(ctx context.Context, accountID uuid.UUID) ([]ResourceUsage, error) {
	if accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	rows, err := s.repo.ListUsage(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list usage counters")
	}
	out := make([]ResourceUsage, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		out = append(out, ResourceUsage{
			Resource:  row.Resource,
			Used:      row.Used,
			Limit:     row.LimitValue,
			Remaining: row.Remaining(),
			Unlimited: row.Unlimited(),
		})
	}
	return out, nil
}

// ApplyPlanLimits seeds or re-seeds the account's counters from the plan's
// limit map. Resources the plan omits default to zero, which blocks them.
func (s *service) ApplyPlanLimits(ctx context.Context, accountID uuid.UUID, planID string) error {
	if accountID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	plan, err := s.repo.FindPlan(ctx, planID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "subscription plan not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription plan")
	}
	limits, err := plan.PlanLimits()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode plan limits")
	}

	rows := make([]models.SubscriptionUsage, 0, len(enums.QuotaResources()))
	for _, resource := range enums.QuotaResources() {
		limit, ok := limits[resource]
		if !ok {
			limit = 0
		}
		rows = append(rows, models.SubscriptionUsage{
			AccountID:  accountID,
			Resource:   resource,
			LimitValue: limit,
		})
	}
	if err := s.repo.SeedUsage(ctx, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed usage counters")
	}

	s.emitEvent(ctx, outbox.DomainEvent{
		EventType:     enums.EventPlanLimitsChanged,
		AggregateType: enums.AggregateSubscription,
		AggregateID:   accountID,
		Data: payloads.PlanLimitsChangedEvent{
			AccountID: accountID,
			PlanID:    plan.ID,
			Limits:    limits,
		},
	})
	return nil
}

// emitExhausted reports a rejected consume. The event is observability
// fan-out; the rejection stands whether or not the emit lands.
func (s *service) emitExhausted(ctx context.Context, usage *models.SubscriptionUsage) {
	s.emitEvent(ctx, outbox.DomainEvent{
		EventType:     enums.EventQuotaExhausted,
		AggregateType: enums.AggregateSubscription,
		AggregateID:   usage.AccountID,
		Data: payloads.QuotaExhaustedEvent{
			AccountID: usage.AccountID,
			Resource:  usage.Resource,
			Used:      usage.Used,
			Limit:     usage.LimitValue,
		},
	})
}

func (s *service) emitEvent(ctx context.Context, event outbox.DomainEvent) {
	if s.events == nil || s.txRunner == nil {
		return
	}
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		return s.events.Emit(ctx, tx, event)
	})
	if err != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to queue quota event", err)
	}
}

func (s *service) loadUsage(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource) (*models.SubscriptionUsage, error) {
	usage, err := s.repo.GetUsage(ctx, accountID, resource)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usage counter not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load usage counter")
	}
	return usage, nil
}

func validateArgs(accountID uuid.UUID, resource enums.QuotaResource, amount int64) error {
	if accountID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	if !resource.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown quota resource %q", resource))
	}
	if amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	return nil
}

func quotaExceeded(usage *models.SubscriptionUsage) error {
	return pkgerrors.New(pkgerrors.CodeQuotaExceeded,
		fmt.Sprintf("%s limit reached", usage.Resource)).
		WithDetails(quotaExceededDetails{
			Resource: usage.Resource,
			Used:     usage.Used,
			Limit:    usage.LimitValue,
		})
}
