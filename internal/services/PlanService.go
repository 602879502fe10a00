package services

import (
	"context"
	"errors"
	"fmt"
	"vivafit/internal/catalog"
	"vivafit/internal/models"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"

	json "github.com/goccy/go-json"
)

const SubscribedPlanKey = "subscribedPlan"

var ErrUnknownPlan = errors.New("unknown plan")

type PlanServiceInterface interface {
	Plans() []models.SubscriptionPlan
	Current(ctx context.Context) *models.SubscriptionPlan
	Subscribe(ctx context.Context, id string) (models.SubscriptionPlan, error)
	Cancel(ctx context.Context) error
}

// PlanService stores the subscribed plan as a JSON copy of the catalog entry.
type PlanService struct {
	kv      interfaces.KeyValueStoreInterface
	catalog catalog.CatalogInterface
	logger  providers.Logger
}

func NewPlanService(kv interfaces.KeyValueStoreInterface, cat catalog.CatalogInterface, logger providers.Logger) PlanServiceInterface {
	return &PlanService{kv: kv, catalog: cat, logger: logger}
}

func (s *PlanService) Plans() []models.SubscriptionPlan {
	return s.catalog.SubscriptionPlans()
}

// Current returns nil when no plan is subscribed or the stored value is unreadable.
func (s *PlanService) Current(ctx context.Context) *models.SubscriptionPlan {
	raw, ok, err := s.kv.Get(ctx, SubscribedPlanKey)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Cannot read subscribed plan: %s", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var plan models.SubscriptionPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		s.logger.Warnf(providers.TypeApp, "Subscribed plan is corrupt: %s", err)
		return nil
	}
	return &plan
}

func (s *PlanService) Subscribe(ctx context.Context, id string) (models.SubscriptionPlan, error) {
	plan, ok := s.catalog.FindSubscriptionPlan(id)
	if !ok {
		return models.SubscriptionPlan{}, fmt.Errorf("%w: %q", ErrUnknownPlan, id)
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		return models.SubscriptionPlan{}, err
	}
	if err := s.kv.Set(ctx, SubscribedPlanKey, string(raw)); err != nil {
		return models.SubscriptionPlan{}, fmt.Errorf("saving subscribed plan: %w", err)
	}
	s.logger.Infof(providers.TypeApp, "Subscribed to plan %s", plan.ID)
	return plan, nil
}

func (s *PlanService) Cancel(ctx context.Context) error {
	if err := s.kv.Remove(ctx, SubscribedPlanKey); err != nil {
		return fmt.Errorf("removing subscribed plan: %w", err)
	}
	return nil
}
