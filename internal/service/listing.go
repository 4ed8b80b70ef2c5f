package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/recyclemart/ewaste-market/internal/events"
	"github.com/recyclemart/ewaste-market/internal/logging"
	"github.com/recyclemart/ewaste-market/internal/models"
	"github.com/recyclemart/ewaste-market/internal/pricing"
	"github.com/recyclemart/ewaste-market/internal/repo"
)

type ListingService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

var deviceTypes = map[string]struct{}{
	"smartphone":      {},
	"laptop":          {},
	"tablet":          {},
	"desktop":         {},
	"other":           {},
	"electrical-wire": {},
}

var conditions = map[string]struct{}{
	"new":  {},
	"good": {},
	"fair": {},
	"poor": {},
}

type ItemDraft struct {
	DeviceType string
	Brand      string
	Model      string
	Condition  string
	Weight     float64
	Images     []string
}

type ItemPatch struct {
	DeviceType *string
	Brand      *string
	Model      *string
	Condition  *string
	Weight     *float64
	Images     *[]string
}

func (s *ListingService) QueryBuyable(ctx context.Context, f repo.BuyFilters) (int64, []models.Item, error) {
	return s.Repo.QueryBuyable(ctx, f)
}

func (s *ListingService) ListOwned(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	return s.Repo.ListOwnedItems(ctx, userID)
}

// Create estimates the price server-side; the caller never supplies
// estimatedPrice, and the status always starts at pending.
func (s *ListingService) Create(ctx context.Context, userID uuid.UUID, draft ItemDraft) (*models.Item, error) {
	if draft.Brand == "" || draft.Model == "" || draft.Weight <= 0 {
		return nil, ErrValidation
	}
	if _, ok := deviceTypes[draft.DeviceType]; !ok {
		return nil, ErrValidation
	}
	if _, ok := conditions[draft.Condition]; !ok {
		return nil, ErrValidation
	}

	item := &models.Item{
		UserID:         userID,
		DeviceType:     draft.DeviceType,
		Brand:          draft.Brand,
		Model:          draft.Model,
		Condition:      draft.Condition,
		EstimatedPrice: float64(pricing.Estimate(draft.DeviceType, draft.Condition)),
		Weight:         draft.Weight,
		Images:         draft.Images,
		Status:         models.ItemStatusPending,
	}
	if err := s.Repo.CreateItem(ctx, item); err != nil {
		logging.FromContext(ctx).Error("item create failed", "error", err)
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":   "item_created",
		"itemID": item.ID.String(),
	})

	return item, nil
}

func (s *ListingService) GetOwned(ctx context.Context, userID, id uuid.UUID) (*models.Item, error) {
	item, err := s.Repo.GetOwnedItem(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// Update matches on (id AND userID); a miss stays a plain not-found
// whether the item belongs to someone else or does not exist at all.
func (s *ListingService) Update(ctx context.Context, userID, id uuid.UUID, patch ItemPatch) (*models.Item, error) {
	item, err := s.Repo.GetOwnedItem(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	deviceChanged := false
	if patch.DeviceType != nil && *patch.DeviceType != item.DeviceType {
		if _, ok := deviceTypes[*patch.DeviceType]; !ok {
			return nil, ErrValidation
		}
		item.DeviceType = *patch.DeviceType
		deviceChanged = true
	}
	if patch.Condition != nil {
		if _, ok := conditions[*patch.Condition]; !ok {
			return nil, ErrValidation
		}
		item.Condition = *patch.Condition
	}
	if patch.Brand != nil {
		item.Brand = *patch.Brand
	}
	if patch.Model != nil {
		item.Model = *patch.Model
	}
	if patch.Weight != nil {
		item.Weight = *patch.Weight
	}
	if patch.Images != nil {
		item.Images = *patch.Images
	}

	if deviceChanged {
		item.EstimatedPrice = float64(pricing.Estimate(item.DeviceType, item.Condition))
	}

	if err := s.Repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":   "item_updated",
		"itemID": item.ID.String(),
	})

	return item, nil
}

func (s *ListingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.Repo.DeleteOwnedItem(ctx, userID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.publish(ctx, userID, map[string]any{
		"type":   "item_deleted",
		"itemID": id.String(),
	})

	return nil
}

// Transition moves an item along the pending -> listed -> sold
// lifecycle; removed is terminal.
func (s *ListingService) Transition(ctx context.Context, id uuid.UUID, next string) (*models.Item, error) {
	item, err := s.Repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !models.ValidItemTransition(item.Status, next) {
		return nil, ErrInvalidTransition
	}

	item.Status = next
	if err := s.Repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	s.publish(ctx, item.UserID, map[string]any{
		"type":   "item_updated",
		"itemID": item.ID.String(),
		"status": item.Status,
	})

	return item, nil
}

func (s *ListingService) publish(ctx context.Context, userID uuid.UUID, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, events.TopicItemEvents, userID.String(), event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "topic", events.TopicItemEvents, "error", err)
	}
}
