package listingevents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quantum-energy-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// WithTx returns a Service bound to tx so events commit with the change they describe.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{DB: tx}
}

// Record appends one event for listingID.
func (s *Service) Record(ctx context.Context, listingID uint64, eventType, actor string, data map[string]interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s event data: %w", eventType, err)
	}
	return s.DB.WithContext(ctx).Create(&domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		Actor:     actor,
		EventData: datatypes.JSON(b),
	}).Error
}

func (s *Service) GetListingEvents(ctx context.Context, listingID uint64) ([]domain.ListingEvent, error) {
	if listingID == 0 {
		return nil, errors.New("listing_id is required")
	}
	var events []domain.ListingEvent
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).Order(`"createdAt" ASC`).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Service) GetActorEvents(ctx context.Context, actor string) ([]domain.ListingEvent, error) {
	if actor == "" {
		return nil, errors.New("Principal is required")
	}
	var events []domain.ListingEvent
	if err := s.DB.WithContext(ctx).Where("actor = ?", actor).Order(`"createdAt" ASC`).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
