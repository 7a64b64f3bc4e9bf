package nfts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quantum-energy-backend/internal/domain"
	"quantum-energy-backend/internal/pkg/clock"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidStability = errors.New("Invalid stability score")
	ErrNotAuthorized    = errors.New("Not authorized")
	ErrTokenNotFound    = errors.New("Token not found")
	ErrMissingOwner     = errors.New("Owner is required")
)

// Service mints and transfers vacuum energy NFTs.
type Service struct {
	DB    *gorm.DB
	Clock clock.Clock
}

// MintHotspot mints a hotspot token owned by its discoverer. Stability is a
// 0..100 score.
func (s *Service) MintHotspot(ctx context.Context, location string, energyDensity int64, stability int, discoverer string) (uint64, error) {
	if stability < 0 || stability > 100 {
		return 0, ErrInvalidStability
	}
	return s.mint(ctx, domain.CollectionHotspot, discoverer, domain.HotspotMetadata{
		Location:      location,
		EnergyDensity: energyDensity,
		Stability:     stability,
	})
}

// MintVacuumEnergy mints a collectible owned by its creator.
func (s *Service) MintVacuumEnergy(ctx context.Context, meta domain.VacuumEnergyMetadata, creator string) (uint64, error) {
	return s.mint(ctx, domain.CollectionVacuumEnergy, creator, meta)
}

func (s *Service) mint(ctx context.Context, c domain.Collection, creator string, meta interface{}) (uint64, error) {
	if creator == "" {
		return 0, ErrMissingOwner
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return 0, fmt.Errorf("marshal %s metadata: %w", c, err)
	}
	now := clock.System{}.Now()
	if s.Clock != nil {
		now = s.Clock.Now()
	}

	var id uint64
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := domain.NextSequence(tx, c.SequenceName())
		if err != nil {
			return err
		}
		id = next
		return tx.Create(&domain.Token{
			Collection:    c,
			TokenID:       id,
			Creator:       creator,
			Owner:         creator,
			Metadata:      datatypes.JSON(b),
			DiscoveryTime: now,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	log.Info().Str("collection", string(c)).Uint64("token_id", id).Str("owner", creator).Msg("Token minted")
	return id, nil
}

// Transfer moves a token from sender to recipient. A token that does not
// exist is not owned by anyone, so it reports ErrNotAuthorized too.
func (s *Service) Transfer(ctx context.Context, c domain.Collection, tokenID uint64, sender, recipient string) (bool, error) {
	if recipient == "" {
		return false, ErrMissingOwner
	}
	res := s.DB.WithContext(ctx).Model(&domain.Token{}).
		Where("collection = ? AND token_id = ? AND owner = ?", c, tokenID, sender).
		Update("owner", recipient)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, ErrNotAuthorized
	}
	log.Info().Str("collection", string(c)).Uint64("token_id", tokenID).Str("from", sender).Str("to", recipient).Msg("Token transferred")
	return true, nil
}

func (s *Service) GetToken(ctx context.Context, c domain.Collection, tokenID uint64) (*domain.Token, error) {
	var tok domain.Token
	if err := s.DB.WithContext(ctx).Where("collection = ? AND token_id = ?", c, tokenID).First(&tok).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &tok, nil
}

// OwnedBy lists tokens of every collection currently owned by owner.
func (s *Service) OwnedBy(ctx context.Context, owner string) ([]domain.Token, error) {
	if owner == "" {
		return nil, ErrMissingOwner
	}
	var out []domain.Token
	if err := s.DB.WithContext(ctx).Where("owner = ?", owner).Order("collection ASC, token_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
