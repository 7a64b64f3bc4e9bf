package experiments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quantum-energy-backend/internal/domain"
	"quantum-energy-backend/internal/pkg/clock"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidExperiment = errors.New("Invalid experiment")
	ErrNotAuthorized     = errors.New("Not authorized")
	ErrMissingType       = errors.New("experiment_type is required")
	ErrMissingResearcher = errors.New("Researcher is required")
	ErrNegativeEnergy    = errors.New("energy_consumed must not be negative")
)

// Service records particle physics experiment runs.
type Service struct {
	DB    *gorm.DB
	Clock clock.Clock
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return clock.System{}.Now()
	}
	return s.Clock.Now()
}

// StartExperiment opens a run and returns its sequential id.
func (s *Service) StartExperiment(ctx context.Context, experimentType string, params []domain.ExperimentParameter, researcher string) (uint64, error) {
	if strings.TrimSpace(experimentType) == "" {
		return 0, ErrMissingType
	}
	if researcher == "" {
		return 0, ErrMissingResearcher
	}
	if params == nil {
		params = []domain.ExperimentParameter{}
	}

	var id uint64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := domain.NextSequence(tx, domain.SequenceExperiments)
		if err != nil {
			return fmt.Errorf("next experiment id: %w", err)
		}
		id = next
		return tx.Create(&domain.Experiment{
			ExperimentID:   id,
			Researcher:     researcher,
			ExperimentType: experimentType,
			Parameters:     datatypes.NewJSONSlice(params),
			StartTime:      s.now(),
		}).Error
	})
	if err != nil {
		return 0, err
	}
	log.Info().Uint64("experiment_id", id).Str("researcher", researcher).Str("type", experimentType).Msg("Experiment started")
	return id, nil
}

// EndExperiment records results. Only the researcher who started the run may
// end it; ending again overwrites the previous results.
func (s *Service) EndExperiment(ctx context.Context, experimentID uint64, results string, energyConsumed int64, researcher string) (bool, error) {
	if energyConsumed < 0 {
		return false, ErrNegativeEnergy
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exp domain.Experiment
		if err := tx.Where("experiment_id = ?", experimentID).First(&exp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidExperiment
			}
			return err
		}
		if exp.Researcher != researcher {
			return ErrNotAuthorized
		}
		return tx.Model(&exp).Updates(map[string]interface{}{
			"results":         results,
			"energy_consumed": energyConsumed,
			"end_time":        s.now(),
		}).Error
	})
	if err != nil {
		return false, err
	}
	log.Info().Uint64("experiment_id", experimentID).Int64("energy_consumed", energyConsumed).Msg("Experiment ended")
	return true, nil
}

func (s *Service) GetExperiment(ctx context.Context, experimentID uint64) (*domain.Experiment, error) {
	var exp domain.Experiment
	if err := s.DB.WithContext(ctx).Where("experiment_id = ?", experimentID).First(&exp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidExperiment
		}
		return nil, err
	}
	return &exp, nil
}

func (s *Service) ResearcherExperiments(ctx context.Context, researcher string) ([]domain.Experiment, error) {
	if researcher == "" {
		return nil, ErrMissingResearcher
	}
	var out []domain.Experiment
	if err := s.DB.WithContext(ctx).Where("researcher = ?", researcher).Order("experiment_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
