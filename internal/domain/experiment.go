package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ExperimentParameter is one named numeric setting of an experiment run.
type ExperimentParameter struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Experiment is a particle physics run owned by its researcher.
type Experiment struct {
	ExperimentID   uint64                                    `gorm:"column:experiment_id;primaryKey;autoIncrement:false" json:"experiment_id"`
	Researcher     string                                    `gorm:"column:researcher;type:varchar(128);not null;index" json:"researcher"`
	ExperimentType string                                    `gorm:"column:experiment_type;not null" json:"experiment_type"`
	Parameters     datatypes.JSONSlice[ExperimentParameter] `gorm:"column:parameters;type:json;not null" json:"parameters"`
	Results        *string                                   `gorm:"column:results" json:"results"`
	EnergyConsumed int64                                     `gorm:"column:energy_consumed;not null;default:0" json:"energy_consumed"`
	StartTime      time.Time                                 `gorm:"column:start_time;not null" json:"start_time"`
	EndTime        *time.Time                                `gorm:"column:end_time" json:"end_time"`
}

func (Experiment) TableName() string {
	return "Experiments"
}

// Ended reports whether results were recorded.
func (e *Experiment) Ended() bool {
	return e.EndTime != nil
}
