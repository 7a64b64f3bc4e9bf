package domain

import (
	"errors"

	"gorm.io/gorm"
)

// Sequence names.
const (
	SequenceListings    = "listings"
	SequenceExperiments = "experiments"
)

// Sequence is a named counter. Values start at 1 and are never handed out twice,
// even after the row they identified is deleted.
type Sequence struct {
	Name  string `gorm:"column:name;type:varchar(64);primaryKey" json:"name"`
	Value uint64 `gorm:"column:value;not null" json:"value"`
}

func (Sequence) TableName() string {
	return "Sequences"
}

// NextSequence increments the named counter and returns its new value.
// Must be called inside the transaction that uses the value.
func NextSequence(tx *gorm.DB, name string) (uint64, error) {
	var seq Sequence
	err := tx.Where("name = ?", name).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = Sequence{Name: name, Value: 1}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.Value, nil
	}
	if err != nil {
		return 0, err
	}
	res := tx.Model(&Sequence{}).
		Where("name = ? AND value = ?", name, seq.Value).
		Update("value", seq.Value+1)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected != 1 {
		return 0, errors.New("sequence " + name + " changed concurrently")
	}
	return seq.Value + 1, nil
}
