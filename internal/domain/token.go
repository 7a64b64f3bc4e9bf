package domain

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Collection names an NFT contract. Token ids are sequential per collection.
type Collection string

const (
	CollectionHotspot      Collection = "hotspot"
	CollectionVacuumEnergy Collection = "vacuum-energy"
)

// ParseCollection validates a collection name.
func ParseCollection(s string) (Collection, error) {
	switch Collection(s) {
	case CollectionHotspot, CollectionVacuumEnergy:
		return Collection(s), nil
	}
	return "", fmt.Errorf("unknown collection %q", s)
}

// SequenceName is the Sequences row that numbers this collection.
func (c Collection) SequenceName() string {
	return "nft:" + string(c)
}

// HotspotMetadata describes a discovered vacuum energy hotspot.
type HotspotMetadata struct {
	Location      string `json:"location"`
	EnergyDensity int64  `json:"energy_density"`
	Stability     int    `json:"stability"`
}

// VacuumEnergyMetadata describes a vacuum energy collectible.
type VacuumEnergyMetadata struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	EnergyPotential int64  `json:"energy_potential"`
	Rarity          int    `json:"rarity"`
	ImageURL        string `json:"image_url"`
}

// Token is a minted NFT. Creator is fixed at mint; Owner changes on transfer.
type Token struct {
	Collection    Collection     `gorm:"column:collection;type:varchar(32);primaryKey" json:"collection"`
	TokenID       uint64         `gorm:"column:token_id;primaryKey;autoIncrement:false" json:"token_id"`
	Creator       string         `gorm:"column:creator;type:varchar(128);not null" json:"creator"`
	Owner         string         `gorm:"column:owner;type:varchar(128);not null;index" json:"owner"`
	Metadata      datatypes.JSON `gorm:"column:metadata;type:json;not null" json:"metadata"`
	DiscoveryTime time.Time      `gorm:"column:discovery_time;not null" json:"discovery_time"`
	UpdatedAt     time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Token) TableName() string {
	return "Tokens"
}
