package domain

import (
	"fmt"
	"time"
)

// Asset is the asset class of a balance entry.
type Asset string

const (
	// AssetCredit is the fungible unit listings are priced in.
	AssetCredit Asset = "credit"
	// AssetResource is the fungible unit traded through listings.
	AssetResource Asset = "resource"
)

// ParseAsset validates an asset class name.
func ParseAsset(s string) (Asset, error) {
	switch Asset(s) {
	case AssetCredit, AssetResource:
		return Asset(s), nil
	}
	return "", fmt.Errorf("unknown asset class %q", s)
}

// Balance is one (principal, asset) entry of the ledger. Quantity is never negative.
type Balance struct {
	Principal string    `gorm:"column:principal;type:varchar(128);primaryKey" json:"principal"`
	Asset     Asset     `gorm:"column:asset;type:varchar(16);primaryKey" json:"asset"`
	Quantity  int64     `gorm:"column:quantity;not null;default:0" json:"quantity"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Balance) TableName() string {
	return "Balances"
}
