package domain

import "time"

// Listing is an active sell offer. While the row exists, Amount has already
// been debited from the seller's resource balance.
type Listing struct {
	ListingID uint64    `gorm:"column:listing_id;primaryKey;autoIncrement:false" json:"listing_id"`
	Seller    string    `gorm:"column:seller;type:varchar(128);not null;index" json:"seller"`
	Amount    int64     `gorm:"column:amount;not null" json:"amount"`
	Price     int64     `gorm:"column:price;not null" json:"price"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Listing) TableName() string {
	return "Listings"
}

// Expired reports whether now is strictly after the expiration instant.
// A purchase at exactly ExpiresAt is still valid.
func (l *Listing) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}
