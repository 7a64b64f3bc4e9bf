package listings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quantum-energy-backend/internal/domain"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("Listing not found")

// Registry stores active listings. Ids come from the "listings" sequence and
// are never reused after a listing is removed.
type Registry struct {
	DB *gorm.DB
}

// WithTx returns a Registry bound to tx.
func (r *Registry) WithTx(tx *gorm.DB) *Registry {
	return &Registry{DB: tx}
}

// Insert assigns the next id to l, stores it, and returns the id.
// Call inside a transaction so the sequence bump and the insert commit together.
func (r *Registry) Insert(ctx context.Context, l *domain.Listing) (uint64, error) {
	db := r.DB.WithContext(ctx)
	id, err := domain.NextSequence(db, domain.SequenceListings)
	if err != nil {
		return 0, fmt.Errorf("next listing id: %w", err)
	}
	l.ListingID = id
	if err := db.Create(l).Error; err != nil {
		return 0, fmt.Errorf("insert listing: %w", err)
	}
	return id, nil
}

// Get returns the listing or ErrNotFound.
func (r *Registry) Get(ctx context.Context, id uint64) (*domain.Listing, error) {
	var l domain.Listing
	err := r.DB.WithContext(ctx).Where("listing_id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Remove deletes the listing. It returns ErrNotFound when no row was deleted,
// which is how a caller learns that a concurrent writer consumed it first.
func (r *Registry) Remove(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Where("listing_id = ?", id).Delete(&domain.Listing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Active returns listings not yet expired at now, oldest first.
func (r *Registry) Active(ctx context.Context, now time.Time) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := r.DB.WithContext(ctx).Where("expires_at >= ?", now).Order("listing_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// BySeller returns every listing of seller, expired or not, oldest first.
func (r *Registry) BySeller(ctx context.Context, seller string) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := r.DB.WithContext(ctx).Where("seller = ?", seller).Order("listing_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
