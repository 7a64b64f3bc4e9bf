package marketplace

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"quantum-energy-backend/internal/application/balances"
	"quantum-energy-backend/internal/application/listingevents"
	"quantum-energy-backend/internal/application/listings"
	"quantum-energy-backend/internal/domain"
	"quantum-energy-backend/internal/pkg/clock"
	"quantum-energy-backend/internal/pkg/metrics"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const maxDurationSeconds = math.MaxInt64 / int64(time.Second)

// Service is the marketplace engine: the only writer of balances and listings.
// Every entry point runs in one database transaction. The mutex serializes
// callers within a process; across processes the conditional debit and the
// delete row count decide which writer wins, and the loser rolls back.
type Service struct {
	DB    *gorm.DB
	Clock clock.Clock

	mu sync.Mutex
}

// stores are the ledger, registry and event log bound to one transaction.
type stores struct {
	ledger   *balances.Ledger
	registry *listings.Registry
	events   *listingevents.Service
}

// Balances is a principal's view of both asset classes.
type Balances struct {
	Principal string `json:"principal"`
	Credit    int64  `json:"credit"`
	Resource  int64  `json:"resource"`
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return clock.System{}.Now()
	}
	return s.Clock.Now()
}

func (s *Service) atomically(ctx context.Context, fn func(st stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(stores{
			ledger:   (&balances.Ledger{DB: s.DB}).WithTx(tx),
			registry: (&listings.Registry{DB: s.DB}).WithTx(tx),
			events:   (&listingevents.Service{DB: s.DB}).WithTx(tx),
		})
	})
}

func observe(op string, err error) {
	switch {
	case err == nil:
		metrics.Observe(op, metrics.OutcomeOK)
	case IsRejection(err):
		metrics.Observe(op, metrics.OutcomeRejected)
		log.Debug().Str("operation", op).Err(err).Msg("Marketplace operation rejected")
	default:
		metrics.Observe(op, metrics.OutcomeError)
		log.Error().Str("operation", op).Err(err).Msg("Marketplace operation failed")
	}
}

// CreateListing escrows amount of the seller's resource and records a listing
// that expires durationSeconds from now. The debit happens first, so an
// insufficient balance leaves no listing behind.
func (s *Service) CreateListing(ctx context.Context, amount, price, durationSeconds int64, seller string) (id uint64, err error) {
	defer func() { observe("create_listing", err) }()

	switch {
	case seller == "":
		return 0, ErrInvalidPrincipal
	case amount <= 0:
		return 0, ErrInvalidAmount
	case price < 0:
		return 0, ErrInvalidPrice
	case durationSeconds <= 0 || durationSeconds > maxDurationSeconds:
		return 0, ErrInvalidDuration
	}

	err = s.atomically(ctx, func(st stores) error {
		if err := st.ledger.Debit(ctx, seller, domain.AssetResource, amount); err != nil {
			return err
		}
		// Postgres timestamps hold microseconds; store exactly what is compared later.
		now := s.now().Truncate(time.Microsecond)
		listing := &domain.Listing{
			Seller:    seller,
			Amount:    amount,
			Price:     price,
			ExpiresAt: now.Add(time.Duration(durationSeconds) * time.Second),
			CreatedAt: now,
		}
		newID, err := st.registry.Insert(ctx, listing)
		if err != nil {
			return err
		}
		id = newID
		return st.events.Record(ctx, id, domain.ListingEventCreated, seller, map[string]interface{}{
			"amount":     amount,
			"price":      price,
			"expires_at": listing.ExpiresAt,
		})
	})
	if err != nil {
		return 0, err
	}
	log.Info().Uint64("listing_id", id).Str("seller", seller).Int64("amount", amount).Int64("price", price).Msg("Listing created")
	return id, nil
}

// PurchaseEnergy buys a whole listing. Checks run in order: the listing must
// exist, must not be expired, and the buyer must afford the price. Once the
// buyer's debit succeeds the remaining steps only credit or delete, so the
// transfer is all or nothing.
func (s *Service) PurchaseEnergy(ctx context.Context, listingID uint64, buyer string) (ok bool, err error) {
	defer func() { observe("purchase_energy", err) }()

	if buyer == "" {
		return false, ErrInvalidPrincipal
	}

	var listing *domain.Listing
	err = s.atomically(ctx, func(st stores) error {
		l, err := st.registry.Get(ctx, listingID)
		if errors.Is(err, listings.ErrNotFound) {
			return ErrInvalidListing
		}
		if err != nil {
			return err
		}
		if l.Expired(s.now()) {
			return ErrExpiredListing
		}
		listing = l
		return settlePurchase(ctx, st, l, buyer)
	})
	if err != nil {
		return false, err
	}
	log.Info().Uint64("listing_id", listingID).Str("buyer", buyer).Str("seller", listing.Seller).Int64("price", listing.Price).Msg("Listing purchased")
	return true, nil
}

// settlePurchase moves the price to the seller and the escrow to the buyer,
// then deletes l. l may be a stale read: if another writer already removed
// the listing the delete matches nothing and the caller's transaction rolls back.
func settlePurchase(ctx context.Context, st stores, l *domain.Listing, buyer string) error {
	if err := st.ledger.Debit(ctx, buyer, domain.AssetCredit, l.Price); err != nil {
		return err
	}
	if err := st.ledger.Credit(ctx, l.Seller, domain.AssetCredit, l.Price); err != nil {
		return err
	}
	if err := st.ledger.Credit(ctx, buyer, domain.AssetResource, l.Amount); err != nil {
		return err
	}
	if err := consume(ctx, st, l.ListingID); err != nil {
		return err
	}
	return st.events.Record(ctx, l.ListingID, domain.ListingEventPurchased, buyer, map[string]interface{}{
		"seller": l.Seller,
		"amount": l.Amount,
		"price":  l.Price,
	})
}

func settleCancel(ctx context.Context, st stores, l *domain.Listing, canceler string) error {
	if err := st.ledger.Credit(ctx, l.Seller, domain.AssetResource, l.Amount); err != nil {
		return err
	}
	if err := consume(ctx, st, l.ListingID); err != nil {
		return err
	}
	return st.events.Record(ctx, l.ListingID, domain.ListingEventCancelled, canceler, map[string]interface{}{
		"refunded": l.Amount,
	})
}

// consume deletes the listing exactly once.
func consume(ctx context.Context, st stores, id uint64) error {
	err := st.registry.Remove(ctx, id)
	if errors.Is(err, listings.ErrNotFound) {
		return ErrInvalidListing
	}
	return err
}

// CancelListing returns the escrowed resource to the seller and removes the
// listing. Only the seller may cancel; expired listings can still be cancelled.
func (s *Service) CancelListing(ctx context.Context, listingID uint64, canceler string) (ok bool, err error) {
	defer func() { observe("cancel_listing", err) }()

	err = s.atomically(ctx, func(st stores) error {
		l, err := st.registry.Get(ctx, listingID)
		if errors.Is(err, listings.ErrNotFound) {
			return ErrInvalidListing
		}
		if err != nil {
			return err
		}
		if l.Seller != canceler {
			return ErrNotAuthorized
		}
		return settleCancel(ctx, st, l, canceler)
	})
	if err != nil {
		return false, err
	}
	log.Info().Uint64("listing_id", listingID).Str("seller", canceler).Msg("Listing cancelled")
	return true, nil
}

// SetBalance seeds a principal's balance. Administrative; not part of the
// trading flow.
func (s *Service) SetBalance(ctx context.Context, principal string, asset domain.Asset, quantity int64) (err error) {
	defer func() { observe("set_balance", err) }()

	if principal == "" {
		return ErrInvalidPrincipal
	}
	if _, perr := domain.ParseAsset(string(asset)); perr != nil {
		return ErrInvalidAsset
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	err = s.atomically(ctx, func(st stores) error {
		return st.ledger.Set(ctx, principal, asset, quantity)
	})
	if err != nil {
		return err
	}
	log.Info().Str("principal", principal).Str("asset", string(asset)).Int64("quantity", quantity).Msg("Balance set")
	return nil
}

// GetListing returns an active listing or ErrInvalidListing.
func (s *Service) GetListing(ctx context.Context, listingID uint64) (*domain.Listing, error) {
	l, err := (&listings.Registry{DB: s.DB}).Get(ctx, listingID)
	if errors.Is(err, listings.ErrNotFound) {
		return nil, ErrInvalidListing
	}
	return l, err
}

// ActiveListings returns listings that can still be purchased.
func (s *Service) ActiveListings(ctx context.Context) ([]domain.Listing, error) {
	return (&listings.Registry{DB: s.DB}).Active(ctx, s.now())
}

// SellerListings returns every listing still held in escrow for seller.
func (s *Service) SellerListings(ctx context.Context, seller string) ([]domain.Listing, error) {
	if seller == "" {
		return nil, ErrInvalidPrincipal
	}
	return (&listings.Registry{DB: s.DB}).BySeller(ctx, seller)
}

// Balances returns both asset balances of principal; absent entries are zero.
func (s *Service) Balances(ctx context.Context, principal string) (*Balances, error) {
	if principal == "" {
		return nil, ErrInvalidPrincipal
	}
	entries, err := (&balances.Ledger{DB: s.DB}).All(ctx, principal)
	if err != nil {
		return nil, err
	}
	out := &Balances{Principal: principal}
	for _, e := range entries {
		switch e.Asset {
		case domain.AssetCredit:
			out.Credit = e.Quantity
		case domain.AssetResource:
			out.Resource = e.Quantity
		}
	}
	return out, nil
}
