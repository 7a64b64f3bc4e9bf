package balances

import (
	"context"
	"errors"

	"quantum-energy-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientBalance = errors.New("Insufficient balance")
	ErrNegativeAmount      = errors.New("Amount must not be negative")
	ErrInvalidPrincipal    = errors.New("Principal is required")
)

// Ledger reads and writes (principal, asset) balances. Build one per
// transaction with WithTx; it holds no state of its own.
type Ledger struct {
	DB *gorm.DB
}

// WithTx returns a Ledger bound to tx.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{DB: tx}
}

// Get returns the balance, or 0 when no entry exists.
func (l *Ledger) Get(ctx context.Context, principal string, asset domain.Asset) (int64, error) {
	var b domain.Balance
	err := l.DB.WithContext(ctx).Where("principal = ? AND asset = ?", principal, asset).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return b.Quantity, nil
}

// All returns every entry held by principal.
func (l *Ledger) All(ctx context.Context, principal string) ([]domain.Balance, error) {
	var out []domain.Balance
	if err := l.DB.WithContext(ctx).Where("principal = ?", principal).Order("asset ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var balanceKey = []clause.Column{{Name: "principal"}, {Name: "asset"}}

// Credit increases the balance by amount. The first credit creates the entry
// in the same statement, so two writers racing on a new entry both land.
func (l *Ledger) Credit(ctx context.Context, principal string, asset domain.Asset, amount int64) error {
	if principal == "" {
		return ErrInvalidPrincipal
	}
	if amount < 0 {
		return ErrNegativeAmount
	}
	updates := append(
		clause.Assignments(map[string]interface{}{"quantity": gorm.Expr(`"Balances".quantity + ?`, amount)}),
		clause.AssignmentColumns([]string{"updatedAt"})...,
	)
	return l.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: balanceKey, DoUpdates: updates}).
		Create(&domain.Balance{Principal: principal, Asset: asset, Quantity: amount}).Error
}

// Debit decreases the balance by amount. The update is conditional on
// quantity >= amount so no row can go negative.
func (l *Ledger) Debit(ctx context.Context, principal string, asset domain.Asset, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if amount == 0 {
		return nil
	}
	res := l.DB.WithContext(ctx).Model(&domain.Balance{}).
		Where("principal = ? AND asset = ? AND quantity >= ?", principal, asset, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// Set overwrites the balance. Used for administrative seeding only.
func (l *Ledger) Set(ctx context.Context, principal string, asset domain.Asset, quantity int64) error {
	if principal == "" {
		return ErrInvalidPrincipal
	}
	if quantity < 0 {
		return ErrNegativeAmount
	}
	return l.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: balanceKey, DoUpdates: clause.AssignmentColumns([]string{"quantity", "updatedAt"})}).
		Create(&domain.Balance{Principal: principal, Asset: asset, Quantity: quantity}).Error
}
