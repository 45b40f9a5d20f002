package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"duomate/internal/domain"
	"duomate/internal/observability"
	"duomate/internal/storage"
)

// CoinService handles the DuoCoins balance and its append-only history.
// Balance and history are separately stored keys, but every operation
// stages both into one commit, so they cannot drift apart.
type CoinService struct {
	store  storage.Store
	lock   storage.Locker
	logger *slog.Logger
}

// NewCoinService creates a new CoinService.
func NewCoinService(store storage.Store, lock storage.Locker, logger *slog.Logger) *CoinService {
	return &CoinService{store: store, lock: lock, logger: logger}
}

// Balance returns the current coin balance.
func (s *CoinService) Balance(ctx context.Context) (int, error) {
	return s.store.ReadInt(ctx, storage.KeyUserCoins)
}

// History returns the coin history, newest first.
func (s *CoinService) History(ctx context.Context) ([]domain.CoinEntry, error) {
	var history []domain.CoinEntry
	if err := s.store.ReadList(ctx, storage.KeyCoinHistory, &history); err != nil {
		return nil, err
	}
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}

// Summary aggregates lifetime earn and spend totals for the overview.
type Summary struct {
	Balance     int `json:"balance"`
	TotalEarned int `json:"totalEarned"`
	TotalSpent  int `json:"totalSpent"`
}

// Summarize computes the balance plus lifetime totals from the history.
func (s *CoinService) Summarize(ctx context.Context) (*Summary, error) {
	balance, err := s.Balance(ctx)
	if err != nil {
		return nil, err
	}
	var history []domain.CoinEntry
	if err := s.store.ReadList(ctx, storage.KeyCoinHistory, &history); err != nil {
		return nil, err
	}
	summary := &Summary{Balance: balance}
	for _, entry := range history {
		switch entry.Type {
		case domain.CoinEntryEarned:
			summary.TotalEarned += entry.Amount
		case domain.CoinEntrySpent:
			summary.TotalSpent += entry.Amount
		}
	}
	return summary, nil
}

// Credit adds coins and appends an earned history entry. Returns the new
// balance.
func (s *CoinService) Credit(ctx context.Context, amount int, reason string, breakdown *domain.CoinBreakdown) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidCoinAmount
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	batch := storage.NewBatch()
	balance, err := s.stageCredit(ctx, batch, amount, reason, breakdown)
	if err != nil {
		return 0, err
	}
	if err := s.store.Commit(ctx, batch); err != nil {
		return 0, err
	}

	observability.LedgerMutations.WithLabelValues("coin", "credit").Inc()
	observability.CoinBalance.Set(float64(balance))
	s.logger.Info("coins credited", "amount", amount, "reason", reason, "balance", balance)
	return balance, nil
}

// Debit removes coins and appends a spent history entry. Insufficient
// balance fails with no mutation at all.
func (s *CoinService) Debit(ctx context.Context, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidCoinAmount
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	batch := storage.NewBatch()
	balance, err := s.stageDebit(ctx, batch, amount, reason)
	if err != nil {
		return 0, err
	}
	if err := s.store.Commit(ctx, batch); err != nil {
		return 0, err
	}

	observability.LedgerMutations.WithLabelValues("coin", "debit").Inc()
	observability.CoinBalance.Set(float64(balance))
	s.logger.Info("coins debited", "amount", amount, "reason", reason, "balance", balance)
	return balance, nil
}

// RedeemVoucher debits the voucher's cost with a "Redeemed: <name>"
// history entry. Insufficient funds leave both keys untouched.
func (s *CoinService) RedeemVoucher(ctx context.Context, voucherID string) (int, error) {
	voucher, ok := domain.FindVoucher(voucherID)
	if !ok {
		return 0, ErrVoucherNotFound
	}
	return s.Debit(ctx, voucher.Cost, "Redeemed: "+voucher.Name)
}

// stageCredit stages a balance increase plus its history entry onto
// batch. The caller must hold the namespace lock.
func (s *CoinService) stageCredit(ctx context.Context, batch *storage.Batch, amount int, reason string, breakdown *domain.CoinBreakdown) (int, error) {
	balance, err := s.store.ReadInt(ctx, storage.KeyUserCoins)
	if err != nil {
		return 0, err
	}
	var history []domain.CoinEntry
	if err := s.store.ReadList(ctx, storage.KeyCoinHistory, &history); err != nil {
		return 0, err
	}

	balance += amount
	history = append(history, domain.CoinEntry{
		ID:        uuid.New().String(),
		Type:      domain.CoinEntryEarned,
		Amount:    amount,
		Reason:    reason,
		Timestamp: time.Now(),
		Breakdown: breakdown,
	})

	batch.Set(storage.KeyUserCoins, balance).Set(storage.KeyCoinHistory, history)
	return balance, nil
}

// stageDebit stages a balance decrease plus its history entry onto
// batch, failing with ErrInsufficientCoins and no staging when the
// balance cannot cover it. The caller must hold the namespace lock.
func (s *CoinService) stageDebit(ctx context.Context, batch *storage.Batch, amount int, reason string) (int, error) {
	balance, err := s.store.ReadInt(ctx, storage.KeyUserCoins)
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, ErrInsufficientCoins
	}
	var history []domain.CoinEntry
	if err := s.store.ReadList(ctx, storage.KeyCoinHistory, &history); err != nil {
		return 0, err
	}

	balance -= amount
	history = append(history, domain.CoinEntry{
		ID:        uuid.New().String(),
		Type:      domain.CoinEntrySpent,
		Amount:    amount,
		Reason:    reason,
		Timestamp: time.Now(),
	})

	batch.Set(storage.KeyUserCoins, balance).Set(storage.KeyCoinHistory, history)
	return balance, nil
}
