package repository

import (
	"sync"

	"go-pos-ledger/internal/model"

	"github.com/shopspring/decimal"
)

// RateRepository persists the process-wide exchange rate.
type RateRepository interface {
	// Get reports false when no rate has been stored yet.
	Get() (decimal.Decimal, bool, error)
	Set(rate decimal.Decimal) error
}

type rateRepo struct {
	mu   sync.RWMutex
	snap SnapshotRepository
	rate *decimal.Decimal
}

func NewRateRepo(snap SnapshotRepository) (RateRepository, error) {
	r := &rateRepo{snap: snap}
	var stored decimal.Decimal
	ok, err := snap.Load(model.StoreCurrencyRate, &stored)
	if err != nil {
		return nil, err
	}
	if ok {
		r.rate = &stored
	}
	return r, nil
}

func (r *rateRepo) Get() (decimal.Decimal, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.rate == nil {
		return decimal.Zero, false, nil
	}
	return *r.rate, true, nil
}

func (r *rateRepo) Set(rate decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.snap.Save(model.StoreCurrencyRate, rate); err != nil {
		return err
	}
	r.rate = &rate
	return nil
}
