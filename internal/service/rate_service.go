package service

import (
	"fmt"

	"go-pos-ledger/internal/logger"
	"go-pos-ledger/internal/repository"
	"go-pos-ledger/pkg/currency"

	"github.com/shopspring/decimal"
)

// RateService owns the process-wide exchange rate (local currency per USD).
type RateService interface {
	CurrentRate() (decimal.Decimal, error)
	SetRate(rate decimal.Decimal, operator string) (decimal.Decimal, error)
	// Stored reports whether a rate has been set, as opposed to the default.
	Stored() bool
}

type rateService struct {
	repo        repository.RateRepository
	defaultRate decimal.Decimal
	notifier    Notifier
}

// NewRateService falls back to defaultRate until a rate has been stored.
func NewRateService(repo repository.RateRepository, defaultRate decimal.Decimal, notifier Notifier) RateService {
	return &rateService{repo: repo, defaultRate: defaultRate, notifier: notifier}
}

func (s *rateService) CurrentRate() (decimal.Decimal, error) {
	rate, ok, err := s.repo.Get()
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		rate = s.defaultRate
	}
	if err := currency.ValidateRate(rate); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrPreconditionViolation, err)
	}
	return rate, nil
}

func (s *rateService) Stored() bool {
	_, ok, err := s.repo.Get()
	return err == nil && ok
}

func (s *rateService) SetRate(rate decimal.Decimal, operator string) (decimal.Decimal, error) {
	if err := currency.ValidateRate(rate); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrPreconditionViolation, err)
	}
	previous, _ := s.CurrentRate()
	if err := s.repo.Set(rate); err != nil {
		return decimal.Zero, err
	}

	log := logger.WithComponent("rate")
	log.Info().Str("operator", operator).Str("previous", previous.String()).Str("rate", rate.String()).Msg("exchange rate updated")

	publish(s.notifier, event{
		"type":     "rate_updated",
		"rate":     rate,
		"previous": previous,
		"message":  fmt.Sprintf("%s set the exchange rate to %s", operator, rate.String()),
	})
	return rate, nil
}
