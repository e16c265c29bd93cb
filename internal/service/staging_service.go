package service

import (
	"time"

	"go-pos-ledger/internal/logger"
	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

// StagingService collects payments for a draft sale before it is finalized.
// Nothing staged here touches inventory or sales.
type StagingService interface {
	OpenDraft() (*model.StagedPayments, error)
	StagePayment(draftID string, payment model.PaymentMethod) (*model.StagedPayments, error)
	RemoveStagedPayment(draftID string, index int) (*model.StagedPayments, error)
	StagedPayments(draftID string) (*model.StagedPayments, error)
	DiscardDraft(draftID string) error
	// PurgeExpired drops drafts idle for longer than ttl.
	PurgeExpired(ttl time.Duration) (int, error)
}

type stagingService struct {
	repo  repository.StagingRepository
	rates RateService
}

func NewStagingService(repo repository.StagingRepository, rates RateService) StagingService {
	return &stagingService{repo: repo, rates: rates}
}

func (s *stagingService) OpenDraft() (*model.StagedPayments, error) {
	return s.repo.Open()
}

// StagePayment validates the payment at the current rate but stores it as
// entered, so the sale prices it again at the rate in force when it is
// finalized.
func (s *stagingService) StagePayment(draftID string, payment model.PaymentMethod) (*model.StagedPayments, error) {
	rate, err := s.rates.CurrentRate()
	if err != nil {
		return nil, err
	}
	normalized, err := normalizePayment(payment, rate)
	if err != nil {
		return nil, err
	}
	entered := normalized
	if payment.AmountUSD.IsZero() {
		entered.AmountUSD = decimal.Zero
	}
	if payment.AmountLocal.IsZero() {
		entered.AmountLocal = decimal.Zero
	}
	return s.priced(s.repo.Add(draftID, entered))
}

func (s *stagingService) RemoveStagedPayment(draftID string, index int) (*model.StagedPayments, error) {
	return s.priced(s.repo.RemoveAt(draftID, index))
}

func (s *stagingService) StagedPayments(draftID string) (*model.StagedPayments, error) {
	return s.priced(s.repo.Get(draftID))
}

// priced fills in the missing currency of each staged payment at the current
// rate. The stored draft is not changed.
func (s *stagingService) priced(draft *model.StagedPayments, err error) (*model.StagedPayments, error) {
	if err != nil {
		return nil, err
	}
	rate, err := s.rates.CurrentRate()
	if err != nil {
		return nil, err
	}
	out := *draft
	out.Payments = make([]model.PaymentMethod, len(draft.Payments))
	for i, p := range draft.Payments {
		if normalized, err := normalizePayment(p, rate); err == nil {
			p = normalized
		}
		out.Payments[i] = p
	}
	return &out, nil
}

func (s *stagingService) DiscardDraft(draftID string) error {
	return s.repo.Clear(draftID)
}

func (s *stagingService) PurgeExpired(ttl time.Duration) (int, error) {
	purged, err := s.repo.PurgeOlderThan(time.Now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		log := logger.WithComponent("staging")
		log.Info().Int("purged", purged).Dur("ttl", ttl).Msg("stale drafts purged")
	}
	return purged, nil
}
