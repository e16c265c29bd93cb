package service

import (
	"testing"
	"time"

	"go-pos-ledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagePayment_NormalizesAmounts(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	draft, err := f.staging.OpenDraft()
	require.NoError(t, err)

	// Act
	staged, err := f.staging.StagePayment(draft.DraftID, model.PaymentMethod{Type: model.PaymentCash, AmountLocal: dec("125")})
	require.NoError(t, err)
	staged, err = f.staging.StagePayment(draft.DraftID, model.PaymentMethod{Type: model.PaymentCard, AmountUSD: dec("3"), CardLastDigits: "1234"})
	require.NoError(t, err)

	// Assert
	require.Len(t, staged.Payments, 2)
	assert.Equal(t, "12.5", staged.Payments[0].AmountUSD.String())
	assert.Equal(t, "30", staged.Payments[1].AmountLocal.String())

	removed, err := f.staging.RemoveStagedPayment(draft.DraftID, 0)
	require.NoError(t, err)
	require.Len(t, removed.Payments, 1)
	assert.Equal(t, model.PaymentCard, removed.Payments[0].Type)
}

func TestStagePayment_Rejections(t *testing.T) {
	f := newFixture(t, false)
	draft, err := f.staging.OpenDraft()
	require.NoError(t, err)

	_, err = f.staging.StagePayment(draft.DraftID, model.PaymentMethod{Type: model.PaymentCard, AmountUSD: dec("3"), CardLastDigits: "12a4"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.staging.StagePayment("missing", cash("1"))
	assert.ErrorIs(t, err, ErrNotFound)

	staged, err := f.staging.StagedPayments(draft.DraftID)
	require.NoError(t, err)
	assert.Empty(t, staged.Payments)
}

func TestPurgeExpired(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	draft, err := f.staging.OpenDraft()
	require.NoError(t, err)

	// Act
	kept, err := f.staging.PurgeExpired(time.Hour)
	require.NoError(t, err)
	purged, err := f.staging.PurgeExpired(-time.Second)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 0, kept)
	assert.Equal(t, 1, purged)
	_, err = f.staging.StagedPayments(draft.DraftID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRateService(t *testing.T) {
	// Arrange
	f := newFixture(t, false)

	// Act
	initial, err := f.rates.CurrentRate()
	require.NoError(t, err)
	stored := f.rates.Stored()
	_, badErr := f.rates.SetRate(dec("0"), "tester")
	updated, err := f.rates.SetRate(dec("40.25"), "tester")
	require.NoError(t, err)
	current, err := f.rates.CurrentRate()
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "10", initial.String())
	assert.False(t, stored)
	assert.ErrorIs(t, badErr, ErrPreconditionViolation)
	assert.Equal(t, "40.25", updated.String())
	assert.Equal(t, "40.25", current.String())
	assert.True(t, f.rates.Stored())
	assert.Equal(t, []string{"rate_updated"}, f.notifier.types())
}

func TestSnapshottedRateSurvivesRateChange(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "10", 5)
	sale, err := f.sales.Finalize(&CheckoutRequest{
		Client:   testClient(),
		Lines:    []model.SaleLine{line(item, 1)},
		Payments: []model.PaymentMethod{cash("10")},
	}, "tester")
	require.NoError(t, err)

	// Act
	_, err = f.rates.SetRate(dec("99"), "tester")
	require.NoError(t, err)

	// Assert
	stored, err := f.sales.GetSale(sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", stored.CurrencyRate.String())
	assert.Equal(t, "100", stored.TotalLocal.String())
}
