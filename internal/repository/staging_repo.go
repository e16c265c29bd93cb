package repository

import (
	"maps"
	"slices"
	"sync"
	"time"

	"go-pos-ledger/internal/model"

	"github.com/google/uuid"
)

// StagingRepository keeps payments collected for drafts, keyed by a temporary
// draft identifier.
type StagingRepository interface {
	Open() (*model.StagedPayments, error)
	Add(draftID string, payment model.PaymentMethod) (*model.StagedPayments, error)
	Get(draftID string) (*model.StagedPayments, error)
	RemoveAt(draftID string, index int) (*model.StagedPayments, error)
	// Clear drops the draft. Clearing an unknown draft is a no-op.
	Clear(draftID string) error
	// DropFirst removes the first n payments, keeping any staged after them.
	// The draft is dropped once it has no payments left.
	DropFirst(draftID string, n int) error
	// PurgeOlderThan drops drafts not touched since cutoff and returns how many.
	PurgeOlderThan(cutoff time.Time) (int, error)
}

type stagingRepo struct {
	mu     sync.Mutex
	snap   SnapshotRepository
	drafts map[string]model.StagedPayments
}

func NewStagingRepo(snap SnapshotRepository) (StagingRepository, error) {
	r := &stagingRepo{snap: snap, drafts: make(map[string]model.StagedPayments)}
	if _, err := snap.Load(model.StorePaymentStaging, &r.drafts); err != nil {
		return nil, err
	}
	if r.drafts == nil {
		r.drafts = make(map[string]model.StagedPayments)
	}
	return r, nil
}

// commit persists next and swaps it in. Callers hold the lock.
func (r *stagingRepo) commit(next map[string]model.StagedPayments) error {
	if err := r.snap.Save(model.StorePaymentStaging, next); err != nil {
		return err
	}
	r.drafts = next
	return nil
}

func (r *stagingRepo) Open() (*model.StagedPayments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	draft := model.StagedPayments{
		DraftID:   uuid.NewString(),
		Payments:  []model.PaymentMethod{},
		OpenedAt:  now,
		UpdatedAt: now,
	}
	next := maps.Clone(r.drafts)
	next[draft.DraftID] = draft
	if err := r.commit(next); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *stagingRepo) Add(draftID string, payment model.PaymentMethod) (*model.StagedPayments, error) {
	return r.mutate(draftID, func(d *model.StagedPayments) error {
		d.Payments = append(slices.Clone(d.Payments), payment)
		return nil
	})
}

func (r *stagingRepo) RemoveAt(draftID string, index int) (*model.StagedPayments, error) {
	return r.mutate(draftID, func(d *model.StagedPayments) error {
		if index < 0 || index >= len(d.Payments) {
			return ErrNotFound
		}
		d.Payments = slices.Delete(slices.Clone(d.Payments), index, index+1)
		return nil
	})
}

func (r *stagingRepo) mutate(draftID string, fn func(d *model.StagedPayments) error) (*model.StagedPayments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft, ok := r.drafts[draftID]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(&draft); err != nil {
		return nil, err
	}
	draft.UpdatedAt = time.Now()
	next := maps.Clone(r.drafts)
	next[draftID] = draft
	if err := r.commit(next); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *stagingRepo) Get(draftID string) (*model.StagedPayments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft, ok := r.drafts[draftID]
	if !ok {
		return nil, ErrNotFound
	}
	draft.Payments = slices.Clone(draft.Payments)
	return &draft, nil
}

func (r *stagingRepo) Clear(draftID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drafts[draftID]; !ok {
		return nil
	}
	next := maps.Clone(r.drafts)
	delete(next, draftID)
	return r.commit(next)
}

func (r *stagingRepo) DropFirst(draftID string, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft, ok := r.drafts[draftID]
	if !ok {
		return nil
	}
	next := maps.Clone(r.drafts)
	n = min(max(n, 0), len(draft.Payments))
	if n == len(draft.Payments) {
		delete(next, draftID)
		return r.commit(next)
	}
	draft.Payments = slices.Clone(draft.Payments[n:])
	draft.UpdatedAt = time.Now()
	next[draftID] = draft
	return r.commit(next)
}

func (r *stagingRepo) PurgeOlderThan(cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := maps.Clone(r.drafts)
	maps.DeleteFunc(next, func(_ string, d model.StagedPayments) bool {
		return d.UpdatedAt.Before(cutoff)
	})
	purged := len(r.drafts) - len(next)
	if purged == 0 {
		return 0, nil
	}
	if err := r.commit(next); err != nil {
		return 0, err
	}
	return purged, nil
}
