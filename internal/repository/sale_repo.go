package repository

import (
	"time"

	"go-pos-ledger/internal/model"
)

// SaleRepository holds sales. Sales are never deleted.
type SaleRepository interface {
	Create(sale model.Sale) (*model.Sale, error)
	FindAll() []model.Sale
	FindByID(id int64) (*model.Sale, error)
	// Update runs mutate against a copy of the sale and persists the result
	// unless mutate returns an error.
	Update(id int64, mutate func(sale *model.Sale) error) (*model.Sale, error)
	FindByDateRange(from, to time.Time) []model.Sale
}

type saleRepo struct {
	store *entityStore[model.Sale]
}

func NewSaleRepo(snap SnapshotRepository) (SaleRepository, error) {
	store, err := newEntityStore[model.Sale](snap, model.StoreSales)
	if err != nil {
		return nil, err
	}
	return &saleRepo{store}, nil
}

func (r *saleRepo) Create(sale model.Sale) (*model.Sale, error) {
	created, err := r.store.insert(func(id int64) (model.Sale, error) {
		sale.ID = id
		if sale.Date.IsZero() {
			sale.Date = time.Now()
		}
		return sale, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// FindAll returns every sale, newest first.
func (r *saleRepo) FindAll() []model.Sale {
	sales := r.store.list()
	sortNewestFirst(sales)
	return sales
}

func (r *saleRepo) FindByID(id int64) (*model.Sale, error) {
	sale, err := r.store.get(id)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) Update(id int64, mutate func(sale *model.Sale) error) (*model.Sale, error) {
	sale, err := r.store.update(id, func(s *model.Sale) error {
		// the stored slice is shared with the current collection
		s.Payments = append([]model.PaymentMethod(nil), s.Payments...)
		return mutate(s)
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// FindByDateRange returns sales dated in [from, to), newest first.
func (r *saleRepo) FindByDateRange(from, to time.Time) []model.Sale {
	sales := r.store.filter(func(s model.Sale) bool {
		return !s.Date.Before(from) && s.Date.Before(to)
	})
	sortNewestFirst(sales)
	return sales
}
