package repository

import (
	"time"

	"go-pos-ledger/internal/model"
)

type SupplierRepository interface {
	Create(supplier model.Supplier) (*model.Supplier, error)
	FindAll() []model.Supplier
	FindByID(id int64) (*model.Supplier, error)
	Update(id int64, update model.SupplierUpdate) (*model.Supplier, error)
	Delete(id int64) error
	Search(term string) []model.Supplier
}

type supplierRepo struct {
	store *entityStore[model.Supplier]
}

func NewSupplierRepo(snap SnapshotRepository) (SupplierRepository, error) {
	store, err := newEntityStore[model.Supplier](snap, model.StoreSuppliers)
	if err != nil {
		return nil, err
	}
	return &supplierRepo{store}, nil
}

func (r *supplierRepo) Create(supplier model.Supplier) (*model.Supplier, error) {
	created, err := r.store.insert(func(id int64) (model.Supplier, error) {
		supplier.ID = id
		supplier.CreatedAt = time.Now()
		supplier.LastUpdated = nil
		return supplier, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *supplierRepo) FindAll() []model.Supplier {
	return r.store.list()
}

func (r *supplierRepo) FindByID(id int64) (*model.Supplier, error) {
	supplier, err := r.store.get(id)
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) Update(id int64, update model.SupplierUpdate) (*model.Supplier, error) {
	supplier, err := r.store.update(id, func(s *model.Supplier) error {
		update.Apply(s)
		s.Touch(time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) Delete(id int64) error {
	return r.store.remove(id)
}

func (r *supplierRepo) Search(term string) []model.Supplier {
	return r.store.search(term, func(s model.Supplier) []string {
		return []string{s.Name, s.Email, s.Phone, s.ContactPerson}
	})
}
