package service

import (
	"fmt"
	"strings"

	"go-pos-ledger/internal/logger"
	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"
)

type SupplierService interface {
	CreateSupplier(req *model.Supplier, operator string) (*model.Supplier, error)
	UpdateSupplier(id int64, update model.SupplierUpdate, operator string) (*model.Supplier, error)
	DeleteSupplier(id int64, operator string) error
	GetSupplier(id int64) (*model.Supplier, error)
	SearchSuppliers(term string) []model.Supplier
}

type supplierService struct {
	repo     repository.SupplierRepository
	notifier Notifier
}

func NewSupplierService(repo repository.SupplierRepository, notifier Notifier) SupplierService {
	return &supplierService{repo: repo, notifier: notifier}
}

func (s *supplierService) CreateSupplier(req *model.Supplier, operator string) (*model.Supplier, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	supplier, err := s.repo.Create(*req)
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("suppliers")
	log.Info().Str("operator", operator).Int64("supplier_id", supplier.ID).Msg("supplier created")

	s.broadcast("supplier_created", supplier, operator)
	return supplier, nil
}

func (s *supplierService) UpdateSupplier(id int64, update model.SupplierUpdate, operator string) (*model.Supplier, error) {
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	merged := *existing
	update.Apply(&merged)
	if err := validateStruct(&merged); err != nil {
		return nil, err
	}

	supplier, err := s.repo.Update(id, update)
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("suppliers")
	log.Info().Str("operator", operator).Int64("supplier_id", id).Msg("supplier updated")

	s.broadcast("supplier_updated", supplier, operator)
	return supplier, nil
}

// DeleteSupplier removes the supplier. Items keep their supplier id; it is a
// reference, not ownership.
func (s *supplierService) DeleteSupplier(id int64, operator string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	log := logger.WithComponent("suppliers")
	log.Info().Str("operator", operator).Int64("supplier_id", id).Msg("supplier deleted")

	publish(s.notifier, event{
		"type":        "supplier_updated",
		"action":      "supplier_deleted",
		"supplier_id": id,
		"message":     fmt.Sprintf("%s deleted supplier #%d", operator, id),
	})
	return nil
}

func (s *supplierService) GetSupplier(id int64) (*model.Supplier, error) {
	return s.repo.FindByID(id)
}

func (s *supplierService) SearchSuppliers(term string) []model.Supplier {
	return s.repo.Search(term)
}

func (s *supplierService) broadcast(action string, supplier *model.Supplier, operator string) {
	publish(s.notifier, event{
		"type":   "supplier_updated",
		"action": action,
		"supplier": event{
			"id":     supplier.ID,
			"name":   supplier.Name,
			"active": supplier.Active,
		},
		"message": fmt.Sprintf("%s saved supplier '%s'", operator, supplier.Name),
	})
}
