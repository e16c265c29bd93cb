package service

import (
	"time"

	"go-pos-ledger/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockSaleRepo lets tests fail sale writes on demand.
type MockSaleRepo struct {
	mock.Mock
}

func (m *MockSaleRepo) Create(sale model.Sale) (*model.Sale, error) {
	args := m.Called(sale)
	if s, ok := args.Get(0).(*model.Sale); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepo) FindAll() []model.Sale {
	args := m.Called()
	sales, _ := args.Get(0).([]model.Sale)
	return sales
}

func (m *MockSaleRepo) FindByID(id int64) (*model.Sale, error) {
	args := m.Called(id)
	if s, ok := args.Get(0).(*model.Sale); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepo) Update(id int64, mutate func(sale *model.Sale) error) (*model.Sale, error) {
	args := m.Called(id, mutate)
	if s, ok := args.Get(0).(*model.Sale); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepo) FindByDateRange(from, to time.Time) []model.Sale {
	args := m.Called(from, to)
	sales, _ := args.Get(0).([]model.Sale)
	return sales
}

// shrinkingInventory lets another till count an item down right before the
// checkout's deduction lands.
type shrinkingInventory struct {
	InventoryService
	itemID   int64
	quantity int
}

func (s *shrinkingInventory) ApplySaleDeductions(changes []StockChange, notes, operator string) ([]model.InventoryItem, error) {
	if _, err := s.InventoryService.Adjust(s.itemID, s.quantity, "recount", "other-till"); err != nil {
		return nil, err
	}
	return s.InventoryService.ApplySaleDeductions(changes, notes, operator)
}
