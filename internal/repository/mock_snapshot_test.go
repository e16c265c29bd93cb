package repository

import (
	"github.com/stretchr/testify/mock"
)

// MockSnapshotRepo lets tests fail a save on demand.
type MockSnapshotRepo struct {
	mock.Mock
}

func (m *MockSnapshotRepo) Load(name string, dest interface{}) (bool, error) {
	args := m.Called(name, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockSnapshotRepo) Save(name string, value interface{}) error {
	args := m.Called(name, value)
	return args.Error(0)
}
