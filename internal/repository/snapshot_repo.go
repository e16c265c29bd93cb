package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go-pos-ledger/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository loads and saves whole named stores.
type SnapshotRepository interface {
	// Load decodes the named store into dest. It reports false when the store
	// has never been written.
	Load(name string, dest interface{}) (bool, error)
	Save(name string, value interface{}) error
}

type snapshotRepo struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepository {
	return &snapshotRepo{db}
}

// Migrate creates the snapshot table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Snapshot{})
}

func (r *snapshotRepo) Load(name string, dest interface{}) (bool, error) {
	var snap model.Snapshot
	if err := r.db.First(&snap, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(snap.Payload, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

func (r *snapshotRepo) Save(name string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	snap := model.Snapshot{Name: name, Payload: payload}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&snap).Error
}

// memorySnapshotRepo keeps encoded stores in memory. It is used by tests and
// by callers that do not need durability.
type memorySnapshotRepo struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemorySnapshotRepo() SnapshotRepository {
	return &memorySnapshotRepo{docs: make(map[string][]byte)}
}

func (r *memorySnapshotRepo) Load(name string, dest interface{}) (bool, error) {
	r.mu.Lock()
	doc, ok := r.docs[name]
	r.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(doc, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

func (r *memorySnapshotRepo) Save(name string, value interface{}) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	r.mu.Lock()
	r.docs[name] = doc
	r.mu.Unlock()
	return nil
}
