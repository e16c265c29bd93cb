package repository

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go-pos-ledger/internal/model"
)

var ErrUnbalancedEntry = errors.New("history entry does not balance")

// Movement is one quantity change. Apply mutates the item copy and returns the
// history entry describing the change, or nil when nothing changed.
type Movement struct {
	ItemID int64
	Apply  func(item *model.InventoryItem) (*model.InventoryHistoryEntry, error)
}

type InventoryRepository interface {
	// Create stores the item and, when initial is non-nil, its opening history entry.
	Create(item model.InventoryItem, initial *model.InventoryHistoryEntry) (*model.InventoryItem, error)
	FindAll() []model.InventoryItem
	FindByID(id int64) (*model.InventoryItem, error)
	Update(id int64, update model.ItemUpdate) (*model.InventoryItem, error)
	Delete(id int64) error
	Search(term string) []model.InventoryItem
	// Move applies every movement or none of them.
	Move(moves ...Movement) ([]model.InventoryItem, []model.InventoryHistoryEntry, error)
	History(itemID int64) []model.InventoryHistoryEntry
	AllHistory() []model.InventoryHistoryEntry
}

type inventoryRepo struct {
	// mu guards writes that touch both collections.
	mu      sync.Mutex
	items   *entityStore[model.InventoryItem]
	history *entityStore[model.InventoryHistoryEntry]
}

func NewInventoryRepo(snap SnapshotRepository) (InventoryRepository, error) {
	items, err := newEntityStore[model.InventoryItem](snap, model.StoreInventory)
	if err != nil {
		return nil, err
	}
	history, err := newEntityStore[model.InventoryHistoryEntry](snap, model.StoreInventoryHistory)
	if err != nil {
		return nil, err
	}
	return &inventoryRepo{items: items, history: history}, nil
}

func (r *inventoryRepo) Create(item model.InventoryItem, initial *model.InventoryHistoryEntry) (*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items.mu.Lock()
	defer r.items.mu.Unlock()
	r.history.mu.Lock()
	defer r.history.mu.Unlock()

	item.ID = r.items.nextID()
	item.CreatedAt = time.Now()
	item.LastUpdated = nil

	var entries []model.InventoryHistoryEntry
	if initial != nil {
		entry := *initial
		entry.ID = r.history.nextID()
		entry.ItemID = item.ID
		if entry.Date.IsZero() {
			entry.Date = item.CreatedAt
		}
		if !entry.Balanced() {
			return nil, ErrUnbalancedEntry
		}
		entries = append(entries, entry)
	}

	if err := r.commitBoth(append(slices.Clone(r.items.items), item), entries); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) Move(moves ...Movement) ([]model.InventoryItem, []model.InventoryHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items.mu.Lock()
	defer r.items.mu.Unlock()
	r.history.mu.Lock()
	defer r.history.mu.Unlock()

	nextItems := slices.Clone(r.items.items)
	nextID := r.history.nextID()
	now := time.Now()

	touched := make([]model.InventoryItem, 0, len(moves))
	entries := make([]model.InventoryHistoryEntry, 0, len(moves))
	for _, mv := range moves {
		idx := slices.IndexFunc(nextItems, func(it model.InventoryItem) bool { return it.ID == mv.ItemID })
		if idx < 0 {
			return nil, nil, fmt.Errorf("item %d: %w", mv.ItemID, ErrNotFound)
		}
		item := nextItems[idx]
		entry, err := mv.Apply(&item)
		if err != nil {
			return nil, nil, err
		}
		if entry == nil {
			touched = append(touched, nextItems[idx])
			continue
		}
		entry.ID = nextID
		entry.ItemID = item.ID
		if entry.Date.IsZero() {
			entry.Date = now
		}
		if !entry.Balanced() || item.Quantity != entry.NewQuantity {
			return nil, nil, fmt.Errorf("item %d: %w", item.ID, ErrUnbalancedEntry)
		}
		nextID++
		item.Touch(now)
		nextItems[idx] = item
		touched = append(touched, item)
		entries = append(entries, *entry)
	}

	if len(entries) == 0 {
		return touched, entries, nil
	}
	if err := r.commitBoth(nextItems, entries); err != nil {
		return nil, nil, err
	}
	return touched, entries, nil
}

// commitBoth persists the item collection and then the appended history. If
// the history write fails the previous item collection is restored.
// Callers hold both store locks.
func (r *inventoryRepo) commitBoth(nextItems []model.InventoryItem, entries []model.InventoryHistoryEntry) error {
	prevItems := r.items.items
	if err := r.items.commit(nextItems); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	nextHistory := append(slices.Clone(r.history.items), entries...)
	if err := r.history.commit(nextHistory); err != nil {
		if rbErr := r.items.commit(prevItems); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return nil
}

func (r *inventoryRepo) FindAll() []model.InventoryItem {
	return r.items.list()
}

func (r *inventoryRepo) FindByID(id int64) (*model.InventoryItem, error) {
	item, err := r.items.get(id)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update never touches Quantity; see model.ItemUpdate.
func (r *inventoryRepo) Update(id int64, update model.ItemUpdate) (*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := r.items.update(id, func(it *model.InventoryItem) error {
		update.Apply(it)
		it.Touch(time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes the item. Its history stays in the ledger.
func (r *inventoryRepo) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items.remove(id)
}

func (r *inventoryRepo) Search(term string) []model.InventoryItem {
	return r.items.search(term, func(it model.InventoryItem) []string {
		return []string{it.Name, it.SKU, it.Category}
	})
}

// History returns the item's entries, newest first.
func (r *inventoryRepo) History(itemID int64) []model.InventoryHistoryEntry {
	entries := r.history.filter(func(e model.InventoryHistoryEntry) bool { return e.ItemID == itemID })
	sortNewestFirst(entries)
	return entries
}

func (r *inventoryRepo) AllHistory() []model.InventoryHistoryEntry {
	entries := r.history.list()
	sortNewestFirst(entries)
	return entries
}
