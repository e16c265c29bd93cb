package repository

import (
	"time"

	"go-pos-ledger/internal/model"
)

type ClientRepository interface {
	Create(client model.Client) (*model.Client, error)
	// UpsertByIdentification merges into the client with the same
	// identification and type, or creates one. created reports which happened.
	UpsertByIdentification(client model.Client) (result *model.Client, created bool, err error)
	FindAll() []model.Client
	FindByID(id int64) (*model.Client, error)
	FindByIdentification(identification string, idType model.IdentificationType) (*model.Client, error)
	Update(id int64, update model.ClientUpdate) (*model.Client, error)
	Delete(id int64) error
	Search(term string) []model.Client
}

type clientRepo struct {
	store *entityStore[model.Client]
}

func NewClientRepo(snap SnapshotRepository) (ClientRepository, error) {
	store, err := newEntityStore[model.Client](snap, model.StoreClients)
	if err != nil {
		return nil, err
	}
	return &clientRepo{store}, nil
}

func (r *clientRepo) Create(client model.Client) (*model.Client, error) {
	created, err := r.store.insert(func(id int64) (model.Client, error) {
		client.ID = id
		client.CreatedAt = time.Now()
		client.LastUpdated = nil
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *clientRepo) UpsertByIdentification(client model.Client) (*model.Client, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for idx, existing := range s.items {
		if !existing.SameIdentity(client.Identification, client.IdentificationType) {
			continue
		}
		existing.MergeFrom(client)
		existing.Touch(time.Now())

		next := append(s.items[:0:0], s.items...)
		next[idx] = existing
		if err := s.commit(next); err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}

	client.ID = s.nextID()
	client.CreatedAt = time.Now()
	client.LastUpdated = nil
	next := append(append(s.items[:0:0], s.items...), client)
	if err := s.commit(next); err != nil {
		return nil, false, err
	}
	return &client, true, nil
}

func (r *clientRepo) FindAll() []model.Client {
	return r.store.list()
}

func (r *clientRepo) FindByID(id int64) (*model.Client, error) {
	client, err := r.store.get(id)
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) FindByIdentification(identification string, idType model.IdentificationType) (*model.Client, error) {
	matches := r.store.filter(func(c model.Client) bool {
		return c.SameIdentity(identification, idType)
	})
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func (r *clientRepo) Update(id int64, update model.ClientUpdate) (*model.Client, error) {
	client, err := r.store.update(id, func(c *model.Client) error {
		update.Apply(c)
		c.Touch(time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) Delete(id int64) error {
	return r.store.remove(id)
}

func (r *clientRepo) Search(term string) []model.Client {
	return r.store.search(term, func(c model.Client) []string {
		return []string{c.Name, c.Surname, c.FullName(), c.Identification, c.Email, c.Phone}
	})
}
