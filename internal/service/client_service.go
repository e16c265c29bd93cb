package service

import (
	"fmt"
	"strings"
	"sync"

	"go-pos-ledger/internal/logger"
	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"
)

type ClientService interface {
	// AddClient creates the client or, when the identification and type are
	// already registered, merges into the existing record. created reports which.
	AddClient(req *model.Client, operator string) (client *model.Client, created bool, err error)
	UpdateClient(id int64, update model.ClientUpdate, operator string) (*model.Client, error)
	DeleteClient(id int64, operator string) error
	GetClient(id int64) (*model.Client, error)
	GetByIdentification(identification string, idType model.IdentificationType) (*model.Client, error)
	SearchClients(term string) []model.Client
}

type clientService struct {
	mu       sync.Mutex
	repo     repository.ClientRepository
	notifier Notifier
}

func NewClientService(repo repository.ClientRepository, notifier Notifier) ClientService {
	return &clientService{repo: repo, notifier: notifier}
}

// normalizeClient trims the form fields and defaults the identification type.
func normalizeClient(c *model.Client) {
	c.Name = strings.TrimSpace(c.Name)
	c.Surname = strings.TrimSpace(c.Surname)
	c.Identification = strings.TrimSpace(c.Identification)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	if c.IdentificationType == "" {
		c.IdentificationType = model.IDNationalID
	}
}

// checkClient enforces the identity fields first so that a checkout with an
// incomplete client reports ErrIncompleteClientInfo rather than a tag failure.
func checkClient(c *model.Client) error {
	if c.Name == "" || c.Surname == "" || c.Identification == "" {
		return ErrIncompleteClientInfo
	}
	return validateStruct(c)
}

func (s *clientService) AddClient(req *model.Client, operator string) (*model.Client, bool, error) {
	// 1. Normalize & validate
	normalizeClient(req)
	if err := checkClient(req); err != nil {
		return nil, false, err
	}

	// 2. Dedup upsert
	s.mu.Lock()
	client, created, err := s.repo.UpsertByIdentification(*req)
	s.mu.Unlock()
	if err != nil {
		return nil, false, err
	}

	// 3. Log & broadcast
	action := "client_merged"
	if created {
		action = "client_created"
	}
	log := logger.WithComponent("clients")
	log.Info().Str("operator", operator).Int64("client_id", client.ID).Str("action", action).Msg("client saved")

	s.broadcast(action, client, operator)
	return client, created, nil
}

func (s *clientService) UpdateClient(id int64, update model.ClientUpdate, operator string) (*model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Validate the merged record before touching the store
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	merged := *existing
	update.Apply(&merged)
	normalizeClient(&merged)
	if err := checkClient(&merged); err != nil {
		return nil, err
	}

	// 2. Identification must stay unique
	if other, err := s.repo.FindByIdentification(merged.Identification, merged.IdentificationType); err == nil && other.ID != id {
		return nil, preconditionf("identification %s already belongs to client %d", merged.Identification, other.ID)
	}

	// 3. Persist the normalized record
	client, err := s.repo.Update(id, model.ClientUpdate{
		Name:               &merged.Name,
		Surname:            &merged.Surname,
		Identification:     &merged.Identification,
		IdentificationType: &merged.IdentificationType,
		Address:            &merged.Address,
		Phone:              &merged.Phone,
		Email:              &merged.Email,
	})
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("clients")
	log.Info().Str("operator", operator).Int64("client_id", id).Msg("client updated")

	s.broadcast("client_updated", client, operator)
	return client, nil
}

func (s *clientService) DeleteClient(id int64, operator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(id); err != nil {
		return err
	}
	log := logger.WithComponent("clients")
	log.Info().Str("operator", operator).Int64("client_id", id).Msg("client deleted")

	publish(s.notifier, event{
		"type":      "client_updated",
		"action":    "client_deleted",
		"client_id": id,
		"message":   fmt.Sprintf("%s deleted client #%d", operator, id),
	})
	return nil
}

func (s *clientService) GetClient(id int64) (*model.Client, error) {
	return s.repo.FindByID(id)
}

func (s *clientService) GetByIdentification(identification string, idType model.IdentificationType) (*model.Client, error) {
	if idType == "" {
		idType = model.IDNationalID
	}
	return s.repo.FindByIdentification(strings.TrimSpace(identification), idType)
}

func (s *clientService) SearchClients(term string) []model.Client {
	return s.repo.Search(term)
}

func (s *clientService) broadcast(action string, client *model.Client, operator string) {
	publish(s.notifier, event{
		"type":   "client_updated",
		"action": action,
		"client": event{
			"id":             client.ID,
			"name":           client.FullName(),
			"identification": client.Identification,
		},
		"message": fmt.Sprintf("%s saved client '%s'", operator, client.FullName()),
	})
}
