package service

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go-pos-ledger/internal/logger"
	"go-pos-ledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// SeedItem is an inventory item in a seed file. SupplierName, when set, is
// resolved against the suppliers present after seeding.
type SeedItem struct {
	model.InventoryItem
	SupplierName string `json:"supplier_name,omitempty"`
}

// SeedData is the layout of a JSON5 seed file.
type SeedData struct {
	Rate      *decimal.Decimal `json:"rate,omitempty"`
	Suppliers []model.Supplier `json:"suppliers"`
	Inventory []SeedItem       `json:"inventory"`
	Clients   []model.Client   `json:"clients"`
}

// SeedResult counts what was loaded. Collections that already held records
// are skipped and reported in Skipped.
type SeedResult struct {
	Suppliers int      `json:"suppliers"`
	Inventory int      `json:"inventory"`
	Clients   int      `json:"clients"`
	Rate      bool     `json:"rate"`
	Skipped   []string `json:"skipped,omitempty"`
}

type SeedService interface {
	LoadFile(path, operator string) (*SeedResult, error)
	Load(data []byte, operator string) (*SeedResult, error)
}

type seedService struct {
	suppliers SupplierService
	inventory InventoryService
	clients   ClientService
	rates     RateService
}

// NewSeedService seeds through the regular services so every seeded item gets
// its opening ledger entry.
func NewSeedService(suppliers SupplierService, inventory InventoryService, clients ClientService, rates RateService) SeedService {
	return &seedService{suppliers: suppliers, inventory: inventory, clients: clients, rates: rates}
}

func (s *seedService) LoadFile(path, operator string) (*SeedResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return s.Load(data, operator)
}

func (s *seedService) Load(data []byte, operator string) (*SeedResult, error) {
	seed, err := decodeSeed(data)
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("seed")
	result := &SeedResult{}

	// 1. Rate
	if seed.Rate != nil {
		if s.rates.Stored() {
			result.Skipped = append(result.Skipped, "rate")
		} else {
			if _, err := s.rates.SetRate(*seed.Rate, operator); err != nil {
				return result, fmt.Errorf("seed rate: %w", err)
			}
			result.Rate = true
		}
	}

	// 2. Suppliers
	if len(seed.Suppliers) > 0 {
		if len(s.suppliers.SearchSuppliers("")) > 0 {
			result.Skipped = append(result.Skipped, "suppliers")
		} else {
			for i := range seed.Suppliers {
				if _, err := s.suppliers.CreateSupplier(&seed.Suppliers[i], operator); err != nil {
					return result, fmt.Errorf("seed supplier %d: %w", i+1, err)
				}
				result.Suppliers++
			}
		}
	}

	// 3. Inventory
	if len(seed.Inventory) > 0 {
		if len(s.inventory.SearchItems("")) > 0 {
			result.Skipped = append(result.Skipped, "inventory")
		} else {
			byName := make(map[string]int64)
			for _, sup := range s.suppliers.SearchSuppliers("") {
				byName[strings.ToLower(sup.Name)] = sup.ID
			}
			for i := range seed.Inventory {
				item := seed.Inventory[i].InventoryItem
				if name := seed.Inventory[i].SupplierName; name != "" {
					id, ok := byName[strings.ToLower(name)]
					if !ok {
						return result, fmt.Errorf("seed item %d: supplier %q: %w", i+1, name, ErrNotFound)
					}
					item.SupplierID = id
				}
				if _, err := s.inventory.CreateItem(&item, operator); err != nil {
					return result, fmt.Errorf("seed item %d: %w", i+1, err)
				}
				result.Inventory++
			}
		}
	}

	// 4. Clients
	if len(seed.Clients) > 0 {
		if len(s.clients.SearchClients("")) > 0 {
			result.Skipped = append(result.Skipped, "clients")
		} else {
			for i := range seed.Clients {
				if _, _, err := s.clients.AddClient(&seed.Clients[i], operator); err != nil {
					return result, fmt.Errorf("seed client %d: %w", i+1, err)
				}
				result.Clients++
			}
		}
	}

	log.Info().
		Int("suppliers", result.Suppliers).
		Int("inventory", result.Inventory).
		Int("clients", result.Clients).
		Bool("rate", result.Rate).
		Strs("skipped", result.Skipped).
		Msg("seed applied")
	return result, nil
}

// decodeSeed accepts JSON5 (comments, trailing commas, unquoted keys) and
// hands the normalized document to encoding/json so decimal fields decode
// through their own UnmarshalJSON.
func decodeSeed(data []byte) (*SeedData, error) {
	var raw interface{}
	if err := json5.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: seed file: %v", ErrValidation, err)
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("seed file: %w", err)
	}
	var seed SeedData
	if err := json.Unmarshal(normalized, &seed); err != nil {
		return nil, fmt.Errorf("%w: seed file: %v", ErrValidation, err)
	}
	return &seed, nil
}
