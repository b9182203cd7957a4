package activity

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

type materialRecord struct {
	MaterialID int64 `json:"material_id"`
	Quantity   int64 `json:"quantity"`
}

type commodityRecord struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	GroupID       int64            `json:"group_id"`
	PortionSize   int64            `json:"portion_size"`
	Materials     []materialRecord `json:"materials"`
	AveragePrice  *decimal.Decimal `json:"average_price"`
	AdjustedPrice *decimal.Decimal `json:"adjusted_price"`
}

type accountRecord struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	PrimaryEntityID int64  `json:"primary_entity_id"`
}

type entityRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AccountID int64  `json:"account_id"`
	Tracked   bool   `json:"tracked"`
}

type directoryFile struct {
	Accounts []accountRecord `json:"accounts"`
	Entities []entityRecord  `json:"entities"`
}

// LoadCatalog reads a JSON array of commodities.
func LoadCatalog(path string) ([]*domain.Commodity, error) {
	var records []commodityRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}

	commodities := make([]*domain.Commodity, 0, len(records))
	for _, r := range records {
		c := &domain.Commodity{
			ID:            r.ID,
			Name:          r.Name,
			GroupID:       r.GroupID,
			PortionSize:   r.PortionSize,
			AveragePrice:  r.AveragePrice,
			AdjustedPrice: r.AdjustedPrice,
		}
		for _, m := range r.Materials {
			c.Materials = append(c.Materials, domain.Material{MaterialID: m.MaterialID, Quantity: m.Quantity})
		}
		commodities = append(commodities, c)
	}

	return commodities, nil
}

// LoadDirectory reads accounts and entities from a JSON object.
func LoadDirectory(path string) (usecase.Directory, error) {
	var file directoryFile
	if err := readJSON(path, &file); err != nil {
		return usecase.Directory{}, err
	}

	dir := usecase.Directory{
		Accounts: make([]*domain.Account, 0, len(file.Accounts)),
		Entities: make([]*domain.Entity, 0, len(file.Entities)),
	}
	for _, a := range file.Accounts {
		dir.Accounts = append(dir.Accounts, &domain.Account{ID: a.ID, Name: a.Name, PrimaryEntityID: a.PrimaryEntityID})
	}
	for _, e := range file.Entities {
		dir.Entities = append(dir.Entities, &domain.Entity{ID: e.ID, Name: e.Name, AccountID: e.AccountID, Tracked: e.Tracked})
	}

	return dir, nil
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}
