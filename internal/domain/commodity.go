package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Material is one bill-of-materials line: units of MaterialID yielded per portion.
type Material struct {
	MaterialID int64
	Quantity   int64
}

// Commodity is catalog reference data. It is replaced wholesale on catalog refresh.
type Commodity struct {
	ID          int64
	Name        string
	GroupID     int64
	PortionSize int64
	Materials   []Material

	// Market-wide fallback prices supplied by the catalog, nil when unknown.
	AveragePrice  *decimal.Decimal
	AdjustedPrice *decimal.Decimal
}

// Category returns the commodity's tax category.
func (c *Commodity) Category() (Category, bool) {
	return CategoryForGroup(c.GroupID)
}

// Refinable reports whether the commodity has a usable bill of materials.
func (c *Commodity) Refinable() bool {
	return c.PortionSize > 0 && len(c.Materials) > 0
}

// Validate checks catalog invariants.
func (c *Commodity) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidCommodity)
	}

	if len(c.Materials) > 0 && c.PortionSize <= 0 {
		return fmt.Errorf("%w: commodity %d has materials but portion size %d", ErrInvalidCommodity, c.ID, c.PortionSize)
	}

	for _, m := range c.Materials {
		if m.Quantity < 0 {
			return fmt.Errorf("%w: commodity %d material %d has negative quantity", ErrInvalidCommodity, c.ID, m.MaterialID)
		}
	}

	return nil
}
