package domain

import (
	"fmt"
	"strings"
)

// Category is a coarse commodity grouping used solely to select a tax rate.
type Category string

const (
	CategoryGasses   Category = "Gasses"
	CategoryR64      Category = "R64"
	CategoryR32      Category = "R32"
	CategoryR16      Category = "R16"
	CategoryR8       Category = "R8"
	CategoryR4       Category = "R4"
	CategoryIce      Category = "Ice"
	CategoryMercoxit Category = "Mercoxit"
	CategoryOres     Category = "Ores"
)

// Categories lists every taxable category in display order.
var Categories = []Category{
	CategoryGasses,
	CategoryR64,
	CategoryR32,
	CategoryR16,
	CategoryR8,
	CategoryR4,
	CategoryIce,
	CategoryMercoxit,
	CategoryOres,
}

// groupCategories maps external inventory group ids to tax categories.
var groupCategories = map[int64]Category{
	711:  CategoryGasses,
	1923: CategoryR64,
	1922: CategoryR32,
	1921: CategoryR16,
	1920: CategoryR8,
	1884: CategoryR4,
	465:  CategoryIce,
	468:  CategoryMercoxit,
	450:  CategoryOres, // Arkonor
	4031: CategoryOres, // Bezdnacine
	451:  CategoryOres, // Bistot
	452:  CategoryOres, // Crokite
	453:  CategoryOres, // Dark Ochre
	467:  CategoryOres, // Gneiss
	454:  CategoryOres, // Hedbergite
	455:  CategoryOres, // Hemorphite
	529:  CategoryOres, // Jaspet
	457:  CategoryOres, // Kernite
	526:  CategoryOres, // Omber
	516:  CategoryOres, // Plagioclase
	459:  CategoryOres, // Pyroxeres
	4030: CategoryOres, // Rakovene
	460:  CategoryOres, // Scordite
	461:  CategoryOres, // Spodumain
	4029: CategoryOres, // Talassonite
	462:  CategoryOres, // Veldspar
}

// CategoryForGroup returns the tax category of an inventory group.
func CategoryForGroup(groupID int64) (Category, bool) {
	c, ok := groupCategories[groupID]
	return c, ok
}

// ParseCategory parses a category name case-insensitively.
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	for _, c := range Categories {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}
