package models

import (
	"fmt"
)

// MenuItem represents a dish on the menu. Menu items are static reference
// data: they are seeded at startup and never modified by the service.
type MenuItem struct {
	ID          string  `gorm:"primary_key" json:"id"`
	Name        string  `json:"name"`
	Section     string  `json:"section"`
	KitchenID   string  `json:"kitchenId"`
	CookingTime int     `json:"cookingTime"` // minutes
	Price       float64 `json:"price"`
}

// Section represents the preparation station category of a menu item
type Section string

const (
	SectionGrill     Section = "grill"
	SectionSalad     Section = "salad"
	SectionBeverage  Section = "beverage"
	SectionDessert   Section = "dessert"
	SectionAppetizer Section = "appetizer"
	SectionMain      Section = "main"
	SectionSoup      Section = "soup"
)

// ValidSection reports whether s names a known menu section.
func ValidSection(s string) bool {
	switch Section(s) {
	case SectionGrill, SectionSalad, SectionBeverage, SectionDessert,
		SectionAppetizer, SectionMain, SectionSoup:
		return true
	}
	return false
}

// ValidateMenuItem validates a menu item before it enters the catalog
func ValidateMenuItem(item *MenuItem) error {
	if item.ID == "" {
		return fmt.Errorf("menu item id is required")
	}
	if item.Name == "" {
		return fmt.Errorf("menu item name is required")
	}
	if !ValidSection(item.Section) {
		return fmt.Errorf("unknown menu section: %s", item.Section)
	}
	if item.KitchenID == "" {
		return fmt.Errorf("menu item must belong to a kitchen")
	}
	if item.CookingTime <= 0 {
		return fmt.Errorf("menu item cooking time must be greater than 0")
	}
	if item.Price <= 0 {
		return fmt.Errorf("menu item price must be greater than 0")
	}
	return nil
}

// IsInSection checks if the item belongs to a specific section
func (mi *MenuItem) IsInSection(section Section) bool {
	return mi.Section == string(section)
}

// Kitchen represents a physical preparation area. A restaurant may run
// several kitchens (main line, bar, pastry), each with its own displays.
type Kitchen struct {
	ID       string `gorm:"primary_key" json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	IsActive bool   `json:"isActive"`
}

// KitchenSection maps a station inside a kitchen to the menu items it
// prepares. PrinterIP is where this section's KOTs are routed.
type KitchenSection struct {
	ID        string `gorm:"primary_key" json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	KitchenID string `json:"kitchenId"`
	PrinterIP string `json:"printerIp,omitempty"`
}
