package store

import (
	"fmt"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
)

// ListKitchens returns the active kitchens.
func (s *Store) ListKitchens() ([]models.Kitchen, error) {
	var kitchens []models.Kitchen
	if err := s.db.Where("is_active = ?", true).Find(&kitchens).Error; err != nil {
		return nil, fmt.Errorf("listing kitchens: %w", err)
	}
	return kitchens, nil
}

// ListKitchenSections returns sections, optionally limited to one kitchen.
func (s *Store) ListKitchenSections(kitchenID string) ([]models.KitchenSection, error) {
	query := s.db
	if kitchenID != "" {
		query = query.Where("kitchen_id = ?", kitchenID)
	}
	var sections []models.KitchenSection
	if err := query.Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("listing kitchen sections: %w", err)
	}
	return sections, nil
}

// ListMenuItems returns the catalog, optionally limited to one section.
func (s *Store) ListMenuItems(section string) ([]models.MenuItem, error) {
	query := s.db
	if section != "" {
		query = query.Where("section = ?", section)
	}
	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return items, nil
}
